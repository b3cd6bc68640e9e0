package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	derrors "github.com/sportsdataverse/sdvsite/internal/foundation/errors"
	"github.com/sportsdataverse/sdvsite/internal/linkcheck"
)

// ReportFile is written at the root of the output directory.
const ReportFile = "build-report.json"

// Status is the final state of a build.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusWarning  Status = "warning"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// StageTiming records how long a stage took.
type StageTiming struct {
	Name       Stage `json:"name"`
	DurationMS int64 `json:"duration_ms"`
}

// Report summarizes one build.
type Report struct {
	BuildID    string              `json:"build_id"`
	Revision   string              `json:"revision,omitempty"`
	Site       string              `json:"site"`
	Status     Status              `json:"status"`
	StartTime  time.Time           `json:"start_time"`
	EndTime    time.Time           `json:"end_time"`
	DurationMS int64               `json:"duration_ms"`
	Pages      []string            `json:"pages"`
	Stages     []StageTiming       `json:"stages"`
	LinkChecks []linkcheck.Outcome `json:"link_checks,omitempty"`
	Findings   []linkcheck.Finding `json:"broken_links,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
	Error      string              `json:"error,omitempty"`
	OutputDir  string              `json:"output_dir"`
}

// write stores the report as indented JSON in dir.
func (r *Report) write(dir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "encode build report").Build()
	}
	path := filepath.Join(dir, ReportFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:gosec // public site artifact
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write build report").WithContext("path", path).Build()
	}
	return nil
}

// ReadReport loads the report of the last build from an output directory.
func ReadReport(outputDir string) (*Report, error) {
	path := filepath.Join(outputDir, ReportFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "read build report").WithContext("path", path).Build()
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryBuild, "decode build report").WithContext("path", path).Build()
	}
	return &r, nil
}
