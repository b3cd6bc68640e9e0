package preview

import (
	"sync"
	"time"

	"github.com/sportsdataverse/sdvsite/internal/build"
)

// buildStatus tracks the outcome of the most recent build.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastReport   *build.Report
	lastBuildAt  time.Time
	builds       int
	hasGoodBuild bool
}

func (bs *buildStatus) record(report *build.Report, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	bs.lastBuildAt = time.Now()
	bs.lastReport = report
	bs.lastError = err
	if err == nil {
		bs.hasGoodBuild = true
	}
}

// healthResponse is the JSON body of /health.
type healthResponse struct {
	Status      string       `json:"status"` // ok, degraded, failed or starting
	Builds      int          `json:"builds"`
	LastBuildAt *time.Time   `json:"last_build_at,omitempty"`
	BuildID     string       `json:"build_id,omitempty"`
	BuildStatus build.Status `json:"build_status,omitempty"`
	Error       string       `json:"error,omitempty"`
}

func (bs *buildStatus) health() (healthResponse, bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	resp := healthResponse{Status: "starting", Builds: bs.builds}
	if bs.builds > 0 {
		at := bs.lastBuildAt
		resp.LastBuildAt = &at
	}
	if bs.lastReport != nil {
		resp.BuildID = bs.lastReport.BuildID
		resp.BuildStatus = bs.lastReport.Status
	}
	if bs.lastError != nil {
		resp.Error = bs.lastError.Error()
	}
	switch {
	case bs.lastError != nil && !bs.hasGoodBuild:
		resp.Status = "failed"
	case bs.lastError != nil:
		resp.Status = "degraded"
	case bs.lastError == nil && bs.hasGoodBuild:
		resp.Status = "ok"
	}
	return resp, bs.hasGoodBuild
}
