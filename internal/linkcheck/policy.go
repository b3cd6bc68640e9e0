package linkcheck

import (
	"fmt"
	"log/slog"

	"github.com/sportsdataverse/sdvsite/internal/config"
	"github.com/sportsdataverse/sdvsite/internal/foundation/errors"
	"github.com/sportsdataverse/sdvsite/internal/logfields"
)

// maxReportedLinks bounds the link list carried in a failure's context.
const maxReportedLinks = 20

// Outcome is the result of applying a policy to a set of findings.
type Outcome struct {
	Kind     Kind                    `json:"kind"`
	Policy   config.BrokenLinkPolicy `json:"policy"`
	Broken   int                     `json:"broken"`
	Warnings []string                `json:"warnings,omitempty"`
}

// Enforce applies policy to findings. With throw and at least one finding
// it returns a fatal links error; with warn it logs one warning per finding
// and records it in the outcome; with ignore it records nothing beyond the count.
func Enforce(kind Kind, policy config.BrokenLinkPolicy, findings []Finding, logger *slog.Logger) (Outcome, error) {
	if logger == nil {
		logger = slog.Default()
	}
	out := Outcome{Kind: kind, Policy: policy, Broken: len(findings)}
	if len(findings) == 0 {
		return out, nil
	}

	switch policy {
	case config.BrokenLinkThrow:
		links := make([]string, 0, min(len(findings), maxReportedLinks))
		for _, f := range findings[:min(len(findings), maxReportedLinks)] {
			links = append(links, f.Source+" -> "+f.Link)
		}
		return out, errors.LinkError(fmt.Sprintf("found %d broken %s link(s)", len(findings), kind)).
			WithContext("count", len(findings)).
			WithContext("policy", string(policy)).
			WithContext("links", links).
			Build()
	case config.BrokenLinkWarn:
		for _, f := range findings {
			msg := fmt.Sprintf("broken %s in %s: %s", kind, f.Source, f.Link)
			out.Warnings = append(out.Warnings, msg)
			logger.Warn("Broken link",
				slog.String("kind", string(kind)),
				logfields.Page(f.Source),
				logfields.Link(f.Link),
				logfields.Policy(string(policy)))
		}
		return out, nil
	default:
		logger.Debug("Ignoring broken links", slog.String("kind", string(kind)), logfields.Count(len(findings)))
		return out, nil
	}
}
