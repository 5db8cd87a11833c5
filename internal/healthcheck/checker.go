package healthcheck

import "context"

const (
	// StatusOK indicates check passed.
	StatusOK = "ok"
	// StatusWarn indicates check completed with warning.
	StatusWarn = "warn"
	// StatusError indicates check failed.
	StatusError = "error"
)

// CheckResult is one runtime check item produced by a checker.
type CheckResult struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Status  string         `json:"status"`
	Summary string         `json:"summary"`
	Detail  string         `json:"detail,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Checker evaluates one or more runtime checks.
type Checker interface {
	ListChecks(ctx context.Context) []CheckResult
}

// Multi fans one ListChecks call out to several checkers.
type Multi []Checker

func (m Multi) ListChecks(ctx context.Context) []CheckResult {
	results := []CheckResult{}
	for _, checker := range m {
		if checker == nil {
			continue
		}
		results = append(results, checker.ListChecks(ctx)...)
	}
	return results
}
