package sessionschecker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tripstudioapp/tripstudio/internal/healthcheck"
)

const checkTypeSessions = "picker.sessions"

// warnThreshold flags a session count that suggests the embedding forms are
// leaking pickers instead of confirming or closing them.
const warnThreshold = 500

// Counter reports the number of live picker sessions.
type Counter interface {
	Count() int
}

// Checker reports picker session registry health.
type Checker struct {
	logger   *slog.Logger
	sessions Counter
}

// NewChecker creates a picker session registry checker.
func NewChecker(log *slog.Logger, sessions Counter) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		logger:   log.With(slog.String("checker", "healthcheck_sessions")),
		sessions: sessions,
	}
}

// ListChecks reports the live session count.
func (c *Checker) ListChecks(_ context.Context) []healthcheck.CheckResult {
	if c.sessions == nil {
		return []healthcheck.CheckResult{
			{
				ID:      checkTypeSessions + ".service",
				Type:    checkTypeSessions,
				Status:  healthcheck.StatusWarn,
				Summary: "Session registry is not available.",
			},
		}
	}

	count := c.sessions.Count()
	result := healthcheck.CheckResult{
		ID:      checkTypeSessions + ".count",
		Type:    checkTypeSessions,
		Status:  healthcheck.StatusOK,
		Summary: fmt.Sprintf("%d live picker sessions.", count),
		Meta:    map[string]any{"count": count},
	}
	if count >= warnThreshold {
		c.logger.Warn("picker session count is high", slog.Int("count", count))
		result.Status = healthcheck.StatusWarn
		result.Summary = fmt.Sprintf("%d live picker sessions; forms may be leaking pickers.", count)
	}
	return []healthcheck.CheckResult{result}
}
