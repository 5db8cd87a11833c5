package platformchecker

import (
	"context"
	"log/slog"
	"time"

	"github.com/tripstudioapp/tripstudio/internal/healthcheck"
	"github.com/tripstudioapp/tripstudio/internal/picker"
)

const checkTypePlatform = "platform.admin_api"

// Checker probes the commerce platform's Admin API with a minimal listing
// round trip.
type Checker struct {
	logger *slog.Logger
	api    picker.MediaAPI
}

// NewChecker creates a platform reachability checker.
func NewChecker(log *slog.Logger, api picker.MediaAPI) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		logger: log.With(slog.String("checker", "healthcheck_platform")),
		api:    api,
	}
}

// ListChecks issues a single one-item listing and reports reachability.
func (c *Checker) ListChecks(ctx context.Context) []healthcheck.CheckResult {
	if c.api == nil {
		return []healthcheck.CheckResult{
			{
				ID:      checkTypePlatform + ".service",
				Type:    checkTypePlatform,
				Status:  healthcheck.StatusWarn,
				Summary: "Media service is not available.",
			},
		}
	}

	started := time.Now()
	_, err := c.api.List(ctx, 1, "")
	elapsed := time.Since(started)
	if err != nil {
		c.logger.Warn("platform healthcheck failed", slog.Any("error", err))
		return []healthcheck.CheckResult{
			{
				ID:      checkTypePlatform + ".reachability",
				Type:    checkTypePlatform,
				Status:  healthcheck.StatusError,
				Summary: "Admin API listing failed.",
				Detail:  err.Error(),
			},
		}
	}
	return []healthcheck.CheckResult{
		{
			ID:      checkTypePlatform + ".reachability",
			Type:    checkTypePlatform,
			Status:  healthcheck.StatusOK,
			Summary: "Admin API reachable.",
			Meta:    map[string]any{"latency_ms": elapsed.Milliseconds()},
		},
	}
}
