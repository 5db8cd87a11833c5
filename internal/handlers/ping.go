package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tripstudioapp/tripstudio/internal/healthcheck"
	"github.com/tripstudioapp/tripstudio/internal/version"
)

type PingHandler struct {
	checker healthcheck.Checker
	logger  *slog.Logger
}

func NewPingHandler(log *slog.Logger, checker healthcheck.Checker) *PingHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PingHandler{
		checker: checker,
		logger:  log.With(slog.String("handler", "ping")),
	}
}

func (h *PingHandler) Register(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.GET("/health", h.Health)
	e.HEAD("/health", h.HealthHead)
}

func (h *PingHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

// Health runs the registered checks and degrades the HTTP status when any
// check fails.
func (h *PingHandler) Health(c echo.Context) error {
	checks := []healthcheck.CheckResult{}
	if h.checker != nil {
		checks = h.checker.ListChecks(c.Request().Context())
	}
	status := http.StatusOK
	overall := "ok"
	for _, check := range checks {
		if check.Status != healthcheck.StatusOK {
			status = http.StatusServiceUnavailable
			overall = "degraded"
			break
		}
	}
	return c.JSON(status, map[string]any{
		"status": overall,
		"checks": checks,
	})
}

func (h *PingHandler) HealthHead(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
