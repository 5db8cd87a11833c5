package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tripstudioapp/tripstudio/internal/config"
	"github.com/tripstudioapp/tripstudio/internal/media"
)

// MediaHandler is the plain media-library page's backend: listing, id
// resolution, and the upload pipeline, without any picker session state.
type MediaHandler struct {
	service *media.Service
	cfg     config.MediaConfig
	logger  *slog.Logger
}

func NewMediaHandler(log *slog.Logger, service *media.Service, cfg config.MediaConfig) *MediaHandler {
	if log == nil {
		log = slog.Default()
	}
	return &MediaHandler{
		service: service,
		cfg:     cfg,
		logger:  log.With(slog.String("handler", "media")),
	}
}

func (h *MediaHandler) Register(e *echo.Echo) {
	group := e.Group("/media")
	group.GET("", h.List)
	group.GET("/resolve", h.Resolve)
	group.POST("/uploads", h.Upload)
}

// List returns one page of the remote media library. Query params: first
// (page size, clamped remotely), after (opaque cursor).
func (h *MediaHandler) List(c echo.Context) error {
	first := h.cfg.PageSize
	if raw := c.QueryParam("first"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "first must be an integer")
		}
		first = parsed
	}
	after := c.QueryParam("after")

	result, err := h.service.List(c.Request().Context(), first, after)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// Resolve looks up assets by id. Accepts repeated ids params and
// comma-separated values; unknown ids are simply absent from the result.
func (h *MediaHandler) Resolve(c echo.Context) error {
	var ids []string
	for _, raw := range c.QueryParams()["ids"] {
		for _, id := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				ids = append(ids, trimmed)
			}
		}
	}

	assets, err := h.service.ResolveByIDs(c.Request().Context(), ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, assets)
}

// Upload accepts multipart form files under the "files" field and runs the
// staged-upload pipeline. All-or-nothing: on failure nothing was created.
func (h *MediaHandler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form required")
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files provided")
	}

	files := make([]media.UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "open upload: "+err.Error())
		}
		defer f.Close()
		files = append(files, media.UploadFile{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Reader:   f,
		})
	}

	assets, err := h.service.Upload(c.Request().Context(), files)
	if err != nil {
		return echo.NewHTTPError(uploadStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, assets)
}

func uploadStatus(err error) int {
	var validation *media.ValidationError
	if errors.As(err, &validation) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
