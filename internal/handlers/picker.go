package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tripstudioapp/tripstudio/internal/media"
	"github.com/tripstudioapp/tripstudio/internal/picker"
)

// PickerHandler drives server-hosted picker sessions for the embedding CRUD
// forms. Every mutating endpoint responds with the fresh session state so
// the form can re-render without a second round trip.
type PickerHandler struct {
	sessions *picker.Sessions
	logger   *slog.Logger
}

func NewPickerHandler(log *slog.Logger, sessions *picker.Sessions) *PickerHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PickerHandler{
		sessions: sessions,
		logger:   log.With(slog.String("handler", "picker")),
	}
}

func (h *PickerHandler) Register(e *echo.Echo) {
	group := e.Group("/picker/sessions")
	group.POST("", h.Open)
	group.GET("/:id", h.State)
	group.DELETE("/:id", h.Close)
	group.POST("/:id/refresh", h.Refresh)
	group.POST("/:id/next", h.NextPage)
	group.POST("/:id/prev", h.PrevPage)
	group.PUT("/:id/query", h.SetQuery)
	group.PUT("/:id/page-size", h.SetPageSize)
	group.POST("/:id/toggle", h.Toggle)
	group.PUT("/:id/hero", h.SetHero)
	group.POST("/:id/move", h.Move)
	group.POST("/:id/remove", h.Remove)
	group.POST("/:id/uploads", h.Upload)
	group.POST("/:id/confirm", h.Confirm)
}

type openSessionResponse struct {
	SessionID string       `json:"sessionId"`
	State     picker.State `json:"state"`
}

func (h *PickerHandler) Open(c echo.Context) error {
	var req picker.OpenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, ctrl := h.sessions.Open(req)
	if err := ctrl.Open(c.Request().Context()); err != nil {
		// Session stays usable; the state carries the failure notice and a
		// later refresh can recover.
		h.logger.Warn("initial picker fetch failed", slog.String("session_id", id), slog.Any("error", err))
	}
	return c.JSON(http.StatusCreated, openSessionResponse{SessionID: id, State: ctrl.State()})
}

func (h *PickerHandler) State(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ctrl.State())
}

func (h *PickerHandler) Close(c echo.Context) error {
	if _, err := h.controller(c); err != nil {
		return err
	}
	h.sessions.Close(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (h *PickerHandler) Refresh(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	return h.respond(c, ctrl, ctrl.Refresh(c.Request().Context()))
}

func (h *PickerHandler) NextPage(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	return h.respond(c, ctrl, ctrl.NextPage(c.Request().Context()))
}

func (h *PickerHandler) PrevPage(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	return h.respond(c, ctrl, ctrl.PrevPage(c.Request().Context()))
}

type setQueryRequest struct {
	Query string `json:"query"`
}

func (h *PickerHandler) SetQuery(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	var req setQueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c, ctrl, ctrl.SetQuery(c.Request().Context(), req.Query))
}

type setPageSizeRequest struct {
	PageSize int `json:"pageSize" validate:"gte=1,lte=250"`
}

func (h *PickerHandler) SetPageSize(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	var req setPageSizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c, ctrl, ctrl.SetPageSize(c.Request().Context(), req.PageSize))
}

type assetIDRequest struct {
	ID string `json:"id" validate:"required"`
}

func (h *PickerHandler) Toggle(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	req, err := bindAssetID(c)
	if err != nil {
		return err
	}
	ctrl.Toggle(req.ID)
	return c.JSON(http.StatusOK, ctrl.State())
}

func (h *PickerHandler) SetHero(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	req, err := bindAssetID(c)
	if err != nil {
		return err
	}
	return h.respond(c, ctrl, ctrl.SetHero(req.ID))
}

type moveRequest struct {
	Index     int    `json:"index"`
	Direction string `json:"direction" validate:"oneof=up down"`
}

func (h *PickerHandler) Move(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Direction == "up" {
		ctrl.MoveUp(req.Index)
	} else {
		ctrl.MoveDown(req.Index)
	}
	return c.JSON(http.StatusOK, ctrl.State())
}

func (h *PickerHandler) Remove(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	req, err := bindAssetID(c)
	if err != nil {
		return err
	}
	ctrl.Remove(req.ID)
	return c.JSON(http.StatusOK, ctrl.State())
}

func (h *PickerHandler) Upload(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
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

	if _, err := ctrl.Upload(c.Request().Context(), files); err != nil {
		if errors.Is(err, picker.ErrUploadInProgress) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(uploadStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, ctrl.State())
}

func (h *PickerHandler) Confirm(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	selection, err := ctrl.Confirm()
	if err != nil {
		if errors.Is(err, picker.ErrEmptySelection) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	h.sessions.Close(c.Param("id"))
	return c.JSON(http.StatusOK, selection)
}

func (h *PickerHandler) controller(c echo.Context) (*picker.Controller, error) {
	id := c.Param("id")
	ctrl, ok := h.sessions.Get(id)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "unknown picker session")
	}
	return ctrl, nil
}

// respond maps controller errors onto HTTP while still returning the fresh
// state for recoverable conditions.
func (h *PickerHandler) respond(c echo.Context, ctrl *picker.Controller, err error) error {
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, ctrl.State())
	case errors.Is(err, picker.ErrRequestInFlight):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, picker.ErrNotSelected):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, picker.ErrClosed):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		// Remote fetch failed; prior state survives and carries the notice.
		return c.JSON(http.StatusOK, ctrl.State())
	}
}

func bindAssetID(c echo.Context) (assetIDRequest, error) {
	var req assetIDRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, nil
}
