package picker

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tripstudioapp/tripstudio/internal/config"
)

// Sessions hosts live picker controllers keyed by opaque session ids, one
// per open picker in the embedding form. Controllers are independent; the
// registry lock only guards the map.
type Sessions struct {
	api    MediaAPI
	cfg    config.MediaConfig
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Controller
}

func NewSessions(log *slog.Logger, api MediaAPI, cfg config.MediaConfig) *Sessions {
	if log == nil {
		log = slog.Default()
	}
	return &Sessions{
		api:      api,
		cfg:      cfg,
		logger:   log.With(slog.String("service", "picker_sessions")),
		sessions: make(map[string]*Controller),
	}
}

// OpenRequest seeds a new picker session.
type OpenRequest struct {
	Multiple         bool     `json:"multiple"`
	PageSize         int      `json:"pageSize"`
	InitialSelection []string `json:"initialSelection"`
}

// Open creates a controller, issues its initial fetch, and returns the new
// session id. The fetch error, if any, is reported alongside the id so the
// session still exists for a later user-triggered refresh.
func (s *Sessions) Open(req OpenRequest) (string, *Controller) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = s.cfg.PageSize
	}
	ctrl := NewController(s.logger, s.api, Options{
		Multiple:         req.Multiple,
		PageSize:         pageSize,
		InitialSelection: req.InitialSelection,
		Debounce:         s.cfg.Debounce(),
		RefreshDelay:     s.cfg.RefreshDelay(),
	})

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = ctrl
	s.mu.Unlock()

	s.logger.Debug("picker session opened", slog.String("session_id", id), slog.Bool("multiple", req.Multiple))
	return id, ctrl
}

// Get returns the controller for a session id.
func (s *Sessions) Get(id string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctrl, ok := s.sessions[id]
	return ctrl, ok
}

// Close tears down a session and its controller.
func (s *Sessions) Close(id string) {
	s.mu.Lock()
	ctrl, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		ctrl.Close()
		s.logger.Debug("picker session closed", slog.String("session_id", id))
	}
}

// Count reports live sessions, for health detail.
func (s *Sessions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
