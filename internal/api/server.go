package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Settings configures the HTTP server.
type Settings struct {
	// APIKey, when non-empty, gates the transform endpoints behind bearer
	// auth. Empty means open access, which suits local use.
	APIKey string

	// MaxBodyBytes caps the size of an uploaded document.
	MaxBodyBytes int64

	// WarningLevel is the initial reporting level; document metadata may
	// still override it per request.
	WarningLevel int
}

// Server is the HTTP front end to the table-numbering filter.
type Server struct {
	router chi.Router
	log    *slog.Logger
	cfg    Settings
}

// NewServer creates and configures the HTTP server.
func NewServer(log *slog.Logger, cfg Settings) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 32 << 20
	}
	s := &Server{log: log, cfg: cfg}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/transform", s.handleTransform)
		r.Post("/api/markdown", s.handleMarkdown)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
