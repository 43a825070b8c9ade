// Package server exposes the audit pipeline over HTTP for the dashboard
// frontend. Analysis errors map to client errors; a partially failed
// detector run is still a 200 with per-dimension annotations.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/vkuzmenko/citescope/internal/model"
	"github.com/vkuzmenko/citescope/internal/pipeline"
	"github.com/vkuzmenko/citescope/internal/score"
)

// Server holds the HTTP surface over one analyzer instance
type Server struct {
	analyzer  *pipeline.Analyzer
	optimizer *pipeline.Optimizer
	registry  *score.Registry
	cfg       model.ServerConfig
	version   string
}

// New assembles the server. optimizer may be nil when no rewrite endpoint
// is configured; /api/optimize then returns 503.
func New(analyzer *pipeline.Analyzer, optimizer *pipeline.Optimizer, registry *score.Registry, cfg model.ServerConfig, version string) *Server {
	return &Server{
		analyzer:  analyzer,
		optimizer: optimizer,
		registry:  registry,
		cfg:       cfg,
		version:   version,
	}
}

// Router builds the chi route tree
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(3 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/scoring-weights", s.handleWeights)
		r.Post("/audit", s.handleAudit)
		r.Post("/optimize", s.handleOptimize)
	})
	return r
}

// ListenAndServe runs until ctx is cancelled, then drains for 10 seconds
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router(),
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleWeights(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"versions": s.registry.Versions(),
		"tables":   s.registry.Tables(),
	})
}

type auditRequest struct {
	URL         string `json:"url"`
	ContentText string `json:"content_text"`
	Platform    string `json:"platform"`
}

func (req *auditRequest) Bind(_ *http.Request) error {
	if req.URL == "" && req.ContentText == "" {
		return errors.New("either url or content_text is required")
	}
	if req.URL != "" && req.ContentText != "" {
		return errors.New("url and content_text are mutually exclusive")
	}
	return nil
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	req := &auditRequest{}
	if err := render.Bind(r, req); err != nil {
		renderError(w, r, http.StatusBadRequest, err)
		return
	}

	var (
		result *model.AuditResult
		err    error
	)
	if req.URL != "" {
		result, err = s.analyzer.AuditURL(r.Context(), req.URL, req.Platform)
	} else {
		result, err = s.analyzer.AuditText(req.ContentText, "inline-content", req.Platform)
	}
	if err != nil {
		renderError(w, r, statusFor(err), err)
		return
	}
	render.JSON(w, r, result)
}

type optimizeRequest struct {
	ContentText string `json:"content_text"`
	Platform    string `json:"platform"`
}

func (req *optimizeRequest) Bind(_ *http.Request) error {
	if req.ContentText == "" {
		return errors.New("content_text is required")
	}
	return nil
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if s.optimizer == nil {
		renderError(w, r, http.StatusServiceUnavailable, errors.New("no rewrite provider configured"))
		return
	}
	req := &optimizeRequest{}
	if err := render.Bind(r, req); err != nil {
		renderError(w, r, http.StatusBadRequest, err)
		return
	}
	result, err := s.optimizer.Optimize(r.Context(), req.ContentText, "inline-content", req.Platform)
	if err != nil {
		renderError(w, r, statusFor(err), err)
		return
	}
	render.JSON(w, r, result)
}

// statusFor maps analysis errors onto HTTP statuses. Unknown weight
// versions are the client's configuration mistake, not a bad document.
func statusFor(err error) int {
	var fetchErr *model.FetchError
	var versionErr *model.WeightVersionError
	switch {
	case errors.As(err, &fetchErr), errors.Is(err, model.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.As(err, &versionErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
