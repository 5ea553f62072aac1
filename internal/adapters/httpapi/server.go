package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/config"
	"github.com/niche/rfp-tracker/internal/core"
)

// version is reported by the health and dashboard endpoints.
const version = "1.0.0"

// Server is the HTTP API surface over the record store.
type Server struct {
	service    *core.RFPService
	notifier   core.Notifier
	logger     *zap.Logger
	listenAddr string
	auth       config.AuthConfig
	httpServer *http.Server
	startedAt  time.Time
}

// NewServer creates a new API server.
func NewServer(
	service *core.RFPService,
	notifier core.Notifier,
	logger *zap.Logger,
	listenAddr string,
	auth config.AuthConfig,
) *Server {
	return &Server{
		service:    service,
		notifier:   notifier,
		logger:     logger,
		listenAddr: listenAddr,
		auth:       auth,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/rfps", func(r chi.Router) {
			r.Get("/", s.handleListRFPs)
			r.Post("/", s.handleCreateRFP)
			r.Get("/stats/summary", s.handleStats)
			r.Get("/{id}", s.handleGetRFP)
			r.Put("/{id}", s.handleUpdateRFP)
			r.Delete("/{id}", s.handleDeleteRFP)
			r.Post("/{id}/status", s.handleChangeStatus)
		})

		r.Get("/dashboard", s.handleDashboard)

		r.Post("/alerts", s.handleSendAlert)
		r.Get("/alerts", s.handleListAlerts)

		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/me", s.handleMe)
	})

	return r
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.startedAt = time.Now()
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("API server starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Seconds(),
		"version":   version,
	})
}
