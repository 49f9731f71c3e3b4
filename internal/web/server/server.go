package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/leadpilot/leadpilot/internal/backend"
	"github.com/leadpilot/leadpilot/internal/config"
	"github.com/leadpilot/leadpilot/internal/db"
	"github.com/leadpilot/leadpilot/internal/repository"
	"github.com/leadpilot/leadpilot/internal/web/handlers"
	"github.com/leadpilot/leadpilot/internal/web/middleware"
	"github.com/leadpilot/leadpilot/internal/web/static"
	"github.com/leadpilot/leadpilot/internal/web/views"
)

type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *db.DB
	handlers *handlers.Handlers
	http     *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	viewEngine, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize views: %w", err)
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIKey)
	if cfg.Backend.Timeout > 0 {
		client.SetTimeout(cfg.Backend.Timeout)
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		db:       database,
		handlers: handlers.New(cfg, database, client, logger, viewEngine),
	}

	s.http = &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      s.setupRoutes(database),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) setupRoutes(database *db.DB) http.Handler {
	mux := http.NewServeMux()
	h := s.handlers

	// Health check
	mux.HandleFunc("GET /health", h.Health)

	// Static files (embedded)
	mux.Handle("GET /static/", http.StripPrefix("/static/", static.Handler()))

	// Auth routes (public)
	mux.HandleFunc("GET /auth/login", h.LoginPage)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("GET /auth/logout", h.Logout)

	// Protected routes
	protected := http.NewServeMux()

	protected.HandleFunc("GET /{$}", h.Dashboard)

	// Lead verification
	protected.HandleFunc("GET /verification", h.Verification)
	protected.HandleFunc("POST /verification", h.VerificationUpload)
	protected.HandleFunc("GET /verification/download", h.VerificationDownload)

	// LinkedIn outreach
	protected.HandleFunc("GET /linkedin", h.LinkedIn)
	protected.HandleFunc("POST /linkedin/search", h.LinkedInSearch)
	protected.HandleFunc("POST /linkedin/select", h.LinkedInSelect)
	protected.HandleFunc("POST /linkedin/bulk-send", h.LinkedInBulkSend)
	protected.HandleFunc("POST /linkedin/{id}/send-dm", h.LinkedInSendDM)
	protected.HandleFunc("POST /linkedin/{id}/connect", h.LinkedInConnect)
	protected.HandleFunc("POST /linkedin/{id}/refresh", h.LinkedInRefresh)

	// WhatsApp outreach
	protected.HandleFunc("GET /whatsapp", h.WhatsApp)
	protected.HandleFunc("POST /whatsapp/select", h.WhatsAppSelect)
	protected.HandleFunc("POST /whatsapp/{id}/send", h.WhatsAppSend)
	protected.HandleFunc("POST /whatsapp/jobs", h.WhatsAppJobCreate)
	protected.HandleFunc("POST /whatsapp/jobs/close", h.WhatsAppJobClose)
	protected.HandleFunc("POST /whatsapp/jobs/{id}/start", h.WhatsAppJobStart)
	protected.HandleFunc("POST /whatsapp/jobs/{id}/pause", h.WhatsAppJobPause)
	protected.HandleFunc("POST /whatsapp/jobs/{id}/cancel", h.WhatsAppJobCancel)

	// Email campaigns
	protected.HandleFunc("GET /campaigns", h.Campaigns)
	protected.HandleFunc("POST /campaigns/{id}/enrich", h.CampaignEnrich)

	// Activity log
	protected.HandleFunc("GET /activity", h.Activity)
	protected.HandleFunc("POST /activity/more", h.ActivityMore)

	// Settings
	protected.HandleFunc("GET /settings", h.Settings)
	protected.HandleFunc("POST /settings/presets", h.SettingsPresetCreate)
	protected.HandleFunc("POST /settings/presets/{id}/delete", h.SettingsPresetDelete)
	protected.HandleFunc("POST /settings/default-template", h.SettingsDefaultTemplate)
	protected.HandleFunc("GET /settings/users", h.SettingsUsers)
	protected.HandleFunc("GET /settings/audit", h.SettingsAudit)

	// In-page poll endpoints
	protected.HandleFunc("GET /api/leads/{id}/status", h.APILeadStatus)
	protected.HandleFunc("GET /api/jobs/current", h.APICurrentJob)

	// Wrap protected routes with auth middleware
	sessions := repository.NewSessionRepository(database.DB)
	users := repository.NewUserRepository(database.DB)
	authMiddleware := middleware.Auth(sessions, users, s.logger)
	mux.Handle("/", authMiddleware(protected))

	// Apply global middleware
	handler := middleware.MethodOverride(mux)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting web server", "addr", s.cfg.Server.ListenAddr)
		if s.cfg.Server.TLS.Enabled {
			errCh <- s.http.ListenAndServeTLS(s.cfg.Server.TLS.CertFile, s.cfg.Server.TLS.KeyFile)
		} else {
			errCh <- s.http.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		s.handlers.Shutdown()
		return err
	case <-ctx.Done():
		// Release poll leases first
		s.handlers.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
		}
		s.db.Close()
		return nil
	}
}
