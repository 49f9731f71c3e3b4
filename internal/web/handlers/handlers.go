package handlers

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/leadpilot/leadpilot/internal/backend"
	"github.com/leadpilot/leadpilot/internal/config"
	"github.com/leadpilot/leadpilot/internal/db"
	"github.com/leadpilot/leadpilot/internal/ratelimit"
	"github.com/leadpilot/leadpilot/internal/repository"
	"github.com/leadpilot/leadpilot/internal/state"
	"github.com/leadpilot/leadpilot/internal/watch"
	"github.com/leadpilot/leadpilot/internal/web/middleware"
	"github.com/leadpilot/leadpilot/internal/web/views"
)

type Handlers struct {
	cfg     *config.Config
	logger  *slog.Logger
	views   *views.Engine
	backend *backend.Client
	flash   *FlashQueue

	users    *repository.UserRepository
	sessions *repository.SessionRepository
	presets  *repository.PresetRepository
	settings *repository.SettingsRepository

	leadList    *state.LeadList
	leadDetail  *state.LeadDetail
	selection   *state.BulkSelection
	waSelection *state.BulkSelection
	feed        *state.ActivityFeed
	job         *state.JobView

	dmWatcher  *watch.DMWatcher
	jobWatcher *watch.JobWatcher

	loginLimiter *ratelimit.Limiter

	// Last verification result, held until the operator downloads it.
	verifyMu  sync.Mutex
	verifying bool
	verified  *backend.VerifyResult
}

func New(cfg *config.Config, database *db.DB, client *backend.Client, logger *slog.Logger, viewEngine *views.Engine) *Handlers {
	flash := NewFlashQueue()

	h := &Handlers{
		cfg:     cfg,
		logger:  logger,
		views:   viewEngine,
		backend: client,
		flash:   flash,

		users:    repository.NewUserRepository(database.DB),
		sessions: repository.NewSessionRepository(database.DB),
		presets:  repository.NewPresetRepository(database.DB),
		settings: repository.NewSettingsRepository(database.DB),

		leadList:    state.NewLeadList(client, flash, 20),
		leadDetail:  state.NewLeadDetail(client, flash),
		selection:   state.NewBulkSelection(),
		waSelection: state.NewBulkSelection(),
		feed:        state.NewActivityFeed(client, flash, 50),
		job:         state.NewJobView(client, flash),

		loginLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	h.dmWatcher = watch.NewDMWatcher(client, cfg.Polling.DMInterval, cfg.Polling.StuckThreshold, logger)
	h.dmWatcher.SetNotifier(flash)
	h.dmWatcher.SetOnUpdate(h.leadDetail.Adopt)
	h.leadDetail.SetEvaluate(h.dmWatcher.Evaluate)

	h.jobWatcher = watch.NewJobWatcher(client, cfg.Polling.JobInterval, logger)
	h.jobWatcher.SetOnUpdate(h.job.Adopt)
	h.jobWatcher.SetOnFailedItems(func(jobID string, items *backend.FailedJobItemsResponse) {
		h.job.SetFailedItems(items.Items)
	})
	h.job.SetEvaluate(h.jobWatcher.Evaluate)

	return h
}

// Shutdown releases the poll leases.
func (h *Handlers) Shutdown() {
	h.dmWatcher.Stop()
	h.jobWatcher.Close()
}

// Health check
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// render writes a page through the view engine, adding the base fields every
// layout render needs.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Active"]; !ok {
		data["Active"] = name
	}
	data["User"] = middleware.UserFromContext(r)
	data["Flashes"] = h.flash.Drain()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Render(w, name, data); err != nil {
		h.logger.Error("template render failed", "template", name, "error", err)
	}
}

// error logs and writes a plain HTTP error
func (h *Handlers) error(w http.ResponseWriter, status int, message string) {
	h.logger.Error("request error", "status", status, "message", message)
	http.Error(w, message, status)
}
