package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leadpilot/leadpilot/internal/backend"
	"github.com/leadpilot/leadpilot/internal/metrics"
)

// DetailFetcher is the slice of the backend client the DM watcher needs.
type DetailFetcher interface {
	LinkedInLead(ctx context.Context, id string) (*backend.LeadDetail, error)
}

// DMWatcher polls a lead's DM generation status while it is pending.
// Fetches are silent: results flow through the update callback without
// touching any primary loading flag.
type DMWatcher struct {
	fetch          DetailFetcher
	interval       time.Duration
	stuckThreshold time.Duration
	logger         *slog.Logger
	notifier       Notifier

	onUpdate func(*backend.LeadDetail)

	mu  sync.Mutex
	cur *lease
}

// NewDMWatcher creates a DM generation status watcher.
func NewDMWatcher(fetch DetailFetcher, interval, stuckThreshold time.Duration, logger *slog.Logger) *DMWatcher {
	return &DMWatcher{
		fetch:          fetch,
		interval:       interval,
		stuckThreshold: stuckThreshold,
		logger:         logger.With("component", "dm_watcher"),
	}
}

// SetNotifier sets the sink for the generation-complete notification.
func (w *DMWatcher) SetNotifier(n Notifier) { w.notifier = n }

// SetOnUpdate sets the callback invoked with each silent poll result.
func (w *DMWatcher) SetOnUpdate(fn func(*backend.LeadDetail)) { w.onUpdate = fn }

// Evaluate inspects the currently displayed lead detail and starts or stops
// polling accordingly. Calling it again for the same pending lead is a no-op;
// switching leads cancels the old lease before the new one is considered.
func (w *DMWatcher) Evaluate(detail *backend.LeadDetail) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if detail == nil || detail.DMGenerationStatus != backend.GenerationPending {
		w.stopLocked()
		return
	}

	if w.cur != nil && w.cur.id == detail.ID {
		return
	}

	w.stopLocked()

	l, ctx := newLease(detail.ID)
	w.cur = l
	metrics.IncActiveLeases("dm")
	w.logger.Debug("dm polling started", "lead_id", detail.ID)
	go w.run(ctx, l)
}

// Stop cancels the active lease, if any. Safe to call repeatedly.
func (w *DMWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

// Active reports the lead id currently being polled, or "".
func (w *DMWatcher) Active() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cur == nil {
		return ""
	}
	return w.cur.id
}

// Stuck reports the display-only stuck affordance: generation still pending
// with a start timestamp more than the threshold in the past. It never
// affects poll cadence.
func (w *DMWatcher) Stuck(detail *backend.LeadDetail, now time.Time) bool {
	if detail == nil || detail.DMGenerationStatus != backend.GenerationPending {
		return false
	}
	if detail.GenerationStartedAt == nil {
		return false
	}
	return now.Sub(*detail.GenerationStartedAt) > w.stuckThreshold
}

func (w *DMWatcher) stopLocked() {
	if w.cur != nil {
		w.cur.cancel()
		w.cur = nil
	}
}

func (w *DMWatcher) run(ctx context.Context, l *lease) {
	defer close(l.done)
	defer metrics.DecActiveLeases("dm")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.IncPollTick("dm")
			detail, err := w.fetch.LinkedInLead(ctx, l.id)
			if err != nil {
				// Transient failures are skipped; the next tick tries again.
				metrics.IncPollError("dm")
				w.logger.Debug("dm status poll failed", "lead_id", l.id, "error", err)
				continue
			}

			if !w.isCurrent(l) {
				return
			}
			if w.onUpdate != nil {
				w.onUpdate(detail)
			}

			switch detail.DMGenerationStatus {
			case backend.GenerationPending:
				// keep polling
			case backend.GenerationGenerated:
				w.logger.Info("dm generated", "lead_id", l.id)
				if w.notifier != nil {
					w.notifier.Success("Direct message generated for " + detail.Name)
				}
				w.release(l)
				return
			default:
				w.logger.Info("dm generation ended", "lead_id", l.id, "status", detail.DMGenerationStatus)
				w.release(l)
				return
			}
		}
	}
}

func (w *DMWatcher) isCurrent(l *lease) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cur == l
}

func (w *DMWatcher) release(l *lease) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cur == l {
		w.cur = nil
	}
	l.cancel()
}
