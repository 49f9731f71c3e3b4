package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leadpilot/leadpilot/internal/backend"
	"github.com/leadpilot/leadpilot/internal/metrics"
)

// JobFetcher is the slice of the backend client the job watcher needs.
type JobFetcher interface {
	GetBulkJob(ctx context.Context, id string) (*backend.BulkJob, error)
	BulkJobFailedItems(ctx context.Context, id string, page int) (*backend.FailedJobItemsResponse, error)
}

// JobWatcher polls a bulk job's snapshot while the job is running. Each poll
// replaces the cached snapshot wholesale; the first non-running snapshot ends
// the lease. Closing the watcher never cancels the job server-side.
type JobWatcher struct {
	fetch    JobFetcher
	interval time.Duration
	logger   *slog.Logger

	onUpdate      func(*backend.BulkJob)
	onFailedItems func(jobID string, items *backend.FailedJobItemsResponse)

	mu  sync.Mutex
	cur *lease
}

// NewJobWatcher creates a bulk job progress watcher.
func NewJobWatcher(fetch JobFetcher, interval time.Duration, logger *slog.Logger) *JobWatcher {
	return &JobWatcher{
		fetch:    fetch,
		interval: interval,
		logger:   logger.With("component", "job_watcher"),
	}
}

// SetOnUpdate sets the callback invoked with each polled job snapshot.
func (w *JobWatcher) SetOnUpdate(fn func(*backend.BulkJob)) { w.onUpdate = fn }

// SetOnFailedItems sets the callback for the one-shot failed-items fetch.
func (w *JobWatcher) SetOnFailedItems(fn func(jobID string, items *backend.FailedJobItemsResponse)) {
	w.onFailedItems = fn
}

// Evaluate starts polling if the snapshot is running, and stops it otherwise.
// Starting is idempotent per job id.
func (w *JobWatcher) Evaluate(job *backend.BulkJob) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if job == nil || job.Status != backend.JobRunning {
		w.stopLocked()
		return
	}

	if w.cur != nil && w.cur.id == job.ID {
		return
	}

	w.stopLocked()

	l, ctx := newLease(job.ID)
	w.cur = l
	metrics.IncActiveLeases("job")
	w.logger.Debug("job polling started", "job_id", job.ID)
	go w.run(ctx, l)
}

// Close stops client-side polling only. A still-running job keeps running in
// the background on the server.
func (w *JobWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

// Active reports the job id currently being polled, or "".
func (w *JobWatcher) Active() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cur == nil {
		return ""
	}
	return w.cur.id
}

// FetchFailedItems issues the single follow-up fetch for the first page of
// failed items. Its own failure is swallowed and logged, never surfaced.
func (w *JobWatcher) FetchFailedItems(ctx context.Context, jobID string) {
	items, err := w.fetch.BulkJobFailedItems(ctx, jobID, 0)
	if err != nil {
		w.logger.Warn("failed items fetch failed", "job_id", jobID, "error", err)
		return
	}
	if w.onFailedItems != nil {
		w.onFailedItems(jobID, items)
	}
}

func (w *JobWatcher) stopLocked() {
	if w.cur != nil {
		w.cur.cancel()
		w.cur = nil
	}
}

func (w *JobWatcher) run(ctx context.Context, l *lease) {
	defer close(l.done)
	defer metrics.DecActiveLeases("job")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.IncPollTick("job")
			job, err := w.fetch.GetBulkJob(ctx, l.id)
			if err != nil {
				metrics.IncPollError("job")
				w.logger.Debug("job status poll failed", "job_id", l.id, "error", err)
				continue
			}

			if !w.isCurrent(l) {
				return
			}
			if w.onUpdate != nil {
				w.onUpdate(job)
			}

			if job.Status == backend.JobRunning {
				continue
			}

			w.logger.Info("job polling ended", "job_id", l.id, "status", job.Status,
				"sent", job.SentCount, "failed", job.FailedCount)
			w.release(l)

			if job.Status.Terminal() && job.FailedCount > 0 {
				w.FetchFailedItems(context.Background(), l.id)
			}
			return
		}
	}
}

func (w *JobWatcher) isCurrent(l *lease) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cur == l
}

func (w *JobWatcher) release(l *lease) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cur == l {
		w.cur = nil
	}
	l.cancel()
}
