package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/leadpilot/leadpilot/internal/backend"
)

// JobCommander is the slice of the backend client the job modal needs.
type JobCommander interface {
	CreateBulkJob(ctx context.Context, req *backend.BulkJobRequest) (*backend.BulkJob, error)
	StartBulkJob(ctx context.Context, id string) (*backend.BulkJob, error)
	PauseBulkJob(ctx context.Context, id string) (*backend.BulkJob, error)
	CancelBulkJob(ctx context.Context, id string) (*backend.BulkJob, error)
}

// JobView tracks the bulk job currently open in the console. The cached
// snapshot is always server-produced: command responses and poll results
// replace it wholesale, the view never derives a transition locally. Each
// command carries its own in-flight flag so a slow pause does not block the
// cancel button.
type JobView struct {
	mu       sync.Mutex
	api      JobCommander
	notifier Notifier

	// evaluate, when set, receives every adopted snapshot so the job
	// watcher can start or stop its poll lease.
	evaluate func(*backend.BulkJob)

	job         *backend.BulkJob
	failedItems []backend.FailedJobItem

	creating   bool
	starting   bool
	pausing    bool
	cancelling bool
}

// JobViewData is a point-in-time copy of the job modal state.
type JobViewData struct {
	Job         *backend.BulkJob
	FailedItems []backend.FailedJobItem
	Creating    bool
	Starting    bool
	Pausing     bool
	Cancelling  bool
}

func NewJobView(api JobCommander, notifier Notifier) *JobView {
	return &JobView{api: api, notifier: orNop(notifier)}
}

// SetEvaluate wires the snapshot hook. Must be called before Create.
func (v *JobView) SetEvaluate(fn func(*backend.BulkJob)) {
	v.mu.Lock()
	v.evaluate = fn
	v.mu.Unlock()
}

// Create submits a new bulk job and opens it in the view. When the caller
// asked for an immediate start and the job comes back still pending, a start
// command is issued right away.
func (v *JobView) Create(ctx context.Context, req *backend.BulkJobRequest) {
	v.mu.Lock()
	if v.creating {
		v.mu.Unlock()
		return
	}
	v.creating = true
	v.mu.Unlock()

	job, err := v.api.CreateBulkJob(ctx, req)

	v.mu.Lock()
	v.creating = false
	if err != nil {
		v.mu.Unlock()
		v.notifier.Error("Failed to create bulk job: " + err.Error())
		return
	}
	v.job = job
	v.failedItems = nil
	v.mu.Unlock()

	v.notifier.Success(fmt.Sprintf("Bulk job created for %d leads", job.TotalCount))
	v.adopt(job)
	if req.StartImmediately && job.Status == backend.JobPending {
		v.Start(ctx)
	}
}

// Start issues the start command for the open job.
func (v *JobView) Start(ctx context.Context) {
	v.command(ctx, &v.starting, v.api.StartBulkJob, "start")
}

// Pause issues the pause command for the open job.
func (v *JobView) Pause(ctx context.Context) {
	v.command(ctx, &v.pausing, v.api.PauseBulkJob, "pause")
}

// Cancel issues the cancel command for the open job.
func (v *JobView) Cancel(ctx context.Context) {
	v.command(ctx, &v.cancelling, v.api.CancelBulkJob, "cancel")
}

func (v *JobView) command(ctx context.Context, flag *bool, call func(context.Context, string) (*backend.BulkJob, error), name string) {
	v.mu.Lock()
	if v.job == nil || *flag {
		v.mu.Unlock()
		return
	}
	id := v.job.ID
	*flag = true
	v.mu.Unlock()

	job, err := call(ctx, id)

	v.mu.Lock()
	*flag = false
	if err != nil {
		v.mu.Unlock()
		v.notifier.Error("Failed to " + name + " job: " + err.Error())
		return
	}
	v.job = job
	v.mu.Unlock()
	v.adopt(job)
}

// Adopt replaces the cached snapshot with one produced outside the view,
// typically by the job watcher. Snapshots for another job are ignored.
func (v *JobView) Adopt(job *backend.BulkJob) {
	if job == nil {
		return
	}
	v.mu.Lock()
	if v.job == nil || v.job.ID != job.ID {
		v.mu.Unlock()
		return
	}
	v.job = job
	v.mu.Unlock()
}

// SetFailedItems stores the per-lead failure list fetched after a terminal
// snapshot with failures.
func (v *JobView) SetFailedItems(items []backend.FailedJobItem) {
	v.mu.Lock()
	v.failedItems = items
	v.mu.Unlock()
}

// Close discards the view state. Closing never issues a backend command; a
// running job keeps running server-side.
func (v *JobView) Close() {
	v.mu.Lock()
	v.job = nil
	v.failedItems = nil
	v.mu.Unlock()
}

// Snapshot returns a copy of the job modal state.
func (v *JobView) Snapshot() JobViewData {
	v.mu.Lock()
	defer v.mu.Unlock()
	var job *backend.BulkJob
	if v.job != nil {
		cp := *v.job
		job = &cp
	}
	items := make([]backend.FailedJobItem, len(v.failedItems))
	copy(items, v.failedItems)
	return JobViewData{
		Job:         job,
		FailedItems: items,
		Creating:    v.creating,
		Starting:    v.starting,
		Pausing:     v.pausing,
		Cancelling:  v.cancelling,
	}
}

func (v *JobView) adopt(job *backend.BulkJob) {
	v.mu.Lock()
	fn := v.evaluate
	v.mu.Unlock()
	if fn != nil {
		fn(job)
	}
}
