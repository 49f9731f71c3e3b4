package watch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leadpilot/leadpilot/internal/backend"
)

type fakeJobFetcher struct {
	mu          sync.Mutex
	script      []func() (*backend.BulkJob, error)
	calls       int
	failedCalls int
	failedErr   error
	failedItems *backend.FailedJobItemsResponse
	failedPages []int
}

func (f *fakeJobFetcher) GetBulkJob(ctx context.Context, id string) (*backend.BulkJob, error) {
	f.mu.Lock()
	idx := f.calls
	f.calls++
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	step := f.script[idx]
	f.mu.Unlock()
	return step()
}

func (f *fakeJobFetcher) BulkJobFailedItems(ctx context.Context, id string, page int) (*backend.FailedJobItemsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failedCalls++
	f.failedPages = append(f.failedPages, page)
	if f.failedErr != nil {
		return nil, f.failedErr
	}
	if f.failedItems != nil {
		return f.failedItems, nil
	}
	return &backend.FailedJobItemsResponse{}, nil
}

func (f *fakeJobFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeJobFetcher) failedCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failedCalls
}

func jobWith(status backend.JobStatus, percent float64, failed int) func() (*backend.BulkJob, error) {
	return func() (*backend.BulkJob, error) {
		return &backend.BulkJob{
			ID:              "job-1",
			Status:          status,
			ProgressPercent: percent,
			FailedCount:     failed,
		}, nil
	}
}

func runningJob() *backend.BulkJob {
	return &backend.BulkJob{ID: "job-1", Status: backend.JobRunning}
}

// running(10) -> running(55) -> completed(100) yields exactly 3 polls and
// none thereafter, even though nothing tears the watcher down.
func TestJobWatcherStopsOnTerminalSnapshot(t *testing.T) {
	fetch := &fakeJobFetcher{script: []func() (*backend.BulkJob, error){
		jobWith(backend.JobRunning, 10, 0),
		jobWith(backend.JobRunning, 55, 0),
		jobWith(backend.JobCompleted, 100, 0),
	}}

	var mu sync.Mutex
	var seen []float64
	w := NewJobWatcher(fetch, testInterval, testLogger())
	w.SetOnUpdate(func(job *backend.BulkJob) {
		mu.Lock()
		seen = append(seen, job.ProgressPercent)
		mu.Unlock()
	})

	w.Evaluate(runningJob())
	waitFor(t, func() bool { return w.Active() == "" }, "polling to finish")

	time.Sleep(5 * testInterval)

	if got := fetch.callCount(); got != 3 {
		t.Errorf("poll count = %d, want exactly 3", got)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []float64{10, 55, 100}
	if len(seen) != len(want) {
		t.Fatalf("snapshots = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("snapshot %d = %v, want %v", i, seen[i], want[i])
		}
	}
}

// A terminal snapshot with failures triggers exactly one failed-items fetch,
// for the first page.
func TestJobWatcherFailedItemsFollowUp(t *testing.T) {
	fetch := &fakeJobFetcher{
		script: []func() (*backend.BulkJob, error){
			jobWith(backend.JobRunning, 40, 0),
			jobWith(backend.JobFailed, 40, 7),
		},
		failedItems: &backend.FailedJobItemsResponse{
			Items:      []backend.FailedJobItem{{LeadID: "w9", Error: "invalid number"}},
			TotalCount: 7,
		},
	}

	var mu sync.Mutex
	var gotItems *backend.FailedJobItemsResponse
	w := NewJobWatcher(fetch, testInterval, testLogger())
	w.SetOnFailedItems(func(jobID string, items *backend.FailedJobItemsResponse) {
		mu.Lock()
		gotItems = items
		mu.Unlock()
	})

	w.Evaluate(runningJob())
	waitFor(t, func() bool { return fetch.failedCallCount() == 1 }, "failed items fetch")

	time.Sleep(3 * testInterval)
	if got := fetch.failedCallCount(); got != 1 {
		t.Errorf("failed items fetch count = %d, want exactly 1", got)
	}

	fetch.mu.Lock()
	if len(fetch.failedPages) != 1 || fetch.failedPages[0] != 0 {
		t.Errorf("failed items pages = %v, want [0]", fetch.failedPages)
	}
	fetch.mu.Unlock()

	mu.Lock()
	defer mu.Unlock()
	if gotItems == nil || len(gotItems.Items) != 1 {
		t.Errorf("failed items callback got %+v", gotItems)
	}
}

// The follow-up fetch's own failure is swallowed, not surfaced.
func TestJobWatcherFailedItemsFetchErrorSwallowed(t *testing.T) {
	fetch := &fakeJobFetcher{
		script: []func() (*backend.BulkJob, error){
			jobWith(backend.JobFailed, 0, 3),
		},
		failedErr: errors.New("backend down"),
	}

	var called atomic.Bool
	w := NewJobWatcher(fetch, testInterval, testLogger())
	w.SetOnFailedItems(func(string, *backend.FailedJobItemsResponse) { called.Store(true) })

	w.Evaluate(runningJob())
	waitFor(t, func() bool { return fetch.failedCallCount() == 1 }, "failed items attempt")
	waitFor(t, func() bool { return w.Active() == "" }, "polling to finish")

	if called.Load() {
		t.Error("failed-items callback invoked despite fetch error")
	}
}

// Paused is non-running, so polling stops, but it is not terminal: no
// failed-items fetch happens even with a nonzero failed count.
func TestJobWatcherPausedStopsWithoutFollowUp(t *testing.T) {
	fetch := &fakeJobFetcher{script: []func() (*backend.BulkJob, error){
		jobWith(backend.JobPaused, 30, 2),
	}}

	w := NewJobWatcher(fetch, testInterval, testLogger())
	w.Evaluate(runningJob())

	waitFor(t, func() bool { return w.Active() == "" }, "polling to finish")
	time.Sleep(3 * testInterval)

	if got := fetch.failedCallCount(); got != 0 {
		t.Errorf("failed items fetch count = %d, want 0 for paused job", got)
	}
}

func TestJobWatcherNonRunningNoStart(t *testing.T) {
	fetch := &fakeJobFetcher{script: []func() (*backend.BulkJob, error){
		jobWith(backend.JobPending, 0, 0),
	}}

	w := NewJobWatcher(fetch, testInterval, testLogger())
	w.Evaluate(&backend.BulkJob{ID: "job-1", Status: backend.JobPending})

	if w.Active() != "" {
		t.Error("watcher active for a pending job")
	}
	time.Sleep(3 * testInterval)
	if got := fetch.callCount(); got != 0 {
		t.Errorf("poll count = %d, want 0", got)
	}
}

// Closing the view stops polling; the job itself is untouched server-side.
func TestJobWatcherCloseStopsPolling(t *testing.T) {
	fetch := &fakeJobFetcher{script: []func() (*backend.BulkJob, error){
		jobWith(backend.JobRunning, 10, 0),
	}}

	w := NewJobWatcher(fetch, testInterval, testLogger())
	w.Evaluate(runningJob())
	waitFor(t, func() bool { return fetch.callCount() >= 1 }, "first poll")

	w.Close()
	count := fetch.callCount()
	time.Sleep(5 * testInterval)

	if got := fetch.callCount(); got > count+1 {
		t.Errorf("poll count rose from %d to %d after Close", count, got)
	}
	if w.Active() != "" {
		t.Error("watcher still active after Close")
	}
}

func TestJobWatcherIdempotentStart(t *testing.T) {
	fetch := &fakeJobFetcher{script: []func() (*backend.BulkJob, error){
		jobWith(backend.JobRunning, 10, 0),
		jobWith(backend.JobRunning, 20, 0),
		jobWith(backend.JobCompleted, 100, 0),
	}}

	w := NewJobWatcher(fetch, testInterval, testLogger())
	w.Evaluate(runningJob())
	w.Evaluate(runningJob())

	waitFor(t, func() bool { return w.Active() == "" }, "polling to finish")
	time.Sleep(5 * testInterval)

	if got := fetch.callCount(); got != 3 {
		t.Errorf("poll count = %d, want exactly 3", got)
	}
}
