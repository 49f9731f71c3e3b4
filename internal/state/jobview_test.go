package state

import (
	"context"
	"errors"
	"testing"

	"github.com/leadpilot/leadpilot/internal/backend"
)

type fakeJobAPI struct {
	createResp *backend.BulkJob
	createErr  error
	commands   []string
	cmdResp    map[string]*backend.BulkJob
	cmdErr     map[string]error
}

func (f *fakeJobAPI) CreateBulkJob(ctx context.Context, req *backend.BulkJobRequest) (*backend.BulkJob, error) {
	return f.createResp, f.createErr
}

func (f *fakeJobAPI) command(name, id string) (*backend.BulkJob, error) {
	f.commands = append(f.commands, name)
	if err := f.cmdErr[name]; err != nil {
		return nil, err
	}
	if job := f.cmdResp[name]; job != nil {
		return job, nil
	}
	return &backend.BulkJob{ID: id, Status: backend.JobRunning}, nil
}

func (f *fakeJobAPI) StartBulkJob(ctx context.Context, id string) (*backend.BulkJob, error) {
	return f.command("start", id)
}

func (f *fakeJobAPI) PauseBulkJob(ctx context.Context, id string) (*backend.BulkJob, error) {
	return f.command("pause", id)
}

func (f *fakeJobAPI) CancelBulkJob(ctx context.Context, id string) (*backend.BulkJob, error) {
	return f.command("cancel", id)
}

func TestJobViewCreateWithImmediateStart(t *testing.T) {
	api := &fakeJobAPI{
		createResp: &backend.BulkJob{ID: "job-1", Status: backend.JobPending, TotalCount: 5},
	}
	view := NewJobView(api, nil)
	var evaluated []backend.JobStatus
	view.SetEvaluate(func(j *backend.BulkJob) { evaluated = append(evaluated, j.Status) })

	view.Create(context.Background(), &backend.BulkJobRequest{
		LeadIDs:          []string{"a", "b"},
		TemplateName:     "intro",
		StartImmediately: true,
	})

	if len(api.commands) != 1 || api.commands[0] != "start" {
		t.Fatalf("commands = %v, want [start]", api.commands)
	}
	snap := view.Snapshot()
	if snap.Job == nil || snap.Job.Status != backend.JobRunning {
		t.Errorf("job = %+v, want running", snap.Job)
	}
	// Both the create and the start snapshot reach the watcher hook.
	if len(evaluated) != 2 || evaluated[1] != backend.JobRunning {
		t.Errorf("evaluate calls = %v", evaluated)
	}
}

func TestJobViewCreateWithoutImmediateStart(t *testing.T) {
	api := &fakeJobAPI{
		createResp: &backend.BulkJob{ID: "job-1", Status: backend.JobPending},
	}
	view := NewJobView(api, nil)

	view.Create(context.Background(), &backend.BulkJobRequest{LeadIDs: []string{"a"}})

	if len(api.commands) != 0 {
		t.Errorf("commands = %v, want none", api.commands)
	}
	if got := view.Snapshot().Job.Status; got != backend.JobPending {
		t.Errorf("status = %s, want pending", got)
	}
}

func TestJobViewCommandAdoptsServerSnapshot(t *testing.T) {
	api := &fakeJobAPI{
		createResp: &backend.BulkJob{ID: "job-1", Status: backend.JobRunning, SentCount: 3},
		cmdResp: map[string]*backend.BulkJob{
			"pause": {ID: "job-1", Status: backend.JobPaused, SentCount: 7},
		},
	}
	view := NewJobView(api, nil)
	view.Create(context.Background(), &backend.BulkJobRequest{LeadIDs: []string{"a"}})

	view.Pause(context.Background())

	snap := view.Snapshot()
	if snap.Job.Status != backend.JobPaused || snap.Job.SentCount != 7 {
		t.Errorf("job = %+v, want paused with server counts", snap.Job)
	}
	if snap.Pausing {
		t.Error("pausing flag still set after command completed")
	}
}

func TestJobViewRejectedCommandKeepsSnapshot(t *testing.T) {
	api := &fakeJobAPI{
		createResp: &backend.BulkJob{ID: "job-1", Status: backend.JobRunning},
		cmdErr:     map[string]error{"start": errors.New("409: already running")},
	}
	notifier := &recordingNotifier{}
	view := NewJobView(api, notifier)
	view.Create(context.Background(), &backend.BulkJobRequest{LeadIDs: []string{"a"}})

	view.Start(context.Background())

	if len(notifier.errors) != 1 {
		t.Fatalf("error notifications = %d, want 1", len(notifier.errors))
	}
	snap := view.Snapshot()
	if snap.Job.Status != backend.JobRunning {
		t.Errorf("status = %s, rejected command must not change the snapshot", snap.Job.Status)
	}
	if snap.Starting {
		t.Error("starting flag still set after rejected command")
	}
}

func TestJobViewAdoptIgnoresOtherJob(t *testing.T) {
	api := &fakeJobAPI{createResp: &backend.BulkJob{ID: "job-1", Status: backend.JobRunning}}
	view := NewJobView(api, nil)
	view.Create(context.Background(), &backend.BulkJobRequest{LeadIDs: []string{"a"}})

	view.Adopt(&backend.BulkJob{ID: "job-2", Status: backend.JobCompleted})

	if got := view.Snapshot().Job.ID; got != "job-1" {
		t.Errorf("job = %s, want job-1", got)
	}
}

func TestJobViewCommandsWithoutJobAreNoOps(t *testing.T) {
	api := &fakeJobAPI{}
	view := NewJobView(api, nil)

	view.Start(context.Background())
	view.Pause(context.Background())
	view.Cancel(context.Background())

	if len(api.commands) != 0 {
		t.Errorf("commands = %v, want none", api.commands)
	}
}

func TestJobViewCloseDiscardsState(t *testing.T) {
	api := &fakeJobAPI{createResp: &backend.BulkJob{ID: "job-1", Status: backend.JobRunning}}
	view := NewJobView(api, nil)
	view.Create(context.Background(), &backend.BulkJobRequest{LeadIDs: []string{"a"}})
	view.SetFailedItems([]backend.FailedJobItem{{LeadID: "a", Error: "invalid phone"}})

	view.Close()

	snap := view.Snapshot()
	if snap.Job != nil || len(snap.FailedItems) != 0 {
		t.Errorf("state after close = %+v", snap)
	}
}
