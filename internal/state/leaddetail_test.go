package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/leadpilot/leadpilot/internal/backend"
)

type fakeDetailAPI struct {
	mu sync.Mutex

	detailCalls []string
	details     map[string]*backend.LeadDetail
	detailErr   error
	block       map[string]chan struct{}

	refreshResp *backend.RefreshResponse
	refreshErr  error

	sendResp    *backend.SendResult
	sendErr     error
	sentMessage string

	connectResp *backend.SendResult
	connectErr  error
}

func (f *fakeDetailAPI) LinkedInLead(ctx context.Context, id string) (*backend.LeadDetail, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, id)
	block := f.block[id]
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return &backend.LeadDetail{LeadSummary: backend.LeadSummary{ID: id}}, nil
}

func (f *fakeDetailAPI) RefreshLead(ctx context.Context, id string) (*backend.RefreshResponse, error) {
	return f.refreshResp, f.refreshErr
}

func (f *fakeDetailAPI) SendDM(ctx context.Context, id, message string) (*backend.SendResult, error) {
	f.mu.Lock()
	f.sentMessage = message
	f.mu.Unlock()
	return f.sendResp, f.sendErr
}

func (f *fakeDetailAPI) SendConnection(ctx context.Context, id string) (*backend.SendResult, error) {
	return f.connectResp, f.connectErr
}

func TestLeadDetailSelectFetches(t *testing.T) {
	api := &fakeDetailAPI{}
	detail := NewLeadDetail(api, nil)

	detail.Select(context.Background(), "lead-1")

	snap := detail.Snapshot()
	if snap.Detail == nil || snap.Detail.ID != "lead-1" {
		t.Fatalf("detail = %+v, want lead-1", snap.Detail)
	}
	if snap.Loading {
		t.Error("loading flag still set after fetch completed")
	}
}

func TestLeadDetailStaleResponseDiscarded(t *testing.T) {
	slow := make(chan struct{})
	api := &fakeDetailAPI{block: map[string]chan struct{}{"lead-1": slow}}
	detail := NewLeadDetail(api, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		detail.Select(context.Background(), "lead-1")
	}()

	// Wait for the slow fetch to start, then re-select.
	for {
		api.mu.Lock()
		n := len(api.detailCalls)
		api.mu.Unlock()
		if n == 1 {
			break
		}
	}
	detail.Select(context.Background(), "lead-2")
	close(slow)
	wg.Wait()

	snap := detail.Snapshot()
	if snap.Selected != "lead-2" {
		t.Fatalf("selected = %q, want lead-2", snap.Selected)
	}
	if snap.Detail == nil || snap.Detail.ID != "lead-2" {
		t.Errorf("detail = %+v, want lead-2; stale response adopted", snap.Detail)
	}
}

func TestLeadDetailSelectEmptyClears(t *testing.T) {
	api := &fakeDetailAPI{}
	detail := NewLeadDetail(api, nil)
	var evaluated []*backend.LeadDetail
	detail.SetEvaluate(func(d *backend.LeadDetail) { evaluated = append(evaluated, d) })

	detail.Select(context.Background(), "lead-1")
	detail.Select(context.Background(), "")

	snap := detail.Snapshot()
	if snap.Detail != nil || snap.Selected != "" {
		t.Errorf("clear left detail %+v selected %q", snap.Detail, snap.Selected)
	}
	if len(evaluated) != 2 || evaluated[1] != nil {
		t.Errorf("evaluate hook got %d calls, last %v; want nil on clear", len(evaluated), evaluated[len(evaluated)-1])
	}
}

func TestLeadDetailAdoptIgnoresOtherLead(t *testing.T) {
	api := &fakeDetailAPI{}
	detail := NewLeadDetail(api, nil)
	detail.Select(context.Background(), "lead-1")

	detail.Adopt(&backend.LeadDetail{LeadSummary: backend.LeadSummary{ID: "lead-2", Name: "intruder"}})

	if got := detail.Snapshot().Detail.ID; got != "lead-1" {
		t.Errorf("detail = %s, want lead-1", got)
	}
}

func TestLeadDetailSendDMSoftFailureNotifies(t *testing.T) {
	api := &fakeDetailAPI{sendResp: &backend.SendResult{Success: false, Error: "not connected yet"}}
	notifier := &recordingNotifier{}
	detail := NewLeadDetail(api, notifier)
	detail.Select(context.Background(), "lead-1")

	detail.SendDM(context.Background(), "")

	if len(notifier.errors) != 1 {
		t.Fatalf("error notifications = %d, want 1", len(notifier.errors))
	}
	if notifier.errors[0] != "DM not sent: not connected yet" {
		t.Errorf("notification = %q", notifier.errors[0])
	}
	if len(notifier.successes) != 0 {
		t.Errorf("unexpected success notifications: %v", notifier.successes)
	}
}

func TestLeadDetailSendDMSuccessReloads(t *testing.T) {
	api := &fakeDetailAPI{sendResp: &backend.SendResult{Success: true}}
	notifier := &recordingNotifier{}
	detail := NewLeadDetail(api, notifier)
	detail.Select(context.Background(), "lead-1")

	detail.SendDM(context.Background(), "custom text")

	api.mu.Lock()
	msg := api.sentMessage
	calls := len(api.detailCalls)
	api.mu.Unlock()
	if msg != "custom text" {
		t.Errorf("sent message = %q", msg)
	}
	if calls != 2 {
		t.Errorf("detail fetches = %d, want 2 (select + reload)", calls)
	}
	if len(notifier.successes) != 1 {
		t.Errorf("success notifications = %d, want 1", len(notifier.successes))
	}
}

func TestLeadDetailRefreshFailure(t *testing.T) {
	api := &fakeDetailAPI{refreshErr: errors.New("scrape timeout")}
	notifier := &recordingNotifier{}
	detail := NewLeadDetail(api, notifier)
	detail.Select(context.Background(), "lead-1")

	detail.Refresh(context.Background())

	if len(notifier.errors) != 1 {
		t.Fatalf("error notifications = %d, want 1", len(notifier.errors))
	}
	if snap := detail.Snapshot(); snap.Refreshing {
		t.Error("refreshing flag still set after failure")
	}
}

func TestLeadDetailActionsRequireSelection(t *testing.T) {
	api := &fakeDetailAPI{
		sendResp:    &backend.SendResult{Success: true},
		connectResp: &backend.SendResult{Success: true},
		refreshResp: &backend.RefreshResponse{Success: true},
	}
	notifier := &recordingNotifier{}
	detail := NewLeadDetail(api, notifier)

	detail.SendDM(context.Background(), "")
	detail.Connect(context.Background())
	detail.Refresh(context.Background())

	if len(notifier.successes)+len(notifier.errors) != 0 {
		t.Errorf("actions without selection produced notifications: %v %v", notifier.successes, notifier.errors)
	}
}
