package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/leadpilot/leadpilot/internal/backend"
)

type fakeLister struct {
	mu    sync.Mutex
	calls []listCall
	resp    *backend.LeadListResponse
	err     error
	block   chan struct{}
	started chan struct{}
}

type listCall struct {
	skip, limit int
	keyword     string
}

func (f *fakeLister) LinkedInLeads(ctx context.Context, skip, limit int, keyword string) (*backend.LeadListResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, listCall{skip, limit, keyword})
	block := f.block
	started := f.started
	f.mu.Unlock()
	if started != nil {
		close(started)
		f.mu.Lock()
		f.started = nil
		f.mu.Unlock()
	}
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func TestLeadListKeywordChangeResetsPage(t *testing.T) {
	lister := &fakeLister{resp: &backend.LeadListResponse{TotalCount: 100}}
	list := NewLeadList(lister, nil, 20)

	list.SetPage(context.Background(), 3)
	list.SetKeyword(context.Background(), "golang")

	if len(lister.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(lister.calls))
	}
	got := lister.calls[1]
	if got.skip != 0 || got.keyword != "golang" {
		t.Errorf("fetch after keyword change = skip %d keyword %q, want skip 0", got.skip, got.keyword)
	}
	if page := list.Snapshot().Page; page != 0 {
		t.Errorf("page = %d, want 0", page)
	}
}

func TestLeadListSameKeywordKeepsPage(t *testing.T) {
	lister := &fakeLister{resp: &backend.LeadListResponse{TotalCount: 100}}
	list := NewLeadList(lister, nil, 20)

	list.SetPage(context.Background(), 2)
	list.SetKeyword(context.Background(), "")

	got := lister.calls[1]
	if got.skip != 40 {
		t.Errorf("skip = %d, want 40", got.skip)
	}
}

func TestLeadListStaleResponseDiscarded(t *testing.T) {
	slow := make(chan struct{})
	started := make(chan struct{})
	lister := &fakeLister{
		resp:    &backend.LeadListResponse{TotalCount: 1, Leads: []backend.LeadSummary{{ID: "slow"}}},
		block:   slow,
		started: started,
	}
	list := NewLeadList(lister, nil, 20)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		list.Reload(context.Background())
	}()

	// Wait for the slow fetch to be in flight, then supersede it.
	<-started
	lister.mu.Lock()
	lister.block = nil
	lister.resp = &backend.LeadListResponse{TotalCount: 2, Leads: []backend.LeadSummary{{ID: "fast"}}}
	lister.mu.Unlock()
	list.Reload(context.Background())

	close(slow)
	wg.Wait()

	snap := list.Snapshot()
	if snap.Total != 2 || len(snap.Leads) != 1 || snap.Leads[0].ID != "fast" {
		t.Errorf("stale response overwrote newer one: total=%d leads=%v", snap.Total, snap.Leads)
	}
	if snap.Loading {
		t.Error("loading flag still set after newer fetch completed")
	}
}

func TestLeadListErrorNotifies(t *testing.T) {
	lister := &fakeLister{err: errors.New("backend down")}
	notifier := &recordingNotifier{}
	list := NewLeadList(lister, notifier, 20)

	list.Reload(context.Background())

	if len(notifier.errors) != 1 {
		t.Fatalf("error notifications = %d, want 1", len(notifier.errors))
	}
	snap := list.Snapshot()
	if snap.Err == nil {
		t.Error("snapshot error not set")
	}
	if snap.Loading {
		t.Error("loading flag still set after failed fetch")
	}
}

func TestLeadListPages(t *testing.T) {
	tests := []struct {
		total, pageSize, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
	}
	for _, tt := range tests {
		lister := &fakeLister{resp: &backend.LeadListResponse{TotalCount: tt.total}}
		list := NewLeadList(lister, nil, tt.pageSize)
		list.Reload(context.Background())
		if got := list.Pages(); got != tt.want {
			t.Errorf("Pages() with total %d = %d, want %d", tt.total, got, tt.want)
		}
	}
}
