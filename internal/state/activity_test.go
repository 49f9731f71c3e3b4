package state

import (
	"context"
	"errors"
	"testing"

	"github.com/leadpilot/leadpilot/internal/backend"
)

type fakeActivity struct {
	pages []*backend.ActivityPageResponse
	calls []int
	err   error
}

func (f *fakeActivity) Activity(ctx context.Context, page, pageSize int) (*backend.ActivityPageResponse, error) {
	f.calls = append(f.calls, page)
	if f.err != nil {
		return nil, f.err
	}
	if page >= len(f.pages) {
		return &backend.ActivityPageResponse{Page: page}, nil
	}
	return f.pages[page], nil
}

func TestActivityFeedAccumulatesPages(t *testing.T) {
	api := &fakeActivity{pages: []*backend.ActivityPageResponse{
		{Items: []backend.ActivityItem{{ID: "1"}, {ID: "2"}}, HasMore: true},
		{Items: []backend.ActivityItem{{ID: "3"}}, HasMore: false},
	}}
	feed := NewActivityFeed(api, nil, 2)

	feed.LoadMore(context.Background())
	feed.LoadMore(context.Background())

	snap := feed.Snapshot()
	if len(snap.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(snap.Items))
	}
	for i, want := range []string{"1", "2", "3"} {
		if snap.Items[i].ID != want {
			t.Errorf("items[%d] = %s, want %s", i, snap.Items[i].ID, want)
		}
	}
	if snap.HasMore {
		t.Error("HasMore still true after final page")
	}
}

func TestActivityFeedStopsWhenExhausted(t *testing.T) {
	api := &fakeActivity{pages: []*backend.ActivityPageResponse{
		{Items: []backend.ActivityItem{{ID: "1"}}, HasMore: false},
	}}
	feed := NewActivityFeed(api, nil, 50)

	feed.LoadMore(context.Background())
	feed.LoadMore(context.Background())
	feed.LoadMore(context.Background())

	if len(api.calls) != 1 {
		t.Errorf("fetches = %d, want 1", len(api.calls))
	}
}

func TestActivityFeedErrorKeepsPage(t *testing.T) {
	api := &fakeActivity{err: errors.New("boom")}
	notifier := &recordingNotifier{}
	feed := NewActivityFeed(api, notifier, 50)

	feed.LoadMore(context.Background())
	api.err = nil
	api.pages = []*backend.ActivityPageResponse{
		{Items: []backend.ActivityItem{{ID: "1"}}, HasMore: false},
	}
	feed.LoadMore(context.Background())

	// The failed fetch must not advance the cursor.
	if len(api.calls) != 2 || api.calls[0] != 0 || api.calls[1] != 0 {
		t.Errorf("calls = %v, want [0 0]", api.calls)
	}
	if len(notifier.errors) != 1 {
		t.Errorf("error notifications = %d, want 1", len(notifier.errors))
	}
}

func TestActivityFeedReset(t *testing.T) {
	api := &fakeActivity{pages: []*backend.ActivityPageResponse{
		{Items: []backend.ActivityItem{{ID: "1"}}, HasMore: false},
	}}
	feed := NewActivityFeed(api, nil, 50)

	feed.LoadMore(context.Background())
	feed.Reset()
	feed.LoadMore(context.Background())

	snap := feed.Snapshot()
	if len(snap.Items) != 1 {
		t.Errorf("items after reset+reload = %d, want 1", len(snap.Items))
	}
	if api.calls[len(api.calls)-1] != 0 {
		t.Errorf("reload after reset fetched page %d, want 0", api.calls[len(api.calls)-1])
	}
}
