package state

import (
	"context"
	"sync"

	"github.com/leadpilot/leadpilot/internal/backend"
)

// ActivityLister fetches one page of the outreach activity log.
type ActivityLister interface {
	Activity(ctx context.Context, page, pageSize int) (*backend.ActivityPageResponse, error)
}

// ActivityFeed accumulates activity log pages. Items are append-only; loading
// the next page never re-fetches or mutates earlier entries.
type ActivityFeed struct {
	mu       sync.Mutex
	fetch    ActivityLister
	notifier Notifier

	pageSize int
	nextPage int
	items    []backend.ActivityItem
	hasMore  bool
	loading  bool
}

// ActivityView is a point-in-time copy of the feed.
type ActivityView struct {
	Items   []backend.ActivityItem
	HasMore bool
	Loading bool
}

func NewActivityFeed(fetch ActivityLister, notifier Notifier, pageSize int) *ActivityFeed {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &ActivityFeed{fetch: fetch, notifier: orNop(notifier), pageSize: pageSize, hasMore: true}
}

// LoadMore fetches the next page and appends it. Calls while a fetch is in
// flight, or after the feed is exhausted, are no-ops.
func (f *ActivityFeed) LoadMore(ctx context.Context) {
	f.mu.Lock()
	if f.loading || !f.hasMore {
		f.mu.Unlock()
		return
	}
	f.loading = true
	page := f.nextPage
	f.mu.Unlock()

	resp, err := f.fetch.Activity(ctx, page, f.pageSize)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		f.notifier.Error("Failed to load activity: " + err.Error())
		return
	}
	f.items = append(f.items, resp.Items...)
	f.nextPage = page + 1
	f.hasMore = resp.HasMore
}

// Reset discards accumulated items so the next LoadMore starts from page zero.
func (f *ActivityFeed) Reset() {
	f.mu.Lock()
	f.items = nil
	f.nextPage = 0
	f.hasMore = true
	f.mu.Unlock()
}

// Snapshot returns a copy of the accumulated feed.
func (f *ActivityFeed) Snapshot() ActivityView {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]backend.ActivityItem, len(f.items))
	copy(items, f.items)
	return ActivityView{Items: items, HasMore: f.hasMore, Loading: f.loading}
}
