package state

import (
	"context"
	"sync"

	"github.com/leadpilot/leadpilot/internal/backend"
)

// LeadLister fetches one page of the lead list.
type LeadLister interface {
	LinkedInLeads(ctx context.Context, skip, limit int, keyword string) (*backend.LeadListResponse, error)
}

// LeadList is the paginated, keyword-filtered lead list. Changing the keyword
// resets the page to zero before the next fetch is issued. Responses that
// arrive after a newer fetch has started are discarded.
type LeadList struct {
	mu       sync.Mutex
	fetch    LeadLister
	notifier Notifier

	pageSize int
	page     int
	keyword  string

	seq     uint64
	loading bool

	leads    []backend.LeadSummary
	total    int
	keywords []string
	err      error
}

// LeadListView is a point-in-time copy of the list state for rendering.
type LeadListView struct {
	Leads    []backend.LeadSummary
	Total    int
	Page     int
	PageSize int
	Keyword  string
	Keywords []string
	Loading  bool
	Err      error
}

func NewLeadList(fetch LeadLister, notifier Notifier, pageSize int) *LeadList {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &LeadList{fetch: fetch, notifier: orNop(notifier), pageSize: pageSize}
}

// SetKeyword changes the filter and reloads. A changed keyword resets the
// page to zero; an unchanged keyword keeps the current page.
func (l *LeadList) SetKeyword(ctx context.Context, keyword string) {
	l.mu.Lock()
	if keyword != l.keyword {
		l.keyword = keyword
		l.page = 0
	}
	l.mu.Unlock()
	l.Reload(ctx)
}

// SetPage moves to the given page and reloads. Negative pages clamp to zero.
func (l *LeadList) SetPage(ctx context.Context, page int) {
	if page < 0 {
		page = 0
	}
	l.mu.Lock()
	l.page = page
	l.mu.Unlock()
	l.Reload(ctx)
}

// Reload fetches the current page with the current filter.
func (l *LeadList) Reload(ctx context.Context) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.loading = true
	skip := l.page * l.pageSize
	limit := l.pageSize
	keyword := l.keyword
	l.mu.Unlock()

	resp, err := l.fetch.LinkedInLeads(ctx, skip, limit, keyword)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		// A newer fetch superseded this one.
		return
	}
	l.loading = false
	if err != nil {
		l.err = err
		l.notifier.Error("Failed to load leads: " + err.Error())
		return
	}
	l.err = nil
	l.leads = resp.Leads
	l.total = resp.TotalCount
	l.keywords = resp.AvailableKeywords
}

// Snapshot returns a copy of the current list state.
func (l *LeadList) Snapshot() LeadListView {
	l.mu.Lock()
	defer l.mu.Unlock()
	leads := make([]backend.LeadSummary, len(l.leads))
	copy(leads, l.leads)
	keywords := make([]string, len(l.keywords))
	copy(keywords, l.keywords)
	return LeadListView{
		Leads:    leads,
		Total:    l.total,
		Page:     l.page,
		PageSize: l.pageSize,
		Keyword:  l.keyword,
		Keywords: keywords,
		Loading:  l.loading,
		Err:      l.err,
	}
}

// Pages returns the total page count for the current result set.
func (l *LeadList) Pages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.total == 0 {
		return 1
	}
	return (l.total + l.pageSize - 1) / l.pageSize
}
