package state

import (
	"context"
	"sync"

	"github.com/leadpilot/leadpilot/internal/backend"
)

// DetailActions is the slice of the backend client the detail view needs.
type DetailActions interface {
	LinkedInLead(ctx context.Context, id string) (*backend.LeadDetail, error)
	RefreshLead(ctx context.Context, id string) (*backend.RefreshResponse, error)
	SendDM(ctx context.Context, id, message string) (*backend.SendResult, error)
	SendConnection(ctx context.Context, id string) (*backend.SendResult, error)
}

// LeadDetail is the currently selected lead. Each selection bumps a sequence
// number; a response carrying a stale sequence is discarded, so a fast
// re-select can never be overwritten by a slow earlier fetch.
type LeadDetail struct {
	mu       sync.Mutex
	api      DetailActions
	notifier Notifier

	// evaluate, when set, receives every adopted snapshot so the DM
	// watcher can start or release its poll lease.
	evaluate func(*backend.LeadDetail)

	selected string
	seq      uint64
	detail   *backend.LeadDetail

	loading    bool
	refreshing bool
	sendingDM  bool
	connecting bool
	err        error
}

// LeadDetailView is a point-in-time copy of the detail state.
type LeadDetailView struct {
	Selected   string
	Detail     *backend.LeadDetail
	Loading    bool
	Refreshing bool
	SendingDM  bool
	Connecting bool
	Err        error
}

func NewLeadDetail(api DetailActions, notifier Notifier) *LeadDetail {
	return &LeadDetail{api: api, notifier: orNop(notifier)}
}

// SetEvaluate wires the snapshot hook. Must be called before Select.
func (d *LeadDetail) SetEvaluate(fn func(*backend.LeadDetail)) {
	d.mu.Lock()
	d.evaluate = fn
	d.mu.Unlock()
}

// Select switches to the given lead and fetches its detail. Selecting the
// empty id clears the view.
func (d *LeadDetail) Select(ctx context.Context, id string) {
	d.mu.Lock()
	d.selected = id
	d.seq++
	if id == "" {
		d.detail = nil
		d.loading = false
		d.err = nil
		fn := d.evaluate
		d.mu.Unlock()
		if fn != nil {
			fn(nil)
		}
		return
	}
	seq := d.seq
	d.loading = true
	d.mu.Unlock()
	d.load(ctx, id, seq)
}

// Reload re-fetches the current selection, used after mutating actions.
func (d *LeadDetail) Reload(ctx context.Context) {
	d.mu.Lock()
	id := d.selected
	if id == "" {
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq
	d.loading = true
	d.mu.Unlock()
	d.load(ctx, id, seq)
}

func (d *LeadDetail) load(ctx context.Context, id string, seq uint64) {
	detail, err := d.api.LinkedInLead(ctx, id)

	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.loading = false
	if err != nil {
		d.err = err
		d.mu.Unlock()
		d.notifier.Error("Failed to load lead: " + err.Error())
		return
	}
	d.err = nil
	d.detail = detail
	fn := d.evaluate
	d.mu.Unlock()
	if fn != nil {
		fn(detail)
	}
}

// Adopt replaces the cached detail with a snapshot produced outside the view,
// typically by the generation watcher. Snapshots for a lead that is no longer
// selected are ignored.
func (d *LeadDetail) Adopt(detail *backend.LeadDetail) {
	if detail == nil {
		return
	}
	d.mu.Lock()
	if detail.ID != d.selected {
		d.mu.Unlock()
		return
	}
	d.detail = detail
	d.mu.Unlock()
}

// Refresh asks the backend to regenerate the hiring signal and DM for the
// selected lead, then reloads the detail.
func (d *LeadDetail) Refresh(ctx context.Context) {
	d.mu.Lock()
	id := d.selected
	if id == "" || d.refreshing {
		d.mu.Unlock()
		return
	}
	d.refreshing = true
	d.mu.Unlock()

	resp, err := d.api.RefreshLead(ctx, id)

	d.mu.Lock()
	d.refreshing = false
	d.mu.Unlock()
	if err != nil {
		d.notifier.Error("Refresh failed: " + err.Error())
		return
	}
	if !resp.Success {
		d.notifier.Error("Refresh failed: " + resp.Message)
		return
	}
	d.notifier.Success("Lead refreshed")
	d.Reload(ctx)
}

// SendDM sends the drafted (or overridden) message to the selected lead.
// A business rejection arrives as success=false and is surfaced as a
// notification, not an error.
func (d *LeadDetail) SendDM(ctx context.Context, message string) {
	d.mu.Lock()
	id := d.selected
	if id == "" || d.sendingDM {
		d.mu.Unlock()
		return
	}
	d.sendingDM = true
	d.mu.Unlock()

	res, err := d.api.SendDM(ctx, id, message)

	d.mu.Lock()
	d.sendingDM = false
	d.mu.Unlock()
	if err != nil {
		d.notifier.Error("DM send failed: " + err.Error())
		return
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = res.Message
		}
		d.notifier.Error("DM not sent: " + msg)
		return
	}
	d.notifier.Success("DM sent")
	d.Reload(ctx)
}

// Connect sends a connection request to the selected lead.
func (d *LeadDetail) Connect(ctx context.Context) {
	d.mu.Lock()
	id := d.selected
	if id == "" || d.connecting {
		d.mu.Unlock()
		return
	}
	d.connecting = true
	d.mu.Unlock()

	res, err := d.api.SendConnection(ctx, id)

	d.mu.Lock()
	d.connecting = false
	d.mu.Unlock()
	if err != nil {
		d.notifier.Error("Connection request failed: " + err.Error())
		return
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = res.Message
		}
		d.notifier.Error("Connection not sent: " + msg)
		return
	}
	d.notifier.Success("Connection request sent")
	d.Reload(ctx)
}

// Snapshot returns a copy of the current detail state.
func (d *LeadDetail) Snapshot() LeadDetailView {
	d.mu.Lock()
	defer d.mu.Unlock()
	var detail *backend.LeadDetail
	if d.detail != nil {
		cp := *d.detail
		detail = &cp
	}
	return LeadDetailView{
		Selected:   d.selected,
		Detail:     detail,
		Loading:    d.loading,
		Refreshing: d.refreshing,
		SendingDM:  d.sendingDM,
		Connecting: d.connecting,
		Err:        d.err,
	}
}
