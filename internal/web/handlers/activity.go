package handlers

import "net/http"

// Activity shows the accumulated outreach log.
func (h *Handlers) Activity(w http.ResponseWriter, r *http.Request) {
	// First visit loads the initial page.
	if len(h.feed.Snapshot().Items) == 0 {
		h.feed.LoadMore(r.Context())
	}

	data := map[string]any{
		"Title":  "Activity",
		"Active": "activity",
		"Feed":   h.feed.Snapshot(),
	}
	h.render(w, r, "activity", data)
}

// ActivityMore appends the next page to the feed.
func (h *Handlers) ActivityMore(w http.ResponseWriter, r *http.Request) {
	h.feed.LoadMore(r.Context())
	http.Redirect(w, r, "/activity", http.StatusSeeOther)
}
