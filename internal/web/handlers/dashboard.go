package handlers

import "net/http"

// Dashboard shows the landing page with entry points into each console.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":  "Dashboard",
		"Active": "dashboard",
	}

	// Best-effort recent activity strip; the dashboard renders without it.
	if resp, err := h.backend.Activity(r.Context(), 0, 10); err == nil {
		data["RecentActivity"] = resp.Items
	}

	h.render(w, r, "dashboard", data)
}
