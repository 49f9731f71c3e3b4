package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// apiJSON writes a JSON response for the in-page poll endpoints.
func (h *Handlers) apiJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("json encode failed", "error", err)
	}
}

// APILeadStatus returns the generation status snapshot for a lead. The page
// polls this while a DM is generating and reloads when it settles.
func (h *Handlers) APILeadStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	snap := h.leadDetail.Snapshot()
	if snap.Detail != nil && snap.Detail.ID == id {
		h.apiJSON(w, http.StatusOK, map[string]any{
			"id":                   snap.Detail.ID,
			"dm_generation_status": snap.Detail.DMGenerationStatus,
			"stuck":                h.dmWatcher.Stuck(snap.Detail, time.Now()),
		})
		return
	}

	// Not the tracked lead; fetch once without disturbing the watcher.
	detail, err := h.backend.LinkedInLead(r.Context(), id)
	if err != nil {
		h.apiJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	h.apiJSON(w, http.StatusOK, map[string]any{
		"id":                   detail.ID,
		"dm_generation_status": detail.DMGenerationStatus,
		"stuck":                h.dmWatcher.Stuck(detail, time.Now()),
	})
}

// APICurrentJob returns the open bulk job snapshot, or null.
func (h *Handlers) APICurrentJob(w http.ResponseWriter, r *http.Request) {
	snap := h.job.Snapshot()
	h.apiJSON(w, http.StatusOK, map[string]any{"job": snap.Job})
}
