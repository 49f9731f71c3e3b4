package handlers

import "net/http"

// Campaigns shows the email-campaign lead table with enrichment actions.
func (h *Handlers) Campaigns(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":  "Email Campaigns",
		"Active": "campaigns",
	}

	resp, err := h.backend.CampaignLeads(r.Context())
	if err != nil {
		h.flash.Error("Failed to load campaign leads: " + err.Error())
	} else {
		data["Leads"] = resp.Leads
		data["IncompleteCount"] = resp.IncompleteLeadsCount
	}

	h.render(w, r, "campaigns", data)
}

// CampaignEnrich asks the backend to fill in missing contact data for a lead.
func (h *Handlers) CampaignEnrich(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	resp, err := h.backend.EnrichLead(r.Context(), id)
	if err != nil {
		h.flash.Error("Enrichment failed: " + err.Error())
	} else if !resp.Success {
		h.flash.Error("Enrichment failed: " + resp.Message)
	} else {
		h.flash.Success("Lead enriched")
		h.auditUser(r, "enrich_lead", "lead", id)
	}

	http.Redirect(w, r, "/campaigns", http.StatusSeeOther)
}
