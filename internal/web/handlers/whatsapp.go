package handlers

import (
	"net/http"
	"sort"

	"github.com/leadpilot/leadpilot/internal/backend"
)

// WhatsApp shows the WhatsApp console: lead table, template picker and the
// open bulk job, if any.
func (h *Handlers) WhatsApp(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")

	leadsResp, err := h.backend.WhatsAppLeads(r.Context(), 0, 200, source)
	if err != nil {
		h.flash.Error("Failed to load WhatsApp leads: " + err.Error())
		leadsResp = &backend.WhatsAppLeadListResponse{}
	}

	var templates []backend.WhatsAppTemplate
	if tResp, err := h.backend.WhatsAppTemplates(r.Context()); err != nil {
		h.flash.Error("Failed to load templates: " + err.Error())
	} else {
		templates = tResp.Templates
	}

	sources := map[string]bool{}
	for _, l := range leadsResp.Leads {
		if l.Source != "" {
			sources[l.Source] = true
		}
	}
	sourceList := make([]string, 0, len(sources))
	for s := range sources {
		sourceList = append(sourceList, s)
	}
	sort.Strings(sourceList)

	selected := map[string]bool{}
	for _, id := range h.waSelection.IDs() {
		selected[id] = true
	}

	defaultTemplate, _ := h.settings.GetSetting(settingDefaultTemplate)

	data := map[string]any{
		"Title":           "WhatsApp Outreach",
		"Active":          "whatsapp",
		"Leads":           leadsResp.Leads,
		"Templates":       templates,
		"Source":          source,
		"Sources":         sourceList,
		"Selected":        selected,
		"SelectedCount":   h.waSelection.Count(),
		"DefaultTemplate": defaultTemplate,
		"Job":             h.job.Snapshot(),
	}

	h.render(w, r, "whatsapp", data)
}

// WhatsAppSelect toggles a lead in the bulk-job selection.
func (h *Handlers) WhatsAppSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	if id := r.FormValue("lead_id"); id != "" {
		h.waSelection.Toggle(id)
	}
	http.Redirect(w, r, backReferer(r, "/whatsapp"), http.StatusSeeOther)
}

// WhatsAppSend sends one approved template to one lead.
func (h *Handlers) WhatsAppSend(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	resp, err := h.backend.SendWhatsAppTemplate(r.Context(), id, r.FormValue("template_name"))
	if err != nil {
		h.flash.Error("Send failed: " + err.Error())
	} else if !resp.Success {
		h.flash.Error("Send failed: " + resp.Error)
	} else {
		h.flash.Success("Template sent")
		h.auditUser(r, "whatsapp_send", "lead", id)
	}

	http.Redirect(w, r, "/whatsapp", http.StatusSeeOther)
}

// WhatsAppJobCreate creates a bulk job from the current selection.
func (h *Handlers) WhatsAppJobCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	ids := h.waSelection.IDs()
	if len(ids) == 0 {
		h.flash.Error("No leads selected")
		http.Redirect(w, r, "/whatsapp", http.StatusSeeOther)
		return
	}

	h.job.Create(r.Context(), &backend.BulkJobRequest{
		LeadIDs:          ids,
		TemplateName:     r.FormValue("template_name"),
		BroadcastName:    r.FormValue("broadcast_name"),
		StartImmediately: r.FormValue("start_immediately") != "",
	})

	if snap := h.job.Snapshot(); snap.Job != nil {
		h.waSelection.Clear()
		h.auditUser(r, "bulk_job_create", "job", snap.Job.ID)
	}

	http.Redirect(w, r, "/whatsapp", http.StatusSeeOther)
}

// WhatsAppJobStart issues the start command for the open job.
func (h *Handlers) WhatsAppJobStart(w http.ResponseWriter, r *http.Request) {
	h.job.Start(r.Context())
	h.auditUser(r, "bulk_job_start", "job", r.PathValue("id"))
	http.Redirect(w, r, "/whatsapp", http.StatusSeeOther)
}

// WhatsAppJobPause issues the pause command for the open job.
func (h *Handlers) WhatsAppJobPause(w http.ResponseWriter, r *http.Request) {
	h.job.Pause(r.Context())
	h.auditUser(r, "bulk_job_pause", "job", r.PathValue("id"))
	http.Redirect(w, r, "/whatsapp", http.StatusSeeOther)
}

// WhatsAppJobCancel issues the cancel command for the open job.
func (h *Handlers) WhatsAppJobCancel(w http.ResponseWriter, r *http.Request) {
	h.job.Cancel(r.Context())
	h.auditUser(r, "bulk_job_cancel", "job", r.PathValue("id"))
	http.Redirect(w, r, "/whatsapp", http.StatusSeeOther)
}

// WhatsAppJobClose discards the job view. The job itself keeps running
// server-side; closing is a console-only action.
func (h *Handlers) WhatsAppJobClose(w http.ResponseWriter, r *http.Request) {
	h.job.Close()
	h.jobWatcher.Close()
	http.Redirect(w, r, "/whatsapp", http.StatusSeeOther)
}
