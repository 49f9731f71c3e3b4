package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/leadpilot/leadpilot/internal/backend"
)

// LinkedIn shows the lead list and, when a lead is selected, its detail pane.
func (h *Handlers) LinkedIn(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Has("keyword") {
		h.leadList.SetKeyword(r.Context(), q.Get("keyword"))
	} else if q.Has("page") {
		page, _ := strconv.Atoi(q.Get("page"))
		h.leadList.SetPage(r.Context(), page)
	} else {
		h.leadList.Reload(r.Context())
	}

	if q.Has("lead") {
		h.leadDetail.Select(r.Context(), q.Get("lead"))
	}

	list := h.leadList.Snapshot()
	detail := h.leadDetail.Snapshot()

	selected := map[string]bool{}
	for _, id := range h.selection.IDs() {
		selected[id] = true
	}

	pages := h.leadList.Pages()
	data := map[string]any{
		"Title":          "LinkedIn Outreach",
		"Active":         "linkedin",
		"List":           list,
		"Detail":         detail,
		"Selection":      selected,
		"SelectionCount": h.selection.Count(),
		"Pages":          pages,
		"PageDisplay":    list.Page + 1,
		"PrevPage":       list.Page - 1,
		"NextPage":       list.Page + 1,
		"HasNext":        list.Page+1 < pages,
		"Stuck":          h.dmWatcher.Stuck(detail.Detail, time.Now()),
	}

	h.render(w, r, "linkedin", data)
}

// LinkedInSearch triggers a backend scrape for the given keywords.
func (h *Handlers) LinkedInSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	var keywords []string
	for _, kw := range strings.Split(r.FormValue("keywords"), ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		h.flash.Error("At least one keyword is required")
		http.Redirect(w, r, "/linkedin", http.StatusSeeOther)
		return
	}

	resp, err := h.backend.LinkedInSearch(r.Context(), &backend.SearchRequest{
		Keywords:   keywords,
		DateFilter: r.FormValue("date_filter"),
	})
	if err != nil {
		h.flash.Error("Search failed: " + err.Error())
	} else {
		h.flash.Success(fmt.Sprintf("Scrape finished: %d posts, %d leads extracted", resp.Stats.PostsFound, resp.Stats.LeadsExtracted))
		h.auditUser(r, "linkedin_search", "search", strings.Join(keywords, ","))
	}

	http.Redirect(w, r, "/linkedin", http.StatusSeeOther)
}

// LinkedInSelect toggles a lead in the bulk selection.
func (h *Handlers) LinkedInSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	if id := r.FormValue("lead_id"); id != "" {
		h.selection.Toggle(id)
	}
	http.Redirect(w, r, backReferer(r, "/linkedin"), http.StatusSeeOther)
}

// LinkedInBulkSend sends DMs or connection requests to every selected lead.
func (h *Handlers) LinkedInBulkSend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	ids := h.selection.IDs()
	if len(ids) == 0 {
		h.flash.Error("No leads selected")
		http.Redirect(w, r, "/linkedin", http.StatusSeeOther)
		return
	}

	resp, err := h.backend.BulkSend(r.Context(), &backend.BulkSendRequest{
		LeadIDs:  ids,
		SendType: r.FormValue("send_type"),
	})
	if err != nil {
		h.flash.Error("Bulk send failed: " + err.Error())
		http.Redirect(w, r, "/linkedin", http.StatusSeeOther)
		return
	}

	h.selection.ApplyBulkResult(resp)
	if resp.Failed > 0 {
		h.flash.Error(fmt.Sprintf("Bulk send finished: %d sent, %d failed", resp.Successful, resp.Failed))
	} else {
		h.flash.Success(fmt.Sprintf("Bulk send finished: %d sent", resp.Successful))
	}
	h.auditUser(r, "bulk_send", "leads", fmt.Sprintf("%d", len(ids)))

	http.Redirect(w, r, "/linkedin", http.StatusSeeOther)
}

// LinkedInSendDM sends the drafted or edited DM for one lead.
func (h *Handlers) LinkedInSendDM(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	h.ensureSelected(r, id)
	h.leadDetail.SendDM(r.Context(), r.FormValue("message"))
	h.auditUser(r, "send_dm", "lead", id)

	http.Redirect(w, r, "/linkedin?lead="+url.QueryEscape(id), http.StatusSeeOther)
}

// LinkedInConnect sends a connection request for one lead.
func (h *Handlers) LinkedInConnect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.ensureSelected(r, id)
	h.leadDetail.Connect(r.Context())
	h.auditUser(r, "send_connection", "lead", id)

	http.Redirect(w, r, "/linkedin?lead="+url.QueryEscape(id), http.StatusSeeOther)
}

// LinkedInRefresh regenerates the hiring signal and DM for one lead.
func (h *Handlers) LinkedInRefresh(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.ensureSelected(r, id)
	h.leadDetail.Refresh(r.Context())
	h.auditUser(r, "refresh_lead", "lead", id)

	http.Redirect(w, r, "/linkedin?lead="+url.QueryEscape(id), http.StatusSeeOther)
}

// ensureSelected makes the detail view track the lead an action targets, so a
// direct POST works without a prior page load.
func (h *Handlers) ensureSelected(r *http.Request, id string) {
	if h.leadDetail.Snapshot().Selected != id {
		h.leadDetail.Select(r.Context(), id)
	}
}

// backReferer sends the user back where they came from, same-origin only.
func backReferer(r *http.Request, fallback string) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return fallback
	}
	out := u.Path
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	if out == "" {
		return fallback
	}
	return out
}
