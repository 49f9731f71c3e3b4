package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/leadpilot/leadpilot/internal/models"
	"github.com/leadpilot/leadpilot/internal/web/middleware"
)

const settingDefaultTemplate = "default_whatsapp_template"

// Settings shows search presets and console info.
func (h *Handlers) Settings(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":      "Settings",
		"Active":     "settings",
		"BackendURL": h.cfg.Backend.BaseURL,
	}

	presets, err := h.presets.List()
	if err != nil {
		h.flash.Error("Failed to load presets")
	} else {
		data["Presets"] = presets
	}

	if tmpl, err := h.settings.GetSetting(settingDefaultTemplate); err == nil {
		data["DefaultTemplate"] = tmpl
	}

	h.render(w, r, "settings", data)
}

// SettingsDefaultTemplate saves the template preselected on the WhatsApp page.
func (h *Handlers) SettingsDefaultTemplate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	name := strings.TrimSpace(r.FormValue("template_name"))
	if err := h.settings.SetSetting(settingDefaultTemplate, name); err != nil {
		h.flash.Error("Failed to save default template")
	} else {
		h.flash.Success("Default template saved")
		h.auditUser(r, "default_template_set", "setting", settingDefaultTemplate)
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// SettingsPresetCreate saves a search preset.
func (h *Handlers) SettingsPresetCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	var keywords []string
	for _, kw := range strings.Split(r.FormValue("keywords"), ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if name == "" || len(keywords) == 0 {
		h.flash.Error("Preset name and keywords are required")
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}

	createdBy := ""
	if user := middleware.UserFromContext(r); user != nil {
		createdBy = user.Email
	}

	preset, err := h.presets.Create(name, keywords, r.FormValue("date_filter"), createdBy)
	if err != nil {
		h.flash.Error("Failed to save preset: " + err.Error())
	} else {
		h.flash.Success("Preset saved")
		h.auditUser(r, "preset_create", "preset", preset.ID)
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// SettingsPresetDelete removes a search preset.
func (h *Handlers) SettingsPresetDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.presets.Delete(id); err != nil {
		h.flash.Error("Failed to delete preset")
	} else {
		h.auditUser(r, "preset_delete", "preset", id)
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// SettingsUsers lists operator accounts.
func (h *Handlers) SettingsUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		h.error(w, http.StatusInternalServerError, "Failed to load users")
		return
	}

	h.render(w, r, "settings_users", map[string]any{
		"Title":  "Users",
		"Active": "settings",
		"Users":  users,
	})
}

// SettingsAudit shows the audit log.
func (h *Handlers) SettingsAudit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	entries, total, err := h.settings.ListAuditLog(models.AuditLogFilter{
		Action: r.URL.Query().Get("action"),
		Limit:  limit,
	})
	if err != nil {
		h.error(w, http.StatusInternalServerError, "Failed to load audit log")
		return
	}

	h.render(w, r, "settings_audit", map[string]any{
		"Title":   "Audit Log",
		"Active":  "settings",
		"Entries": entries,
		"Total":   total,
	})
}
