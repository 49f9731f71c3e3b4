package handlers

import (
	"net/http"

	"github.com/leadpilot/leadpilot/internal/backend"
)

// Verification shows the upload form and the last verification result.
func (h *Handlers) Verification(w http.ResponseWriter, r *http.Request) {
	h.verifyMu.Lock()
	verifying := h.verifying
	result := h.verified
	h.verifyMu.Unlock()

	data := map[string]any{
		"Title":     "Lead Verification",
		"Active":    "verification",
		"Verifying": verifying,
		"HasResult": result != nil,
	}
	if result != nil {
		data["Filename"] = result.Filename
	}
	h.render(w, r, "verification", data)
}

// VerificationUpload sends the uploaded lead file to the backend and holds
// the verified spreadsheet for download.
func (h *Handlers) VerificationUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, backend.MaxUploadSize)
	if err := r.ParseMultipartForm(backend.MaxUploadSize); err != nil {
		h.flash.Error("Upload too large or malformed")
		http.Redirect(w, r, "/verification", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.flash.Error("A lead file is required")
		http.Redirect(w, r, "/verification", http.StatusSeeOther)
		return
	}
	defer file.Close()

	if err := backend.ValidateLeadFile(header.Filename, header.Size); err != nil {
		h.flash.Error(err.Error())
		http.Redirect(w, r, "/verification", http.StatusSeeOther)
		return
	}

	mode := r.FormValue("mode")
	if mode == "" {
		mode = backend.VerifyModeIndividual
	}

	h.verifyMu.Lock()
	if h.verifying {
		h.verifyMu.Unlock()
		h.flash.Error("A verification is already in progress")
		http.Redirect(w, r, "/verification", http.StatusSeeOther)
		return
	}
	h.verifying = true
	h.verifyMu.Unlock()

	result, err := h.backend.VerifyLeads(r.Context(), header.Filename, file, mode)

	h.verifyMu.Lock()
	h.verifying = false
	if err == nil {
		h.verified = result
	}
	h.verifyMu.Unlock()

	if err != nil {
		h.flash.Error("Verification failed: " + err.Error())
	} else {
		h.flash.Success("Verification complete")
		h.auditUser(r, "verify_leads", "file", header.Filename)
	}

	http.Redirect(w, r, "/verification", http.StatusSeeOther)
}

// VerificationDownload streams the last verified spreadsheet.
func (h *Handlers) VerificationDownload(w http.ResponseWriter, r *http.Request) {
	h.verifyMu.Lock()
	result := h.verified
	h.verifyMu.Unlock()

	if result == nil {
		http.Redirect(w, r, "/verification", http.StatusSeeOther)
		return
	}

	filename := result.Filename
	if filename == "" {
		filename = backend.VerifiedFilename
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(result.Data)
}
