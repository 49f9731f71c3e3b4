package handlers

import (
	"net"
	"net/http"

	"github.com/leadpilot/leadpilot/internal/models"
	"github.com/leadpilot/leadpilot/internal/web/middleware"
)

// audit records an operator action. Failures are logged, never surfaced.
func (h *Handlers) audit(r *http.Request, userID, userEmail, action, entityType, entityID string) {
	entry := &models.AuditLogEntry{
		UserID:     userID,
		UserEmail:  userEmail,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  clientIP(r),
	}
	if err := h.settings.AddAuditLog(entry); err != nil {
		h.logger.Error("audit log write failed", "action", action, "error", err)
	}
}

// auditUser records an action attributed to the authenticated user.
func (h *Handlers) auditUser(r *http.Request, action, entityType, entityID string) {
	user := middleware.UserFromContext(r)
	if user == nil {
		h.audit(r, "", "", action, entityType, entityID)
		return
	}
	h.audit(r, user.ID, user.Email, action, entityType, entityID)
}

func clientIP(r *http.Request) string {
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
