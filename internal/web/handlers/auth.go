package handlers

import (
	"net/http"
	"time"
)

// LoginPage renders the login page
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Render(w, "login", map[string]any{}); err != nil {
		h.logger.Error("template render failed", "template", "login", "error", err)
	}
}

// Login handles login form submission
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, "Invalid form data")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	ipKey := "ip:" + clientIP(r)
	emailKey := "email:" + email
	if res := h.loginLimiter.Allow(ipKey, emailKey); !res.Allowed {
		h.logger.Warn("login rate limited", "email", email, "ip", clientIP(r), "retry_after", res.RetryAfter)
		h.renderLoginError(w, "Too many failed attempts, try again later")
		return
	}

	user, err := h.users.Authenticate(email, password)
	if err != nil {
		h.logger.Error("login lookup failed", "error", err)
		h.renderLoginError(w, "Login failed")
		return
	}
	if user == nil {
		h.loginLimiter.RecordFailure(ipKey, emailKey)
		h.renderLoginError(w, "Invalid email or password")
		return
	}
	h.loginLimiter.Reset(ipKey, emailKey)

	sess, err := h.sessions.Create(user.ID, h.cfg.Auth.SessionTTL)
	if err != nil {
		h.logger.Error("failed to create session", "error", err, "email", email)
		h.renderLoginError(w, "Login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cfg.Server.TLS.Enabled,
		SameSite: http.SameSiteLaxMode,
	})

	h.audit(r, user.ID, user.Email, "login", "", "")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles user logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session"); err == nil {
		if err := h.sessions.Delete(cookie.Value); err != nil {
			h.logger.Error("failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})

	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handlers) renderLoginError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Render(w, "login", map[string]any{"Error": message}); err != nil {
		h.logger.Error("template render failed", "template", "login", "error", err)
	}
}
