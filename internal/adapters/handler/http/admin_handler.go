package http

import (
	"net/http"
	"time"

	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

type AdminHandler struct {
	service      ports.AdminService
	sessionTTL   time.Duration
	secureCookie bool
}

func NewAdminHandler(service ports.AdminService, sessionTTL time.Duration, secureCookie bool) *AdminHandler {
	return &AdminHandler{
		service:      service,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
	}
}

type setPasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type verifyRequest struct {
	Password string `json:"password"`
}

type verifyResponse struct {
	Valid bool   `json:"valid"`
	Token string `json:"token,omitempty"`
}

func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// SetPassword skips the current password check when the request already
// carries a valid admin session.
func (h *AdminHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := ports.ResetPasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		Authorized:      h.service.Authorize(adminToken(r)) == nil,
	}
	if err := h.service.ResetPassword(r.Context(), input); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "Password updated"})
}

func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, valid, err := h.service.Verify(r.Context(), req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !valid {
		writeJSON(w, http.StatusOK, verifyResponse{Valid: false})
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, verifyResponse{Valid: true, Token: token})
}

// RequireAdmin rejects requests without a valid admin session.
func (h *AdminHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.Authorize(adminToken(r)); err != nil {
			writeServiceError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
}
