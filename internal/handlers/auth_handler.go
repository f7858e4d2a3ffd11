package handlers

import (
	"encoding/json"
	"net/http"

	"desynflow-backend/internal/middleware"
	"desynflow-backend/internal/models"
	"desynflow-backend/internal/services"
)

type AuthHandler struct {
	Users    *services.UserService
	TOTP     *services.TOTPService
	Sessions *middleware.SessionMiddleware
}

func NewAuthHandler(users *services.UserService, totp *services.TOTPService, sessions *middleware.SessionMiddleware) *AuthHandler {
	return &AuthHandler{Users: users, TOTP: totp, Sessions: sessions}
}

// Signup registers a client account. Staff accounts go through
// CreateStaff on the admin routes.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Users.Signup(r.Context(), &req, false)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Users.Login(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if resp.User != nil {
		h.Sessions.Start(r, resp.User.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Verify2FA completes a login that returned requires_2fa.
func (h *AuthHandler) Verify2FA(w http.ResponseWriter, r *http.Request) {
	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.TOTP.CompleteLogin(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if resp.User != nil {
		h.Sessions.Start(r, resp.User.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		h.Sessions.End(r, userID)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// RequestPasswordReset always returns 200 so callers cannot probe which
// emails are registered.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.Users.RequestPasswordReset(r.Context(), req.Email)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "if the email is registered, a reset link has been sent",
	})
}

func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetConfirm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Users.ConfirmPasswordReset(r.Context(), &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.Users.GetUser(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
