package handlers

import (
	"encoding/json"
	"net/http"

	"desynflow-backend/internal/middleware"
	"desynflow-backend/internal/services"
)

type TOTPHandler struct {
	Service *services.TOTPService
	Users   *services.UserService
}

func NewTOTPHandler(totp *services.TOTPService, users *services.UserService) *TOTPHandler {
	return &TOTPHandler{Service: totp, Users: users}
}

// Setup generates a fresh TOTP secret and QR code for the logged-in
// user. The secret is stored but 2FA stays off until Enable succeeds.
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.Service.GenerateSetup(r.Context(), user)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TOTPHandler) Enable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.VerifyAndEnable(r.Context(), userID, req.Code); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "two-factor authentication enabled"})
}
