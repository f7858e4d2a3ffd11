package handlers

import (
	"encoding/json"
	"net/http"

	"desynflow-backend/internal/middleware"
	"desynflow-backend/internal/models"
	"desynflow-backend/internal/services"
)

type LocationHandler struct {
	Service *services.InspectorLocationService
}

func NewLocationHandler(s *services.InspectorLocationService) *LocationHandler {
	return &LocationHandler{Service: s}
}

// Update upserts the caller's position; inspectors' devices post here
// every few seconds while on duty.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	inspectorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	location, err := h.Service.Update(r.Context(), inspectorID, &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

func (h *LocationHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Service.Snapshot(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

func (h *LocationHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Service.ListAvailable(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}
