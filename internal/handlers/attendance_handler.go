package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"desynflow-backend/internal/middleware"
	"desynflow-backend/internal/models"
	"desynflow-backend/internal/services"
)

type AttendanceHandler struct {
	Service *services.AttendanceService
}

func NewAttendanceHandler(s *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{Service: s}
}

// Upsert records or corrects attendance. Same user+date overwrites, so
// HR can fix a wrong status by resubmitting.
func (h *AttendanceHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.Upsert(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// TeamSheet returns one team's records for a day: ?team_id=&date=.
func (h *AttendanceHandler) TeamSheet(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.Atoi(r.URL.Query().Get("team_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "team_id must be an integer")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date parameter is required")
		return
	}

	records, err := h.Service.TeamSheet(r.Context(), teamID, date)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// MyHistory returns the caller's own records for ?from=&to=.
func (h *AttendanceHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.Service.UserHistory(r.Context(), userID, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
