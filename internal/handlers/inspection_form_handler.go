package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"desynflow-backend/internal/middleware"
	"desynflow-backend/internal/models"
	"desynflow-backend/internal/services"

	"github.com/gorilla/mux"
)

type InspectionFormHandler struct {
	Service *services.InspectionFormService
}

func NewInspectionFormHandler(s *services.InspectionFormService) *InspectionFormHandler {
	return &InspectionFormHandler{Service: s}
}

// Submit files the findings for an assigned request. Only the assigned
// inspector may submit, and only once.
func (h *InspectionFormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	inspectorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.SubmitInspectionFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.Service.Submit(r.Context(), inspectorID, &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

func (h *InspectionFormHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid form id")
		return
	}

	form, err := h.Service.Get(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *InspectionFormHandler) GetByRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.Atoi(mux.Vars(r)["request_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	form, err := h.Service.GetByRequest(r.Context(), requestID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *InspectionFormHandler) ListPendingReview(w http.ResponseWriter, r *http.Request) {
	forms, err := h.Service.ListPendingReview(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

func (h *InspectionFormHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid form id")
		return
	}

	var req models.ReviewInspectionFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.Service.Review(r.Context(), id, &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}
