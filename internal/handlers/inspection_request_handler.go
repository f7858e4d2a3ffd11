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

type InspectionRequestHandler struct {
	Service *services.InspectionRequestService
}

func NewInspectionRequestHandler(s *services.InspectionRequestService) *InspectionRequestHandler {
	return &InspectionRequestHandler{Service: s}
}

// CreateRequest opens a new inspection request for the logged-in
// client.
func (h *InspectionRequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.CreateInspectionRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.Create(r.Context(), clientID, &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

// ListRequests serves the staff view, optionally filtered by ?status=.
func (h *InspectionRequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// ListMine serves a client their own requests, or an inspector their
// assigned ones, depending on the caller's role.
func (h *InspectionRequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	var (
		requests []*models.InspectionRequest
		err      error
	)
	if role == models.RoleInspector {
		requests, err = h.Service.ListForInspector(r.Context(), userID)
	} else {
		requests, err = h.Service.ListForClient(r.Context(), userID)
	}
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *InspectionRequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	role, _ := middleware.GetRoleFromContext(r.Context())
	if role == models.RoleClient {
		clientID, _ := middleware.GetUserIDFromContext(r.Context())
		request, err := h.Service.GetForClient(r.Context(), id, clientID)
		if err != nil {
			serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, request)
		return
	}

	request, err := h.Service.Get(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

// Assign hands a pending request to an inspector. A stale version in
// the body means another CSR won the race and the caller gets a 409.
func (h *InspectionRequestHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req models.AssignInspectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.Assign(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *InspectionRequestHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	request, err := h.Service.Complete(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}
