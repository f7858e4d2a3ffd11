package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"desynflow-backend/internal/services"

	"github.com/gorilla/mux"
)

type WarehouseHandler struct {
	Service *services.WarehouseService
}

func NewWarehouseHandler(s *services.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{Service: s}
}

func (h *WarehouseHandler) CreateDisposal(w http.ResponseWriter, r *http.Request) {
	var req services.CreateDisposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	disposal, err := h.Service.CreateDisposal(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, disposal)
}

func (h *WarehouseHandler) GetDisposal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid disposal id")
		return
	}

	disposal, err := h.Service.GetDisposal(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, disposal)
}

func (h *WarehouseHandler) ListDisposals(w http.ResponseWriter, r *http.Request) {
	disposals, err := h.Service.ListDisposals(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, disposals)
}

func (h *WarehouseHandler) UpdateDisposal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid disposal id")
		return
	}

	var req services.CreateDisposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	disposal, err := h.Service.UpdateDisposal(r.Context(), id, &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, disposal)
}

func (h *WarehouseHandler) DeleteDisposal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid disposal id")
		return
	}

	if err := h.Service.DeleteDisposal(r.Context(), id); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "disposal record deleted"})
}

func (h *WarehouseHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req services.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transfer, err := h.Service.CreateTransfer(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transfer)
}

func (h *WarehouseHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	transfer, err := h.Service.GetTransfer(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfer)
}

func (h *WarehouseHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.Service.ListTransfers(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfers)
}

func (h *WarehouseHandler) UpdateTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	var body struct {
		services.CreateTransferRequest
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transfer, err := h.Service.UpdateTransfer(r.Context(), id, &body.CreateTransferRequest, body.Status)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfer)
}

func (h *WarehouseHandler) DeleteTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	if err := h.Service.DeleteTransfer(r.Context(), id); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "transfer request deleted"})
}
