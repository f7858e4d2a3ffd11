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

type PaymentHandler struct {
	Service *services.PaymentReceiptService
}

func NewPaymentHandler(s *services.PaymentReceiptService) *PaymentHandler {
	return &PaymentHandler{Service: s}
}

// GenerateLink creates a receipt for an inspected request and returns
// the single-use upload URL the client receives.
func (h *PaymentHandler) GenerateLink(w http.ResponseWriter, r *http.Request) {
	var req models.GeneratePaymentLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.GenerateLink(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Upload accepts the proof-of-payment file against a single-use token.
// The route is public; the token is the credential.
func (h *PaymentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	receipt, err := h.Service.Upload(r.Context(), token, file, header)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid receipt id")
		return
	}

	var req models.VerifyReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.Service.Verify(r.Context(), id, &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *PaymentHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid receipt id")
		return
	}

	receipt, err := h.Service.Get(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *PaymentHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.Service.List(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

// ListMine serves a client their own receipts.
func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	receipts, err := h.Service.ListForClient(r.Context(), clientID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

func (h *PaymentHandler) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid receipt id")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "receipt deleted"})
}
