package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"desynflow-backend/internal/services"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

func (h *ReportHandler) ReceiptPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid receipt id")
		return
	}

	pdf, err := h.Service.ReceiptPDF(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%d.pdf", id))
	w.Write(pdf)
}

func (h *ReportHandler) FinanceXLSX(w http.ResponseWriter, r *http.Request) {
	xlsx, err := h.Service.FinanceXLSX(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	filename := fmt.Sprintf("payments-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(xlsx)
}
