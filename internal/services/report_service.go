package services

import (
	"bytes"
	"context"
	"fmt"

	"desynflow-backend/internal/repositories"
	"desynflow-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"
)

// ReportService renders payment receipts as PDF and the finance ledger as a
// spreadsheet.
type ReportService struct {
	Receipts *repositories.PaymentReceiptRepository
	Requests *repositories.InspectionRequestRepository
	Users    *repositories.UserRepository
}

func NewReportService(receipts *repositories.PaymentReceiptRepository, requests *repositories.InspectionRequestRepository, users *repositories.UserRepository) *ReportService {
	return &ReportService{
		Receipts: receipts,
		Requests: requests,
		Users:    users,
	}
}

// ReceiptPDF renders a verified receipt as a printable document.
func (s *ReportService) ReceiptPDF(ctx context.Context, receiptID int) ([]byte, error) {
	receipt, err := s.Receipts.Get(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	request, err := s.Requests.Get(ctx, receipt.RequestID)
	if err != nil {
		return nil, err
	}
	client, err := s.Users.Get(ctx, receipt.ClientID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "DesynFlow - Payment Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Client Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Client Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", client.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Email: %s", client.Email), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Inspection Details
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Inspection Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(30, 7, "Request #", "1", 0, "C", true, 0, "")
	pdf.CellFormat(80, 7, "Property", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "City", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Type", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	address := request.PropertyAddress
	if len(address) > 40 {
		address = address[:37] + "..."
	}
	pdf.CellFormat(30, 6, fmt.Sprintf("%d", request.ID), "1", 0, "C", false, 0, "")
	pdf.CellFormat(80, 6, address, "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, request.PropertyCity, "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, request.PropertyType, "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Payment Summary
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Payment Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Amount: Rs. %.2f", receipt.Amount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Due Date: %s", receipt.DueDate.Format("02-Jan-2006")), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Status: %s", receipt.Status), "1", 1, "C", false, 0, "")

	if receipt.Status == "verified" {
		pdf.SetFillColor(200, 255, 200)
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(190, 10, "PAYMENT VERIFIED", "1", 1, "C", true, 0, "")
	}
	if receipt.FinanceRemarks != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(190, 6, fmt.Sprintf("Remarks: %s", receipt.FinanceRemarks), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FinanceXLSX exports all payment receipts as a spreadsheet for the finance
// team.
func (s *ReportService) FinanceXLSX(ctx context.Context) ([]byte, error) {
	receipts, err := s.Receipts.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Receipts"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	f.SetCellValue(sheet, "A1", "DesynFlow - Payment Receipts")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Generated: %s", timeutil.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDDDDD"}, Pattern: 1},
	})

	headers := []string{"Receipt ID", "Request ID", "Client ID", "Amount", "Due Date", "Status", "Remarks", "Rejection Reason"}
	for col, label := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 4)
		f.SetCellValue(sheet, cell, label)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, receipt := range receipts {
		values := []interface{}{
			receipt.ID,
			receipt.RequestID,
			receipt.ClientID,
			receipt.Amount,
			receipt.DueDate.Format("2006-01-02"),
			receipt.Status,
			receipt.FinanceRemarks,
			receipt.RejectionReason,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+5)
			f.SetCellValue(sheet, cell, value)
		}
	}

	f.SetColWidth(sheet, "A", "H", 16)

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
