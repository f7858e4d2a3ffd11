package models

import "time"

// Payment receipt lifecycle: link_generated → uploaded → verified|rejected.
// Transitions are conditional updates guarded by the current status and
// version, never blind overwrites.
const (
	ReceiptStatusLinkGenerated = "link_generated"
	ReceiptStatusUploaded      = "uploaded"
	ReceiptStatusVerified      = "verified"
	ReceiptStatusRejected      = "rejected"
)

type PaymentReceipt struct {
	ID              int        `json:"id"`
	RequestID       int        `json:"request_id"`
	ClientID        int        `json:"client_id"`
	Amount          float64    `json:"amount"`
	DueDate         time.Time  `json:"due_date"`
	FilePath        string     `json:"file_path,omitempty"`
	Status          string     `json:"status"`
	FinanceRemarks  string     `json:"finance_remarks,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	TokenUsedAt     *time.Time `json:"token_used_at,omitempty"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type GeneratePaymentLinkRequest struct {
	RequestID int     `json:"request_id"`
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"due_date"` // YYYY-MM-DD
}

type GeneratePaymentLinkResponse struct {
	Receipt     *PaymentReceipt `json:"receipt"`
	UploadToken string          `json:"upload_token"`
	UploadURL   string          `json:"upload_url"`
}

type VerifyReceiptRequest struct {
	Action          string `json:"action"` // verify or reject
	FinanceRemarks  string `json:"finance_remarks"`
	RejectionReason string `json:"rejection_reason"`
	Version         int    `json:"version"`
}
