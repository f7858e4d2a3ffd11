package models

import "time"

// Online transaction states (Razorpay path)
const (
	TransactionCreated = "created"
	TransactionPaid    = "paid"
	TransactionFailed  = "failed"
)

type OnlineTransaction struct {
	ID                int       `json:"id"`
	ReceiptID         int       `json:"receipt_id"`
	ProviderOrderID   string    `json:"provider_order_id"`
	ProviderPaymentID string    `json:"provider_payment_id,omitempty"`
	Amount            float64   `json:"amount"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CreateOrderResponse struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
}
