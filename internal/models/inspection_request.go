package models

import "time"

// Inspection request lifecycle
const (
	RequestStatusPending   = "pending"
	RequestStatusAssigned  = "assigned"
	RequestStatusInspected = "inspected"
	RequestStatusPaid      = "paid"
	RequestStatusCompleted = "completed"
)

type InspectionRequest struct {
	ID              int        `json:"id"`
	ClientID        int        `json:"client_id"`
	PropertyAddress string     `json:"property_address"`
	PropertyCity    string     `json:"property_city"`
	PropertyType    string     `json:"property_type"`
	RequestedDate   time.Time  `json:"requested_date"`
	Amount          float64    `json:"amount"`
	PaymentDueDate  *time.Time `json:"payment_due_date,omitempty"`
	InspectorID     *int       `json:"inspector_id,omitempty"`
	InspectorName   string     `json:"inspector_name,omitempty"` // joined from users
	ClientName      string     `json:"client_name,omitempty"`    // joined from users
	Status          string     `json:"status"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CreateInspectionRequestRequest struct {
	PropertyAddress string `json:"property_address"`
	PropertyCity    string `json:"property_city"`
	PropertyType    string `json:"property_type"`
	RequestedDate   string `json:"requested_date"` // YYYY-MM-DD
}

type AssignInspectorRequest struct {
	RequestID   int `json:"request_id"`
	InspectorID int `json:"inspector_id"`
	Version     int `json:"version"`
}
