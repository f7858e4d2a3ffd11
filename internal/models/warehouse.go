package models

import "time"

// DisposalMaterial is a warehouse record scheduling material disposal.
type DisposalMaterial struct {
	ID                int       `json:"id"`
	MaterialName      string    `json:"material_name"`
	Category          string    `json:"category"`
	Quantity          float64   `json:"quantity"`
	Unit              string    `json:"unit"`
	WarehouseLocation string    `json:"warehouse_location"`
	DisposalReason    string    `json:"disposal_reason"`
	ScheduledDate     time.Time `json:"scheduled_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Transfer request states (simple field, no guarded machine)
const (
	TransferStatusPending   = "pending"
	TransferStatusApproved  = "approved"
	TransferStatusCompleted = "completed"
)

// TransferRequest moves materials between warehouse locations.
type TransferRequest struct {
	ID           int       `json:"id"`
	MaterialID   int       `json:"material_id"`
	Quantity     float64   `json:"quantity"`
	FromLocation string    `json:"from_location"`
	ToLocation   string    `json:"to_location"`
	RequiredBy   time.Time `json:"required_by"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
