package models

import (
	"encoding/json"
	"time"
)

// Inspection form review states
const (
	FormStatusPending   = "pending"
	FormStatusSubmitted = "submitted"
	FormStatusApproved  = "approved"
	FormStatusRejected  = "rejected"
)

type InspectionForm struct {
	ID               int             `json:"id"`
	RequestID        int             `json:"request_id"`
	InspectorID      int             `json:"inspector_id"`
	FormData         json.RawMessage `json:"form_data"`
	Status           string          `json:"status"`
	SubmittedAt      *time.Time      `json:"submitted_at,omitempty"`
	ReviewedAt       *time.Time      `json:"reviewed_at,omitempty"`
	ReviewerComments string          `json:"reviewer_comments"`
	CreatedAt        time.Time       `json:"created_at"`
}

// SubmitInspectionFormRequest carries the inspector's findings. FormData is
// free-form per property type; required keys are validated at the boundary,
// unknown extra keys are stored as-is.
type SubmitInspectionFormRequest struct {
	RequestID int             `json:"request_id"`
	FormData  json.RawMessage `json:"form_data"`
}

type ReviewInspectionFormRequest struct {
	Action   string `json:"action"` // approve or reject
	Comments string `json:"comments"`
}
