package models

import "time"

// Inspector availability
const (
	AvailabilityAvailable = "available"
	AvailabilityBusy      = "busy"
	AvailabilityOffline   = "offline"
)

// InspectorLocation is overwritten on each device update; one row per
// inspector.
type InspectorLocation struct {
	ID            int       `json:"id"`
	InspectorID   int       `json:"inspector_id"`
	InspectorName string    `json:"inspector_name,omitempty"` // joined from users
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Availability  string    `json:"availability"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UpdateLocationRequest struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Availability string  `json:"availability"`
}
