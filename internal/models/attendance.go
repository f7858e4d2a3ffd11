package models

import "time"

// Attendance states
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceOffDuty = "off_duty"
)

// Attendance is unique per (user, team, date); writes are idempotent upserts.
type Attendance struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	TeamID    int        `json:"team_id"`
	Date      time.Time  `json:"date"`
	Status    string     `json:"status"`
	CheckIn   *time.Time `json:"check_in,omitempty"`
	CheckOut  *time.Time `json:"check_out,omitempty"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type UpsertAttendanceRequest struct {
	UserID   int    `json:"user_id"`
	TeamID   int    `json:"team_id"`
	Date     string `json:"date"` // YYYY-MM-DD
	Status   string `json:"status"`
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
	Notes    string `json:"notes"`
}
