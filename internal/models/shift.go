package models

import "time"

// Shift statuses
const (
	ShiftStatusActive = "active"
	ShiftStatusClosed = "closed"
)

type Shift struct {
	ID              int       `json:"id"`
	Date            string    `json:"date"`         // calendar date, YYYY-MM-DD
	ShiftNumber     int       `json:"shift_number"` // 1 (07:00-19:00) or 2 (19:00-07:00)
	SupervisorName  string    `json:"supervisor_name"`
	ControllerNames []string  `json:"controller_names"` // denormalized name snapshot, not a relation
	StartTime       string    `json:"start_time"`       // HH:MM
	EndTime         *string   `json:"end_time"`         // HH:MM, nil until closed
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateShiftRequest represents the request body for opening a shift
type CreateShiftRequest struct {
	Date            string   `json:"date"`
	ShiftNumber     int      `json:"shift_number"`
	ControllerNames []string `json:"controller_names"`
	SupervisorName  string   `json:"supervisor_name"`
}

// ValidateShiftRequest is the body of the pre-save validation endpoint
type ValidateShiftRequest struct {
	Date            string   `json:"date"`
	ShiftNumber     int      `json:"shift_number"`
	ControllerNames []string `json:"controller_names"`
}
