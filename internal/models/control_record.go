package models

import "time"

// ControlRecord is one inspection outcome for a single route card within a
// shift. Records are append-only: never updated in the normal flow.
type ControlRecord struct {
	ID             int       `json:"id"`
	ShiftID        int       `json:"shift_id"`
	CardNumber     string    `json:"card_number"` // 6-digit route card number
	TotalCast      int       `json:"total_cast"`
	TotalAccepted  int       `json:"total_accepted"`
	ControllerName string    `json:"controller_name"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// DefectEntry is a single (defect type, count) line item on a control record.
// Zero counts are never stored.
type DefectEntry struct {
	ID              int `json:"id"`
	ControlRecordID int `json:"control_record_id"`
	DefectTypeID    int `json:"defect_type_id"`
	Count           int `json:"count"`
}

// RecordDefect is a defect entry joined with its type and category names,
// as returned to the UI.
type RecordDefect struct {
	ID           int    `json:"id"`
	DefectName   string `json:"defect_name"`
	CategoryName string `json:"category_name"`
	Count        int    `json:"count"`
}

// CustomDefect is a free-text defect line: a name the inspector typed that
// is not yet in the catalog, filed under an existing category.
type CustomDefect struct {
	CategoryID int    `json:"category_id"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

// SaveControlRecordRequest represents the request body for saving an
// inspection result
type SaveControlRecordRequest struct {
	ShiftID        int            `json:"shift_id"`
	CardNumber     string         `json:"card_number"`
	TotalCast      int            `json:"total_cast"`
	TotalAccepted  int            `json:"total_accepted"`
	ControllerName string         `json:"controller_name"`
	Defects        map[int]int    `json:"defects"` // defect_type_id -> count
	CustomDefects  []CustomDefect `json:"custom_defects,omitempty"`
	Notes          string         `json:"notes"`
}

// ValidateControlRequest is the body of the pre-save validation and
// what-if calculation endpoints
type ValidateControlRequest struct {
	TotalCast     int         `json:"total_cast"`
	TotalAccepted int         `json:"total_accepted"`
	Defects       map[int]int `json:"defects"`
}
