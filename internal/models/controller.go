package models

import "time"

// Controller is a named inspector who can be assigned to shifts. Shifts keep
// a denormalized name snapshot, so hard-deleting a controller never touches
// historical shift records.
type Controller struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// AddControllerRequest represents the request body for adding a controller
type AddControllerRequest struct {
	Name string `json:"name"`
}
