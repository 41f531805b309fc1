package models

import "time"

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusSelected = "selected"
)

// Application is a user's request to join an event. EventID is a soft
// reference; deleting the event does not cascade.
type Application struct {
	ID        string     `json:"id"`
	EventID   string     `json:"eventId"`
	Name      string     `json:"name"`
	Message   string     `json:"message,omitempty"`
	Contact   string     `json:"contact"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// CreateApplicationRequest is the payload for submitting an application.
// Contact is a free-text channel identifier (LINE ID, phone, etc.).
type CreateApplicationRequest struct {
	EventID string `json:"eventId" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Message string `json:"message"`
	Contact string `json:"contact" binding:"required"`
}

// ApplicationPatch lists the only application fields an update may change.
type ApplicationPatch struct {
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=pending selected"`
	Message *string `json:"message,omitempty"`
	Contact *string `json:"contact,omitempty" validate:"omitempty,min=1"`
}
