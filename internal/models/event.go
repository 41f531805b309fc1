package models

import "time"

// UncappedParticipants is the sentinel capacity meaning "21 people or more".
// Events carrying it are never closed, and never rejected, by the capacity
// rule.
const UncappedParticipants = 21

const (
	EventStatusOpen   = "open"
	EventStatusClosed = "closed"
)

// Event represents a postable gathering with a capacity and optional
// deadline. CreatorID is nil for anonymous events, which expire from the
// store after seven days.
type Event struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Date               string     `json:"date,omitempty"`
	Location           string     `json:"location,omitempty"`
	MaxParticipants    int        `json:"maxParticipants"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	CreatorID          *string    `json:"creatorId,omitempty"`
	IsAnonymous        bool       `json:"isAnonymous"`
	Status             string     `json:"status"`
	SelectedApplicants []string   `json:"selectedApplicants"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// CreateEventRequest is the payload for creating an event.
type CreateEventRequest struct {
	Title           string     `json:"title" binding:"required"`
	Description     string     `json:"description" binding:"required"`
	Date            string     `json:"date"`
	Location        string     `json:"location"`
	MaxParticipants int        `json:"maxParticipants" binding:"required,gte=1"`
	Deadline        *time.Time `json:"deadline"`
}

// EventPatch lists the only event fields an update may change. A nil field
// is left untouched.
type EventPatch struct {
	Title              *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	Description        *string    `json:"description,omitempty"`
	Date               *string    `json:"date,omitempty"`
	Location           *string    `json:"location,omitempty"`
	MaxParticipants    *int       `json:"maxParticipants,omitempty" validate:"omitempty,gte=1"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	Status             *string    `json:"status,omitempty" validate:"omitempty,oneof=open closed"`
	SelectedApplicants *[]string  `json:"selectedApplicants,omitempty"`
}

// DeriveStatus computes an event's effective state from the current time.
// A passed deadline closes the event; so does a full capacity, unless the
// capacity is the uncapped sentinel. It never mutates the stored status.
func DeriveStatus(e *Event, now time.Time) string {
	if e.Deadline != nil && now.After(*e.Deadline) {
		return EventStatusClosed
	}
	if e.MaxParticipants != UncappedParticipants && len(e.SelectedApplicants) >= e.MaxParticipants {
		return EventStatusClosed
	}
	if e.Status != "" {
		return e.Status
	}
	return EventStatusOpen
}
