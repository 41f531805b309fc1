package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "open with room left",
			event: Event{MaxParticipants: 3, SelectedApplicants: []string{"a", "b"}},
			want:  EventStatusOpen,
		},
		{
			name:  "closed at capacity",
			event: Event{MaxParticipants: 3, SelectedApplicants: []string{"a", "b", "c"}},
			want:  EventStatusClosed,
		},
		{
			name:  "closed past deadline regardless of capacity",
			event: Event{MaxParticipants: 10, SelectedApplicants: nil, Deadline: &past},
			want:  EventStatusClosed,
		},
		{
			name:  "open before deadline",
			event: Event{MaxParticipants: 10, Deadline: &future},
			want:  EventStatusOpen,
		},
		{
			name: "uncapped sentinel never closes on capacity",
			event: Event{
				MaxParticipants: UncappedParticipants,
				SelectedApplicants: []string{
					"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k",
					"l", "m", "n", "o", "p", "q", "r", "s", "t", "u", "v",
				},
			},
			want: EventStatusOpen,
		},
		{
			name:  "stored status wins when neither rule closes",
			event: Event{MaxParticipants: 5, Status: EventStatusClosed},
			want:  EventStatusClosed,
		},
		{
			name:  "defaults to open without a stored status",
			event: Event{MaxParticipants: 5},
			want:  EventStatusOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(&tt.event, now))
		})
	}
}

func TestSanitizedStripsPassword(t *testing.T) {
	user := &User{ID: "user_1", Email: "a@example.com", Password: "$2a$10$hash", Name: "A", Age: 30}
	clean := user.Sanitized()

	assert.Empty(t, clean.Password)
	assert.Equal(t, "$2a$10$hash", user.Password, "original must be untouched")
	assert.Equal(t, user.Email, clean.Email)
}
