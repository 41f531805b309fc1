package models

import "time"

// User is the stored account record. Password holds the bcrypt hash; it is
// written to the store but must never leave the service, so user-facing code
// goes through Sanitized.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Password     string     `json:"password,omitempty"`
	Name         string     `json:"name"`
	Age          int        `json:"age"`
	ProfileImage string     `json:"profileImage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// Sanitized returns a copy of the user with the password hash stripped.
func (u *User) Sanitized() *User {
	clean := *u
	clean.Password = ""
	return &clean
}

// ProfileUpdate lists the only user fields a profile edit may change.
// Email is immutable through this path.
type ProfileUpdate struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Age          *int    `json:"age,omitempty" validate:"omitempty,gte=0"`
	ProfileImage *string `json:"profileImage,omitempty"`
}
