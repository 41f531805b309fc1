package repository

import "errors"

var (
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailAlreadyExists is returned when a user with the same email already exists
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrEventNotFound is returned when an event is not found
	ErrEventNotFound = errors.New("event not found")
	// ErrApplicationNotFound is returned when an application is not found
	ErrApplicationNotFound = errors.New("application not found")
	// ErrCorruptRecord is returned when a stored record fails validation on read
	ErrCorruptRecord = errors.New("corrupt record")
)
