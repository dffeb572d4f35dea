package domain

import "errors"

// Sentinel errors shared by services and repositories. Controllers map them to
// HTTP statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrOrganizerNotFound  = errors.New("organizer not found")
	ErrAlreadyRegistered  = errors.New("user already registered for this event")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidRole        = errors.New("role must be organizer or participant")
)
