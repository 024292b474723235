// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidReminderKind is returned when a reminder kind is not valid.
	ErrInvalidReminderKind = errors.New("invalid reminder kind")

	// ErrInvalidCoordinates is returned when latitude or longitude is out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrInvalidRadius is returned when a geofence radius is not positive.
	ErrInvalidRadius = errors.New("invalid radius")

	// ErrReminderRetired is returned when attempting to retire a reminder twice.
	ErrReminderRetired = errors.New("reminder already retired")
)
