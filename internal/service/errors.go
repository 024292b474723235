package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNoteNotFound indicates that the note does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrNoteNotFound = errors.New("note not found")

	// ErrReminderNotFound indicates that the requested reminder does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrReminderNotFound = errors.New("reminder not found")

	// ErrTagNotFound indicates that the requested tag does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrTagNotFound = errors.New("tag not found")

	// ErrTriggerRegistrationFailed indicates that the reminder record was
	// persisted but the trigger source refused the registration. The
	// reminder is left active and unregistered; a later cancel or recreate
	// resolves the inconsistency. Create operations return this alongside
	// the persisted reminder so callers can surface or retry it.
	ErrTriggerRegistrationFailed = errors.New("trigger registration failed")
)
