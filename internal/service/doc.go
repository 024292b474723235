// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// The central piece is the reminder lifecycle core (ReminderService), which
// enforces the one-active-reminder-per-note rule, drives the two trigger
// sources, and handles asynchronous fire events. NoteService and TagService
// provide the supporting note CRUD and tagging use cases.
//
// Services receive dependencies through constructor injection, apply
// transactional boundaries via store.RunInTransaction, and translate store
// errors into service-level sentinel errors the API layer can map to HTTP
// status codes.
package service
