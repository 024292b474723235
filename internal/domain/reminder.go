package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReminderKind distinguishes the trigger facility a reminder is scheduled with.
type ReminderKind string

// Possible reminder kinds
const (
	ReminderKindTime     ReminderKind = "time"
	ReminderKindLocation ReminderKind = "location"
)

// Common validation errors for Reminder
var (
	ErrEmptyReminderID     = errors.New("reminder ID cannot be empty")
	ErrEmptyReminderNoteID = errors.New("reminder note ID cannot be empty")
	ErrMissingTriggerTime  = errors.New("time reminder requires a trigger time")
	ErrMissingRegion       = errors.New("location reminder requires a region")
)

// Region is a circular geofence defined by a center coordinate and a
// radius in meters.
type Region struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

// Validate checks the region's coordinates and radius.
func (r Region) Validate() error {
	if r.Latitude < -90 || r.Latitude > 90 || r.Longitude < -180 || r.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	if r.RadiusMeters <= 0 {
		return ErrInvalidRadius
	}
	return nil
}

// Reminder is a scheduled trigger attached to exactly one note. At most one
// reminder per note is active at a time. A reminder that fires is retired
// (kept with Active=false and RetiredAt set); a reminder that is cancelled
// is deleted outright and never carries RetiredAt.
type Reminder struct {
	ID          uuid.UUID    `json:"id"`
	NoteID      uuid.UUID    `json:"note_id"`
	Kind        ReminderKind `json:"kind"`
	TriggerTime *time.Time   `json:"trigger_time,omitempty"`
	Region      *Region      `json:"region,omitempty"`
	Active      bool         `json:"active"`
	RetiredAt   *time.Time   `json:"retired_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTimeReminder creates an active time-based reminder for the given note.
// Returns an error if validation fails. TriggerTime is accepted as-is;
// past-dated instants are the scheduler's concern, not a validation error.
func NewTimeReminder(noteID uuid.UUID, triggerTime time.Time) (*Reminder, error) {
	now := time.Now().UTC()
	reminder := &Reminder{
		ID:          uuid.New(),
		NoteID:      noteID,
		Kind:        ReminderKindTime,
		TriggerTime: &triggerTime,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := reminder.Validate(); err != nil {
		return nil, err
	}

	return reminder, nil
}

// NewLocationReminder creates an active location-based reminder for the
// given note. Returns an error if validation fails.
func NewLocationReminder(noteID uuid.UUID, lat, lng, radiusMeters float64) (*Reminder, error) {
	now := time.Now().UTC()
	reminder := &Reminder{
		ID:     uuid.New(),
		NoteID: noteID,
		Kind:   ReminderKindLocation,
		Region: &Region{
			Latitude:     lat,
			Longitude:    lng,
			RadiusMeters: radiusMeters,
		},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := reminder.Validate(); err != nil {
		return nil, err
	}

	return reminder, nil
}

// Validate checks if the Reminder has valid data.
// Returns an error if any field fails validation.
func (r *Reminder) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyReminderID
	}

	if r.NoteID == uuid.Nil {
		return ErrEmptyReminderNoteID
	}

	switch r.Kind {
	case ReminderKindTime:
		if r.TriggerTime == nil {
			return ErrMissingTriggerTime
		}
		if r.Region != nil {
			return ErrInvalidReminderKind
		}
	case ReminderKindLocation:
		if r.Region == nil {
			return ErrMissingRegion
		}
		if r.TriggerTime != nil {
			return ErrInvalidReminderKind
		}
		if err := r.Region.Validate(); err != nil {
			return err
		}
	default:
		return ErrInvalidReminderKind
	}

	if r.RetiredAt != nil && r.Active {
		return ErrValidation
	}

	return nil
}

// Retire marks the reminder inactive after it fired, recording the
// retirement instant. Returns ErrReminderRetired if it is not active,
// so duplicate fire deliveries cannot retire twice.
func (r *Reminder) Retire() error {
	if !r.Active {
		return ErrReminderRetired
	}

	now := time.Now().UTC()
	r.Active = false
	r.RetiredAt = &now
	r.UpdatedAt = now
	return nil
}
