package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTimeReminder(t *testing.T) {
	noteID := uuid.New()
	triggerTime := time.Now().Add(time.Hour)

	reminder, err := NewTimeReminder(noteID, triggerTime)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if reminder.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if reminder.NoteID != noteID {
		t.Errorf("Expected note ID %s, got %s", noteID, reminder.NoteID)
	}

	if reminder.Kind != ReminderKindTime {
		t.Errorf("Expected kind %s, got %s", ReminderKindTime, reminder.Kind)
	}

	if reminder.TriggerTime == nil || !reminder.TriggerTime.Equal(triggerTime) {
		t.Errorf("Expected trigger time %v, got %v", triggerTime, reminder.TriggerTime)
	}

	if reminder.Region != nil {
		t.Error("Expected nil region for a time reminder")
	}

	if !reminder.Active {
		t.Error("Expected new reminder to be active")
	}

	if reminder.RetiredAt != nil {
		t.Error("Expected nil RetiredAt for a new reminder")
	}

	// Past trigger times are accepted; scheduling decides what to do with them.
	if _, err := NewTimeReminder(noteID, time.Now().Add(-time.Hour)); err != nil {
		t.Errorf("Expected past trigger time to be accepted, got %v", err)
	}

	// Missing note ID
	if _, err := NewTimeReminder(uuid.Nil, triggerTime); err != ErrEmptyReminderNoteID {
		t.Errorf("Expected error %v, got %v", ErrEmptyReminderNoteID, err)
	}
}

func TestNewLocationReminder(t *testing.T) {
	noteID := uuid.New()

	reminder, err := NewLocationReminder(noteID, 52.52, 13.405, 100)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if reminder.Kind != ReminderKindLocation {
		t.Errorf("Expected kind %s, got %s", ReminderKindLocation, reminder.Kind)
	}

	if reminder.Region == nil {
		t.Fatal("Expected non-nil region for a location reminder")
	}

	if reminder.Region.Latitude != 52.52 || reminder.Region.Longitude != 13.405 {
		t.Errorf("Unexpected region center: %+v", reminder.Region)
	}

	if reminder.TriggerTime != nil {
		t.Error("Expected nil trigger time for a location reminder")
	}

	// Invalid coordinates
	if _, err := NewLocationReminder(noteID, 91, 0, 100); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("Expected error %v, got %v", ErrInvalidCoordinates, err)
	}

	if _, err := NewLocationReminder(noteID, 0, -181, 100); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("Expected error %v, got %v", ErrInvalidCoordinates, err)
	}

	// Invalid radius
	if _, err := NewLocationReminder(noteID, 0, 0, 0); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("Expected error %v, got %v", ErrInvalidRadius, err)
	}

	if _, err := NewLocationReminder(noteID, 0, 0, -5); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("Expected error %v, got %v", ErrInvalidRadius, err)
	}
}

func TestReminderValidate(t *testing.T) {
	now := time.Now().UTC()
	trigger := now.Add(time.Hour)

	valid := Reminder{
		ID:          uuid.New(),
		NoteID:      uuid.New(),
		Kind:        ReminderKindTime,
		TriggerTime: &trigger,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Missing trigger time
	invalid := valid
	invalid.TriggerTime = nil
	if err := invalid.Validate(); err != ErrMissingTriggerTime {
		t.Errorf("Expected error %v, got %v", ErrMissingTriggerTime, err)
	}

	// Time reminder with a region
	invalid = valid
	invalid.Region = &Region{Latitude: 0, Longitude: 0, RadiusMeters: 10}
	if err := invalid.Validate(); err != ErrInvalidReminderKind {
		t.Errorf("Expected error %v, got %v", ErrInvalidReminderKind, err)
	}

	// Unknown kind
	invalid = valid
	invalid.Kind = "weather"
	if err := invalid.Validate(); err != ErrInvalidReminderKind {
		t.Errorf("Expected error %v, got %v", ErrInvalidReminderKind, err)
	}

	// Location reminder without region
	invalid = valid
	invalid.Kind = ReminderKindLocation
	invalid.TriggerTime = nil
	if err := invalid.Validate(); err != ErrMissingRegion {
		t.Errorf("Expected error %v, got %v", ErrMissingRegion, err)
	}

	// Active reminder must not carry RetiredAt
	invalid = valid
	retired := now
	invalid.RetiredAt = &retired
	if err := invalid.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected error %v, got %v", ErrValidation, err)
	}
}

func TestReminderRetire(t *testing.T) {
	reminder, err := NewTimeReminder(uuid.New(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := reminder.Retire(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if reminder.Active {
		t.Error("Expected reminder to be inactive after retirement")
	}

	if reminder.RetiredAt == nil {
		t.Error("Expected RetiredAt to be set after retirement")
	}

	// Retiring twice must fail so duplicate fire deliveries are rejected.
	if err := reminder.Retire(); err != ErrReminderRetired {
		t.Errorf("Expected error %v, got %v", ErrReminderRetired, err)
	}
}

func TestRegionValidate(t *testing.T) {
	tests := []struct {
		name    string
		region  Region
		wantErr error
	}{
		{"valid", Region{Latitude: 48.85, Longitude: 2.35, RadiusMeters: 50}, nil},
		{"lat too high", Region{Latitude: 90.1, Longitude: 0, RadiusMeters: 50}, ErrInvalidCoordinates},
		{"lat too low", Region{Latitude: -90.1, Longitude: 0, RadiusMeters: 50}, ErrInvalidCoordinates},
		{"lng too high", Region{Latitude: 0, Longitude: 180.1, RadiusMeters: 50}, ErrInvalidCoordinates},
		{"lng too low", Region{Latitude: 0, Longitude: -180.1, RadiusMeters: 50}, ErrInvalidCoordinates},
		{"zero radius", Region{Latitude: 0, Longitude: 0, RadiusMeters: 0}, ErrInvalidRadius},
		{"negative radius", Region{Latitude: 0, Longitude: 0, RadiusMeters: -1}, ErrInvalidRadius},
		{"boundary coordinates", Region{Latitude: 90, Longitude: -180, RadiusMeters: 1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.region.Validate(); err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
