package api

import (
	"time"

	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/google/uuid"
)

// LoginRequest is the request body for the login endpoint. The server has a
// single API key; a successful login establishes a new client session.
type LoginRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

// RefreshTokenRequest is the request body for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is the response for successful login and refresh requests.
type AuthResponse struct {
	ClientID     uuid.UUID `json:"client_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Content string `json:"content"`
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Content string `json:"content"`
}

// NoteResponse is the response representation of a note. ReminderID points
// at the most recently created reminder and may reference a retired one;
// consult the reminder endpoint for the active state.
type NoteResponse struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	ReminderID *uuid.UUID `json:"reminder_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CreateTimeReminderRequest is the request body for creating a time reminder.
type CreateTimeReminderRequest struct {
	TriggerTime time.Time `json:"trigger_time" validate:"required"`
}

// CreateLocationReminderRequest is the request body for creating a location reminder.
type CreateLocationReminderRequest struct {
	Latitude     float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude    float64 `json:"longitude" validate:"min=-180,max=180"`
	RadiusMeters float64 `json:"radius_meters" validate:"required,gt=0"`
}

// RegionResponse is the geofence portion of a location reminder.
type RegionResponse struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

// ReminderResponse is the response representation of a reminder.
// RegistrationPending is true when the record was persisted but the trigger
// registration failed; cancelling or recreating the reminder resolves it.
type ReminderResponse struct {
	ID                  uuid.UUID       `json:"id"`
	NoteID              uuid.UUID       `json:"note_id"`
	Kind                string          `json:"kind"`
	TriggerTime         *time.Time      `json:"trigger_time,omitempty"`
	Region              *RegionResponse `json:"region,omitempty"`
	Active              bool            `json:"active"`
	RetiredAt           *time.Time      `json:"retired_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	RegistrationPending bool            `json:"registration_pending,omitempty"`
}

// LocationUpdateRequest is the request body for device location fixes.
type LocationUpdateRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// TagRequest is the request body for attaching a tag to a note.
type TagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

// TagResponse is the response representation of a tag.
type TagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// noteToResponse converts a domain.Note to a NoteResponse.
func noteToResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:         note.ID,
		Title:      note.Title,
		Content:    note.Content,
		ReminderID: note.ReminderID,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}
}

// reminderToResponse converts a domain.Reminder to a ReminderResponse.
func reminderToResponse(reminder *domain.Reminder, registrationPending bool) ReminderResponse {
	resp := ReminderResponse{
		ID:                  reminder.ID,
		NoteID:              reminder.NoteID,
		Kind:                string(reminder.Kind),
		TriggerTime:         reminder.TriggerTime,
		Active:              reminder.Active,
		RetiredAt:           reminder.RetiredAt,
		CreatedAt:           reminder.CreatedAt,
		UpdatedAt:           reminder.UpdatedAt,
		RegistrationPending: registrationPending,
	}
	if reminder.Region != nil {
		resp.Region = &RegionResponse{
			Latitude:     reminder.Region.Latitude,
			Longitude:    reminder.Region.Longitude,
			RadiusMeters: reminder.Region.RadiusMeters,
		}
	}
	return resp
}

// tagToResponse converts a domain.Tag to a TagResponse.
func tagToResponse(tag *domain.Tag) TagResponse {
	return TagResponse{
		ID:   tag.ID,
		Name: tag.Name,
	}
}
