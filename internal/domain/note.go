package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Note
var (
	ErrEmptyNoteID    = errors.New("note ID cannot be empty")
	ErrEmptyNoteTitle = errors.New("note title cannot be empty")
)

// Note represents a single note owned by the user. ReminderID is an
// advisory back-reference to the note's current reminder; it is cleared
// on cancel/replace but intentionally kept when a reminder retires by
// firing, so it may point at an inactive reminder.
type Note struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	ReminderID *uuid.UUID `json:"reminder_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewNote creates a new Note with the given title and content.
// It generates a new UUID for the note ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewNote(title, content string) (*Note, error) {
	note := &Note{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
// Returns an error if any field fails validation.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNoteID
	}

	if n.Title == "" {
		return ErrEmptyNoteTitle
	}

	return nil
}

// Update replaces the note's title and content and bumps the UpdatedAt
// timestamp. Returns an error if the new values fail validation.
func (n *Note) Update(title, content string) error {
	if title == "" {
		return ErrEmptyNoteTitle
	}

	n.Title = title
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	return nil
}
