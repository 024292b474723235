package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Common validation errors for Tag
var (
	ErrEmptyTagID   = errors.New("tag ID cannot be empty")
	ErrEmptyTagName = errors.New("tag name cannot be empty")
)

// Tag is a user-defined label that can be attached to any number of notes.
// Tag names are stored lowercased and unique.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewTag creates a new Tag with the given name. The name is trimmed and
// lowercased before validation.
func NewTag(name string) (*Tag, error) {
	tag := &Tag{
		ID:   uuid.New(),
		Name: strings.ToLower(strings.TrimSpace(name)),
	}

	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, nil
}

// Validate checks if the Tag has valid data.
func (t *Tag) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTagID
	}

	if t.Name == "" {
		return ErrEmptyTagName
	}

	return nil
}
