package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewNote(t *testing.T) {
	note, err := NewNote("Groceries", "milk, eggs")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if note.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if note.Title != "Groceries" {
		t.Errorf("Expected title %q, got %q", "Groceries", note.Title)
	}

	if note.ReminderID != nil {
		t.Error("Expected nil reminder reference on a new note")
	}

	if note.CreatedAt.IsZero() || note.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	// Empty title
	if _, err := NewNote("", "content"); err != ErrEmptyNoteTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyNoteTitle, err)
	}

	// Empty content is fine
	if _, err := NewNote("Title only", ""); err != nil {
		t.Errorf("Expected no error for empty content, got %v", err)
	}
}

func TestNoteValidate(t *testing.T) {
	valid := Note{
		ID:    uuid.New(),
		Title: "A note",
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalid := valid
	invalid.ID = uuid.Nil
	if err := invalid.Validate(); err != ErrEmptyNoteID {
		t.Errorf("Expected error %v, got %v", ErrEmptyNoteID, err)
	}

	invalid = valid
	invalid.Title = ""
	if err := invalid.Validate(); err != ErrEmptyNoteTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyNoteTitle, err)
	}
}

func TestNoteUpdate(t *testing.T) {
	note, err := NewNote("Old title", "old content")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	originalUpdatedAt := note.UpdatedAt

	if err := note.Update("New title", "new content"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if note.Title != "New title" || note.Content != "new content" {
		t.Errorf("Update did not apply: %+v", note)
	}

	if note.UpdatedAt.Before(originalUpdatedAt) {
		t.Error("Expected UpdatedAt to advance")
	}

	if err := note.Update("", "content"); err != ErrEmptyNoteTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyNoteTitle, err)
	}
}
