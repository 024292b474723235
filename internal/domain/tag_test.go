package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewTag(t *testing.T) {
	tag, err := NewTag("  Errands  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if tag.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	// Names are normalized
	if tag.Name != "errands" {
		t.Errorf("Expected normalized name %q, got %q", "errands", tag.Name)
	}

	if _, err := NewTag("   "); err != ErrEmptyTagName {
		t.Errorf("Expected error %v, got %v", ErrEmptyTagName, err)
	}
}

func TestTagValidate(t *testing.T) {
	valid := Tag{ID: uuid.New(), Name: "work"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalid := valid
	invalid.ID = uuid.Nil
	if err := invalid.Validate(); err != ErrEmptyTagID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTagID, err)
	}

	invalid = valid
	invalid.Name = ""
	if err := invalid.Validate(); err != ErrEmptyTagName {
		t.Errorf("Expected error %v, got %v", ErrEmptyTagName, err)
	}
}
