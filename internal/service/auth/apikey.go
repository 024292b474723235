package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// KeyVerifier defines the interface for checking a presented API key
// against the configured credential.
type KeyVerifier interface {
	// Verify compares the plaintext key with the stored hash.
	// Returns nil on success, or ErrInvalidAPIKey on mismatch.
	Verify(key string) error
}

// BcryptKeyVerifier implements KeyVerifier using a bcrypt hash of the
// server's single API key.
type BcryptKeyVerifier struct {
	hash []byte
}

// NewBcryptKeyVerifier creates a new BcryptKeyVerifier from the configured
// bcrypt hash.
func NewBcryptKeyVerifier(hash string) (*BcryptKeyVerifier, error) {
	if hash == "" {
		return nil, errors.New("API key hash cannot be empty")
	}
	// Fail fast on a malformed hash instead of rejecting every login.
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, err
	}
	return &BcryptKeyVerifier{hash: []byte(hash)}, nil
}

// Verify implements the KeyVerifier interface using bcrypt.
func (v *BcryptKeyVerifier) Verify(key string) error {
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(key)); err != nil {
		return ErrInvalidAPIKey
	}
	return nil
}
