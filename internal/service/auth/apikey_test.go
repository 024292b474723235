package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptKeyVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-api-key"), bcrypt.MinCost)
	require.NoError(t, err)

	verifier, err := NewBcryptKeyVerifier(string(hash))
	require.NoError(t, err)

	assert.NoError(t, verifier.Verify("correct-api-key"))
	assert.ErrorIs(t, verifier.Verify("wrong-api-key"), ErrInvalidAPIKey)
	assert.ErrorIs(t, verifier.Verify(""), ErrInvalidAPIKey)
}

func TestNewBcryptKeyVerifierInvalidHash(t *testing.T) {
	_, err := NewBcryptKeyVerifier("")
	assert.Error(t, err)

	_, err = NewBcryptKeyVerifier("not-a-bcrypt-hash")
	assert.Error(t, err)
}
