package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "correct horse battery"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("same input", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same input", bcrypt.MinCost)
	require.NoError(t, err)

	// Random salt: two hashes of the same input never match, yet both verify.
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "same input"))
	assert.True(t, VerifyPassword(h2, "same input"))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("not a bcrypt hash", "whatever"))
	assert.False(t, VerifyPassword("", "whatever"))
}
