package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	token, hashed, err := newResetToken()
	require.NoError(t, err)

	assert.Len(t, token, 40)  // 20 random bytes, hex encoded
	assert.Len(t, hashed, 64) // sha256 hex
	assert.NotEqual(t, token, hashed)

	// the stored form must be derivable from the emailed token
	assert.Equal(t, hashed, hashResetToken(token))
}

func TestResetTokensAreUnique(t *testing.T) {
	a, _, err := newResetToken()
	require.NoError(t, err)
	b, _, err := newResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
