package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("Test123!")
	require.NoError(t, err)
	h2, err := HashPassword("Test123!")
	require.NoError(t, err)

	assert.NotEmpty(t, h1)
	assert.NotEqual(t, "Test123!", h1)
	assert.NotEqual(t, h1, h2, "two hashes of the same plaintext must differ")

	assert.True(t, CheckPassword("Test123!", h1))
	assert.True(t, CheckPassword("Test123!", h2))
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	h, err := HashPassword("Test123!")
	require.NoError(t, err)

	assert.False(t, CheckPassword("wrongpassword", h))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("Test123!", ""))
	assert.False(t, CheckPassword("Test123!", "not-a-bcrypt-hash"))
}
