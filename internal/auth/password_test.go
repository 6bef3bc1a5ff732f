package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hashed)

	ok, err := VerifyPassword("hunter2", hashed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("not-hunter2", hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_EmptySecret(t *testing.T) {
	hashed, err := HashPassword("", bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := VerifyPassword("", hashed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("anything", hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("hunter2", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)

	// each hash carries its own salt
	assert.NotEqual(t, first, second)
}
