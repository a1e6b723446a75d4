package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	phc, err := HashPassword("correct horse", "pepper")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(phc, "$argon2id$v=19$"))

	ok, err := VerifyPassword("correct horse", "pepper", phc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong horse", "pepper", phc)
	require.NoError(t, err)
	assert.False(t, ok)

	// Same password, different pepper must not verify.
	ok, err = VerifyPassword("correct horse", "salt instead", phc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same input", "pepper")
	require.NoError(t, err)
	b, err := HashPassword("same input", "pepper")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh salt per hash")
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("", "pepper")
	assert.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	_, err := VerifyPassword("pw", "pepper", "$2b$10$legacybcrypt")
	assert.Error(t, err)

	_, err = VerifyPassword("pw", "pepper", "$argon2id$broken")
	assert.Error(t, err)
}
