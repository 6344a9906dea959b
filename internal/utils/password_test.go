package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("Sup3r$ecret")
	require.NoError(t, err)
	require.NotEqual(t, "Sup3r$ecret", hash)

	assert.True(t, ComparePassword("Sup3r$ecret", hash))
	assert.False(t, ComparePassword("sup3r$ecret", hash))
	assert.False(t, ComparePassword("Sup3r$ecret", "not-a-hash"))
}

func TestValidatePasswordAcceptsStrongPassword(t *testing.T) {
	assert.Empty(t, ValidatePassword("Admin@123"))
}

func TestValidatePasswordReportsEveryViolation(t *testing.T) {
	problems := ValidatePassword("abc")

	assert.Len(t, problems, 4)
	assert.Contains(t, problems, "password must be at least 8 characters long")
	assert.Contains(t, problems, "password must contain at least one uppercase letter")
	assert.Contains(t, problems, "password must contain at least one number")
	assert.Contains(t, problems, "password must contain at least one special character")
}

func TestValidatePasswordSingleViolation(t *testing.T) {
	problems := ValidatePassword("Password1")

	require.Len(t, problems, 1)
	assert.Equal(t, "password must contain at least one special character", problems[0])
}
