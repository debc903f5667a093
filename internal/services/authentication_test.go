package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resilience/internal/models"
)

func TestAuthenticationRoundTrip(t *testing.T) {
	authentication, err := NewAuthentication("test-secret")
	require.NoError(t, err)

	profile := &models.Profile{ID: "p-1", Email: "mira@example.org", Username: "mira"}
	token, err := authentication.CreateToken(profile)
	require.NoError(t, err)

	auth, err := authentication.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "p-1", auth.ID)
	assert.Equal(t, "mira@example.org", auth.Email)
	assert.Equal(t, "mira", auth.Username)
}

func TestAuthenticationRejectsForgedToken(t *testing.T) {
	authentication, err := NewAuthentication("test-secret")
	require.NoError(t, err)

	other, err := NewAuthentication("other-secret")
	require.NoError(t, err)

	profile := &models.Profile{ID: "p-2", Email: "sam@example.org", Username: "sam"}
	token, err := other.CreateToken(profile)
	require.NoError(t, err)

	_, err = authentication.Validate(token)
	assert.Error(t, err)

	_, err = authentication.Validate("not-a-token")
	assert.Error(t, err)
}
