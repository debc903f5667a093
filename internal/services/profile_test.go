package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resilience/internal/models"
)

func TestNewStartingProfileDefaults(t *testing.T) {
	profile := newStartingProfile("ada@example.org", "hash", "Ada Lovelace", models.RoleCitizen)

	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, 0, profile.XP)
	assert.Equal(t, 1, profile.Level)
	assert.Equal(t, 100, profile.EcoCoins)
	assert.Equal(t, "ada", profile.Username)
	assert.Equal(t, "ada@example.org", profile.Email)
	assert.Equal(t, models.RoleCitizen, profile.Role)
	assert.True(t, profile.IsNew)
}

func TestUsernameFromEmail(t *testing.T) {
	assert.Equal(t, "ada", usernameFromEmail("ada@example.org"))
	assert.Equal(t, "ada", usernameFromEmail("ada"))
}
