package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewardKindPayloads(t *testing.T) {
	for _, kind := range RewardKinds() {
		payload := kind.Payload()
		assert.Greater(t, payload.XP, 0, "kind=%s", kind)
		assert.GreaterOrEqual(t, payload.Coins, 0, "kind=%s", kind)
	}

	assert.False(t, RewardKind("jaywalking").Valid())
}

func TestLevelBonusCoins(t *testing.T) {
	assert.Equal(t, 20, LevelBonusCoins(2))
	assert.Equal(t, 110, LevelBonusCoins(11))
}

func TestSessionCoins(t *testing.T) {
	assert.Equal(t, 4, SessionCoins(47))
	assert.Equal(t, 0, SessionCoins(9))
	assert.Equal(t, 0, SessionCoins(0))
	assert.Equal(t, 0, SessionCoins(-10))
	assert.Equal(t, 10, SessionCoins(100))
}
