package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{1, 1},
		{99, 1},
		{100, 2},
		{101, 2},
		{199, 2},
		{200, 3},
		{999, 10},
		{1000, 11},
		{-50, 1},
	}

	for _, c := range cases {
		assert.Equal(t, c.level, LevelFor(c.xp), "xp=%d", c.xp)
	}
}

func TestPointsToNextLevel(t *testing.T) {
	cases := []struct {
		xp     int
		points int
	}{
		{0, 100},
		{1, 99},
		{99, 1},
		{100, 100},
		{150, 50},
		{200, 100},
		{999, 1},
	}

	for _, c := range cases {
		assert.Equal(t, c.points, PointsToNextLevel(c.xp), "xp=%d", c.xp)
	}
}
