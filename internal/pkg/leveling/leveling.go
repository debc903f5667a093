// Package leveling holds the experience-to-level arithmetic. Every
// function is total and deterministic; negative inputs are clamped to
// zero so callers never have to special-case them.
package leveling

const pointsPerLevel = 100

// LevelFor maps cumulative experience points to a level. Zero XP is
// level 1; each full hundred points is one more level.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/pointsPerLevel + 1
}

// PointsToNextLevel reports how many points remain until the next level
// threshold. At exact multiples of 100 the answer is a full 100, never 0:
// the threshold for the *current* level has been consumed and the next
// one is a whole level away.
func PointsToNextLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return LevelFor(xp)*pointsPerLevel - xp
}
