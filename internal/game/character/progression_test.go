package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/character"
)

func TestXPToNextLevel(t *testing.T) {
	assert.Equal(t, 25, character.XPToNextLevel(1))
	assert.Equal(t, 31, character.XPToNextLevel(2)) // 31.25
	assert.Equal(t, 39, character.XPToNextLevel(3)) // 39.0625
	assert.Equal(t, 48, character.XPToNextLevel(4)) // 48.828125
	assert.Equal(t, 25, character.XPToNextLevel(0))
}

func TestGainXP_LevelsUpAndCarriesRemainder(t *testing.T) {
	c := newSheet()
	gained := c.GainXP(60) // 25 to level 2, 31 to level 3, 4 left

	assert.Equal(t, 2, gained)
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, 4, c.Experience)
}

func TestGainXP_NonPositiveIsNoop(t *testing.T) {
	c := newSheet()
	assert.Equal(t, 0, c.GainXP(0))
	assert.Equal(t, 0, c.GainXP(-5))
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 0, c.Experience)
}

func TestProperty_GainXPLeavesExperienceBelowThreshold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newSheet()
		c.Level = rapid.IntRange(1, 30).Draw(rt, "level")
		start := c.Level
		c.GainXP(rapid.IntRange(0, 5000).Draw(rt, "xp"))

		if c.Experience >= character.XPToNextLevel(c.Level) {
			rt.Fatalf("experience %d not below threshold %d at level %d", c.Experience, character.XPToNextLevel(c.Level), c.Level)
		}
		if c.Level < start {
			rt.Fatalf("level decreased from %d to %d", start, c.Level)
		}
	})
}
