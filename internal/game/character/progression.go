package character

import "math"

// XPToNextLevel returns the experience needed to advance past level:
// floor(25 * 1.25^(level-1)).
//
// Precondition: level >= 1.
func XPToNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(25 * math.Pow(1.25, float64(level-1))))
}

// GainXP adds amount to the character's experience and levels up while the
// accumulated experience meets the current threshold, carrying the remainder.
//
// Precondition: amount >= 0.
// Postcondition: Experience < XPToNextLevel(Level); returns the number of levels gained.
func (c *Character) GainXP(amount int) int {
	if amount <= 0 {
		return 0
	}
	c.Experience += amount
	gained := 0
	for c.Experience >= XPToNextLevel(c.Level) {
		c.Experience -= XPToNextLevel(c.Level)
		c.Level++
		gained++
	}
	return gained
}
