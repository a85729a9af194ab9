// Package character defines the character sheet domain model, stat resolution and progression.
package character

import (
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

// Stat names a character statistic.
type Stat string

const (
	// StatAttack is the outgoing damage stat.
	StatAttack Stat = "atk"
	// StatHealth is the maximum health stat.
	StatHealth Stat = "hp"
	// StatCrit is the critical-hit stat; the chance to crit is half its value, in percent.
	StatCrit Stat = "crt"
)

// Stats lists every stat in display order.
var Stats = []Stat{StatAttack, StatHealth, StatCrit}

// LoadoutSize is the number of skill slots on every character sheet.
const LoadoutSize = 3

// Character represents a player character's persistent state.
//
// ActorID is the chat-platform identity that owns the sheet. Skills holds the
// skill ID bound to each loadout slot ("" when empty) and Cooldowns the turns
// remaining before that slot is usable again.
type Character struct {
	ActorID    string
	Name       string
	Level      int
	Experience int
	Gold       int

	BaseStats map[Stat]int
	Equipment map[inventory.Slot]string
	CurrentHP int

	Skills    [LoadoutSize]string
	Cooldowns [LoadoutSize]int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of c.
//
// Postcondition: mutating the returned Character never affects c.
func (c *Character) Clone() *Character {
	out := *c
	out.BaseStats = make(map[Stat]int, len(c.BaseStats))
	for k, v := range c.BaseStats {
		out.BaseStats[k] = v
	}
	out.Equipment = make(map[inventory.Slot]string, len(c.Equipment))
	for k, v := range c.Equipment {
		out.Equipment[k] = v
	}
	return &out
}

// TakeDamage subtracts amount from CurrentHP, clamping the result at zero.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHP >= 0.
func (c *Character) TakeDamage(amount int) {
	c.CurrentHP -= amount
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
}

// TickCooldowns decrements every non-zero slot cooldown by one.
//
// Postcondition: every Cooldowns entry is >= 0.
func (c *Character) TickCooldowns() {
	for i := range c.Cooldowns {
		if c.Cooldowns[i] > 0 {
			c.Cooldowns[i]--
		}
	}
}

// Normalize zeroes the cooldown of every empty loadout slot and initialises nil maps.
//
// Postcondition: Cooldowns[i] == 0 whenever Skills[i] == "".
func (c *Character) Normalize() {
	if c.BaseStats == nil {
		c.BaseStats = make(map[Stat]int)
	}
	if c.Equipment == nil {
		c.Equipment = make(map[inventory.Slot]string)
	}
	for i := range c.Skills {
		if c.Skills[i] == "" || c.Cooldowns[i] < 0 {
			c.Cooldowns[i] = 0
		}
	}
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
}
