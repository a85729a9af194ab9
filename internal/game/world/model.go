// Package world provides the battle zone model: which opponents can be fought where.
package world

import (
	"errors"
	"fmt"
)

// ErrUnknownZone is returned when a zone ID is not loaded.
var ErrUnknownZone = errors.New("unknown zone")

// ErrNoBoss is returned when a boss fight is requested in a zone without one.
var ErrNoBoss = errors.New("zone has no boss")

// Zone is a battle area: a pool of regular opponents and an optional boss.
type Zone struct {
	// ID uniquely identifies the zone.
	ID string
	// Name is the display name.
	Name string
	// Description is shown in zone listings.
	Description string
	// MinLevel is the character level required to fight in the zone.
	MinLevel int
	// Mobs lists the opponent template IDs drawn uniformly for a regular fight.
	Mobs []string
	// Boss is the opponent template ID for a boss fight; empty means none.
	Boss string
	// ScriptDir is the directory of Lua battle hooks for this zone; empty means none.
	ScriptDir string
	// ScriptInstructionLimit caps Lua instructions per hook call; 0 uses the default.
	ScriptInstructionLimit int
}

// Validate checks zone invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, MinLevel >= 0,
// at least one mob is listed and no mob ID is empty.
func (z *Zone) Validate() error {
	if z.ID == "" {
		return fmt.Errorf("zone ID must not be empty")
	}
	if z.Name == "" {
		return fmt.Errorf("zone %q: name must not be empty", z.ID)
	}
	if z.MinLevel < 0 {
		return fmt.Errorf("zone %q: min_level must be >= 0", z.ID)
	}
	if len(z.Mobs) == 0 {
		return fmt.Errorf("zone %q: must list at least one mob", z.ID)
	}
	for i, id := range z.Mobs {
		if id == "" {
			return fmt.Errorf("zone %q: mob %d has empty ID", z.ID, i)
		}
	}
	return nil
}

// HasBoss reports whether the zone defines a boss.
func (z *Zone) HasBoss() bool {
	return z.Boss != ""
}

// MobIDs returns every opponent template ID the zone references, boss last.
func (z *Zone) MobIDs() []string {
	out := make([]string, 0, len(z.Mobs)+1)
	out = append(out, z.Mobs...)
	if z.HasBoss() {
		out = append(out, z.Boss)
	}
	return out
}
