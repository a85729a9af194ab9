package character

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

// ItemLookup resolves equipment item definitions by ID.
type ItemLookup interface {
	Item(id string) (*inventory.ItemDef, bool)
}

// CapLookup resolves the ceiling registered for a stat.
type CapLookup interface {
	Cap(stat Stat) (int, bool)
}

// StatCatalog is the read-only content the stat resolver consults.
type StatCatalog interface {
	ItemLookup
	CapLookup
}

// EffectiveStat computes base + equipment bonuses for stat, clamped to the stat's cap.
//
// A missing base value counts as 0, an item that does not grant the stat
// contributes 0, and a stat with no registered cap is unbounded. Equipment
// slots naming an unknown item contribute nothing.
//
// Precondition: c and cat are non-nil.
// Postcondition: result <= cap whenever a cap is registered for stat.
func EffectiveStat(c *Character, stat Stat, cat StatCatalog) int {
	total := c.BaseStats[stat]
	for _, slot := range inventory.Slots {
		id := c.Equipment[slot]
		if id == "" {
			continue
		}
		if def, ok := cat.Item(id); ok {
			total += def.Bonus(string(stat))
		}
	}
	if limit, ok := cat.Cap(stat); ok && total > limit {
		total = limit
	}
	return total
}

// StatCaps maps each capped stat to its ceiling.
type StatCaps map[Stat]int

// Cap returns the ceiling for stat and whether one is registered.
func (s StatCaps) Cap(stat Stat) (int, bool) {
	v, ok := s[stat]
	return v, ok
}

// LoadStatCaps reads a YAML mapping of stat name to ceiling from path.
//
// Precondition: path names a readable YAML file.
// Postcondition: returns the caps or a non-nil error; negative caps are rejected.
func LoadStatCaps(path string) (StatCaps, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadStatCaps: cannot read %q: %w", path, err)
	}
	var raw map[string]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("LoadStatCaps: cannot parse %q: %w", path, err)
	}
	caps := make(StatCaps, len(raw))
	for name, v := range raw {
		if v < 0 {
			return nil, fmt.Errorf("LoadStatCaps: cap for %q must be >= 0, got %d", name, v)
		}
		caps[Stat(name)] = v
	}
	return caps, nil
}
