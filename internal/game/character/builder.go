package character

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

// StartingKit describes the sheet every new character is created with.
type StartingKit struct {
	Level     int               `yaml:"level"`
	Gold      int               `yaml:"gold"`
	BaseStats map[string]int    `yaml:"base_stats"`
	Equipment map[string]string `yaml:"equipment"`
	Skills    []string          `yaml:"skills"`
}

// Validate checks the starting kit's invariants.
//
// Postcondition: returns nil iff level >= 1, gold >= 0, every equipment key is
// a valid slot and at most LoadoutSize skills are listed.
func (k *StartingKit) Validate() error {
	var errs []string
	if k.Level < 1 {
		errs = append(errs, fmt.Sprintf("level must be >= 1, got %d", k.Level))
	}
	if k.Gold < 0 {
		errs = append(errs, fmt.Sprintf("gold must be >= 0, got %d", k.Gold))
	}
	for slot := range k.Equipment {
		if !inventory.Slot(slot).IsValid() {
			errs = append(errs, fmt.Sprintf("unknown equipment slot %q", slot))
		}
	}
	if len(k.Skills) > LoadoutSize {
		errs = append(errs, fmt.Sprintf("at most %d skills allowed, got %d", LoadoutSize, len(k.Skills)))
	}
	if len(errs) > 0 {
		return fmt.Errorf("starting kit validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadStartingKit parses and validates the starting kit YAML at path.
func LoadStartingKit(path string) (*StartingKit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadStartingKit: cannot read %q: %w", path, err)
	}
	var k StartingKit
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("LoadStartingKit: cannot parse %q: %w", path, err)
	}
	if err := k.Validate(); err != nil {
		return nil, fmt.Errorf("LoadStartingKit: %w", err)
	}
	return &k, nil
}

// Build constructs a new Character for actorID from the starting kit.
// CurrentHP starts at the effective hp stat.
//
// Precondition: actorID and name must be non-empty; kit and cat must be non-nil.
// Postcondition: Returns a Character ready for persistence, or a non-nil error.
func Build(actorID, name string, kit *StartingKit, cat StatCatalog) (*Character, error) {
	if actorID == "" {
		return nil, errors.New("actor ID must not be empty")
	}
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if kit == nil {
		return nil, errors.New("starting kit must not be nil")
	}

	c := &Character{
		ActorID:   actorID,
		Name:      name,
		Level:     kit.Level,
		Gold:      kit.Gold,
		BaseStats: make(map[Stat]int, len(kit.BaseStats)),
		Equipment: make(map[inventory.Slot]string, len(kit.Equipment)),
	}
	for stat, v := range kit.BaseStats {
		c.BaseStats[Stat(stat)] = v
	}
	for slot, id := range kit.Equipment {
		c.Equipment[inventory.Slot(slot)] = id
	}
	copy(c.Skills[:], kit.Skills)
	c.CurrentHP = EffectiveStat(c, StatHealth, cat)
	return c, nil
}
