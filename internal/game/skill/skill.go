// Package skill defines combat skill definitions, the ordered skill registry
// and loadout equipping rules.
package skill

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Type classifies a skill for listing purposes.
type Type string

const (
	// TypeAttack skills deal damage.
	TypeAttack Type = "attack"
	// TypeSupport skills weaken or otherwise set up the opponent.
	TypeSupport Type = "support"
)

// IsValid reports whether t is a known skill type.
func (t Type) IsValid() bool {
	return t == TypeAttack || t == TypeSupport
}

// Def defines an equippable combat skill loaded from YAML.
//
// A nil DamageMultiplier means 1; an explicit 0 makes a skill that deals no
// damage. DefenseDebuffPercent of 0 means the skill applies no debuff.
type Def struct {
	ID                   string   `yaml:"id"`
	Name                 string   `yaml:"name"`
	Description          string   `yaml:"description"`
	Type                 Type     `yaml:"type"`
	MinLevel             int      `yaml:"min_level"`
	DamageMultiplier     *float64 `yaml:"damage_multiplier"`
	Cooldown             int      `yaml:"cooldown"`
	DefenseDebuffPercent int      `yaml:"defense_debuff_percent"`
	DebuffDurationTurns  int      `yaml:"debuff_duration_turns"`
	TakesOpponentTurn    bool     `yaml:"takes_opponent_turn"`
}

// Multiplier returns the damage multiplier, defaulting to 1 when unset.
func (d *Def) Multiplier() float64 {
	if d.DamageMultiplier == nil {
		return 1
	}
	return *d.DamageMultiplier
}

// Ratio returns a DamageMultiplier value for v.
func Ratio(v float64) *float64 {
	return &v
}

// AppliesDebuff reports whether using the skill pushes a defense debuff.
func (d *Def) AppliesDebuff() bool {
	return d.DefenseDebuffPercent > 0
}

// Label returns the list display string "<name> (Lvl <minLevel>)".
func (d *Def) Label() string {
	return fmt.Sprintf("%s (Lvl %d)", d.Name, d.MinLevel)
}

// Validate checks that the Def satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !d.Type.IsValid() {
		errs = append(errs, fmt.Errorf("Type must be attack or support; got %q", d.Type))
	}
	if d.MinLevel < 0 {
		errs = append(errs, fmt.Errorf("MinLevel must be >= 0; got %d", d.MinLevel))
	}
	if d.DamageMultiplier != nil && *d.DamageMultiplier < 0 {
		errs = append(errs, fmt.Errorf("DamageMultiplier must be >= 0; got %v", *d.DamageMultiplier))
	}
	if d.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("Cooldown must be >= 0; got %d", d.Cooldown))
	}
	if d.DefenseDebuffPercent < 0 {
		errs = append(errs, fmt.Errorf("DefenseDebuffPercent must be >= 0; got %d", d.DefenseDebuffPercent))
	}
	if d.AppliesDebuff() && d.DebuffDurationTurns <= 0 {
		errs = append(errs, fmt.Errorf("DebuffDurationTurns must be > 0 when a debuff is applied; got %d", d.DebuffDurationTurns))
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill validation failed: %v", errs)
	}
	return nil
}

// LoadSkills reads all *.yaml and *.yml files from dir in file-name order.
// Each file holds a YAML sequence of skill definitions.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Defs or the first encountered error.
func LoadSkills(dir string) ([]*Def, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadSkills: cannot read directory %q: %w", dir, err)
	}

	var defs []*Def
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadSkills: cannot read file %q: %w", path, err)
		}
		var batch []*Def
		if err := yaml.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("LoadSkills: cannot parse file %q: %w", path, err)
		}
		for _, d := range batch {
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("LoadSkills: invalid skill in %q: %w", path, err)
			}
		}
		defs = append(defs, batch...)
	}
	return defs, nil
}
