// Package npc provides opponent (mob) template definitions and live battle instances.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template defines a reusable opponent archetype loaded from YAML.
type Template struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	MaxHealth    int    `yaml:"max_health"`
	AttackDamage int    `yaml:"attack_damage"`
	// Image is an opaque reference handed to renderers; the engine never reads it.
	Image string `yaml:"image"`
	XP    int    `yaml:"xp"`
	Gold  int    `yaml:"gold"`
	// Taunts are lines the opponent may shout when it retaliates.
	Taunts      []string `yaml:"taunts"`
	TauntChance float64  `yaml:"taunt_chance"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHealth >= 1,
// AttackDamage, XP and Gold are >= 0 and TauntChance is within [0, 1];
// returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.MaxHealth < 1 {
		return fmt.Errorf("npc template %q: max_health must be >= 1", t.ID)
	}
	if t.AttackDamage < 0 {
		return fmt.Errorf("npc template %q: attack_damage must be >= 0", t.ID)
	}
	if t.XP < 0 || t.Gold < 0 {
		return fmt.Errorf("npc template %q: xp and gold must be >= 0", t.ID)
	}
	if t.TauntChance < 0 || t.TauntChance > 1 {
		return fmt.Errorf("npc template %q: taunt_chance must be within [0, 1], got %v", t.ID, t.TauntChance)
	}
	return nil
}

// LoadTemplateFromBytes parses a single opponent template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading mob dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// Registry indexes templates by ID in load order.
type Registry struct {
	byID  map[string]*Template
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Template)}
}

// Register adds tmpl to the registry.
//
// Postcondition: returns an error if tmpl.ID is already registered.
func (r *Registry) Register(tmpl *Template) error {
	if _, ok := r.byID[tmpl.ID]; ok {
		return fmt.Errorf("npc: template %q already registered", tmpl.ID)
	}
	r.byID[tmpl.ID] = tmpl
	r.order = append(r.order, tmpl.ID)
	return nil
}

// Template returns the template for id and whether it exists.
func (r *Registry) Template(id string) (*Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// All returns every template in registration order.
func (r *Registry) All() []*Template {
	out := make([]*Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
