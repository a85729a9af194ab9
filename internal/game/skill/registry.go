package skill

import "fmt"

// Entry is one row of a skill listing.
type Entry struct {
	ID    string
	Label string
}

// Registry holds skill definitions in insertion order.
// It is populated once at startup and read-only afterwards.
type Registry struct {
	skills map[string]*Def
	order  []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{skills: make(map[string]*Def)}
}

// Register adds d to the registry.
//
// Precondition: d must not be nil.
// Postcondition: Skill(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) Register(d *Def) error {
	if _, exists := r.skills[d.ID]; exists {
		return fmt.Errorf("skill: Registry.Register: skill ID %q already registered", d.ID)
	}
	r.skills[d.ID] = d
	r.order = append(r.order, d.ID)
	return nil
}

// Skill returns the Def for id and whether it was found.
func (r *Registry) Skill(id string) (*Def, bool) {
	d, ok := r.skills[id]
	return d, ok
}

// All returns every Def in insertion order.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.skills[id])
	}
	return out
}

// SkillsOfType lists every skill of type t whose MinLevel does not exceed
// maxLevel, in insertion order.
//
// Postcondition: every entry's Label is "<name> (Lvl <minLevel>)"; result is
// empty (never nil) when nothing qualifies.
func (r *Registry) SkillsOfType(t Type, maxLevel int) []Entry {
	out := []Entry{}
	for _, id := range r.order {
		d := r.skills[id]
		if d.Type != t || d.MinLevel > maxLevel {
			continue
		}
		out = append(out, Entry{ID: d.ID, Label: d.Label()})
	}
	return out
}
