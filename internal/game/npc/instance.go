package npc

import "github.com/cory-johannsen/skirmish/internal/game/dice"

// Instance is the live opponent in a single battle. It is a deep copy of its
// template and owned exclusively by one combat session.
type Instance struct {
	// TemplateID is the source template's ID.
	TemplateID string
	// Name is copied from the template for display.
	Name string
	// MaxHealth is the instance's maximum health.
	MaxHealth int
	// CurrentHealth is the instance's remaining health; it may go negative.
	CurrentHealth int
	// AttackDamage is the fixed damage dealt on every retaliation.
	AttackDamage int
	// ImageRef is an opaque renderer reference.
	ImageRef string
	// XP and Gold are granted to the character on victory.
	XP   int
	Gold int
	// Taunts is the list of taunt strings copied from the template.
	Taunts []string
	// TauntChance is the probability (0–1) of taunting on each retaliation.
	TauntChance float64
}

// NewInstance creates a fresh opponent from tmpl at full health.
//
// Precondition: tmpl must be non-nil.
// Postcondition: CurrentHealth equals tmpl.MaxHealth; no slice is shared with tmpl.
func NewInstance(tmpl *Template) *Instance {
	taunts := make([]string, len(tmpl.Taunts))
	copy(taunts, tmpl.Taunts)
	return &Instance{
		TemplateID:    tmpl.ID,
		Name:          tmpl.Name,
		MaxHealth:     tmpl.MaxHealth,
		CurrentHealth: tmpl.MaxHealth,
		AttackDamage:  tmpl.AttackDamage,
		ImageRef:      tmpl.Image,
		XP:            tmpl.XP,
		Gold:          tmpl.Gold,
		Taunts:        taunts,
		TauntChance:   tmpl.TauntChance,
	}
}

// TakeDamage subtracts amount from CurrentHealth.
func (i *Instance) TakeDamage(amount int) {
	i.CurrentHealth -= amount
}

// TryTaunt rolls against TauntChance and, on success, picks one taunt.
//
// Precondition: src must be non-nil.
// Postcondition: Returns (taunt, true) if a taunt fires; ("", false) otherwise.
// No randomness is consumed when the instance has no taunts.
func (i *Instance) TryTaunt(src dice.Source) (string, bool) {
	if len(i.Taunts) == 0 || i.TauntChance <= 0 {
		return "", false
	}
	if src.Float64() >= i.TauntChance {
		return "", false
	}
	return i.Taunts[src.Intn(len(i.Taunts))], true
}

// IsDead reports whether the instance has zero or fewer health points.
func (i *Instance) IsDead() bool {
	return i.CurrentHealth <= 0
}

// HealthDescription returns a visible health state string for battle output.
//
// Postcondition: Returns a non-empty string.
func (i *Instance) HealthDescription() string {
	if i.CurrentHealth <= 0 {
		return "defeated"
	}
	pct := float64(i.CurrentHealth) / float64(i.MaxHealth)
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
