package combat_test

import (
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// fakeCatalog satisfies combat.Catalog with in-memory maps.
type fakeCatalog struct {
	skills map[string]*skill.Def
	items  map[string]*inventory.ItemDef
	caps   character.StatCaps
}

func (f *fakeCatalog) Skill(id string) (*skill.Def, bool) {
	d, ok := f.skills[id]
	return d, ok
}

func (f *fakeCatalog) Item(id string) (*inventory.ItemDef, bool) {
	d, ok := f.items[id]
	return d, ok
}

func (f *fakeCatalog) Cap(stat character.Stat) (int, bool) {
	return f.caps.Cap(stat)
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		skills: map[string]*skill.Def{
			"cyclone": {ID: "cyclone", Name: "Cyclone", Type: skill.TypeAttack, MinLevel: 1, DamageMultiplier: skill.Ratio(1.5), Cooldown: 2},
			"rend": {ID: "rend", Name: "Rend", Type: skill.TypeAttack, MinLevel: 1, DamageMultiplier: skill.Ratio(2),
				Cooldown: 3, DefenseDebuffPercent: 15, DebuffDurationTurns: 2},
			"lunge": {ID: "lunge", Name: "Lunge", Type: skill.TypeAttack, MinLevel: 1, DamageMultiplier: skill.Ratio(2),
				Cooldown: 1, TakesOpponentTurn: true},
			"expose": {ID: "expose", Name: "Expose", Type: skill.TypeSupport, MinLevel: 1,
				Cooldown: 0, DefenseDebuffPercent: 20, DebuffDurationTurns: 1},
		},
		items: map[string]*inventory.ItemDef{
			"blade": {ID: "blade", Name: "Blade", Slot: inventory.SlotWeapon, Stats: map[string]int{"atk": 10}},
		},
		caps: character.StatCaps{character.StatAttack: 1000, character.StatHealth: 1100, character.StatCrit: 100},
	}
}

// fixedSource returns the same values on every draw.
type fixedSource struct {
	f float64
	n int
}

func (s fixedSource) Intn(int) int     { return s.n }
func (s fixedSource) Float64() float64 { return s.f }

// noCrit never produces a critical hit: Percent is 99.99.
var noCrit = fixedSource{f: 0.9999}

func newCharacter(atk, hp, crt int) *character.Character {
	return &character.Character{
		ActorID: "actor-1",
		Name:    "Hero",
		Level:   1,
		BaseStats: map[character.Stat]int{
			character.StatAttack: atk,
			character.StatHealth: hp,
			character.StatCrit:   crt,
		},
		Equipment: map[inventory.Slot]string{},
		CurrentHP: hp,
	}
}

func slimeTemplate(hp, dmg int) *npc.Template {
	return &npc.Template{ID: "slime", Name: "Green Slime", MaxHealth: hp, AttackDamage: dmg, XP: 10, Gold: 3}
}
