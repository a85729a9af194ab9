package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
	"github.com/cory-johannsen/skirmish/internal/game/world"
)

// FixedSource never crits, always taunts and always picks the first mob.
type FixedSource struct{}

// Intn always returns 0.
func (FixedSource) Intn(int) int { return 0 }

// Float64 returns a roll just below 1.
func (FixedSource) Float64() float64 { return 0.9999 }

// BattleCatalog returns a small catalog for battle tests:
//
//   - skills: cyclone (attack, x1.5, cd 2), rend (attack, x2, cd 3, 15% debuff for 2 turns),
//     meteor (attack, level 50), expose (support, 20% debuff)
//   - item sword_paper (+10 atk); caps atk 1000, hp 1100, crt 100
//   - mobs: slime (30 hp, hits 5, 30 xp, 7 gold, always taunts "Blub!"),
//     ogre (1000 hp, hits 500)
//   - zones: meadow (slime, boss ogre), peak (level 50)
//   - starting kit: level 1, 100 hp, sword_paper, cyclone in slot 1
func BattleCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.Content{
		Skills: []*skill.Def{
			{ID: "cyclone", Name: "Cyclone", Type: skill.TypeAttack, MinLevel: 1, DamageMultiplier: skill.Ratio(1.5), Cooldown: 2},
			{ID: "rend", Name: "Rending Strike", Type: skill.TypeAttack, MinLevel: 1, DamageMultiplier: skill.Ratio(2),
				Cooldown: 3, DefenseDebuffPercent: 15, DebuffDurationTurns: 2},
			{ID: "meteor", Name: "Meteor Fall", Type: skill.TypeAttack, MinLevel: 50, DamageMultiplier: skill.Ratio(5), Cooldown: 5},
			{ID: "expose", Name: "Expose Weakness", Type: skill.TypeSupport, MinLevel: 1,
				DefenseDebuffPercent: 20, DebuffDurationTurns: 2},
		},
		Items: []*inventory.ItemDef{
			{ID: "sword_paper", Name: "Paper Sword", Slot: inventory.SlotWeapon, Stats: map[string]int{"atk": 10}},
		},
		Caps: character.StatCaps{character.StatAttack: 1000, character.StatHealth: 1100, character.StatCrit: 100},
		Mobs: []*npc.Template{
			{ID: "slime", Name: "Green Slime", MaxHealth: 30, AttackDamage: 5, XP: 30, Gold: 7,
				Taunts: []string{"Blub!"}, TauntChance: 1},
			{ID: "ogre", Name: "Ogre King", MaxHealth: 1000, AttackDamage: 500, XP: 500, Gold: 100},
		},
		Zones: []*world.Zone{
			{ID: "meadow", Name: "Sunny Meadow", MinLevel: 1, Mobs: []string{"slime"}, Boss: "ogre"},
			{ID: "peak", Name: "Frozen Peak", MinLevel: 50, Mobs: []string{"slime"}},
		},
		StartingKit: &character.StartingKit{
			Level:     1,
			BaseStats: map[string]int{"atk": 0, "hp": 100, "crt": 0},
			Equipment: map[string]string{"weapon": "sword_paper"},
			Skills:    []string{"cyclone"},
		},
	})
	require.NoError(t, err)
	return cat
}
