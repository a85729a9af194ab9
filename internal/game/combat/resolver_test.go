package combat_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

func newSession(tmpl *npc.Template) *combat.Session {
	return &combat.Session{ID: "b1", ActorID: "actor-1", Opponent: npc.NewInstance(tmpl), Debuffs: combat.Debuffs{}}
}

func attack() combat.Action { return combat.Action{Kind: combat.ActionAttack} }

func useSkill(slot int) combat.Action { return combat.Action{Kind: combat.ActionSkill, Slot: slot} }

func TestResolve_BasicAttackExample(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(50, 100, 0)
	s := newSession(slimeTemplate(80, 10))

	turn, err := combat.Resolve(s, c, attack(), cat, fixedSource{f: 0})
	require.NoError(t, err)
	r := turn.Result
	assert.Equal(t, combat.Active, r.Outcome)
	assert.Equal(t, 50, r.DamageDealt)
	assert.Equal(t, 10, r.DamageTaken)
	assert.False(t, r.WasCritical, "crt 0 can never crit")
	assert.True(t, r.Retaliated)
	assert.Equal(t, 30, r.OpponentRemainingHealth)
	assert.Equal(t, 90, r.CharacterRemainingHealth)

	turn, err = combat.Resolve(turn.Session, turn.Character, attack(), cat, fixedSource{f: 0})
	require.NoError(t, err)
	assert.Equal(t, combat.Victory, turn.Result.Outcome)
	assert.LessOrEqual(t, turn.Result.OpponentRemainingHealth, 0)
	assert.Equal(t, 80, turn.Result.CharacterRemainingHealth)
}

func TestResolve_DoesNotMutateInputs(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(50, 100, 0)
	c.Skills[0] = "rend"
	s := newSession(slimeTemplate(300, 10))

	_, err := combat.Resolve(s, c, useSkill(0), cat, noCrit)
	require.NoError(t, err)

	assert.Equal(t, 300, s.Opponent.CurrentHealth)
	assert.Empty(t, s.Debuffs)
	assert.Equal(t, 0, s.Turn)
	assert.Equal(t, 100, c.CurrentHP)
	assert.Equal(t, 0, c.Cooldowns[0])
}

func TestResolve_EquipmentAddsDamage(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(50, 100, 0)
	c.Equipment[inventory.SlotWeapon] = "blade"
	s := newSession(slimeTemplate(300, 10))

	turn, err := combat.Resolve(s, c, attack(), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, 60, turn.Result.DamageDealt)
}

func TestResolve_CriticalHitTriplesDamage(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(50, 100, 20) // 10% crit chance
	s := newSession(slimeTemplate(300, 10))

	turn, err := combat.Resolve(s, c, attack(), cat, fixedSource{f: 0.05})
	require.NoError(t, err)
	assert.True(t, turn.Result.WasCritical)
	assert.Equal(t, 150, turn.Result.DamageDealt)

	turn, err = combat.Resolve(s, c, attack(), cat, fixedSource{f: 0.10})
	require.NoError(t, err)
	assert.False(t, turn.Result.WasCritical, "a roll equal to the chance is not a crit")
	assert.Equal(t, 50, turn.Result.DamageDealt)
}

func TestResolve_CritCappedAtCertainty(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(10, 100, 500) // capped at 100 -> 50%
	s := newSession(slimeTemplate(300, 10))

	turn, err := combat.Resolve(s, c, attack(), cat, fixedSource{f: 0.49})
	require.NoError(t, err)
	assert.True(t, turn.Result.WasCritical)

	turn, err = combat.Resolve(s, c, attack(), cat, fixedSource{f: 0.5})
	require.NoError(t, err)
	assert.False(t, turn.Result.WasCritical)
}

func TestResolve_SkillWithDebuffExample(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(50, 100, 0)
	c.Skills[0] = "rend"
	s := newSession(slimeTemplate(300, 10))

	turn, err := combat.Resolve(s, c, useSkill(0), cat, noCrit)
	require.NoError(t, err)
	r := turn.Result
	assert.Equal(t, combat.Active, r.Outcome)
	assert.Equal(t, 100, r.DamageDealt)
	assert.Equal(t, 0, r.DamageTaken)
	assert.False(t, r.Retaliated)
	require.NotNil(t, r.DebuffApplied)
	assert.Equal(t, combat.Debuff{Percent: 15, RemainingTurns: 2}, *r.DebuffApplied)
	assert.Equal(t, "rend", r.SkillID)
	assert.Equal(t, combat.Debuffs{{Percent: 15, RemainingTurns: 1}}, turn.Session.Debuffs)
	assert.Equal(t, 2, turn.Character.Cooldowns[0], "cooldown 3 ticks once at end of turn")

	turn, err = combat.Resolve(turn.Session, turn.Character, attack(), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, 57, turn.Result.DamageDealt, "floor(50 * 1.15)")
	assert.Empty(t, turn.Session.Debuffs)
	assert.Equal(t, 1, turn.Character.Cooldowns[0])
}

func TestResolve_DebuffRaisesDamageByExactPercent(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(50, 100, 0)
	s := newSession(slimeTemplate(500, 1))
	s.Debuffs = combat.Debuffs{{Percent: 20, RemainingTurns: 1}}

	turn, err := combat.Resolve(s, c, attack(), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, 60, turn.Result.DamageDealt)
	assert.Empty(t, turn.Session.Debuffs, "a one-turn debuff is gone after one turn")
}

func TestResolve_DebuffPercentIsExactAfterFloor(t *testing.T) {
	cat := newFakeCatalog()
	for _, tc := range []struct {
		atk, want int
	}{
		{100, 115},
		{180, 207},
		{200, 230},
		{7, 8},
	} {
		c := newCharacter(tc.atk, 100, 0)
		s := newSession(slimeTemplate(5000, 1))
		s.Debuffs = combat.Debuffs{{Percent: 15, RemainingTurns: 1}}

		turn, err := combat.Resolve(s, c, attack(), cat, noCrit)
		require.NoError(t, err)
		assert.Equal(t, tc.want, turn.Result.DamageDealt, "attack %d", tc.atk)
	}
}

func TestProperty_DebuffedAttackIsFlooredIntegerPercent(t *testing.T) {
	cat := newFakeCatalog()
	rapid.Check(t, func(rt *rapid.T) {
		atk := rapid.IntRange(0, 1000).Draw(rt, "atk")
		pct := rapid.IntRange(1, 300).Draw(rt, "pct")
		c := newCharacter(atk, 100, 0)
		s := newSession(slimeTemplate(1_000_000, 1))
		s.Debuffs = combat.Debuffs{{Percent: pct, RemainingTurns: 1}}

		turn, err := combat.Resolve(s, c, attack(), cat, noCrit)
		if err != nil {
			rt.Fatal(err)
		}
		if want := atk * (100 + pct) / 100; turn.Result.DamageDealt != want {
			rt.Fatalf("attack %d with %d%%: got %d, want %d", atk, pct, turn.Result.DamageDealt, want)
		}
	})
}

func TestResolve_SkillDamageWithDebuffIsExact(t *testing.T) {
	cat := newFakeCatalog()
	for _, tc := range []struct {
		slotSkill string
		atk, want int
	}{
		{"rend", 100, 230},    // 100 * 2 * 1.15
		{"cyclone", 100, 172}, // floor(100 * 1.5 * 1.15) = floor(172.5)
		{"cyclone", 180, 310}, // floor(180 * 1.5 * 1.15) = floor(310.5)
	} {
		c := newCharacter(tc.atk, 100, 0)
		c.Skills[0] = tc.slotSkill
		s := newSession(slimeTemplate(5000, 1))
		s.Debuffs = combat.Debuffs{{Percent: 15, RemainingTurns: 1}}

		turn, err := combat.Resolve(s, c, useSkill(0), cat, noCrit)
		require.NoError(t, err)
		assert.Equal(t, tc.want, turn.Result.DamageDealt, "%s at attack %d", tc.slotSkill, tc.atk)
	}
}

func TestResolve_ZeroMultiplierSkillOnlyDebuffs(t *testing.T) {
	cat := newFakeCatalog()
	cat.skills["jeer"] = &skill.Def{ID: "jeer", Name: "Jeer", Type: skill.TypeSupport, MinLevel: 1,
		DamageMultiplier: skill.Ratio(0), DefenseDebuffPercent: 25, DebuffDurationTurns: 2}
	c := newCharacter(80, 100, 0)
	c.Skills[0] = "jeer"
	s := newSession(slimeTemplate(100, 1))

	turn, err := combat.Resolve(s, c, useSkill(0), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, 0, turn.Result.DamageDealt)
	assert.Equal(t, 100, turn.Session.Opponent.CurrentHealth)
	require.NotNil(t, turn.Result.DebuffApplied)

	turn, err = combat.Resolve(turn.Session, turn.Character, attack(), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, 100, turn.Result.DamageDealt, "80 raised by 25%")
}

func TestResolve_DebuffsStackAdditively(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(100, 100, 0)
	s := newSession(slimeTemplate(1000, 1))
	s.Debuffs = combat.Debuffs{{Percent: 15, RemainingTurns: 3}, {Percent: 25, RemainingTurns: 2}}

	turn, err := combat.Resolve(s, c, attack(), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, 140, turn.Result.DamageDealt)
}

func TestResolve_SkillRetaliationWhenTakesOpponentTurn(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(50, 100, 0)
	c.Skills[0] = "lunge"
	s := newSession(slimeTemplate(300, 25))

	turn, err := combat.Resolve(s, c, useSkill(0), cat, noCrit)
	require.NoError(t, err)
	assert.True(t, turn.Result.Retaliated)
	assert.Equal(t, 25, turn.Result.DamageTaken)
	assert.Equal(t, 75, turn.Result.CharacterRemainingHealth)
	assert.Equal(t, 0, turn.Character.Cooldowns[0], "cooldown 1 is ready again after the same turn's tick")
}

func TestResolve_SkillVictorySkipsRetaliation(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(50, 5, 0)
	c.Skills[0] = "lunge"
	s := newSession(slimeTemplate(100, 50))

	turn, err := combat.Resolve(s, c, useSkill(0), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, combat.Victory, turn.Result.Outcome)
	assert.False(t, turn.Result.Retaliated)
	assert.Equal(t, 5, turn.Result.CharacterRemainingHealth)
}

func TestResolve_SkillDefeatOnRetaliation(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(10, 20, 0)
	c.Skills[0] = "lunge"
	s := newSession(slimeTemplate(500, 30))

	turn, err := combat.Resolve(s, c, useSkill(0), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, combat.Defeat, turn.Result.Outcome)
	assert.Equal(t, 0, turn.Result.CharacterRemainingHealth, "stored health is clamped at zero")
}

func TestResolve_MutualLethalityFavoursCharacter(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(50, 10, 0)
	s := newSession(slimeTemplate(50, 10))

	turn, err := combat.Resolve(s, c, attack(), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, combat.Victory, turn.Result.Outcome)
	assert.Equal(t, 0, turn.Result.CharacterRemainingHealth)
}

func TestResolve_BasicAttackDefeat(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(1, 10, 0)
	s := newSession(slimeTemplate(500, 15))

	turn, err := combat.Resolve(s, c, attack(), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, combat.Defeat, turn.Result.Outcome)
	assert.Equal(t, 0, turn.Character.CurrentHP)
}

func TestResolve_SkillValidationErrors(t *testing.T) {
	cat := newFakeCatalog()

	cases := []struct {
		name  string
		setup func(c *character.Character)
		slot  int
		want  error
	}{
		{"empty slot", func(c *character.Character) {}, 0, combat.ErrEmptySlot},
		{"on cooldown", func(c *character.Character) { c.Skills[0] = "cyclone"; c.Cooldowns[0] = 1 }, 0, combat.ErrSkillNotReady},
		{"locked slot", func(c *character.Character) { c.Skills[1] = "cyclone" }, 1, combat.ErrSlotLevelLocked},
		{"locked empty slot", func(c *character.Character) {}, 2, combat.ErrSlotLevelLocked},
		{"out of range", func(c *character.Character) {}, 3, combat.ErrInvalidSlot},
		{"negative slot", func(c *character.Character) {}, -1, combat.ErrInvalidSlot},
		{"unknown skill", func(c *character.Character) { c.Skills[0] = "ghost" }, 0, skill.ErrUnknownSkill},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newCharacter(50, 100, 0)
			tc.setup(c)
			before := c.Clone()
			s := newSession(slimeTemplate(300, 10))

			_, err := combat.Resolve(s, c, useSkill(tc.slot), cat, noCrit)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Equal(t, before, c)
			assert.Equal(t, 300, s.Opponent.CurrentHealth)
		})
	}
}

func TestResolve_UnlockedSlotsByLevel(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(50, 100, 0)
	c.Level = 20
	c.Skills[1] = "cyclone"
	s := newSession(slimeTemplate(300, 10))

	turn, err := combat.Resolve(s, c, useSkill(1), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, 75, turn.Result.DamageDealt)
}

func TestResolve_CooldownCycle(t *testing.T) {
	cat := newFakeCatalog()
	c := newCharacter(10, 1000, 0)
	c.Skills[0] = "cyclone" // cooldown 2
	s := newSession(slimeTemplate(10000, 1))

	turn, err := combat.Resolve(s, c, useSkill(0), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, 1, turn.Character.Cooldowns[0])

	_, err = combat.Resolve(turn.Session, turn.Character, useSkill(0), cat, noCrit)
	assert.ErrorIs(t, err, combat.ErrSkillNotReady)

	turn, err = combat.Resolve(turn.Session, turn.Character, attack(), cat, noCrit)
	require.NoError(t, err)
	assert.Equal(t, 0, turn.Character.Cooldowns[0])

	_, err = combat.Resolve(turn.Session, turn.Character, useSkill(0), cat, noCrit)
	assert.NoError(t, err)
}

func TestResolve_UnknownAction(t *testing.T) {
	_, err := combat.Resolve(newSession(slimeTemplate(10, 1)), newCharacter(1, 1, 0), combat.Action{Kind: 99}, newFakeCatalog(), noCrit)
	assert.Error(t, err)
}

func TestProperty_ResolveKeepsInvariants(t *testing.T) {
	cat := newFakeCatalog()
	skills := []string{"", "cyclone", "rend", "lunge", "expose"}
	rapid.Check(t, func(rt *rapid.T) {
		c := newCharacter(
			rapid.IntRange(0, 200).Draw(rt, "atk"),
			rapid.IntRange(1, 500).Draw(rt, "hp"),
			rapid.IntRange(0, 100).Draw(rt, "crt"),
		)
		c.Level = rapid.IntRange(1, 150).Draw(rt, "level")
		for i := range c.Skills {
			c.Skills[i] = rapid.SampledFrom(skills).Draw(rt, "skill")
		}
		s := newSession(slimeTemplate(rapid.IntRange(1, 2000).Draw(rt, "mob_hp"), rapid.IntRange(0, 60).Draw(rt, "mob_dmg")))

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			var action combat.Action
			if rapid.Bool().Draw(rt, "use_skill") {
				action = useSkill(rapid.IntRange(-1, 3).Draw(rt, "slot"))
			} else {
				action = attack()
			}
			src := fixedSource{f: rapid.Float64Range(0, 0.9999).Draw(rt, "roll")}
			beforeC, beforeHP := c.Clone(), s.Opponent.CurrentHealth

			turn, err := combat.Resolve(s, c, action, cat, src)
			if err != nil {
				assert.Equal(rt, beforeC, c)
				assert.Equal(rt, beforeHP, s.Opponent.CurrentHealth)
				continue
			}
			if turn.Character.CurrentHP < 0 {
				rt.Fatalf("character health went negative: %d", turn.Character.CurrentHP)
			}
			for slot, cd := range turn.Character.Cooldowns {
				if cd < 0 {
					rt.Fatalf("slot %d cooldown negative: %d", slot, cd)
				}
				if turn.Character.Skills[slot] == "" && cd != 0 {
					rt.Fatalf("empty slot %d has cooldown %d", slot, cd)
				}
			}
			for _, db := range turn.Session.Debuffs {
				if db.RemainingTurns <= 0 {
					rt.Fatalf("expired debuff survived: %+v", db)
				}
			}
			if turn.Result.Outcome.IsTerminal() {
				return
			}
			s, c = turn.Session, turn.Character
		}
	})
}

func TestParseOutcomeAndActionKind(t *testing.T) {
	for _, o := range []combat.Outcome{combat.Active, combat.Victory, combat.Defeat} {
		got, err := combat.ParseOutcome(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	_, err := combat.ParseOutcome("draw")
	assert.Error(t, err)

	for _, k := range []combat.ActionKind{combat.ActionAttack, combat.ActionSkill} {
		got, err := combat.ParseActionKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err = combat.ParseActionKind("dance")
	assert.Error(t, err)
}
