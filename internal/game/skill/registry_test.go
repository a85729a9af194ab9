package skill_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

func newRegistry(t testing.TB) *skill.Registry {
	t.Helper()
	r := skill.NewRegistry()
	for _, d := range []*skill.Def{
		{ID: "cyclone", Name: "Cyclone", Type: skill.TypeAttack, MinLevel: 1},
		{ID: "expose", Name: "Expose", Type: skill.TypeSupport, MinLevel: 5, DefenseDebuffPercent: 15, DebuffDurationTurns: 2},
		{ID: "meteor", Name: "Meteor", Type: skill.TypeAttack, MinLevel: 30},
		{ID: "slash", Name: "Slash", Type: skill.TypeAttack, MinLevel: 3},
	} {
		require.NoError(t, r.Register(d))
	}
	return r
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := newRegistry(t)
	err := r.Register(&skill.Def{ID: "cyclone", Name: "Again", Type: skill.TypeAttack})
	assert.Error(t, err)
}

func TestSkillsOfType_FiltersAndPreservesOrder(t *testing.T) {
	r := newRegistry(t)

	got := r.SkillsOfType(skill.TypeAttack, 10)
	assert.Equal(t, []skill.Entry{
		{ID: "cyclone", Label: "Cyclone (Lvl 1)"},
		{ID: "slash", Label: "Slash (Lvl 3)"},
	}, got)

	assert.Equal(t, []skill.Entry{}, r.SkillsOfType(skill.TypeSupport, 4))
	assert.Len(t, r.SkillsOfType(skill.TypeSupport, 5), 1)
}

func TestCanEquipToSlot(t *testing.T) {
	cases := []struct {
		slot, level int
		want        bool
	}{
		{0, 1, true},
		{1, 19, false},
		{1, 20, true},
		{2, 119, false},
		{2, 120, true},
		{3, 500, false},
		{-1, 500, false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("slot%d_level%d", tc.slot, tc.level), func(t *testing.T) {
			assert.Equal(t, tc.want, skill.CanEquipToSlot(tc.slot, tc.level))
		})
	}
}

func TestProperty_CanEquipToSlotMonotonicInLevel(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		slot := rapid.IntRange(0, character.LoadoutSize-1).Draw(rt, "slot")
		level := rapid.IntRange(0, 500).Draw(rt, "level")
		if skill.CanEquipToSlot(slot, level) && !skill.CanEquipToSlot(slot, level+1) {
			rt.Fatalf("slot %d unlocked at level %d but locked at %d", slot, level, level+1)
		}
	})
}

func TestEquip_BindsSkill(t *testing.T) {
	r := newRegistry(t)
	c := &character.Character{Level: 20}
	c.Cooldowns[1] = 2

	d, err := r.Equip(c, 1, "expose")
	require.NoError(t, err)
	assert.Equal(t, "Expose", d.Name)
	assert.Equal(t, "expose", c.Skills[1])
	assert.Equal(t, 2, c.Cooldowns[1])
}

func TestEquip_Errors(t *testing.T) {
	r := newRegistry(t)

	c := &character.Character{Level: 10}
	_, err := r.Equip(c, 1, "cyclone")
	assert.True(t, errors.Is(err, skill.ErrSlotLevelLocked))

	_, err = r.Equip(c, 0, "meteor")
	assert.True(t, errors.Is(err, skill.ErrSkillLevelTooLow))

	_, err = r.Equip(c, 0, "nope")
	assert.True(t, errors.Is(err, skill.ErrUnknownSkill))

	_, err = r.Equip(c, 5, "cyclone")
	assert.True(t, errors.Is(err, skill.ErrInvalidSlot))

	assert.Equal(t, [character.LoadoutSize]string{}, c.Skills)
}
