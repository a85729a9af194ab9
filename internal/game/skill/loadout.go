package skill

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/character"
)

var (
	// ErrInvalidSlot is returned when a slot index falls outside the loadout.
	ErrInvalidSlot = errors.New("invalid skill slot")
	// ErrSlotLevelLocked is returned when the character's level has not unlocked the slot.
	ErrSlotLevelLocked = errors.New("skill slot is locked at your level")
	// ErrSkillLevelTooLow is returned when the character's level is below the skill's minimum.
	ErrSkillLevelTooLow = errors.New("your level is too low for that skill")
	// ErrUnknownSkill is returned when a skill ID is not in the registry.
	ErrUnknownSkill = errors.New("unknown skill")
)

// SlotUnlockLevels holds the minimum character level for each loadout slot.
var SlotUnlockLevels = [character.LoadoutSize]int{0, 20, 120}

// CanEquipToSlot reports whether a character of level may use slot.
// Slot 0 is always unlocked, slot 1 from level 20 and slot 2 from level 120.
//
// Postcondition: returns false for any slot outside [0, LoadoutSize).
func CanEquipToSlot(slot, level int) bool {
	if slot < 0 || slot >= character.LoadoutSize {
		return false
	}
	return level >= SlotUnlockLevels[slot]
}

// CheckSlot validates slot for a character of level.
//
// Postcondition: returns ErrInvalidSlot, ErrSlotLevelLocked or nil.
func CheckSlot(slot, level int) error {
	if slot < 0 || slot >= character.LoadoutSize {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot+1)
	}
	if !CanEquipToSlot(slot, level) {
		return ErrSlotLevelLocked
	}
	return nil
}

// Equip binds skillID to slot on c. The slot's cooldown is left as is, so
// re-equipping never makes a cooling slot ready early.
//
// Precondition: c is non-nil.
// Postcondition: on error c is unchanged; on success c.Skills[slot] == skillID.
// Returns the equipped Def.
func (r *Registry) Equip(c *character.Character, slot int, skillID string) (*Def, error) {
	if err := CheckSlot(slot, c.Level); err != nil {
		return nil, err
	}
	d, ok := r.Skill(skillID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSkill, skillID)
	}
	if d.MinLevel > c.Level {
		return nil, ErrSkillLevelTooLow
	}
	c.Skills[slot] = d.ID
	return d, nil
}
