package combat

import (
	"errors"

	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

var (
	// ErrNoActiveBattle is returned when an action is attempted without an open session.
	ErrNoActiveBattle = errors.New("you are not in a battle")
	// ErrSkillNotReady is returned when the chosen slot is still cooling down.
	ErrSkillNotReady = errors.New("that skill is not ready yet")
	// ErrEmptySlot is returned when no skill is bound to the chosen slot.
	ErrEmptySlot = errors.New("no skill equipped in that slot")

	// ErrSlotLevelLocked is returned when the chosen slot is above the character's unlocked level.
	ErrSlotLevelLocked = skill.ErrSlotLevelLocked
	// ErrInvalidSlot is returned when the chosen slot is outside the loadout.
	ErrInvalidSlot = skill.ErrInvalidSlot
	// ErrSkillLevelTooLow is returned by loadout changes for skills above the character's level.
	ErrSkillLevelTooLow = skill.ErrSkillLevelTooLow
)
