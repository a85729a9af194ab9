package gameserver

import (
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// Reward is what a victory granted.
type Reward struct {
	XP           int
	Gold         int
	LevelsGained int
	// Level is the character's level after the reward.
	Level int
}

// BattleView is the transport-neutral picture of a battle after an operation.
// Renderers need nothing else to describe what happened.
type BattleView struct {
	BattleID string
	ActorID  string
	ZoneID   string
	Boss     bool
	// Turn counts resolved turns; 0 right after StartFight.
	Turn int

	OpponentID        string
	OpponentName      string
	OpponentImage     string
	OpponentHealth    int
	OpponentMaxHealth int

	CharacterHealth    int
	CharacterMaxHealth int

	// Result is nil for StartFight and Retreat.
	Result *combat.TurnResult
	// Narration holds zone script lines, in order.
	Narration []string
	// Taunt is the opponent's taunt this turn, if any.
	Taunt string
	// Reward is set on victory.
	Reward *Reward
	// Retreated is true when the view reports a retreat.
	Retreated bool
}

// Outcome returns the battle's outcome; Active when no turn was resolved.
func (v *BattleView) Outcome() combat.Outcome {
	if v.Result == nil {
		return combat.Active
	}
	return v.Result.Outcome
}

// ZoneView describes one zone for listings.
type ZoneView struct {
	ID          string
	Name        string
	Description string
	MinLevel    int
	Mobs        []string
	BossName    string
}

// SlotView describes one loadout slot.
type SlotView struct {
	// Slot is one-based.
	Slot        int
	SkillID     string
	SkillName   string
	Cooldown    int
	UnlockLevel int
	Unlocked    bool
}

// SheetView is a character sheet with effective stats resolved.
type SheetView struct {
	ActorID    string
	Name       string
	Level      int
	Experience int
	// XPToNext is the experience needed for the next level.
	XPToNext  int
	Gold      int
	CurrentHP int
	// Stats holds effective stat values keyed by stat name.
	Stats map[string]int
	// Equipment maps slot name to item display name.
	Equipment map[string]string
	Loadout   []SlotView
	InBattle  bool
}

// EquipView confirms a loadout change.
type EquipView struct {
	// Slot is one-based.
	Slot      int
	SkillID   string
	SkillName string
	Label     string
}

// SkillList is the catalogue of skills of one type a character may equip.
type SkillList struct {
	Type    skill.Type
	Entries []skill.Entry
}
