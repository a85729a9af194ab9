package combat

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// CritMultiplier scales basic-attack damage on a critical hit.
const CritMultiplier = 3

// Outcome is the state of a battle after a turn.
type Outcome int

const (
	// Active means the battle continues.
	Active Outcome = iota
	// Victory means the opponent was defeated.
	Victory
	// Defeat means the character was defeated.
	Defeat
)

// String returns "active", "victory" or "defeat".
func (o Outcome) String() string {
	switch o {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "active"
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "active":
		return Active, nil
	case "victory":
		return Victory, nil
	case "defeat":
		return Defeat, nil
	}
	return Active, fmt.Errorf("combat: unknown outcome %q", s)
}

// IsTerminal reports whether the battle is over.
func (o Outcome) IsTerminal() bool {
	return o == Victory || o == Defeat
}

// ActionKind identifies what the character does on a turn.
type ActionKind int

const (
	// ActionAttack is a basic attack.
	ActionAttack ActionKind = iota
	// ActionSkill uses the skill bound to Action.Slot.
	ActionSkill
)

// String returns "attack" or "skill".
func (k ActionKind) String() string {
	if k == ActionSkill {
		return "skill"
	}
	return "attack"
}

// ParseActionKind is the inverse of ActionKind.String.
func ParseActionKind(s string) (ActionKind, error) {
	switch s {
	case "attack":
		return ActionAttack, nil
	case "skill":
		return ActionSkill, nil
	}
	return ActionAttack, fmt.Errorf("combat: unknown action kind %q", s)
}

// Action is the character's choice for one turn. Slot is zero-based and only
// meaningful for ActionSkill.
type Action struct {
	Kind ActionKind
	Slot int
}

// Catalog is the content the resolver consults.
type Catalog interface {
	character.StatCatalog
	Skill(id string) (*skill.Def, bool)
}

// TurnResult reports everything a renderer needs about one resolved turn.
type TurnResult struct {
	Outcome     Outcome
	Action      ActionKind
	SkillID     string
	SkillName   string
	DamageDealt int
	DamageTaken int
	WasCritical bool
	// Retaliated is true when the opponent struck back this turn.
	Retaliated               bool
	OpponentRemainingHealth  int
	CharacterRemainingHealth int
	// DebuffApplied is the debuff pushed this turn, nil if none.
	DebuffApplied *Debuff
}

// Turn is the new battle state produced by Resolve.
type Turn struct {
	Session   *Session
	Character *character.Character
	Result    TurnResult
}

// Resolve applies action to copies of s and c and returns the resulting state.
// Neither s nor c is modified.
//
// Precondition: s, c, cat and src are non-nil; s.Opponent is non-nil.
// Postcondition: on error no state has changed; on success the returned
// character's CurrentHP is >= 0 and debuffs and cooldowns have ticked once.
func Resolve(s *Session, c *character.Character, action Action, cat Catalog, src dice.Source) (Turn, error) {
	switch action.Kind {
	case ActionAttack:
		return resolveBasicAttack(s, c, cat, src), nil
	case ActionSkill:
		return resolveSkillUse(s, c, action.Slot, cat)
	default:
		return Turn{}, fmt.Errorf("combat: unknown action kind %d", action.Kind)
	}
}

// multiplierScale is the fixed-point precision of skill damage multipliers.
const multiplierScale = 10_000

// scaledDamage returns floor(base * multiplier * (100 + debuff percent) / 100).
// The multiplier is fixed to four decimal places so the whole product is
// computed in integers.
func scaledDamage(base int, multiplier float64, debuffs Debuffs) int {
	m := int64(math.Round(multiplier * multiplierScale))
	return int(int64(base) * m * int64(100+debuffs.Percent()) / (multiplierScale * 100))
}

func resolveBasicAttack(s *Session, c *character.Character, cat Catalog, src dice.Source) Turn {
	next := s.Clone()
	nc := c.Clone()

	dmg := scaledDamage(character.EffectiveStat(nc, character.StatAttack, cat), 1, next.Debuffs)
	critChance := float64(character.EffectiveStat(nc, character.StatCrit, cat)) * 0.5
	crit := dice.Percent(src) < critChance
	if crit {
		dmg *= CritMultiplier
	}

	next.Opponent.TakeDamage(dmg)
	nc.TakeDamage(next.Opponent.AttackDamage)

	return finishTurn(next, nc, TurnResult{
		Action:      ActionAttack,
		DamageDealt: dmg,
		DamageTaken: next.Opponent.AttackDamage,
		WasCritical: crit,
		Retaliated:  true,
	})
}

func resolveSkillUse(s *Session, c *character.Character, slot int, cat Catalog) (Turn, error) {
	if err := skill.CheckSlot(slot, c.Level); err != nil {
		return Turn{}, err
	}
	id := c.Skills[slot]
	if id == "" {
		return Turn{}, ErrEmptySlot
	}
	if c.Cooldowns[slot] > 0 {
		return Turn{}, ErrSkillNotReady
	}
	def, ok := cat.Skill(id)
	if !ok {
		return Turn{}, fmt.Errorf("combat: slot %d: %w: %q", slot+1, skill.ErrUnknownSkill, id)
	}

	next := s.Clone()
	nc := c.Clone()

	dmg := scaledDamage(character.EffectiveStat(nc, character.StatAttack, cat), def.Multiplier(), next.Debuffs)
	next.Opponent.TakeDamage(dmg)
	nc.Cooldowns[slot] = def.Cooldown

	result := TurnResult{
		Action:      ActionSkill,
		SkillID:     def.ID,
		SkillName:   def.Name,
		DamageDealt: dmg,
	}
	if def.AppliesDebuff() {
		db := Debuff{Percent: def.DefenseDebuffPercent, RemainingTurns: def.DebuffDurationTurns}
		next.Debuffs = append(next.Debuffs, db)
		result.DebuffApplied = &db
	}
	if !next.Opponent.IsDead() && def.TakesOpponentTurn {
		nc.TakeDamage(next.Opponent.AttackDamage)
		result.DamageTaken = next.Opponent.AttackDamage
		result.Retaliated = true
	}
	return finishTurn(next, nc, result), nil
}

// finishTurn ticks debuffs and cooldowns once, then decides the outcome.
// The opponent is checked first so mutual lethality is a victory.
func finishTurn(s *Session, c *character.Character, result TurnResult) Turn {
	s.Debuffs = s.Debuffs.Tick()
	c.TickCooldowns()
	s.Turn++

	switch {
	case s.Opponent.IsDead():
		result.Outcome = Victory
	case c.CurrentHP <= 0:
		result.Outcome = Defeat
	default:
		result.Outcome = Active
	}
	result.OpponentRemainingHealth = s.Opponent.CurrentHealth
	result.CharacterRemainingHealth = c.CurrentHP
	return Turn{Session: s, Character: c, Result: result}
}
