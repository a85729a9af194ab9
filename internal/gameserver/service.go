// Package gameserver hosts the battle service and its gRPC transport.
package gameserver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/session"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/storage"
)

var (
	// ErrZoneLocked is returned when the character's level is below a zone's minimum.
	ErrZoneLocked = errors.New("your level is too low for that zone")
	// ErrInvalidSkillType is returned when a skill listing names an unknown type.
	ErrInvalidSkillType = errors.New("skill type must be attack or support")
	// ErrInvalidActor is returned when an operation names no actor.
	ErrInvalidActor = errors.New("actor id must not be empty")
)

// Battler is the battle API shared by the in-process Service and the remote
// GRPCClient. Slots are zero-based.
type Battler interface {
	StartFight(ctx context.Context, actor, zoneID string, boss bool) (*BattleView, error)
	Attack(ctx context.Context, actor string) (*BattleView, error)
	UseSkill(ctx context.Context, actor string, slot int) (*BattleView, error)
	Retreat(ctx context.Context, actor string) (*BattleView, error)
	EquipSkill(ctx context.Context, actor string, slot int, skillID string) (*EquipView, error)
	ListSkills(ctx context.Context, actor string, t skill.Type) (*SkillList, error)
	ListZones(ctx context.Context) ([]ZoneView, error)
	Sheet(ctx context.Context, actor string) (*SheetView, error)
}

// Narrator supplies optional flavour lines for battle events.
// *scripting.Manager implements it.
type Narrator interface {
	BattleStart(zoneID, actor, mobName string) string
	Victory(zoneID, actor, mobName string, xp, gold int) string
	Defeat(zoneID, actor, mobName string) string
}

type silentNarrator struct{}

func (silentNarrator) BattleStart(string, string, string) string       { return "" }
func (silentNarrator) Victory(string, string, string, int, int) string { return "" }
func (silentNarrator) Defeat(string, string, string) string            { return "" }

// Service orchestrates battles: it loads and persists characters, drives the
// combat engine, grants rewards and gathers narration.
//
// Calls for the same actor are serialised; different actors proceed in parallel.
type Service struct {
	cat      *catalog.Catalog
	engine   *combat.Engine
	store    storage.CharacterStore
	narrator Narrator
	src      dice.Source
	actors   *session.Manager
	logger   *zap.Logger
}

// NewService creates a Service.
//
// Precondition: cat, engine, store, src and logger must be non-nil; narrator
// may be nil (no narration).
// Postcondition: Returns a ready Service.
func NewService(
	cat *catalog.Catalog,
	engine *combat.Engine,
	store storage.CharacterStore,
	narrator Narrator,
	src dice.Source,
	logger *zap.Logger,
) *Service {
	if narrator == nil {
		narrator = silentNarrator{}
	}
	return &Service{
		cat:      cat,
		engine:   engine,
		store:    store,
		narrator: narrator,
		src:      src,
		actors:   session.NewManager(),
		logger:   logger,
	}
}

// lockActor validates actor and acquires its lock.
func (s *Service) lockActor(actor string) (func(), error) {
	if actor == "" {
		return nil, ErrInvalidActor
	}
	return s.actors.Lock(actor), nil
}

// character loads actor's sheet, creating it from the starting kit on first use.
func (s *Service) character(ctx context.Context, actor string) (*character.Character, error) {
	c, err := s.store.Load(ctx, actor)
	if err == nil {
		c.Normalize()
		return c, nil
	}
	if !errors.Is(err, storage.ErrCharacterNotFound) {
		return nil, fmt.Errorf("loading character %q: %w", actor, err)
	}
	c, err = character.Build(actor, actor, s.cat.StartingKit, s.cat)
	if err != nil {
		return nil, fmt.Errorf("building character %q: %w", actor, err)
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("saving new character %q: %w", actor, err)
	}
	s.logger.Info("character created", observability.Actor(actor))
	return c, nil
}

func (s *Service) save(ctx context.Context, c *character.Character) error {
	if err := s.store.Save(ctx, c); err != nil {
		s.logger.Error("saving character", observability.Actor(c.ActorID), zap.Error(err))
		return fmt.Errorf("saving character %q: %w", c.ActorID, err)
	}
	return nil
}

// StartFight opens a battle for actor in zoneID against a random zone mob or
// the zone boss, replacing any battle in progress. The character is healed.
//
// Postcondition: Returns world.ErrUnknownZone, world.ErrNoBoss or
// ErrZoneLocked on failure; on success the returned view has Turn 0.
func (s *Service) StartFight(ctx context.Context, actor, zoneID string, boss bool) (*BattleView, error) {
	unlock, err := s.lockActor(actor)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, err := s.character(ctx, actor)
	if err != nil {
		return nil, err
	}
	zone, err := s.cat.Zones.Lookup(zoneID)
	if err != nil {
		return nil, err
	}
	if c.Level < zone.MinLevel {
		return nil, fmt.Errorf("%w: %s requires level %d", ErrZoneLocked, zone.Name, zone.MinLevel)
	}

	var mobID string
	if boss {
		mobID, err = s.cat.Zones.Boss(zoneID)
	} else {
		mobID, err = s.cat.Zones.PickMob(zoneID, s.src)
	}
	if err != nil {
		return nil, err
	}
	tmpl, ok := s.cat.Template(mobID)
	if !ok {
		return nil, fmt.Errorf("zone %q references unknown mob %q", zoneID, mobID)
	}

	sess := s.engine.OpenSession(actor, c, tmpl, zoneID, boss)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}

	view := s.view(sess, c)
	view.OpponentHealth = sess.Opponent.CurrentHealth
	view.CharacterHealth = c.CurrentHP
	view.addNarration(s.narrator.BattleStart(zoneID, actor, tmpl.Name))
	return view, nil
}

// Attack resolves a basic attack for actor's battle.
//
// Postcondition: Returns combat.ErrNoActiveBattle when actor is not fighting.
func (s *Service) Attack(ctx context.Context, actor string) (*BattleView, error) {
	return s.turn(ctx, actor, combat.Action{Kind: combat.ActionAttack})
}

// UseSkill resolves the skill in the zero-based slot for actor's battle.
//
// Postcondition: on a validation error nothing is persisted or changed.
func (s *Service) UseSkill(ctx context.Context, actor string, slot int) (*BattleView, error) {
	return s.turn(ctx, actor, combat.Action{Kind: combat.ActionSkill, Slot: slot})
}

// turn plans the action, applies rewards, saves the character and only then
// commits the battle state. A failed save leaves the battle as it was, so the
// player can repeat the action.
func (s *Service) turn(ctx context.Context, actor string, action combat.Action) (*BattleView, error) {
	unlock, err := s.lockActor(actor)
	if err != nil {
		return nil, err
	}
	defer unlock()

	before, err := s.engine.RequireSession(actor)
	if err != nil {
		return nil, err
	}
	c, err := s.character(ctx, actor)
	if err != nil {
		return nil, err
	}
	planned, err := s.engine.Plan(actor, c, action)
	if err != nil {
		return nil, err
	}
	next := planned.Character
	result := planned.Result

	view := s.view(before, next)
	view.Turn = before.Turn + 1
	view.Result = &result
	view.OpponentHealth = result.OpponentRemainingHealth
	view.CharacterHealth = result.CharacterRemainingHealth

	opp := before.Opponent
	levels := 0
	switch result.Outcome {
	case combat.Victory:
		levels = next.GainXP(opp.XP)
		next.Gold += opp.Gold
		view.Reward = &Reward{XP: opp.XP, Gold: opp.Gold, LevelsGained: levels, Level: next.Level}
	case combat.Defeat:
	default:
		if taunt, ok := planned.Session.Opponent.TryTaunt(s.src); ok {
			view.Taunt = taunt
		}
	}

	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	if err := s.engine.Commit(actor, planned); err != nil {
		return nil, err
	}

	switch result.Outcome {
	case combat.Victory:
		view.addNarration(s.narrator.Victory(before.ZoneID, actor, opp.Name, opp.XP, opp.Gold))
		if levels > 0 {
			s.logger.Info("character levelled up", observability.Actor(actor), zap.Int("level", next.Level))
		}
	case combat.Defeat:
		view.addNarration(s.narrator.Defeat(before.ZoneID, actor, opp.Name))
	}
	return view, nil
}

// Retreat abandons actor's battle with no reward.
//
// Postcondition: Returns combat.ErrNoActiveBattle when actor is not fighting.
func (s *Service) Retreat(ctx context.Context, actor string) (*BattleView, error) {
	unlock, err := s.lockActor(actor)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.engine.RequireSession(actor)
	if err != nil {
		return nil, err
	}
	c, err := s.character(ctx, actor)
	if err != nil {
		return nil, err
	}
	s.engine.CloseSession(actor)
	s.logger.Info("battle retreat", observability.Actor(actor), zap.String("battle_id", sess.ID))

	view := s.view(sess, c)
	view.OpponentHealth = sess.Opponent.CurrentHealth
	view.CharacterHealth = c.CurrentHP
	view.Retreated = true
	return view, nil
}

// EquipSkill binds skillID to the zero-based slot of actor's loadout.
//
// Postcondition: Returns skill.ErrInvalidSlot, skill.ErrSlotLevelLocked,
// skill.ErrUnknownSkill or skill.ErrSkillLevelTooLow on failure.
func (s *Service) EquipSkill(ctx context.Context, actor string, slot int, skillID string) (*EquipView, error) {
	unlock, err := s.lockActor(actor)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, err := s.character(ctx, actor)
	if err != nil {
		return nil, err
	}
	def, err := s.cat.Skills.Equip(c, slot, skillID)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return &EquipView{Slot: slot + 1, SkillID: def.ID, SkillName: def.Name, Label: def.Label()}, nil
}

// ListSkills returns the skills of type t that actor's level allows.
//
// Postcondition: Entries is non-nil and possibly empty.
func (s *Service) ListSkills(ctx context.Context, actor string, t skill.Type) (*SkillList, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSkillType, t)
	}
	unlock, err := s.lockActor(actor)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, err := s.character(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &SkillList{Type: t, Entries: s.cat.Skills.SkillsOfType(t, c.Level)}, nil
}

// ListZones describes every zone in load order.
func (s *Service) ListZones(ctx context.Context) ([]ZoneView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	zones := s.cat.Zones.Zones()
	out := make([]ZoneView, 0, len(zones))
	for _, z := range zones {
		zv := ZoneView{ID: z.ID, Name: z.Name, Description: z.Description, MinLevel: z.MinLevel}
		for _, id := range z.Mobs {
			zv.Mobs = append(zv.Mobs, s.mobName(id))
		}
		if z.HasBoss() {
			zv.BossName = s.mobName(z.Boss)
		}
		out = append(out, zv)
	}
	return out, nil
}

// Sheet returns actor's character sheet with effective stats.
func (s *Service) Sheet(ctx context.Context, actor string) (*SheetView, error) {
	unlock, err := s.lockActor(actor)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, err := s.character(ctx, actor)
	if err != nil {
		return nil, err
	}
	sheet := &SheetView{
		ActorID:    c.ActorID,
		Name:       c.Name,
		Level:      c.Level,
		Experience: c.Experience,
		XPToNext:   character.XPToNextLevel(c.Level),
		Gold:       c.Gold,
		CurrentHP:  c.CurrentHP,
		Stats:      make(map[string]int, len(character.Stats)),
		Equipment:  make(map[string]string, len(c.Equipment)),
	}
	for _, st := range character.Stats {
		sheet.Stats[string(st)] = character.EffectiveStat(c, st, s.cat)
	}
	for _, slot := range inventory.Slots {
		id, ok := c.Equipment[slot]
		if !ok || id == "" {
			continue
		}
		name := id
		if item, ok := s.cat.Item(id); ok {
			name = item.Name
		}
		sheet.Equipment[string(slot)] = name
	}
	for i := 0; i < character.LoadoutSize; i++ {
		sv := SlotView{
			Slot:        i + 1,
			SkillID:     c.Skills[i],
			Cooldown:    c.Cooldowns[i],
			UnlockLevel: skill.SlotUnlockLevels[i],
			Unlocked:    skill.CanEquipToSlot(i, c.Level),
		}
		if def, ok := s.cat.Skill(c.Skills[i]); ok {
			sv.SkillName = def.Name
		}
		sheet.Loadout = append(sheet.Loadout, sv)
	}
	_, err = s.engine.RequireSession(actor)
	sheet.InBattle = err == nil
	return sheet, nil
}

func (s *Service) mobName(id string) string {
	if t, ok := s.cat.Template(id); ok {
		return t.Name
	}
	return id
}

// view fills the fields common to every BattleView.
func (s *Service) view(sess *combat.Session, c *character.Character) *BattleView {
	opp := sess.Opponent
	return &BattleView{
		BattleID:           sess.ID,
		ActorID:            sess.ActorID,
		ZoneID:             sess.ZoneID,
		Boss:               sess.Boss,
		Turn:               sess.Turn,
		OpponentID:         opp.TemplateID,
		OpponentName:       opp.Name,
		OpponentImage:      opp.ImageRef,
		OpponentMaxHealth:  opp.MaxHealth,
		CharacterMaxHealth: character.EffectiveStat(c, character.StatHealth, s.cat),
	}
}

func (v *BattleView) addNarration(line string) {
	if line != "" {
		v.Narration = append(v.Narration, line)
	}
}
