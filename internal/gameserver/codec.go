package gameserver

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// The encoders below produce plain maps of JSON-compatible values. The gRPC
// transport wraps them in structpb.Struct and the HTTP bridge renders them as
// JSON, so both transports share one wire shape.

// BattleViewMap encodes v.
func BattleViewMap(v *BattleView) map[string]any {
	narration := make([]any, 0, len(v.Narration))
	for _, line := range v.Narration {
		narration = append(narration, line)
	}
	m := map[string]any{
		"battle_id": v.BattleID,
		"actor_id":  v.ActorID,
		"zone_id":   v.ZoneID,
		"boss":      v.Boss,
		"turn":      v.Turn,
		"opponent": map[string]any{
			"id":         v.OpponentID,
			"name":       v.OpponentName,
			"image":      v.OpponentImage,
			"health":     v.OpponentHealth,
			"max_health": v.OpponentMaxHealth,
		},
		"character": map[string]any{
			"health":     v.CharacterHealth,
			"max_health": v.CharacterMaxHealth,
		},
		"outcome":   v.Outcome().String(),
		"narration": narration,
		"taunt":     v.Taunt,
		"retreated": v.Retreated,
	}
	if r := v.Result; r != nil {
		result := map[string]any{
			"outcome":             r.Outcome.String(),
			"action":              r.Action.String(),
			"skill_id":            r.SkillID,
			"skill_name":          r.SkillName,
			"damage_dealt":        r.DamageDealt,
			"damage_taken":        r.DamageTaken,
			"critical":            r.WasCritical,
			"retaliated":          r.Retaliated,
			"opponent_remaining":  r.OpponentRemainingHealth,
			"character_remaining": r.CharacterRemainingHealth,
		}
		if d := r.DebuffApplied; d != nil {
			result["debuff"] = map[string]any{"percent": d.Percent, "remaining_turns": d.RemainingTurns}
		}
		m["result"] = result
	}
	if rw := v.Reward; rw != nil {
		m["reward"] = map[string]any{
			"xp":            rw.XP,
			"gold":          rw.Gold,
			"levels_gained": rw.LevelsGained,
			"level":         rw.Level,
		}
	}
	return m
}

// ZonesMap encodes a zone listing.
func ZonesMap(zones []ZoneView) map[string]any {
	list := make([]any, 0, len(zones))
	for _, z := range zones {
		mobs := make([]any, 0, len(z.Mobs))
		for _, name := range z.Mobs {
			mobs = append(mobs, name)
		}
		list = append(list, map[string]any{
			"id":          z.ID,
			"name":        z.Name,
			"description": z.Description,
			"min_level":   z.MinLevel,
			"mobs":        mobs,
			"boss_name":   z.BossName,
		})
	}
	return map[string]any{"zones": list}
}

// SheetMap encodes a character sheet.
func SheetMap(s *SheetView) map[string]any {
	stats := make(map[string]any, len(s.Stats))
	for k, v := range s.Stats {
		stats[k] = v
	}
	equipment := make(map[string]any, len(s.Equipment))
	for k, v := range s.Equipment {
		equipment[k] = v
	}
	loadout := make([]any, 0, len(s.Loadout))
	for _, sv := range s.Loadout {
		loadout = append(loadout, map[string]any{
			"slot":         sv.Slot,
			"skill_id":     sv.SkillID,
			"skill_name":   sv.SkillName,
			"cooldown":     sv.Cooldown,
			"unlock_level": sv.UnlockLevel,
			"unlocked":     sv.Unlocked,
		})
	}
	return map[string]any{
		"actor_id":   s.ActorID,
		"name":       s.Name,
		"level":      s.Level,
		"experience": s.Experience,
		"xp_to_next": s.XPToNext,
		"gold":       s.Gold,
		"current_hp": s.CurrentHP,
		"stats":      stats,
		"equipment":  equipment,
		"loadout":    loadout,
		"in_battle":  s.InBattle,
	}
}

// EquipMap encodes a loadout change.
func EquipMap(e *EquipView) map[string]any {
	return map[string]any{
		"slot":       e.Slot,
		"skill_id":   e.SkillID,
		"skill_name": e.SkillName,
		"label":      e.Label,
	}
}

// SkillListMap encodes a skill listing.
func SkillListMap(l *SkillList) map[string]any {
	entries := make([]any, 0, len(l.Entries))
	for _, e := range l.Entries {
		entries = append(entries, map[string]any{"id": e.ID, "label": e.Label})
	}
	return map[string]any{"type": string(l.Type), "skills": entries}
}

// fields is a read helper over a decoded structpb.Struct.
type fields map[string]*structpb.Value

func (f fields) str(key string) string { return f[key].GetStringValue() }
func (f fields) num(key string) int    { return int(f[key].GetNumberValue()) }
func (f fields) flag(key string) bool  { return f[key].GetBoolValue() }

func (f fields) sub(key string) fields {
	return f[key].GetStructValue().GetFields()
}

func (f fields) list(key string) []*structpb.Value {
	return f[key].GetListValue().GetValues()
}

func (f fields) has(key string) bool {
	v, ok := f[key]
	return ok && v.GetStructValue() != nil
}

func decodeBattleView(s *structpb.Struct) (*BattleView, error) {
	f := fields(s.GetFields())
	opp, char := f.sub("opponent"), f.sub("character")
	v := &BattleView{
		BattleID:           f.str("battle_id"),
		ActorID:            f.str("actor_id"),
		ZoneID:             f.str("zone_id"),
		Boss:               f.flag("boss"),
		Turn:               f.num("turn"),
		OpponentID:         opp.str("id"),
		OpponentName:       opp.str("name"),
		OpponentImage:      opp.str("image"),
		OpponentHealth:     opp.num("health"),
		OpponentMaxHealth:  opp.num("max_health"),
		CharacterHealth:    char.num("health"),
		CharacterMaxHealth: char.num("max_health"),
		Taunt:              f.str("taunt"),
		Retreated:          f.flag("retreated"),
	}
	for _, line := range f.list("narration") {
		v.Narration = append(v.Narration, line.GetStringValue())
	}
	if f.has("result") {
		r := f.sub("result")
		outcome, err := combat.ParseOutcome(r.str("outcome"))
		if err != nil {
			return nil, err
		}
		action, err := combat.ParseActionKind(r.str("action"))
		if err != nil {
			return nil, err
		}
		v.Result = &combat.TurnResult{
			Outcome:                  outcome,
			Action:                   action,
			SkillID:                  r.str("skill_id"),
			SkillName:                r.str("skill_name"),
			DamageDealt:              r.num("damage_dealt"),
			DamageTaken:              r.num("damage_taken"),
			WasCritical:              r.flag("critical"),
			Retaliated:               r.flag("retaliated"),
			OpponentRemainingHealth:  r.num("opponent_remaining"),
			CharacterRemainingHealth: r.num("character_remaining"),
		}
		if r.has("debuff") {
			d := r.sub("debuff")
			v.Result.DebuffApplied = &combat.Debuff{Percent: d.num("percent"), RemainingTurns: d.num("remaining_turns")}
		}
	}
	if f.has("reward") {
		rw := f.sub("reward")
		v.Reward = &Reward{XP: rw.num("xp"), Gold: rw.num("gold"), LevelsGained: rw.num("levels_gained"), Level: rw.num("level")}
	}
	return v, nil
}

func decodeZones(s *structpb.Struct) []ZoneView {
	f := fields(s.GetFields())
	out := make([]ZoneView, 0)
	for _, item := range f.list("zones") {
		z := fields(item.GetStructValue().GetFields())
		zv := ZoneView{
			ID:          z.str("id"),
			Name:        z.str("name"),
			Description: z.str("description"),
			MinLevel:    z.num("min_level"),
			BossName:    z.str("boss_name"),
		}
		for _, m := range z.list("mobs") {
			zv.Mobs = append(zv.Mobs, m.GetStringValue())
		}
		out = append(out, zv)
	}
	return out
}

func decodeSheet(s *structpb.Struct) *SheetView {
	f := fields(s.GetFields())
	sheet := &SheetView{
		ActorID:    f.str("actor_id"),
		Name:       f.str("name"),
		Level:      f.num("level"),
		Experience: f.num("experience"),
		XPToNext:   f.num("xp_to_next"),
		Gold:       f.num("gold"),
		CurrentHP:  f.num("current_hp"),
		Stats:      make(map[string]int),
		Equipment:  make(map[string]string),
		InBattle:   f.flag("in_battle"),
	}
	for k, v := range f.sub("stats") {
		sheet.Stats[k] = int(v.GetNumberValue())
	}
	for k, v := range f.sub("equipment") {
		sheet.Equipment[k] = v.GetStringValue()
	}
	for _, item := range f.list("loadout") {
		sv := fields(item.GetStructValue().GetFields())
		sheet.Loadout = append(sheet.Loadout, SlotView{
			Slot:        sv.num("slot"),
			SkillID:     sv.str("skill_id"),
			SkillName:   sv.str("skill_name"),
			Cooldown:    sv.num("cooldown"),
			UnlockLevel: sv.num("unlock_level"),
			Unlocked:    sv.flag("unlocked"),
		})
	}
	return sheet
}

func decodeEquip(s *structpb.Struct) *EquipView {
	f := fields(s.GetFields())
	return &EquipView{Slot: f.num("slot"), SkillID: f.str("skill_id"), SkillName: f.str("skill_name"), Label: f.str("label")}
}

func decodeSkillList(s *structpb.Struct) *SkillList {
	f := fields(s.GetFields())
	l := &SkillList{Type: skill.Type(f.str("type")), Entries: make([]skill.Entry, 0)}
	for _, item := range f.list("skills") {
		e := fields(item.GetStructValue().GetFields())
		l.Entries = append(l.Entries, skill.Entry{ID: e.str("id"), Label: e.str("label")})
	}
	return l
}

// toStruct wraps an encoded map for the wire.
func toStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return s, nil
}
