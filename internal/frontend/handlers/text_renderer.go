package handlers

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/skirmish/internal/frontend/telnet"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/command"
	"github.com/cory-johannsen/skirmish/internal/gameserver"
)

const healthBarWidth = 20

// Casers carry state, so each call builds its own.
func titleCase(s string) string { return cases.Title(language.English).String(s) }
func upperCase(s string) string { return cases.Upper(language.English).String(s) }

// RenderBattle formats a battle update as Telnet lines.
func RenderBattle(v *gameserver.BattleView) []string {
	var lines []string
	name := v.OpponentName

	switch {
	case v.Retreated:
		lines = append(lines, telnet.Colorf(telnet.Yellow, "You flee from %s.", name))
	case v.Result == nil:
		title := "Battle vs " + name
		if v.Boss {
			title = "Boss Battle vs " + name
		}
		lines = append(lines, telnet.Colorize(telnet.Bold+telnet.BrightRed, "=== "+title+" ==="))
	default:
		lines = append(lines, renderTurn(name, v.Result)...)
	}

	lines = append(lines,
		fmt.Sprintf("%s HP: %s %s", name,
			telnet.Colorf(telnet.HealthColor(v.OpponentHealth, v.OpponentMaxHealth), "%d/%d", v.OpponentHealth, v.OpponentMaxHealth),
			telnet.HealthBar(v.OpponentHealth, v.OpponentMaxHealth, healthBarWidth)),
		fmt.Sprintf("Your HP: %s %s",
			telnet.Colorf(telnet.HealthColor(v.CharacterHealth, v.CharacterMaxHealth), "%d/%d", v.CharacterHealth, v.CharacterMaxHealth),
			telnet.HealthBar(v.CharacterHealth, v.CharacterMaxHealth, healthBarWidth)),
	)
	if v.Taunt != "" {
		lines = append(lines, telnet.Colorf(telnet.Magenta, "%s: %q", name, v.Taunt))
	}
	for _, n := range v.Narration {
		lines = append(lines, telnet.Colorize(telnet.Dim, n))
	}

	switch v.Outcome() {
	case combat.Victory:
		lines = append(lines, telnet.Colorf(telnet.BrightGreen, "You defeated %s!", name))
		if r := v.Reward; r != nil {
			lines = append(lines, telnet.Colorf(telnet.Green, "You gained %d XP and %d gold.", r.XP, r.Gold))
			if r.LevelsGained > 0 {
				lines = append(lines, telnet.Colorf(telnet.BrightYellow, "Level up! You are now level %d.", r.Level))
			}
		}
	case combat.Defeat:
		lines = append(lines, telnet.Colorf(telnet.BrightRed, "You were defeated by %s.", name))
	}
	return lines
}

func renderTurn(name string, r *combat.TurnResult) []string {
	var lines []string
	switch r.Action {
	case combat.ActionSkill:
		lines = append(lines, fmt.Sprintf("You use %s on %s for %d damage.",
			telnet.Colorize(telnet.BrightCyan, r.SkillName), name, r.DamageDealt))
	default:
		line := fmt.Sprintf("You attack %s for %d damage.", name, r.DamageDealt)
		if r.WasCritical {
			line = telnet.Colorize(telnet.BrightYellow, "Critical hit! ") + line
		}
		lines = append(lines, line)
	}
	if d := r.DebuffApplied; d != nil {
		lines = append(lines, telnet.Colorf(telnet.Cyan, "%s's defense is lowered by %d%% for %d turns.",
			name, d.Percent, d.RemainingTurns))
	}
	if r.Retaliated {
		lines = append(lines, telnet.Colorf(telnet.Red, "%s hits you for %d damage.", name, r.DamageTaken))
	}
	return lines
}

// RenderZones formats the zone listing.
func RenderZones(zones []gameserver.ZoneView) []string {
	if len(zones) == 0 {
		return []string{telnet.Colorize(telnet.Dim, "There are no battle zones.")}
	}
	lines := []string{telnet.Colorize(telnet.Bold, "Battle zones:")}
	for _, z := range zones {
		line := fmt.Sprintf("  %s  %s (Lvl %d+)",
			telnet.Colorf(telnet.BrightCyan, "%-10s", z.ID), z.Name, z.MinLevel)
		if len(z.Mobs) > 0 {
			line += "  mobs: " + strings.Join(z.Mobs, ", ")
		}
		if z.BossName != "" {
			line += "  boss: " + telnet.Colorize(telnet.Red, z.BossName)
		}
		lines = append(lines, line)
	}
	return lines
}

// RenderSkillList formats the equippable skills of one type.
func RenderSkillList(l *gameserver.SkillList) []string {
	if len(l.Entries) == 0 {
		return []string{fmt.Sprintf("You don't have any %s skills available at your level.", l.Type)}
	}
	lines := []string{telnet.Colorf(telnet.Bold, "Skill List - %s Skills", titleCase(string(l.Type)))}
	for _, e := range l.Entries {
		lines = append(lines, fmt.Sprintf("  %s  %s", telnet.Colorf(telnet.BrightCyan, "%-12s", e.ID), e.Label))
	}
	return lines
}

// RenderEquip confirms a loadout change.
func RenderEquip(e *gameserver.EquipView) []string {
	return []string{telnet.Colorf(telnet.Green, "Equipped %s to Slot %d", e.SkillName, e.Slot)}
}

// RenderSheet formats a character sheet.
func RenderSheet(s *gameserver.SheetView) []string {
	lines := []string{
		telnet.Colorize(telnet.Bold+telnet.BrightYellow, s.Name),
		fmt.Sprintf("Level %d  XP %d/%d  Gold %d", s.Level, s.Experience, s.XPToNext, s.Gold),
		fmt.Sprintf("HP %d/%d", s.CurrentHP, s.Stats["hp"]),
	}

	stats := make([]string, 0, len(s.Stats))
	for _, k := range sortedKeys(s.Stats) {
		stats = append(stats, fmt.Sprintf("%s %d", upperCase(k), s.Stats[k]))
	}
	lines = append(lines, "Stats: "+strings.Join(stats, "  "))

	if len(s.Equipment) > 0 {
		lines = append(lines, "Equipment:")
		for _, k := range sortedKeys(s.Equipment) {
			lines = append(lines, fmt.Sprintf("  %s: %s", titleCase(k), s.Equipment[k]))
		}
	}

	lines = append(lines, "Loadout:")
	for _, sv := range s.Loadout {
		var desc string
		switch {
		case !sv.Unlocked:
			desc = telnet.Colorf(telnet.Dim, "(locked until level %d)", sv.UnlockLevel)
		case sv.SkillID == "":
			desc = telnet.Colorize(telnet.Dim, "(empty)")
		case sv.Cooldown > 0:
			desc = fmt.Sprintf("%s (ready in %d turns)", sv.SkillName, sv.Cooldown)
		default:
			desc = sv.SkillName
		}
		lines = append(lines, fmt.Sprintf("  Slot %d: %s", sv.Slot, desc))
	}
	if s.InBattle {
		lines = append(lines, telnet.Colorize(telnet.Red, "You are in a battle."))
	}
	return lines
}

// RenderHelp lists commands grouped by category.
func RenderHelp(reg *command.Registry) []string {
	var lines []string
	for _, g := range reg.Groups() {
		lines = append(lines, telnet.Colorize(telnet.Bold, titleCase(g.Category)+":"))
		for _, cmd := range g.Commands {
			line := fmt.Sprintf("  %s %s", telnet.Colorf(telnet.BrightCyan, "%-22s", cmd.Usage), cmd.Help)
			if len(cmd.Aliases) > 0 {
				line += telnet.Colorf(telnet.Dim, " (%s)", strings.Join(cmd.Aliases, ", "))
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// RenderError formats an error for the player.
func RenderError(msg string) string {
	return telnet.Colorize(telnet.Red, msg)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
