package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/command"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
	"github.com/cory-johannsen/skirmish/internal/gameserver"
)

// commandContext carries everything a command handler needs.
type commandContext struct {
	battler  gameserver.Battler
	registry *command.Registry
	actor    string
	cmd      *command.Command
	args     []string
}

// commandResult is what a handler hands back to the session loop.
type commandResult struct {
	lines []string
	quit  bool
}

type commandFunc func(ctx context.Context, cc *commandContext) (commandResult, error)

// CommandHandlers returns the dispatch table keyed by command.Handler*.
func CommandHandlers() map[string]commandFunc {
	return commandHandlerMap
}

// commandHandlerMap must hold an entry for every Handler in command.BuiltinCommands.
var commandHandlerMap = map[string]commandFunc{
	command.HandlerZones:  handleZones,
	command.HandlerFight:  handleFight,
	command.HandlerAttack: handleAttack,
	command.HandlerSkill:  handleSkill,
	command.HandlerRun:    handleRun,
	command.HandlerSkills: handleSkills,
	command.HandlerEquip:  handleEquip,
	command.HandlerStats:  handleStats,
	command.HandlerHelp:   handleHelp,
	command.HandlerQuit:   handleQuit,
}

func usage(cc *commandContext) commandResult {
	return commandResult{lines: []string{RenderError("Usage: " + cc.cmd.Usage)}}
}

func battle(v *gameserver.BattleView, err error) (commandResult, error) {
	if err != nil {
		return commandResult{}, err
	}
	return commandResult{lines: RenderBattle(v)}, nil
}

func handleZones(ctx context.Context, cc *commandContext) (commandResult, error) {
	zones, err := cc.battler.ListZones(ctx)
	if err != nil {
		return commandResult{}, err
	}
	return commandResult{lines: RenderZones(zones)}, nil
}

func handleFight(ctx context.Context, cc *commandContext) (commandResult, error) {
	if len(cc.args) == 0 || len(cc.args) > 2 {
		return usage(cc), nil
	}
	boss := false
	if len(cc.args) == 2 {
		if !strings.EqualFold(cc.args[1], "boss") {
			return usage(cc), nil
		}
		boss = true
	}
	return battle(cc.battler.StartFight(ctx, cc.actor, strings.ToLower(cc.args[0]), boss))
}

func handleAttack(ctx context.Context, cc *commandContext) (commandResult, error) {
	return battle(cc.battler.Attack(ctx, cc.actor))
}

func handleSkill(ctx context.Context, cc *commandContext) (commandResult, error) {
	if len(cc.args) != 1 {
		return usage(cc), nil
	}
	slot, err := command.ParseSlot(cc.args[0], character.LoadoutSize)
	if err != nil {
		return commandResult{lines: []string{RenderError(err.Error())}}, nil
	}
	return battle(cc.battler.UseSkill(ctx, cc.actor, slot))
}

func handleRun(ctx context.Context, cc *commandContext) (commandResult, error) {
	return battle(cc.battler.Retreat(ctx, cc.actor))
}

func handleSkills(ctx context.Context, cc *commandContext) (commandResult, error) {
	t := skill.TypeAttack
	switch len(cc.args) {
	case 0:
	case 1:
		t = skill.Type(strings.ToLower(cc.args[0]))
	default:
		return usage(cc), nil
	}
	list, err := cc.battler.ListSkills(ctx, cc.actor, t)
	if err != nil {
		return commandResult{}, err
	}
	return commandResult{lines: RenderSkillList(list)}, nil
}

func handleEquip(ctx context.Context, cc *commandContext) (commandResult, error) {
	if len(cc.args) != 2 {
		return usage(cc), nil
	}
	slot, err := command.ParseSlot(cc.args[0], character.LoadoutSize)
	if err != nil {
		return commandResult{lines: []string{RenderError(err.Error())}}, nil
	}
	ev, err := cc.battler.EquipSkill(ctx, cc.actor, slot, strings.ToLower(cc.args[1]))
	if err != nil {
		return commandResult{}, err
	}
	return commandResult{lines: RenderEquip(ev)}, nil
}

func handleStats(ctx context.Context, cc *commandContext) (commandResult, error) {
	sheet, err := cc.battler.Sheet(ctx, cc.actor)
	if err != nil {
		return commandResult{}, err
	}
	return commandResult{lines: RenderSheet(sheet)}, nil
}

func handleHelp(_ context.Context, cc *commandContext) (commandResult, error) {
	return commandResult{lines: RenderHelp(cc.registry)}, nil
}

func handleQuit(_ context.Context, _ *commandContext) (commandResult, error) {
	return commandResult{lines: []string{"You leave the battlefield. Goodbye."}, quit: true}, nil
}

// dispatch runs the command named by line.
func dispatch(ctx context.Context, cc *commandContext, line string) (commandResult, error) {
	parsed := command.Parse(line)
	cmd, ok := cc.registry.Resolve(parsed.Command)
	if !ok {
		return commandResult{lines: []string{
			RenderError(fmt.Sprintf("Unknown command %q. Type help for a list.", parsed.Command)),
		}}, nil
	}
	fn, ok := commandHandlerMap[cmd.Handler]
	if !ok {
		return commandResult{}, fmt.Errorf("no handler for command %q", cmd.Name)
	}
	cc.cmd = cmd
	cc.args = parsed.Args
	return fn(ctx, cc)
}
