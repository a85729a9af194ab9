// Package command provides the battle command registry, parser, and built-in command definitions.
package command

// Categories for organizing commands in help output.
const (
	CategoryBattle    = "battle"
	CategoryCharacter = "character"
	CategorySystem    = "system"
)

// Handler identifiers mapping commands to Battler operations.
const (
	HandlerZones  = "zones"
	HandlerFight  = "fight"
	HandlerAttack = "attack"
	HandlerSkill  = "skill"
	HandlerRun    = "run"
	HandlerSkills = "skills"
	HandlerEquip  = "equip"
	HandlerStats  = "stats"
	HandlerHelp   = "help"
	HandlerQuit   = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, e.g. "skill <1-3>".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command for help output.
	Category string
	// Handler maps to the Battler operation that serves the command.
	Handler string
}

// BuiltinCommands returns all built-in commands in help order.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "zones", Aliases: []string{"z"}, Usage: "zones", Help: "List battle zones", Category: CategoryBattle, Handler: HandlerZones},
		{Name: "fight", Aliases: []string{"f", "battle"}, Usage: "fight <zone> [boss]", Help: "Start a fight in a zone", Category: CategoryBattle, Handler: HandlerFight},
		{Name: "attack", Aliases: []string{"a", "att"}, Usage: "attack", Help: "Basic attack", Category: CategoryBattle, Handler: HandlerAttack},
		{Name: "skill", Aliases: []string{"s", "use"}, Usage: "skill <1-3>", Help: "Use the skill in a loadout slot", Category: CategoryBattle, Handler: HandlerSkill},
		{Name: "run", Aliases: []string{"flee", "retreat"}, Usage: "run", Help: "Retreat from the current fight", Category: CategoryBattle, Handler: HandlerRun},

		{Name: "skills", Aliases: []string{"sk"}, Usage: "skills [attack|support]", Help: "List skills available at your level", Category: CategoryCharacter, Handler: HandlerSkills},
		{Name: "equip", Aliases: []string{"eq"}, Usage: "equip <1-3> <skill>", Help: "Bind a skill to a loadout slot", Category: CategoryCharacter, Handler: HandlerEquip},
		{Name: "stats", Aliases: []string{"st", "sheet"}, Usage: "stats", Help: "Show your character sheet", Category: CategoryCharacter, Handler: HandlerStats},

		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "Disconnect", Category: CategorySystem, Handler: HandlerQuit},
	}
}
