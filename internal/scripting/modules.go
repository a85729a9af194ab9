package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.log and engine.dice Lua tables into L.
//
// Precondition: L must belong to a Sandbox.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, zoneID string) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L, zoneID))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState, zoneID string) *lua.LTable {
	mod := L.NewTable()
	logger := m.logger.With(zap.String("zone", zoneID))
	levels := map[string]func(string, ...zap.Field){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
		"error": logger.Error,
	}
	for name, fn := range levels {
		fn := fn
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			fn("lua: " + L.CheckString(1))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	// engine.dice.intn(n) returns an integer in [0, n).
	L.SetField(mod, "intn", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n <= 0 {
			L.ArgError(1, "n must be > 0")
			return 0
		}
		L.Push(lua.LNumber(m.roller.Intn(n)))
		return 1
	}))
	// engine.dice.percent() returns a float in [0, 100).
	L.SetField(mod, "percent", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.roller.Float64() * 100))
		return 1
	}))
	return mod
}
