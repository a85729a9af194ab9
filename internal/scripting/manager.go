package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// globalZoneID is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no zone VM is found.
const globalZoneID = "__global__"

// Battle hook names.
const (
	HookBattleStart = "on_battle_start"
	HookVictory     = "on_victory"
	HookDefeat      = "on_defeat"
)

// zoneVM guards one Sandbox; every call into it holds mu.
type zoneVM struct {
	mu sync.Mutex
	sb *Sandbox
}

// Manager owns one sandboxed LState per zone and exposes hook dispatch.
//
// Manager is safe for concurrent use. Calls into the same zone are
// serialised; different zones run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*zoneVM
	roller dice.Source
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with an empty zone map.
func NewManager(roller dice.Source, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*zoneVM),
		roller: roller,
		logger: logger,
	}
}

// LoadZone creates a sandboxed VM for zoneID, registers the engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: zoneID must be non-empty; scriptDir must be a readable directory.
// Postcondition: Zone VM is registered, replacing any previous one; returns error on Lua load failure.
func (m *Manager) LoadZone(zoneID, scriptDir string, instLimit int) error {
	return m.loadInto(zoneID, scriptDir, instLimit)
}

// LoadGlobal creates the "__global__" VM used as a CallHook fallback for
// zones without their own scripts.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalZoneID, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	sb := NewSandbox(instLimit)
	m.RegisterModules(sb.L, key)

	for _, path := range luaFiles {
		if err := sb.Exec(func(L *lua.LState) error { return L.DoFile(path) }); err != nil {
			sb.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = &zoneVM{sb: sb}
	m.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.sb.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripting: zone loaded", zap.String("zone", key), zap.Int("files", len(luaFiles)))
	return nil
}

// CallHook calls the named Lua global function in zoneID's VM. If the zone has
// no VM, the __global__ VM is tried as a fallback. Returns (LNil, nil) if the
// hook is not defined or no VM exists. Lua runtime errors, including an
// exhausted instruction budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(zoneID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	vm, ok := m.vms[zoneID]
	if !ok {
		vm = m.vms[globalZoneID]
	}
	m.mu.RUnlock()

	if vm == nil {
		m.logger.Debug("scripting: no VM for zone",
			zap.String("zone", zoneID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.sb.Closed() {
		return lua.LNil, nil
	}

	ret := lua.LValue(lua.LNil)
	err := vm.sb.Exec(func(L *lua.LState) error {
		fn := L.GetGlobal(hook)
		if fn.Type() != lua.LTFunction {
			return nil
		}
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = L.Get(-1)
		L.Pop(1)
		return nil
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("zone", zoneID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	return ret, nil
}

// narrate calls hook and returns its result if it is a string, otherwise "".
func (m *Manager) narrate(zoneID, hook string, args ...lua.LValue) string {
	ret, err := m.CallHook(zoneID, hook, args...)
	if err != nil {
		return ""
	}
	if s, ok := ret.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// BattleStart returns the zone's on_battle_start narration, or "".
func (m *Manager) BattleStart(zoneID, actor, mobName string) string {
	return m.narrate(zoneID, HookBattleStart, lua.LString(actor), lua.LString(mobName))
}

// Victory returns the zone's on_victory narration, or "".
func (m *Manager) Victory(zoneID, actor, mobName string, xp, gold int) string {
	return m.narrate(zoneID, HookVictory, lua.LString(actor), lua.LString(mobName), lua.LNumber(xp), lua.LNumber(gold))
}

// Defeat returns the zone's on_defeat narration, or "".
func (m *Manager) Defeat(zoneID, actor, mobName string) string {
	return m.narrate(zoneID, HookDefeat, lua.LString(actor), lua.LString(mobName))
}

// Zones returns the IDs of every loaded VM, including the global one, sorted.
func (m *Manager) Zones() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vms))
	for id := range m.vms {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Close releases every VM. Subsequent CallHook calls return LNil.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*zoneVM)
	m.mu.Unlock()

	for _, vm := range vms {
		vm.mu.Lock()
		vm.sb.Close()
		vm.mu.Unlock()
	}
}
