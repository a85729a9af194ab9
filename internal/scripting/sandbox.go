// Package scripting runs zone battle narration hooks in sandboxed GopherLua
// states. Hooks see plain strings and numbers, never combat types.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget per call when a zone sets none.
const DefaultInstructionLimit = 100_000

// blockedGlobals are base-library functions that reach the filesystem, load
// code or touch the collector.
var blockedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require"}

// budget is a context that cancels itself once Done has been polled a set
// number of times. The VM polls Done once per opcode.
type budget struct {
	context.Context
	left   atomic.Int64
	cancel context.CancelFunc
}

func (b *budget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

func newBudget(opcodes int) (*budget, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	b := &budget{Context: ctx, cancel: cancel}
	b.left.Store(int64(opcodes))
	return b, cancel
}

// Sandbox is a Lua state limited to the base, table, string and math
// libraries. Each Exec call gets a fresh opcode budget.
//
// A Sandbox is not safe for concurrent use.
type Sandbox struct {
	L     *lua.LState
	limit int
}

// NewSandbox creates a Sandbox whose Exec calls may run at most limit opcodes.
//
// Precondition: limit >= 0; 0 selects DefaultInstructionLimit.
// Postcondition: The caller must Close the returned Sandbox.
func NewSandbox(limit int) *Sandbox {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return &Sandbox{L: L, limit: limit}
}

// Limit reports the per-call opcode budget.
func (s *Sandbox) Limit() int { return s.limit }

// Exec runs fn against the state under a fresh budget. A script that runs
// past the budget makes fn's Lua call fail.
func (s *Sandbox) Exec(fn func(L *lua.LState) error) error {
	b, cancel := newBudget(s.limit)
	defer cancel()
	s.L.SetContext(b)
	defer s.L.RemoveContext()
	return fn(s.L)
}

// DoString executes src under a fresh budget.
func (s *Sandbox) DoString(src string) error {
	return s.Exec(func(L *lua.LState) error { return L.DoString(src) })
}

// Closed reports whether Close has been called.
func (s *Sandbox) Closed() bool { return s.L.IsClosed() }

// Close releases the Lua state.
func (s *Sandbox) Close() { s.L.Close() }
