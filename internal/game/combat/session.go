// Package combat implements the one-on-one turn-based battle engine.
package combat

import (
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/npc"
)

// Session is the state of one actor's ongoing battle.
//
// A Session held by the Engine is never mutated in place; each resolved turn
// commits a fresh copy. Callers must treat sessions they receive as read-only.
type Session struct {
	// ID uniquely identifies this battle.
	ID string
	// ActorID is the chat-platform identity that owns the battle.
	ActorID string
	// ZoneID is the zone the opponent was drawn from; may be empty.
	ZoneID string
	// Boss is true when the opponent is the zone boss.
	Boss bool
	// Opponent is the live opponent owned exclusively by this session.
	Opponent *npc.Instance
	// Debuffs are the debuffs currently active on the opponent.
	Debuffs Debuffs
	// Turn counts resolved turns.
	Turn int
	// StartedAt is when the session was opened.
	StartedAt time.Time
	// LastAction is when the session was opened or last resolved a turn.
	LastAction time.Time
}

// Clone returns a deep copy of s.
//
// Postcondition: mutating the result never affects s.
func (s *Session) Clone() *Session {
	out := *s
	opp := *s.Opponent
	opp.Taunts = append([]string(nil), s.Opponent.Taunts...)
	out.Opponent = &opp
	out.Debuffs = s.Debuffs.Clone()
	return &out
}
