package combat

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

// Engine owns the session table: at most one active battle per actor.
// All methods are safe for concurrent use; callers must still serialise
// turns for a single actor.
type Engine struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	catalog Catalog
	src     dice.Source
	now     func() time.Time
	idle    time.Duration
	logger  *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the time source used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIdleTimeout sets how long a session may sit without a turn before EvictIdle drops it.
func WithIdleTimeout(d time.Duration) Option {
	return func(e *Engine) { e.idle = d }
}

// WithLogger sets the logger for battle lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// DefaultIdleTimeout is used when WithIdleTimeout is not supplied.
const DefaultIdleTimeout = 10 * time.Minute

// NewEngine creates an empty Engine.
//
// Precondition: cat and src must be non-nil.
// Postcondition: Returns a non-nil Engine with no sessions.
func NewEngine(cat Catalog, src dice.Source, opts ...Option) *Engine {
	e := &Engine{
		sessions: make(map[string]*Session),
		catalog:  cat,
		src:      src,
		now:      time.Now,
		idle:     DefaultIdleTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OpenSession starts a battle for actor against a fresh copy of tmpl,
// replacing any battle the actor already had. The character is healed to
// its effective hp.
//
// Precondition: actor must be non-empty; c and tmpl must be non-nil.
// Postcondition: RequireSession(actor) returns the new session with empty
// debuffs and an opponent at full health; c.CurrentHP equals effective hp.
func (e *Engine) OpenSession(actor string, c *character.Character, tmpl *npc.Template, zoneID string, boss bool) *Session {
	now := e.now()
	s := &Session{
		ID:         uuid.NewString(),
		ActorID:    actor,
		ZoneID:     zoneID,
		Boss:       boss,
		Opponent:   npc.NewInstance(tmpl),
		Debuffs:    Debuffs{},
		StartedAt:  now,
		LastAction: now,
	}
	c.CurrentHP = character.EffectiveStat(c, character.StatHealth, e.catalog)

	e.mu.Lock()
	_, replaced := e.sessions[actor]
	e.sessions[actor] = s
	e.mu.Unlock()

	e.logger.Info("battle opened",
		observability.Actor(actor),
		zap.String("battle_id", s.ID),
		zap.String("zone", zoneID),
		zap.String("opponent", tmpl.ID),
		zap.Bool("boss", boss),
		zap.Bool("replaced", replaced),
	)
	return s
}

// CloseSession removes actor's battle, if any. It is idempotent.
//
// Postcondition: RequireSession(actor) fails with ErrNoActiveBattle; returns
// true iff a session was removed.
func (e *Engine) CloseSession(actor string) bool {
	e.mu.Lock()
	s, ok := e.sessions[actor]
	delete(e.sessions, actor)
	e.mu.Unlock()

	if ok {
		e.logger.Info("battle closed", observability.Actor(actor), zap.String("battle_id", s.ID))
	}
	return ok
}

// RequireSession returns actor's active session.
//
// Postcondition: Returns ErrNoActiveBattle when the actor has no battle.
func (e *Engine) RequireSession(actor string) (*Session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[actor]
	if !ok {
		return nil, ErrNoActiveBattle
	}
	return s, nil
}

// ActiveCount returns the number of open sessions.
func (e *Engine) ActiveCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sessions)
}

// ResolveBasicAttack resolves a basic attack for actor.
//
// Precondition: c is actor's character sheet.
// Postcondition: c and the session reflect the turn; the session is closed on
// a terminal outcome.
func (e *Engine) ResolveBasicAttack(actor string, c *character.Character) (TurnResult, error) {
	return e.resolve(actor, c, Action{Kind: ActionAttack})
}

// ResolveSkillUse resolves using the skill in the zero-based slot for actor.
//
// Precondition: c is actor's character sheet.
// Postcondition: on error neither c nor the session has changed.
func (e *Engine) ResolveSkillUse(actor string, c *character.Character, slot int) (TurnResult, error) {
	return e.resolve(actor, c, Action{Kind: ActionSkill, Slot: slot})
}

func (e *Engine) resolve(actor string, c *character.Character, action Action) (TurnResult, error) {
	turn, err := e.Plan(actor, c, action)
	if err != nil {
		return TurnResult{}, err
	}
	if err := e.Commit(actor, turn); err != nil {
		return TurnResult{}, err
	}
	*c = *turn.Character
	return turn.Result, nil
}

// Plan resolves action against actor's battle without storing the result.
// Callers persist turn.Character and then Commit the turn.
//
// Postcondition: neither c nor the session table has changed.
func (e *Engine) Plan(actor string, c *character.Character, action Action) (Turn, error) {
	s, err := e.RequireSession(actor)
	if err != nil {
		return Turn{}, err
	}
	return Resolve(s, c, action, e.catalog, e.src)
}

// Commit stores a planned turn: the next session replaces the current one, or
// the battle is closed on a terminal outcome.
//
// Postcondition: Returns ErrNoActiveBattle, and changes nothing, if the battle
// the turn was planned against has since been closed or replaced.
func (e *Engine) Commit(actor string, turn Turn) error {
	next := turn.Session
	next.LastAction = e.now()

	e.mu.Lock()
	current, ok := e.sessions[actor]
	if !ok || current.ID != next.ID {
		e.mu.Unlock()
		return fmt.Errorf("combat: battle %s for %q ended during the turn: %w", next.ID, actor, ErrNoActiveBattle)
	}
	if turn.Result.Outcome.IsTerminal() {
		delete(e.sessions, actor)
	} else {
		e.sessions[actor] = next
	}
	e.mu.Unlock()

	if turn.Result.Outcome.IsTerminal() {
		e.logger.Info("battle "+turn.Result.Outcome.String(),
			observability.Actor(actor),
			zap.String("battle_id", next.ID),
			zap.String("opponent", next.Opponent.TemplateID),
			zap.Int("turns", next.Turn),
		)
	}
	return nil
}

// EvictIdle closes every session whose last action is older than the idle
// timeout relative to now.
//
// Postcondition: Returns the evicted actors.
func (e *Engine) EvictIdle(now time.Time) []string {
	var evicted []string
	e.mu.Lock()
	for actor, s := range e.sessions {
		if now.Sub(s.LastAction) > e.idle {
			delete(e.sessions, actor)
			evicted = append(evicted, actor)
		}
	}
	e.mu.Unlock()

	for _, actor := range evicted {
		e.logger.Info("battle evicted for inactivity", observability.Actor(actor), zap.Duration("idle_timeout", e.idle))
	}
	return evicted
}
