// Package session tracks which actors are connected and serialises each
// actor's requests.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrAlreadyConnected is returned when an actor connects twice.
var ErrAlreadyConnected = errors.New("already connected")

// ErrNotConnected is returned when disconnecting an actor that is not connected.
var ErrNotConnected = errors.New("not connected")

// Presence records one connected actor.
type Presence struct {
	// ActorID is the chat-platform identity.
	ActorID string
	// Remote describes where the connection came from, for logging.
	Remote string
	// ConnectedAt is when Connect succeeded.
	ConnectedAt time.Time
}

type actorLock struct {
	mu   sync.Mutex
	refs int
}

// Manager tracks connected actors and hands out per-actor locks.
// All methods are safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	connected map[string]Presence
	locks     map[string]*actorLock
	now       func() time.Time
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		connected: make(map[string]Presence),
		locks:     make(map[string]*actorLock),
		now:       time.Now,
	}
}

// Connect registers actor as connected.
//
// Precondition: actor must be non-empty.
// Postcondition: Returns ErrAlreadyConnected if actor is already present.
func (m *Manager) Connect(actor, remote string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.connected[actor]; ok {
		return fmt.Errorf("actor %q: %w", actor, ErrAlreadyConnected)
	}
	m.connected[actor] = Presence{ActorID: actor, Remote: remote, ConnectedAt: m.now()}
	return nil
}

// Disconnect removes actor from the connected set.
//
// Postcondition: Returns ErrNotConnected if actor was not present.
func (m *Manager) Disconnect(actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.connected[actor]; !ok {
		return fmt.Errorf("actor %q: %w", actor, ErrNotConnected)
	}
	delete(m.connected, actor)
	return nil
}

// Connected returns every connected actor sorted by actor ID.
func (m *Manager) Connected() []Presence {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Presence, 0, len(m.connected))
	for _, p := range m.connected {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActorID < out[j].ActorID })
	return out
}

// Count returns the number of connected actors.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.connected)
}

// Lock blocks until the caller holds actor's lock and returns the function
// that releases it. Locks for idle actors are discarded on release.
//
// Postcondition: at most one caller holds a given actor's lock at a time.
func (m *Manager) Lock(actor string) (unlock func()) {
	m.mu.Lock()
	l, ok := m.locks[actor]
	if !ok {
		l = &actorLock{}
		m.locks[actor] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			m.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(m.locks, actor)
			}
			m.mu.Unlock()
		})
	}
}

// lockCount reports how many actor locks are live.
func (m *Manager) lockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
