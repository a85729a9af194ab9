// Package memory provides an in-process CharacterStore for standalone mode and tests.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/storage"
)

// Store keeps characters in a map. Every Load and Save copies the sheet so
// callers never share state with the store.
type Store struct {
	mu    sync.RWMutex
	chars map[string]*character.Character
	now   func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		chars: make(map[string]*character.Character),
		now:   time.Now,
	}
}

// Load implements storage.CharacterStore.
func (s *Store) Load(ctx context.Context, actorID string) (*character.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chars[actorID]
	if !ok {
		return nil, storage.ErrCharacterNotFound
	}
	return c.Clone(), nil
}

// Save implements storage.CharacterStore.
func (s *Store) Save(ctx context.Context, c *character.Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.ActorID == "" {
		return errors.New("memory: saving character: actor id must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if prev, ok := s.chars[c.ActorID]; ok {
		c.CreatedAt = prev.CreatedAt
	} else if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	s.chars[c.ActorID] = c.Clone()
	return nil
}

// Len reports how many characters are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chars)
}
