// Package storage defines the character persistence contract shared by the
// postgres and in-memory backends.
package storage

import (
	"context"
	"errors"

	"github.com/cory-johannsen/skirmish/internal/game/character"
)

// ErrCharacterNotFound is returned when no character is stored for an actor.
var ErrCharacterNotFound = errors.New("character not found")

// CharacterStore loads and saves character sheets keyed by actor ID.
type CharacterStore interface {
	// Load returns the stored character for actorID.
	//
	// Postcondition: Returns a caller-owned copy, or ErrCharacterNotFound.
	Load(ctx context.Context, actorID string) (*character.Character, error)

	// Save inserts or replaces the character keyed by c.ActorID and refreshes
	// its timestamps.
	//
	// Precondition: c.ActorID must be non-empty.
	Save(ctx context.Context, c *character.Character) error
}
