package gameserver_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/gameserver"
	"github.com/cory-johannsen/skirmish/internal/storage"
	"github.com/cory-johannsen/skirmish/internal/storage/memory"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

// recordingNarrator returns a line for every event and remembers the calls.
type recordingNarrator struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNarrator) record(s string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, s)
	return s
}

func (n *recordingNarrator) BattleStart(zoneID, actor, mob string) string {
	return n.record("start:" + zoneID + ":" + mob)
}

func (n *recordingNarrator) Victory(zoneID, actor, mob string, xp, gold int) string {
	return n.record("victory:" + mob)
}

func (n *recordingNarrator) Defeat(zoneID, actor, mob string) string {
	return n.record("defeat:" + mob)
}

type fixture struct {
	svc      *gameserver.Service
	store    *memory.Store
	engine   *combat.Engine
	narrator *recordingNarrator
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	cat := testutil.BattleCatalog(t)
	logger := zaptest.NewLogger(t)
	engine := combat.NewEngine(cat, testutil.FixedSource{}, combat.WithLogger(logger))
	store := memory.NewStore()
	narrator := &recordingNarrator{}
	return &fixture{
		svc:      gameserver.NewService(cat, engine, store, narrator, testutil.FixedSource{}, logger),
		store:    store,
		engine:   engine,
		narrator: narrator,
	}
}

// failingStore fails every Save.
type failingStore struct{ storage.CharacterStore }

func (failingStore) Load(context.Context, string) (*character.Character, error) {
	return nil, storage.ErrCharacterNotFound
}

func (failingStore) Save(context.Context, *character.Character) error {
	return errors.New("disk on fire")
}

// flakyStore is a memory store whose saves fail while broken is set.
type flakyStore struct {
	*memory.Store
	broken atomic.Bool
}

func (s *flakyStore) Save(ctx context.Context, c *character.Character) error {
	if s.broken.Load() {
		return errors.New("connection reset")
	}
	return s.Store.Save(ctx, c)
}
