package combat_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func TestSweeper_SweepOnceCallsOnEvict(t *testing.T) {
	clock := newFakeClock()
	eng := newEngine(clock)
	eng.OpenSession("actor-1", newCharacter(1, 10, 0), slimeTemplate(10, 1), "", false)

	var got []string
	sw := combat.NewSweeper(eng, time.Second, func(actor string) { got = append(got, actor) })

	assert.Empty(t, sw.SweepOnce())
	clock.Advance(6 * time.Minute)
	assert.Equal(t, []string{"actor-1"}, sw.SweepOnce())
	assert.Equal(t, []string{"actor-1"}, got)
}

func TestSweeper_RunsUntilStopped(t *testing.T) {
	clock := newFakeClock()
	eng := newEngine(clock)
	eng.OpenSession("actor-1", newCharacter(1, 10, 0), slimeTemplate(10, 1), "", false)
	clock.Advance(time.Hour)

	var mu sync.Mutex
	evicted := 0
	sw := combat.NewSweeper(eng, 5*time.Millisecond, func(string) {
		mu.Lock()
		evicted++
		mu.Unlock()
	})
	sw.Start(context.Background())
	sw.Start(context.Background())

	assert.Eventually(t, func() bool { return eng.ActiveCount() == 0 }, time.Second, 5*time.Millisecond)
	sw.Stop()
	sw.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, evicted)
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	sw := combat.NewSweeper(newEngine(newFakeClock()), time.Second, nil)
	sw.Stop()
}
