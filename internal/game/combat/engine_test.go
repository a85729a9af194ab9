package combat_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newEngine(clock *fakeClock, opts ...combat.Option) *combat.Engine {
	opts = append([]combat.Option{combat.WithClock(clock.Now), combat.WithIdleTimeout(5 * time.Minute)}, opts...)
	return combat.NewEngine(newFakeCatalog(), noCrit, opts...)
}

func TestEngine_OpenSession(t *testing.T) {
	clock := newFakeClock()
	eng := newEngine(clock)
	c := newCharacter(50, 100, 0)
	c.CurrentHP = 3

	s := eng.OpenSession("actor-1", c, slimeTemplate(80, 10), "meadow", false)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 80, s.Opponent.CurrentHealth)
	assert.Equal(t, 80, s.Opponent.MaxHealth)
	assert.Empty(t, s.Debuffs)
	assert.Equal(t, "meadow", s.ZoneID)
	assert.Equal(t, clock.Now(), s.StartedAt)
	assert.Equal(t, 100, c.CurrentHP, "character is healed to effective hp")

	got, err := eng.RequireSession("actor-1")
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, eng.ActiveCount())
}

func TestEngine_OpenSessionReplacesExisting(t *testing.T) {
	eng := newEngine(newFakeClock())
	c := newCharacter(50, 100, 0)

	first := eng.OpenSession("actor-1", c, slimeTemplate(80, 10), "meadow", false)
	_, err := eng.ResolveBasicAttack("actor-1", c)
	require.NoError(t, err)

	second := eng.OpenSession("actor-1", c, slimeTemplate(80, 10), "meadow", true)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 80, second.Opponent.CurrentHealth)
	assert.Equal(t, 1, eng.ActiveCount())
}

func TestEngine_OpponentIsIsolatedFromTemplate(t *testing.T) {
	eng := newEngine(newFakeClock())
	tmpl := slimeTemplate(300, 10)
	c := newCharacter(50, 100, 0)

	eng.OpenSession("actor-1", c, tmpl, "", false)
	_, err := eng.ResolveBasicAttack("actor-1", c)
	require.NoError(t, err)

	assert.Equal(t, 300, tmpl.MaxHealth)
	other := eng.OpenSession("actor-2", newCharacter(1, 1, 0), tmpl, "", false)
	assert.Equal(t, 300, other.Opponent.CurrentHealth)
}

func TestEngine_CloseSessionIdempotent(t *testing.T) {
	eng := newEngine(newFakeClock())
	eng.OpenSession("actor-1", newCharacter(1, 1, 0), slimeTemplate(10, 1), "", false)

	assert.True(t, eng.CloseSession("actor-1"))
	assert.False(t, eng.CloseSession("actor-1"))
	_, err := eng.RequireSession("actor-1")
	assert.ErrorIs(t, err, combat.ErrNoActiveBattle)
}

func TestEngine_ActionsWithoutSession(t *testing.T) {
	eng := newEngine(newFakeClock())
	c := newCharacter(50, 100, 0)

	_, err := eng.ResolveBasicAttack("nobody", c)
	assert.ErrorIs(t, err, combat.ErrNoActiveBattle)
	_, err = eng.ResolveSkillUse("nobody", c, 0)
	assert.ErrorIs(t, err, combat.ErrNoActiveBattle)
}

func TestEngine_BasicAttackExampleClosesOnVictory(t *testing.T) {
	eng := newEngine(newFakeClock())
	c := newCharacter(50, 100, 0)
	eng.OpenSession("actor-1", c, slimeTemplate(80, 10), "", false)

	r, err := eng.ResolveBasicAttack("actor-1", c)
	require.NoError(t, err)
	assert.Equal(t, combat.Active, r.Outcome)
	assert.Equal(t, 90, c.CurrentHP)

	s, err := eng.RequireSession("actor-1")
	require.NoError(t, err)
	assert.Equal(t, 30, s.Opponent.CurrentHealth)
	assert.Equal(t, 1, s.Turn)

	r, err = eng.ResolveBasicAttack("actor-1", c)
	require.NoError(t, err)
	assert.Equal(t, combat.Victory, r.Outcome)
	_, err = eng.RequireSession("actor-1")
	assert.ErrorIs(t, err, combat.ErrNoActiveBattle)
}

func TestEngine_DefeatClosesSession(t *testing.T) {
	eng := newEngine(newFakeClock())
	c := newCharacter(1, 10, 0)
	eng.OpenSession("actor-1", c, slimeTemplate(500, 15), "", false)

	r, err := eng.ResolveBasicAttack("actor-1", c)
	require.NoError(t, err)
	assert.Equal(t, combat.Defeat, r.Outcome)
	assert.Equal(t, 0, c.CurrentHP)
	assert.Equal(t, 0, eng.ActiveCount())
}

func TestEngine_FailedSkillLeavesStateUntouched(t *testing.T) {
	eng := newEngine(newFakeClock())
	c := newCharacter(50, 100, 0)
	c.Skills[0] = "cyclone"
	c.Cooldowns[0] = 2
	eng.OpenSession("actor-1", c, slimeTemplate(300, 10), "", false)
	before := c.Clone()

	_, err := eng.ResolveSkillUse("actor-1", c, 0)
	assert.ErrorIs(t, err, combat.ErrSkillNotReady)
	assert.Equal(t, before, c)

	s, err := eng.RequireSession("actor-1")
	require.NoError(t, err)
	assert.Equal(t, 300, s.Opponent.CurrentHealth)
	assert.Equal(t, 0, s.Turn)
}

func TestEngine_SkillDebuffCarriesIntoNextTurn(t *testing.T) {
	eng := newEngine(newFakeClock())
	c := newCharacter(50, 100, 0)
	c.Skills[0] = "rend"
	eng.OpenSession("actor-1", c, slimeTemplate(300, 10), "", false)

	r, err := eng.ResolveSkillUse("actor-1", c, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, r.DamageDealt)
	require.NotNil(t, r.DebuffApplied)

	r, err = eng.ResolveBasicAttack("actor-1", c)
	require.NoError(t, err)
	assert.Equal(t, 57, r.DamageDealt)
}

func TestEngine_EvictIdle(t *testing.T) {
	clock := newFakeClock()
	eng := newEngine(clock)
	c := newCharacter(50, 100, 0)
	eng.OpenSession("idle", newCharacter(1, 100, 0), slimeTemplate(300, 1), "", false)
	eng.OpenSession("busy", c, slimeTemplate(300, 1), "", false)

	clock.Advance(4 * time.Minute)
	_, err := eng.ResolveBasicAttack("busy", c)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	evicted := eng.EvictIdle(clock.Now())
	assert.Equal(t, []string{"idle"}, evicted)

	_, err = eng.RequireSession("idle")
	assert.ErrorIs(t, err, combat.ErrNoActiveBattle)
	_, err = eng.RequireSession("busy")
	assert.NoError(t, err)
}

func TestEngine_LogsLifecycle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	eng := newEngine(newFakeClock(), combat.WithLogger(zap.New(core)))
	c := newCharacter(100, 100, 0)

	eng.OpenSession("actor-1", c, slimeTemplate(50, 1), "meadow", false)
	_, err := eng.ResolveBasicAttack("actor-1", c)
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("battle opened").Len())
	assert.Equal(t, 1, logs.FilterMessage("battle victory").Len())
}

func TestEngine_ConcurrentActors(t *testing.T) {
	eng := newEngine(newFakeClock())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := string(rune('a' + i))
			c := newCharacter(10, 1000, 0)
			eng.OpenSession(actor, c, slimeTemplate(100, 1), "", false)
			for j := 0; j < 10; j++ {
				r, err := eng.ResolveBasicAttack(actor, c)
				if err != nil {
					t.Errorf("actor %s turn %d: %v", actor, j, err)
					return
				}
				if r.Outcome.IsTerminal() {
					return
				}
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, eng.ActiveCount())
}

func TestEngine_PlanDoesNotStoreUntilCommit(t *testing.T) {
	eng := newEngine(newFakeClock())
	c := newCharacter(50, 100, 0)
	eng.OpenSession("actor-1", c, slimeTemplate(80, 10), "", false)

	turn, err := eng.Plan("actor-1", c, combat.Action{Kind: combat.ActionAttack})
	require.NoError(t, err)
	assert.Equal(t, 30, turn.Session.Opponent.CurrentHealth)
	assert.Equal(t, 90, turn.Character.CurrentHP)

	s, err := eng.RequireSession("actor-1")
	require.NoError(t, err)
	assert.Equal(t, 80, s.Opponent.CurrentHealth)
	assert.Equal(t, 100, c.CurrentHP)

	require.NoError(t, eng.Commit("actor-1", turn))
	s, err = eng.RequireSession("actor-1")
	require.NoError(t, err)
	assert.Equal(t, 30, s.Opponent.CurrentHealth)
	assert.Equal(t, 1, s.Turn)
}

func TestEngine_CommitRejectsReplacedBattle(t *testing.T) {
	eng := newEngine(newFakeClock())
	c := newCharacter(50, 100, 0)
	eng.OpenSession("actor-1", c, slimeTemplate(80, 10), "", false)

	turn, err := eng.Plan("actor-1", c, combat.Action{Kind: combat.ActionAttack})
	require.NoError(t, err)

	fresh := eng.OpenSession("actor-1", c, slimeTemplate(80, 10), "", false)
	assert.ErrorIs(t, eng.Commit("actor-1", turn), combat.ErrNoActiveBattle)

	s, err := eng.RequireSession("actor-1")
	require.NoError(t, err)
	assert.Same(t, fresh, s)
	assert.Equal(t, 80, s.Opponent.CurrentHealth)

	eng.CloseSession("actor-1")
	assert.ErrorIs(t, eng.Commit("actor-1", turn), combat.ErrNoActiveBattle)
}
