package world

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type indexSource struct{ n int }

func (s indexSource) Intn(n int) int   { return s.n % n }
func (s indexSource) Float64() float64 { return 0 }

func TestNewManager(t *testing.T) {
	mgr, err := NewManager([]*Zone{validTestZone()})
	require.NoError(t, err)
	assert.Equal(t, 1, mgr.ZoneCount())
}

func TestNewManager_DuplicateZone(t *testing.T) {
	_, err := NewManager([]*Zone{validTestZone(), validTestZone()})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate zone ID")
}

func TestManager_ZonesPreservesOrder(t *testing.T) {
	cave := &Zone{ID: "cave", Name: "Cave", Mobs: []string{"bat"}}
	mgr, err := NewManager([]*Zone{cave, validTestZone()})
	require.NoError(t, err)

	zones := mgr.Zones()
	require.Len(t, zones, 2)
	assert.Equal(t, "cave", zones[0].ID)
	assert.Equal(t, "meadow", zones[1].ID)
}

func TestManager_PickMob(t *testing.T) {
	mgr, err := NewManager([]*Zone{validTestZone()})
	require.NoError(t, err)

	id, err := mgr.PickMob("meadow", indexSource{n: 1})
	require.NoError(t, err)
	assert.Equal(t, "rat", id)

	_, err = mgr.PickMob("nowhere", indexSource{})
	assert.True(t, errors.Is(err, ErrUnknownZone))
}

func TestManager_Boss(t *testing.T) {
	cave := &Zone{ID: "cave", Name: "Cave", Mobs: []string{"bat"}}
	mgr, err := NewManager([]*Zone{validTestZone(), cave})
	require.NoError(t, err)

	id, err := mgr.Boss("meadow")
	require.NoError(t, err)
	assert.Equal(t, "king_slime", id)

	_, err = mgr.Boss("cave")
	assert.True(t, errors.Is(err, ErrNoBoss))

	_, err = mgr.Boss("nowhere")
	assert.True(t, errors.Is(err, ErrUnknownZone))
}

func TestManager_ValidateMobs(t *testing.T) {
	mgr, err := NewManager([]*Zone{validTestZone()})
	require.NoError(t, err)

	known := map[string]bool{"slime": true, "rat": true, "king_slime": true}
	assert.NoError(t, mgr.ValidateMobs(func(id string) bool { return known[id] }))

	delete(known, "king_slime")
	err = mgr.ValidateMobs(func(id string) bool { return known[id] })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "king_slime")
}

func TestProperty_PickMobAlwaysListed(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mobs := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,6}`), 1, 10).Draw(rt, "mobs")
		mgr, err := NewManager([]*Zone{{ID: "z", Name: "Z", Mobs: mobs}})
		require.NoError(rt, err)

		id, err := mgr.PickMob("z", indexSource{n: rapid.IntRange(0, 1000).Draw(rt, "n")})
		require.NoError(rt, err)
		assert.Contains(rt, mobs, id)
	})
}

func TestManager_Lookup(t *testing.T) {
	mgr, err := NewManager([]*Zone{validTestZone()})
	require.NoError(t, err)
	z, err := mgr.Lookup(validTestZone().ID)
	require.NoError(t, err)
	assert.Equal(t, validTestZone().Name, z.Name)

	_, err = mgr.Lookup("nowhere")
	assert.True(t, errors.Is(err, ErrUnknownZone))
}
