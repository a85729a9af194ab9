package gameserver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/world"
	"github.com/cory-johannsen/skirmish/internal/gameserver"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

func writeScript(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "battle.lua"), []byte(body), 0o644))
}

func TestLoadScripts(t *testing.T) {
	root := t.TempDir()
	zoneDir := filepath.Join(root, "zones", "meadow")
	writeScript(t, zoneDir, `function on_battle_start(a, m) return "meadow " .. m end`)
	writeScript(t, filepath.Join(root, "global"), `function on_battle_start(a, m) return "global " .. m end`)

	mgr := scripting.NewManager(dice.NewSeededSource(1), zap.NewNop())
	t.Cleanup(mgr.Close)

	zones := []*world.Zone{
		{ID: "meadow", Name: "Meadow", Mobs: []string{"slime"}, ScriptDir: zoneDir},
		{ID: "bare", Name: "Bare", Mobs: []string{"slime"}},
	}
	require.NoError(t, gameserver.LoadScripts(mgr, zones, root, zaptest.NewLogger(t)))

	assert.Equal(t, "meadow Slime", mgr.BattleStart("meadow", "u1", "Slime"))
	assert.Equal(t, "global Slime", mgr.BattleStart("bare", "u1", "Slime"))
}

func TestLoadScripts_NoGlobalDir(t *testing.T) {
	mgr := scripting.NewManager(dice.NewSeededSource(1), zap.NewNop())
	t.Cleanup(mgr.Close)
	require.NoError(t, gameserver.LoadScripts(mgr, nil, t.TempDir(), zap.NewNop()))
	assert.Empty(t, mgr.Zones())
}

func TestLoadScripts_BrokenZoneScript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "broken")
	writeScript(t, dir, `this is not lua`)
	mgr := scripting.NewManager(dice.NewSeededSource(1), zap.NewNop())
	t.Cleanup(mgr.Close)

	err := gameserver.LoadScripts(mgr, []*world.Zone{{ID: "broken", Name: "B", Mobs: []string{"x"}, ScriptDir: dir}}, "", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `zone "broken"`)
}
