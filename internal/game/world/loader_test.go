package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meadowYAML = `
zone:
  id: meadow
  name: Sunny Meadow
  description: |
    Tall grass and short tempers.
  min_level: 1
  mobs: [slime, rat]
  boss: king_slime
  script_dir: content/scripts/zones/meadow
  script_instruction_limit: 5000
`

func TestParseZones_Single(t *testing.T) {
	zones, err := ParseZones([]byte(meadowYAML))
	require.NoError(t, err)
	require.Len(t, zones, 1)
	z := zones[0]
	assert.Equal(t, "meadow", z.ID)
	assert.Equal(t, "Tall grass and short tempers.", z.Description)
	assert.Equal(t, []string{"slime", "rat"}, z.Mobs)
	assert.Equal(t, "king_slime", z.Boss)
	assert.Equal(t, 5000, z.ScriptInstructionLimit)
}

func TestParseZones_MultiDocument(t *testing.T) {
	data := meadowYAML + "---\nzone:\n  id: cave\n  name: Dank Cave\n  mobs: [bat]\n"
	zones, err := ParseZones([]byte(data))
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "cave", zones[1].ID)
	assert.False(t, zones[1].HasBoss())
}

func TestParseZones_Invalid(t *testing.T) {
	_, err := ParseZones([]byte("zone:\n  id: x\n  name: X\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 1")

	_, err = ParseZones([]byte("zone: [not, a, map]"))
	assert.Error(t, err)

	_, err = ParseZones(nil)
	assert.Error(t, err)
}

func TestLoadZones_SortedByFileName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02_cave.yml"), []byte(`
zone:
  id: cave
  name: Dank Cave
  min_level: 10
  mobs: [bat]
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01_meadow.yaml"), []byte(meadowYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	zones, err := LoadZones(dir)
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "meadow", zones[0].ID)
	assert.Equal(t, "cave", zones[1].ID)
}

func TestLoadZones_Empty(t *testing.T) {
	_, err := LoadZones(t.TempDir())
	assert.Error(t, err)
}

func TestLoadZones_BadFileNamed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("zone:\n  id: b\n"), 0644))
	_, err := LoadZones(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
