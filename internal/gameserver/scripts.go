package gameserver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/world"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// GlobalScriptsSubdir is the directory under the scripts root holding the
// fallback hooks for zones without their own scripts.
const GlobalScriptsSubdir = "global"

// LoadScripts loads each zone's Lua hooks and the global fallback into mgr.
// A zone without a script_dir is skipped; a missing global directory is not an error.
//
// Precondition: mgr and logger are non-nil.
// Postcondition: Returns the first Lua load failure, naming the zone.
func LoadScripts(mgr *scripting.Manager, zones []*world.Zone, scriptsDir string, logger *zap.Logger) error {
	for _, z := range zones {
		if z.ScriptDir == "" {
			continue
		}
		if err := mgr.LoadZone(z.ID, z.ScriptDir, z.ScriptInstructionLimit); err != nil {
			return fmt.Errorf("zone %q: %w", z.ID, err)
		}
		logger.Info("zone scripts loaded", zap.String("zone", z.ID), zap.String("dir", z.ScriptDir))
	}

	if scriptsDir == "" {
		return nil
	}
	global := filepath.Join(scriptsDir, GlobalScriptsSubdir)
	if _, err := os.Stat(global); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("global scripts: %w", err)
	}
	if err := mgr.LoadGlobal(global, 0); err != nil {
		return fmt.Errorf("global scripts: %w", err)
	}
	logger.Info("global scripts loaded", zap.String("dir", global))
	return nil
}
