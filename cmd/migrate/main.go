// Command migrate applies or rolls back the characters schema.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

type options struct {
	configPath string
	source     string
	direction  string
	steps      int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "configs/dev.yaml", "path to configuration file")
	flag.StringVar(&opts.source, "source", "file://migrations", "migration source URL")
	flag.StringVar(&opts.direction, "direction", "up", "up or down")
	flag.IntVar(&opts.steps, "steps", 0, "number of migrations to apply; 0 applies all")
	flag.Parse()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, opts, observability.Component(logger, "migrate")); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
}

func run(cfg config.Config, opts options, logger *zap.Logger) error {
	if cfg.Storage.Driver != "postgres" {
		return fmt.Errorf("storage.driver is %q; nothing to migrate", cfg.Storage.Driver)
	}
	if opts.steps < 0 {
		return errors.New("-steps must not be negative")
	}

	var apply func(m *migrate.Migrate) error
	switch {
	case opts.direction == "up" && opts.steps == 0:
		apply = (*migrate.Migrate).Up
	case opts.direction == "down" && opts.steps == 0:
		apply = (*migrate.Migrate).Down
	case opts.direction == "up":
		apply = func(m *migrate.Migrate) error { return m.Steps(opts.steps) }
	case opts.direction == "down":
		apply = func(m *migrate.Migrate) error { return m.Steps(-opts.steps) }
	default:
		return fmt.Errorf("unknown direction %q", opts.direction)
	}

	start := time.Now()
	m, err := migrate.New(opts.source, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer m.Close()

	err = apply(m)
	changed := !errors.Is(err, migrate.ErrNoChange)
	if err != nil && changed {
		return err
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return verr
	}
	logger.Info("schema migrated",
		zap.String("direction", opts.direction),
		zap.Bool("changed", changed),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
