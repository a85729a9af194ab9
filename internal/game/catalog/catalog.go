// Package catalog aggregates all static game content: skills, items, stat caps,
// opponent templates, zones and the starting kit.
package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
	"github.com/cory-johannsen/skirmish/internal/game/world"
)

// Catalog is the read-only content consulted by the combat engine and the
// battle service. It is immutable after Load or New returns.
type Catalog struct {
	Skills      *skill.Registry
	Items       *inventory.Registry
	Caps        character.StatCaps
	Mobs        *npc.Registry
	Zones       *world.Manager
	StartingKit *character.StartingKit
}

// Skill returns the skill definition for id.
func (c *Catalog) Skill(id string) (*skill.Def, bool) {
	return c.Skills.Skill(id)
}

// Item returns the item definition for id.
func (c *Catalog) Item(id string) (*inventory.ItemDef, bool) {
	return c.Items.Item(id)
}

// Cap returns the ceiling registered for stat.
func (c *Catalog) Cap(stat character.Stat) (int, bool) {
	return c.Caps.Cap(stat)
}

// Template returns the opponent template for id.
func (c *Catalog) Template(id string) (*npc.Template, bool) {
	return c.Mobs.Template(id)
}

// Content holds the raw definitions a Catalog is built from.
type Content struct {
	Skills      []*skill.Def
	Items       []*inventory.ItemDef
	Caps        character.StatCaps
	Mobs        []*npc.Template
	Zones       []*world.Zone
	StartingKit *character.StartingKit
}

// New registers every definition in content and cross-validates references.
//
// Precondition: content.StartingKit must be non-nil.
// Postcondition: Returns a Catalog in which every zone mob, starting item and
// starting skill resolves; otherwise returns a non-nil error.
func New(content Content) (*Catalog, error) {
	if content.StartingKit == nil {
		return nil, fmt.Errorf("catalog: starting kit must not be nil")
	}
	c := &Catalog{
		Skills:      skill.NewRegistry(),
		Items:       inventory.NewRegistry(),
		Caps:        content.Caps,
		Mobs:        npc.NewRegistry(),
		StartingKit: content.StartingKit,
	}
	if c.Caps == nil {
		c.Caps = character.StatCaps{}
	}
	for _, d := range content.Skills {
		if err := c.Skills.Register(d); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}
	for _, d := range content.Items {
		if err := c.Items.RegisterItem(d); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}
	for _, t := range content.Mobs {
		if err := c.Mobs.Register(t); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}
	zones, err := world.NewManager(content.Zones)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c.Zones = zones

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return c, nil
}

func (c *Catalog) validate() error {
	if err := c.Zones.ValidateMobs(func(id string) bool {
		_, ok := c.Mobs.Template(id)
		return ok
	}); err != nil {
		return err
	}
	for slot, id := range c.StartingKit.Equipment {
		def, ok := c.Items.Item(id)
		if !ok {
			return fmt.Errorf("starting kit %s references unknown item %q", slot, id)
		}
		if string(def.Slot) != slot {
			return fmt.Errorf("starting kit item %q belongs in slot %s, not %s", id, def.Slot, slot)
		}
	}
	for i, id := range c.StartingKit.Skills {
		if id == "" {
			continue
		}
		def, ok := c.Skills.Skill(id)
		if !ok {
			return fmt.Errorf("starting kit slot %d references unknown skill %q", i+1, id)
		}
		if !skill.CanEquipToSlot(i, c.StartingKit.Level) || def.MinLevel > c.StartingKit.Level {
			return fmt.Errorf("starting kit skill %q cannot be equipped to slot %d at level %d", id, i+1, c.StartingKit.Level)
		}
	}
	return nil
}

// Load reads every content source named by cfg concurrently and builds a Catalog.
//
// Precondition: every path in cfg except ScriptsDir must be readable.
// Postcondition: Returns a validated Catalog, or the first load error; ctx
// cancellation aborts loads that have not started yet.
func Load(ctx context.Context, cfg config.ContentConfig) (*Catalog, error) {
	var content Content
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return loadStep(ctx, func() (err error) {
			content.Skills, err = skill.LoadSkills(cfg.SkillsDir)
			return err
		})
	})
	g.Go(func() error {
		return loadStep(ctx, func() (err error) {
			content.Items, err = inventory.LoadItems(cfg.ItemsDir)
			return err
		})
	})
	g.Go(func() error {
		return loadStep(ctx, func() (err error) {
			content.Caps, err = character.LoadStatCaps(cfg.StatCapsFile)
			return err
		})
	})
	g.Go(func() error {
		return loadStep(ctx, func() (err error) {
			content.Mobs, err = npc.LoadTemplates(cfg.MobsDir)
			return err
		})
	})
	g.Go(func() error {
		return loadStep(ctx, func() (err error) {
			content.Zones, err = world.LoadZones(cfg.ZonesDir)
			return err
		})
	})
	g.Go(func() error {
		return loadStep(ctx, func() (err error) {
			content.StartingKit, err = character.LoadStartingKit(cfg.StartingKitFile)
			return err
		})
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	return New(content)
}

func loadStep(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}
