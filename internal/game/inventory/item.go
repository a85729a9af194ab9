// Package inventory defines equippable items and the registry that serves them.
package inventory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Slot is an equipment position on the character sheet.
type Slot string

const (
	SlotWeapon    Slot = "weapon"
	SlotArmor     Slot = "armor"
	SlotAccessory Slot = "accessory"
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{SlotWeapon, SlotArmor, SlotAccessory}

// IsValid reports whether s names one of Slots.
func (s Slot) IsValid() bool {
	for _, known := range Slots {
		if s == known {
			return true
		}
	}
	return false
}

// ItemDef is an equippable item. Stats maps a stat key ("atk", "hp", "crt")
// to the flat bonus the item grants while worn.
type ItemDef struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Slot        Slot           `yaml:"slot"`
	Stats       map[string]int `yaml:"stats"`
}

// Bonus returns the item's bonus for stat; absent stats grant 0.
func (d *ItemDef) Bonus(stat string) int {
	return d.Stats[stat]
}

// Validate reports every problem with d at once.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !d.Slot.IsValid() {
		errs = append(errs, fmt.Errorf("slot %q is not one of %v", d.Slot, Slots))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("item %q: %w", d.ID, err)
	}
	return nil
}

// LoadItems loads one item per *.yaml or *.yml file in dir.
func LoadItems(dir string) ([]*ItemDef, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}
	return LoadItemsFS(os.DirFS(dir))
}

// LoadItemsFS loads one item per *.yaml or *.yml file at the root of fsys,
// in file-name order.
//
// Postcondition: Returns every item validated, or the first error naming its file.
func LoadItemsFS(fsys fs.FS) ([]*ItemDef, error) {
	yamls, _ := fs.Glob(fsys, "*.yaml")
	ymls, _ := fs.Glob(fsys, "*.yml")
	names := append(yamls, ymls...)
	sort.Strings(names)

	items := make([]*ItemDef, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		d := new(ItemDef)
		if err := yaml.Unmarshal(data, d); err != nil {
			return nil, fmt.Errorf("items: %s: %w", name, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("items: %s: %w", name, err)
		}
		items = append(items, d)
	}
	return items, nil
}
