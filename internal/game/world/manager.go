package world

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Manager provides read access to the loaded zones in load order.
// It is immutable after construction and safe for concurrent use.
type Manager struct {
	zones map[string]*Zone
	order []string
}

// NewManager creates a Manager from the given zones.
//
// Postcondition: Returns a Manager with all zones indexed by ID, or an error on duplicate zone IDs.
func NewManager(zones []*Zone) (*Manager, error) {
	m := &Manager{zones: make(map[string]*Zone, len(zones))}
	for _, z := range zones {
		if _, exists := m.zones[z.ID]; exists {
			return nil, fmt.Errorf("duplicate zone ID: %q", z.ID)
		}
		m.zones[z.ID] = z
		m.order = append(m.order, z.ID)
	}
	return m, nil
}

// ValidateMobs checks that every mob and boss referenced by every zone
// resolves through known.
//
// Precondition: known must be non-nil.
// Postcondition: Returns nil if all references resolve, or an error naming the first dangling one.
func (m *Manager) ValidateMobs(known func(id string) bool) error {
	for _, id := range m.order {
		zone := m.zones[id]
		for _, mob := range zone.MobIDs() {
			if !known(mob) {
				return fmt.Errorf("zone %q references unknown mob %q", zone.ID, mob)
			}
		}
	}
	return nil
}

// Zone returns the zone with the given ID.
//
// Postcondition: Returns (zone, true) if found, or (nil, false) otherwise.
func (m *Manager) Zone(id string) (*Zone, bool) {
	z, ok := m.zones[id]
	return z, ok
}

// Lookup returns the zone with the given ID.
//
// Postcondition: Returns an error wrapping ErrUnknownZone if not found.
func (m *Manager) Lookup(id string) (*Zone, error) {
	z, ok := m.zones[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, id)
	}
	return z, nil
}

// Zones returns all loaded zones in load order.
//
// Postcondition: Returns a non-nil slice; may be empty.
func (m *Manager) Zones() []*Zone {
	out := make([]*Zone, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.zones[id])
	}
	return out
}

// ZoneCount returns the number of loaded zones.
func (m *Manager) ZoneCount() int {
	return len(m.zones)
}

// PickMob draws one regular opponent ID uniformly from the zone's mob list.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a mob ID listed by the zone, or ErrUnknownZone.
func (m *Manager) PickMob(zoneID string, src dice.Source) (string, error) {
	z, ok := m.zones[zoneID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownZone, zoneID)
	}
	return z.Mobs[src.Intn(len(z.Mobs))], nil
}

// Boss returns the zone's boss opponent ID.
//
// Postcondition: Returns ErrUnknownZone or ErrNoBoss on failure.
func (m *Manager) Boss(zoneID string) (string, error) {
	z, ok := m.zones[zoneID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownZone, zoneID)
	}
	if !z.HasBoss() {
		return "", fmt.Errorf("%w: %q", ErrNoBoss, zoneID)
	}
	return z.Boss, nil
}
