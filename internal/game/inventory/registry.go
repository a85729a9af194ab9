package inventory

import "fmt"

// Registry indexes item definitions by ID. It is filled at startup and only
// read afterwards.
type Registry struct {
	defs  []*ItemDef
	index map[string]int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// RegisterItem adds d, failing if its ID is taken.
//
// Precondition: d is non-nil.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, taken := r.index[d.ID]; taken {
		return fmt.Errorf("inventory: duplicate item id %q", d.ID)
	}
	r.index[d.ID] = len(r.defs)
	r.defs = append(r.defs, d)
	return nil
}

// Item looks up an item by ID.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.defs[i], true
}

// All returns the items in registration order.
func (r *Registry) All() []*ItemDef {
	return append([]*ItemDef(nil), r.defs...)
}
