package combat

// Debuff is a timed percentage increase to the character's outgoing damage.
type Debuff struct {
	Percent        int
	RemainingTurns int
}

// Debuffs is the set of debuffs active on one opponent. Order carries no meaning.
type Debuffs []Debuff

// Percent returns the sum of every debuff's Percent; 0 for an empty set.
func (d Debuffs) Percent() int {
	total := 0
	for _, db := range d {
		total += db.Percent
	}
	return total
}

// Tick decrements every debuff once and drops those that reach zero turns.
//
// Postcondition: every returned Debuff has RemainingTurns > 0; d is not modified.
func (d Debuffs) Tick() Debuffs {
	out := make(Debuffs, 0, len(d))
	for _, db := range d {
		db.RemainingTurns--
		if db.RemainingTurns > 0 {
			out = append(out, db)
		}
	}
	return out
}

// Clone returns an independent copy of d.
func (d Debuffs) Clone() Debuffs {
	out := make(Debuffs, len(d))
	copy(out, d)
	return out
}
