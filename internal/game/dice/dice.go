// Package dice provides the randomness abstraction for the combat engine.
// Every random draw the engine makes goes through a Source so tests can
// substitute a deterministic one.
package dice

// Source is the randomness provider for combat rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a uniformly distributed float in [0.0, 1.0).
	Float64() float64
}

// Percent draws a uniform value in [0, 100).
//
// Precondition: src must be non-nil.
// Postcondition: 0 <= result < 100.
func Percent(src Source) float64 {
	return src.Float64() * 100
}
