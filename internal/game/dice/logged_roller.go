package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every draw the engine makes leaves an
// audit trail at debug level. Roller itself satisfies Source.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the wrapped source and logs the result.
//
// Precondition: n > 0.
// Postcondition: result in [0, n).
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("dice intn",
		zap.Int("n", n),
		zap.Int("result", v),
	)
	return v
}

// Float64 draws from the wrapped source and logs the result.
//
// Postcondition: result in [0.0, 1.0).
func (r *Roller) Float64() float64 {
	v := r.src.Float64()
	r.logger.Debug("dice float64",
		zap.Float64("result", v),
	)
	return v
}
