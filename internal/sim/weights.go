package sim

import (
	"fmt"

	"github.com/vovakirdan/flaptrain/internal/config"
)

// Weights holds the policy parameters. Jump is always present; PowerUp is
// only used by dual-action variants and must be empty otherwise.
type Weights struct {
	Jump    []float64
	PowerUp []float64
}

// Dual reports whether a power-up vector is present.
func (w Weights) Dual() bool {
	return w.PowerUp != nil
}

// Validate checks the vector lengths against the variant's feature set.
// Mismatches are never truncated or padded.
func (w Weights) Validate(f config.Features) error {
	want := f.Count()
	if len(w.Jump) != want {
		return fmt.Errorf("%w: jump vector has %d weights, variant expects %d", ErrInvalidWeightShape, len(w.Jump), want)
	}
	switch {
	case f.Dual && len(w.PowerUp) != want:
		return fmt.Errorf("%w: power-up vector has %d weights, variant expects %d", ErrInvalidWeightShape, len(w.PowerUp), want)
	case !f.Dual && len(w.PowerUp) != 0:
		return fmt.Errorf("%w: variant takes a single vector, got a power-up vector of %d", ErrInvalidWeightShape, len(w.PowerUp))
	}
	return nil
}
