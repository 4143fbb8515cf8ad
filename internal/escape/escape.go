// Package escape implements the escape-time evaluator: for a parameter c it
// iterates z ← z² + c from z₀ = 0 and reports the iteration at which the
// orbit left the disc of the escape radius, or that it stayed bounded for the
// whole iteration budget.
//
// Every function here is a pure function of its inputs. Evaluations share no
// state, so callers may run any number of them concurrently.
package escape

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/agbru/mandelcalc/internal/complexnum"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
)

// DefaultEscapeRadius is the smallest radius for which escape of the
// quadratic map is guaranteed once crossed.
const DefaultEscapeRadius = 2.0

// ErrInvalidArgument is the sentinel behind every validation failure of the
// evaluator inputs.
var ErrInvalidArgument = errors.New("escape: invalid argument")

// Result is the fate of one orbit: either Escaped at a 1-based iteration or
// Bounded. The zero value is Bounded.
type Result struct {
	iteration int32
}

// Bounded is the result of an orbit that never left the escape disc.
var Bounded = Result{}

// Escaped returns the result of an orbit that left the escape disc after k
// completed iterations. k must be at least 1.
func Escaped(k int) Result {
	return Result{iteration: int32(k)}
}

// IsBounded reports whether the iteration cap was reached without escaping.
func (r Result) IsBounded() bool { return r.iteration == 0 }

// Iteration returns the 1-based escape iteration, or 0 for Bounded.
func (r Result) Iteration() int { return int(r.iteration) }

// String renders Escaped(k) or Bounded.
func (r Result) String() string {
	if r.IsBounded() {
		return "Bounded"
	}
	return fmt.Sprintf("Escaped(%d)", r.iteration)
}

// Evaluate runs the escape-time iteration for c. It fails only on invalid
// inputs: maxIterations must be positive and escapeRadius a positive finite
// number. The loop compares |z|² against escapeRadius² and never allocates.
func Evaluate(c complexnum.Complex, maxIterations int, escapeRadius float64) (Result, error) {
	if err := validate(maxIterations, escapeRadius); err != nil {
		return Bounded, err
	}
	return evaluateQuadratic(c, maxIterations, escapeRadius*escapeRadius), nil
}

// evaluateQuadratic is the unchecked inner loop shared by Evaluate and
// Evaluator.
func evaluateQuadratic(c complexnum.Complex, maxIterations int, radiusSq float64) Result {
	z := complexnum.Zero
	for k := 1; k <= maxIterations; k++ {
		z = z.Multiply(z).Add(c)
		if z.SquaredModulus() > radiusSq {
			return Escaped(k)
		}
	}
	return Bounded
}

func validate(maxIterations int, escapeRadius float64) error {
	if maxIterations <= 0 {
		return apperrors.ValidationError{
			Field:   "maxIterations",
			Message: fmt.Sprintf("must be positive, got %d", maxIterations),
			Cause:   ErrInvalidArgument,
		}
	}
	if maxIterations > math.MaxInt32 {
		return apperrors.ValidationError{
			Field:   "maxIterations",
			Message: fmt.Sprintf("must not exceed %d, got %d", math.MaxInt32, maxIterations),
			Cause:   ErrInvalidArgument,
		}
	}
	if !(escapeRadius > 0) || math.IsInf(escapeRadius, 0) {
		return apperrors.ValidationError{
			Field:   "escapeRadius",
			Message: fmt.Sprintf("must be a positive finite number, got %g", escapeRadius),
			Cause:   ErrInvalidArgument,
		}
	}
	return nil
}

// Orbit yields the states (k, z_k) of the iteration for c, k starting at 1.
// The sequence ends after the first state outside the escape disc or after
// maxIterations states, whichever comes first. Invalid inputs yield nothing.
func Orbit(c complexnum.Complex, maxIterations int, escapeRadius float64) iter.Seq2[int, complexnum.Complex] {
	return func(yield func(int, complexnum.Complex) bool) {
		if validate(maxIterations, escapeRadius) != nil {
			return
		}
		radiusSq := escapeRadius * escapeRadius
		z := complexnum.Zero
		for k := 1; k <= maxIterations; k++ {
			z = z.Multiply(z).Add(c)
			if !yield(k, z) || z.SquaredModulus() > radiusSq {
				return
			}
		}
	}
}
