package escape

import (
	"github.com/agbru/mandelcalc/internal/complexnum"
)

// Map is one step of an iterated complex map, z_{k+1} = Next(z_k, c).
type Map interface {
	Next(z, c complexnum.Complex) complexnum.Complex
}

// Quadratic is the Mandelbrot map z² + c.
type Quadratic struct{}

// Next returns z·z + c.
func (Quadratic) Next(z, c complexnum.Complex) complexnum.Complex {
	return z.Multiply(z).Add(c)
}

// Evaluator holds validated iteration parameters so the per-pixel hot path
// does not re-check them. It is immutable and safe for concurrent use.
type Evaluator struct {
	m             Map
	maxIterations int
	radius        float64
	radiusSq      float64
}

// NewEvaluator validates the parameters once. A nil m selects Quadratic.
func NewEvaluator(m Map, maxIterations int, escapeRadius float64) (*Evaluator, error) {
	if err := validate(maxIterations, escapeRadius); err != nil {
		return nil, err
	}
	if m == nil {
		m = Quadratic{}
	}
	return &Evaluator{
		m:             m,
		maxIterations: maxIterations,
		radius:        escapeRadius,
		radiusSq:      escapeRadius * escapeRadius,
	}, nil
}

// MaxIterations returns the iteration cap.
func (e *Evaluator) MaxIterations() int { return e.maxIterations }

// EscapeRadius returns the escape radius.
func (e *Evaluator) EscapeRadius() float64 { return e.radius }

// Evaluate returns the fate of the orbit of c under the evaluator's map.
func (e *Evaluator) Evaluate(c complexnum.Complex) Result {
	if _, ok := e.m.(Quadratic); ok {
		return evaluateQuadratic(c, e.maxIterations, e.radiusSq)
	}
	z := complexnum.Zero
	for k := 1; k <= e.maxIterations; k++ {
		z = e.m.Next(z, c)
		if z.SquaredModulus() > e.radiusSq {
			return Escaped(k)
		}
	}
	return Bounded
}
