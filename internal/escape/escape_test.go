package escape

import (
	"errors"
	"math"
	"testing"

	"github.com/agbru/mandelcalc/internal/complexnum"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
)

func TestEvaluate_Scenarios(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		c             complexnum.Complex
		maxIterations int
		radius        float64
		want          Result
	}{
		{"origin never escapes", complexnum.Zero, 100, 2, Bounded},
		{"first iterate escapes", complexnum.New(2, 2), 100, 2, Escaped(1)},
		{"period two cycle", complexnum.New(-1, 0), 50, 2, Bounded},
		{"tip of the real axis", complexnum.New(-2, 0), 1000, 2, Bounded},
		{"just right of the cusp", complexnum.New(0.26, 0), 1000, 2, Escaped(30)},
		{"i is in the set", complexnum.I, 500, 2, Bounded},
		{"one escapes on the third step", complexnum.One, 100, 2, Escaped(3)},
		{"cap of one iteration", complexnum.New(1, 0), 1, 2, Bounded},
		{"larger radius delays escape", complexnum.New(2, 2), 100, 10, Escaped(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Evaluate(tt.c, tt.maxIterations, tt.radius)
			if err != nil {
				t.Fatalf("Evaluate(%v) returned error: %v", tt.c, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%v, %d, %g) = %v, want %v", tt.c, tt.maxIterations, tt.radius, got, tt.want)
			}
		})
	}
}

func TestEvaluate_EscapeIterationMatchesOrbit(t *testing.T) {
	t.Parallel()
	// c = 1: z1 = 1, z2 = 2, z3 = 5. |z2|² = 4 is not > 4, so escape is at 3.
	var last int
	for k, z := range Orbit(complexnum.One, 100, 2) {
		last = k
		if k == 2 && !z.Equal(complexnum.New(2, 0)) {
			t.Errorf("z2 = %v, want 2", z)
		}
	}
	if last != 3 {
		t.Errorf("orbit ended at %d, want 3", last)
	}
}

func TestEvaluate_InvalidArguments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		maxIterations int
		radius        float64
		field         string
	}{
		{"zero iterations", 0, 2, "maxIterations"},
		{"negative iterations", -5, 2, "maxIterations"},
		{"too many iterations", math.MaxInt32 + 1, 2, "maxIterations"},
		{"zero radius", 10, 0, "escapeRadius"},
		{"negative radius", 10, -1, "escapeRadius"},
		{"NaN radius", 10, math.NaN(), "escapeRadius"},
		{"infinite radius", 10, math.Inf(1), "escapeRadius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Evaluate(complexnum.Zero, tt.maxIterations, tt.radius)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			var validationErr apperrors.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatal("expected a ValidationError")
			}
			if validationErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", validationErr.Field, tt.field)
			}

			if _, err := NewEvaluator(nil, tt.maxIterations, tt.radius); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("NewEvaluator should reject the same input, got %v", err)
			}
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	t.Parallel()
	points := []complexnum.Complex{
		complexnum.New(-0.743643887037151, 0.131825904205330),
		complexnum.New(-0.75, 0.1),
		complexnum.New(0.285, 0.01),
	}
	for _, c := range points {
		first, err1 := Evaluate(c, 5000, 2)
		second, err2 := Evaluate(c, 5000, 2)
		if err1 != nil || err2 != nil {
			t.Fatalf("unexpected errors: %v, %v", err1, err2)
		}
		if first != second {
			t.Errorf("Evaluate(%v) not deterministic: %v then %v", c, first, second)
		}
	}
}

func TestEvaluate_DoesNotAllocate(t *testing.T) {
	c := complexnum.New(-0.75, 0.1)
	allocs := testing.AllocsPerRun(100, func() {
		_, _ = Evaluate(c, 1000, 2)
	})
	if allocs != 0 {
		t.Errorf("Evaluate allocated %.1f times per run, want 0", allocs)
	}

	ev, err := NewEvaluator(nil, 1000, 2)
	if err != nil {
		t.Fatal(err)
	}
	allocs = testing.AllocsPerRun(100, func() {
		_ = ev.Evaluate(c)
	})
	if allocs != 0 {
		t.Errorf("Evaluator.Evaluate allocated %.1f times per run, want 0", allocs)
	}
}

func TestResult(t *testing.T) {
	t.Parallel()
	if !Bounded.IsBounded() || Bounded.Iteration() != 0 {
		t.Error("Bounded should report IsBounded and iteration 0")
	}
	if (Result{}) != Bounded {
		t.Error("zero Result should be Bounded")
	}
	r := Escaped(7)
	if r.IsBounded() || r.Iteration() != 7 {
		t.Errorf("Escaped(7) = %+v", r)
	}
	if got := r.String(); got != "Escaped(7)" {
		t.Errorf("String() = %q", got)
	}
	if got := Bounded.String(); got != "Bounded" {
		t.Errorf("String() = %q", got)
	}
}

func TestOrbit(t *testing.T) {
	t.Parallel()

	t.Run("bounded orbit yields every state", func(t *testing.T) {
		t.Parallel()
		var states []complexnum.Complex
		for _, z := range Orbit(complexnum.New(-1, 0), 6, 2) {
			states = append(states, z)
		}
		if len(states) != 6 {
			t.Fatalf("got %d states, want 6", len(states))
		}
		want := []complexnum.Complex{
			complexnum.New(-1, 0), complexnum.Zero,
			complexnum.New(-1, 0), complexnum.Zero,
			complexnum.New(-1, 0), complexnum.Zero,
		}
		for i := range want {
			if !states[i].Equal(want[i]) {
				t.Errorf("state %d = %v, want %v", i+1, states[i], want[i])
			}
		}
	})

	t.Run("escaping orbit stops after the escaping state", func(t *testing.T) {
		t.Parallel()
		count := 0
		for k, z := range Orbit(complexnum.New(2, 2), 100, 2) {
			count++
			if k != 1 || !z.Equal(complexnum.New(2, 2)) {
				t.Errorf("unexpected state %d: %v", k, z)
			}
		}
		if count != 1 {
			t.Errorf("got %d states, want 1", count)
		}
	})

	t.Run("consumer can stop early", func(t *testing.T) {
		t.Parallel()
		count := 0
		for range Orbit(complexnum.Zero, 100, 2) {
			count++
			if count == 3 {
				break
			}
		}
		if count != 3 {
			t.Errorf("count = %d, want 3", count)
		}
	})

	t.Run("invalid input yields nothing", func(t *testing.T) {
		t.Parallel()
		for range Orbit(complexnum.Zero, 0, 2) {
			t.Fatal("expected no states")
		}
	})
}

// cubic is z³ + c, used to exercise the Map extension point.
type cubic struct{}

func (cubic) Next(z, c complexnum.Complex) complexnum.Complex {
	return z.Pow(3).Add(c)
}

func TestEvaluator(t *testing.T) {
	t.Parallel()

	ev, err := NewEvaluator(nil, 100, 2)
	if err != nil {
		t.Fatal(err)
	}
	if ev.MaxIterations() != 100 || ev.EscapeRadius() != 2 {
		t.Errorf("accessors = %d, %g", ev.MaxIterations(), ev.EscapeRadius())
	}
	for _, c := range []complexnum.Complex{complexnum.Zero, complexnum.New(2, 2), complexnum.New(0.3, 0.5)} {
		want, _ := Evaluate(c, 100, 2)
		if got := ev.Evaluate(c); got != want {
			t.Errorf("Evaluator.Evaluate(%v) = %v, want %v", c, got, want)
		}
	}

	explicit, err := NewEvaluator(Quadratic{}, 100, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := explicit.Evaluate(complexnum.New(2, 2)); got != Escaped(1) {
		t.Errorf("explicit quadratic = %v", got)
	}

	cubicEv, err := NewEvaluator(cubic{}, 100, 2)
	if err != nil {
		t.Fatal(err)
	}
	// c = 1: z1 = 1, z2 = 2, z3 = 9.
	if got := cubicEv.Evaluate(complexnum.One); got != Escaped(3) {
		t.Errorf("cubic Evaluate(1) = %v, want Escaped(3)", got)
	}
	// c = -1: z1 = -1, z2 = -2, z3 = -9.
	if got := cubicEv.Evaluate(complexnum.New(-1, 0)); got != Escaped(3) {
		t.Errorf("cubic Evaluate(-1) = %v, want Escaped(3)", got)
	}
}

func BenchmarkEvaluate_Bounded(b *testing.B) {
	c := complexnum.New(-0.1, 0.1)
	b.ReportAllocs()
	for b.Loop() {
		_, _ = Evaluate(c, 1000, 2)
	}
}

func BenchmarkEvaluator_Seahorse(b *testing.B) {
	ev, _ := NewEvaluator(nil, 1000, 2)
	c := complexnum.New(-0.75, 0.1)
	b.ReportAllocs()
	for b.Loop() {
		_ = ev.Evaluate(c)
	}
}
