package escape_test

import (
	"fmt"

	"github.com/agbru/mandelcalc/internal/complexnum"
	"github.com/agbru/mandelcalc/internal/escape"
)

func ExampleEvaluate() {
	for _, c := range []complexnum.Complex{
		complexnum.Zero,
		complexnum.New(2, 2),
		complexnum.New(-1, 0),
	} {
		r, err := escape.Evaluate(c, 100, escape.DefaultEscapeRadius)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(r)
	}

	_, err := escape.Evaluate(complexnum.Zero, 0, 2)
	fmt.Println(err)
	// Output:
	// Bounded
	// Escaped(1)
	// Bounded
	// validation error for "maxIterations": must be positive, got 0
}

func ExampleOrbit() {
	for k, z := range escape.Orbit(complexnum.One, 10, 2) {
		fmt.Println(k, z)
	}
	// Output:
	// 1 Complex{real=1.0, imaginary=0.0}
	// 2 Complex{real=2.0, imaginary=0.0}
	// 3 Complex{real=5.0, imaginary=0.0}
}
