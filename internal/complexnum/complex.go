package complexnum

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Epsilon is the absolute tolerance used by Equal on each component.
const Epsilon = 1e-9

// ErrDivisionByZero is returned by Reciprocal and Divide when the divisor is
// exactly zero.
var ErrDivisionByZero = errors.New("complexnum: division by zero")

// Complex is the value a + bi with float64 components.
type Complex struct {
	re float64
	im float64
}

var (
	// Zero is 0 + 0i.
	Zero = Complex{}
	// One is 1 + 0i.
	One = Complex{re: 1}
	// I is 0 + 1i.
	I = Complex{im: 1}
)

// New returns re + im·i.
func New(re, im float64) Complex {
	return Complex{re: re, im: im}
}

// FromComplex128 converts a builtin complex128.
func FromComplex128(z complex128) Complex {
	return Complex{re: real(z), im: imag(z)}
}

// Rotation returns the unit complex number cos θ + i·sin θ, which rotates a
// value by θ radians when multiplied with it.
func Rotation(theta float64) Complex {
	sin, cos := math.Sincos(theta)
	return Complex{re: cos, im: sin}
}

// Real returns the real part.
func (a Complex) Real() float64 { return a.re }

// Imaginary returns the imaginary part.
func (a Complex) Imaginary() float64 { return a.im }

// Complex128 converts a to the builtin complex type.
func (a Complex) Complex128() complex128 { return complex(a.re, a.im) }

// Add returns a + b.
func (a Complex) Add(b Complex) Complex {
	return Complex{re: a.re + b.re, im: a.im + b.im}
}

// Subtract returns a - b.
func (a Complex) Subtract(b Complex) Complex {
	return Complex{re: a.re - b.re, im: a.im - b.im}
}

// Multiply returns the complex product a·b.
func (a Complex) Multiply(b Complex) Complex {
	return Complex{
		re: a.re*b.re - a.im*b.im,
		im: a.re*b.im + a.im*b.re,
	}
}

// Negate returns -a.
func (a Complex) Negate() Complex {
	return Complex{re: -a.re, im: -a.im}
}

// Conjugate returns a.re - a.im·i.
func (a Complex) Conjugate() Complex {
	return Complex{re: a.re, im: -a.im}
}

// Scale multiplies both components by lambda.
func (a Complex) Scale(lambda float64) Complex {
	return Complex{re: a.re * lambda, im: a.im * lambda}
}

// SquaredModulus returns re² + im², the modulus without the square root.
func (a Complex) SquaredModulus() float64 {
	return a.re*a.re + a.im*a.im
}

// Modulus returns the Euclidean length of a.
func (a Complex) Modulus() float64 {
	return math.Sqrt(a.SquaredModulus())
}

// Reciprocal returns 1/a = conjugate(a) / |a|². It fails with
// ErrDivisionByZero only when both components are zero.
//
// Both components are first divided by the larger magnitude, so |a|² is
// never formed at the original scale: tiny or huge non-zero values get a
// finite reciprocal whenever one exists.
func (a Complex) Reciprocal() (Complex, error) {
	if a.re == 0 && a.im == 0 {
		return Complex{}, ErrDivisionByZero
	}
	s := math.Max(math.Abs(a.re), math.Abs(a.im))
	re, im := a.re/s, a.im/s
	q := re*re + im*im
	return Complex{re: re / q / s, im: -im / q / s}, nil
}

// Divide returns a / b as a · reciprocal(b).
func (a Complex) Divide(b Complex) (Complex, error) {
	r, err := b.Reciprocal()
	if err != nil {
		return Complex{}, err
	}
	return a.Multiply(r), nil
}

// Pow returns a raised to the non-negative integer power n. Pow(0) is One for
// every a, Zero included.
//
// The power is computed by binary exponentiation (square-and-multiply), which
// needs O(log n) products instead of n. The result agrees with n repeated
// calls to Multiply within Epsilon for values of moderate magnitude; the two
// schemes round differently, so they are not bit-identical in general.
func (a Complex) Pow(n uint) Complex {
	result := One
	base := a
	for n > 0 {
		if n&1 == 1 {
			result = result.Multiply(base)
		}
		n >>= 1
		if n > 0 {
			base = base.Multiply(base)
		}
	}
	return result
}

// PowInt extends Pow to signed exponents. A negative n is defined as
// Reciprocal(Pow(a, -n)) and so fails with ErrDivisionByZero when a is Zero.
func (a Complex) PowInt(n int) (Complex, error) {
	if n >= 0 {
		return a.Pow(uint(n)), nil
	}
	return a.Pow(uint(-n)).Reciprocal()
}

// Equal reports whether both components of a and b differ by at most Epsilon.
func (a Complex) Equal(b Complex) bool {
	return a.ApproxEqual(b, Epsilon)
}

// ApproxEqual reports whether both components differ by at most tol.
func (a Complex) ApproxEqual(b Complex, tol float64) bool {
	return math.Abs(a.re-b.re) <= tol && math.Abs(a.im-b.im) <= tol
}

// IsFinite reports whether neither component is NaN or infinite.
func (a Complex) IsFinite() bool {
	return !math.IsNaN(a.re) && !math.IsInf(a.re, 0) &&
		!math.IsNaN(a.im) && !math.IsInf(a.im, 0)
}

// String renders a as Complex{real=1.0, imaginary=-1.0}.
func (a Complex) String() string {
	var b strings.Builder
	b.Grow(40)
	b.WriteString("Complex{real=")
	b.WriteString(FormatFloat(a.re))
	b.WriteString(", imaginary=")
	b.WriteString(FormatFloat(a.im))
	b.WriteByte('}')
	return b.String()
}

// FormatFloat renders f in shortest round-trip form while always keeping a
// fractional part, so 1 becomes "1.0" and 1e21 becomes "1.0E21".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-3 || abs >= 1e7) {
		s := strconv.FormatFloat(f, 'E', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "E")
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		exp = strings.TrimPrefix(exp, "+")
		if strings.HasPrefix(exp, "-0") {
			exp = "-" + strings.TrimLeft(exp[1:], "0")
		} else {
			exp = strings.TrimLeft(exp, "0")
		}
		return mantissa + "E" + exp
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
