// Package complexnum implements the immutable complex-number value type used
// by the escape-time engine and by the viewport transforms that map pixels
// onto the complex plane.
//
// Every operation returns a new value; a Complex is never mutated after
// construction. Equality is tolerance based (see Epsilon) because arithmetic
// chains accumulate floating-point rounding. The struct is still comparable,
// so it can be used as a map key, but map lookups use exact bit equality and
// are therefore not consistent with Equal. Callers that need tolerant lookup
// must quantize the components themselves.
package complexnum
