// Package calc implements an arbitrary-precision decimal calculator.
//
// Expressions are written the way you'd type them into a pocket calculator.
// "2 x" and "2(x+1)" are multiplications, "-2^2" is "(-2)^2", and "2^3^2" is
// "2^(3^2)". The suffixes k, m, b, and t scale the preceding operand by a
// thousand, million, billion, or trillion, and ! takes its factorial, so "5k"
// is 5000 and "-5!" is "-(5!)".
//
// Arithmetic is exact, except that division keeps a fixed number of
// fractional digits, rounding half up, and that fractional exponents are
// approximated in binary floating point.
//
// Names resolve against a Registry of variables and functions. A function's
// body sees only its own parameters and the registry's variables; it never
// sees the parameters of the function that called it.
package calc
