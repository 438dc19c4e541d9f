package calc

import (
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/bigfloat"
)

var (
	one = decimal.NewFromInt(1)
	// factlimit is the smallest argument for which factorial refuses to run.
	factlimit = decimal.NewFromInt(1000)
	// powlimit is the largest exponent magnitude computed exactly.
	powlimit = decimal.NewFromInt(999999999)
)

// powdigits bounds the estimated size in digits of an exact power.
const powdigits = 1000000

// divide computes x/y rounded half up to scale fractional digits.
func divide(x, y decimal.Decimal, scale int32) (decimal.Decimal, error) {
	if y.IsZero() {
		return decimal.Decimal{}, &DivisionByZeroError{X: x, Op: OpDiv}
	}
	return x.DivRound(y, scale), nil
}

// remainder computes x - y*trunc(x/y) exactly. The result has the sign of x.
func remainder(x, y decimal.Decimal) (decimal.Decimal, error) {
	if y.IsZero() {
		return decimal.Decimal{}, &DivisionByZeroError{X: x, Op: OpMod}
	}
	return x.Mod(y), nil
}

// power computes x^y. Integer exponents are exact, except that negative
// exponents divide at the given scale. Other exponents are approximated in
// binary floating point with prec bits.
func (ctx *Context) power(x, y decimal.Decimal) (decimal.Decimal, error) {
	if y.IsInteger() {
		if y.Abs().Cmp(powlimit) > 0 {
			return decimal.Decimal{}, &OverflowError{X: y, Limit: powlimit, Func: "^"}
		}
		n := y.IntPart()
		switch {
		case n == 0:
			return one, nil
		case x.IsZero() && n < 0:
			return decimal.Decimal{}, &DivisionByZeroError{X: one, Op: OpPow}
		case x.IsZero():
			return decimal.Zero, nil
		case x.Abs().Equal(one):
			if x.Sign() < 0 && n%2 != 0 {
				return one.Neg(), nil
			}
			return one, nil
		}
		m := n
		if m < 0 {
			m = -m
		}
		if powsize(x) > powdigits/m {
			return decimal.Decimal{}, &OverflowError{X: y, Func: "^"}
		}
		if n > 0 {
			return intpow(x, n), nil
		}
		return one.DivRound(intpow(x, m), ctx.scale), nil
	}
	switch x.Sign() {
	case -1:
		return decimal.Decimal{}, &DomainError{X: x, Func: "^", Arg: 1}
	case 0:
		if y.Sign() < 0 {
			return decimal.Decimal{}, &DivisionByZeroError{X: one, Op: OpPow}
		}
		return decimal.Zero, nil
	}
	return floatpow(x, y, ctx.prec)
}

// powsize estimates the digits of x written out in plain notation, so that
// x^n has roughly n times as many.
func powsize(x decimal.Decimal) int64 {
	c, exp := stripzeros(x)
	size := int64(len(c.String()))
	if exp < 0 {
		size -= int64(exp)
	} else {
		size += int64(exp)
	}
	return size
}

// intpow computes x^n exactly by repeated squaring.
func intpow(x decimal.Decimal, n int64) decimal.Decimal {
	r := one
	for n > 0 {
		if n&1 != 0 {
			r = r.Mul(x)
		}
		n >>= 1
		if n > 0 {
			x = x.Mul(x)
		}
	}
	return r
}

// floatpow approximates x^y for positive x. The result carries no more
// precision than prec bits, regardless of the decimal scale of the inputs.
func floatpow(x, y decimal.Decimal, prec uint) (decimal.Decimal, error) {
	bx, _, err := new(big.Float).SetPrec(prec).Parse(x.String(), 10)
	if err != nil {
		return decimal.Decimal{}, err
	}
	by, _, err := new(big.Float).SetPrec(prec).Parse(y.String(), 10)
	if err != nil {
		return decimal.Decimal{}, err
	}
	z := new(big.Float).SetPrec(prec)
	bigfloat.Pow(z, bx, by)
	if z.IsInf() {
		return decimal.Decimal{}, &OverflowError{X: y, Func: "^"}
	}
	return decimal.NewFromString(z.Text('f', -1))
}

// factorial computes x! exactly for integral 0 <= x < 1000.
func factorial(x decimal.Decimal) (decimal.Decimal, error) {
	if x.Sign() < 0 || !x.IsInteger() {
		return decimal.Decimal{}, &DomainError{X: x, Func: "!", Arg: 1}
	}
	if x.Cmp(factlimit) >= 0 {
		return decimal.Decimal{}, &OverflowError{X: x, Limit: factlimit, Func: "!"}
	}
	r := one
	n := x.IntPart()
	for i := int64(2); i <= n; i++ {
		r = r.Mul(decimal.NewFromInt(i))
	}
	return r, nil
}

// magnitude applies a suffix to x.
func magnitude(x decimal.Decimal, s Suffix) (decimal.Decimal, error) {
	switch s {
	case SuffixThousand:
		return x.Shift(3), nil
	case SuffixMillion:
		return x.Shift(6), nil
	case SuffixBillion:
		return x.Shift(9), nil
	case SuffixTrillion:
		return x.Shift(12), nil
	case SuffixFactorial:
		return factorial(x)
	default:
		panic("calc: invalid suffix " + s.String())
	}
}
