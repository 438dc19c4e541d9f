package calc

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Result is the value of a calculation, with methods for presenting it.
type Result struct {
	value decimal.Decimal
}

// NewResult wraps a value for presentation.
func NewResult(v decimal.Decimal) Result {
	return Result{value: v}
}

// Raw returns the unrounded value.
func (r Result) Raw() decimal.Decimal {
	return r.value
}

// String formats the value in plain notation without trailing fractional
// zeros.
func (r Result) String() string {
	return r.value.String()
}

// Round formats the value with exactly places fractional digits, rounding
// half away from zero.
func (r Result) Round(places int) (string, error) {
	if places < 0 {
		return "", errors.Errorf("decimal places must be non-negative, not %d", places)
	}
	return r.value.StringFixed(int32(places)), nil
}

// Scientific formats the value in engineering notation: the exponent is a
// multiple of three, and small exponents are written out in plain notation.
// 12000 is 12E+3, and 0.0000001 is 100E-9.
func (r Result) Scientific() string {
	c, exp := stripzeros(r.value)
	if c.Sign() == 0 {
		return "0"
	}
	digits := len(new(big.Int).Abs(c).String())
	adj := int(exp) + digits - 1
	if exp <= 0 && adj >= -6 {
		return decimal.NewFromBigInt(c, exp).String()
	}
	e3 := adj / 3
	if adj%3 != 0 && adj < 0 {
		e3--
	}
	e3 *= 3
	s := decimal.NewFromBigInt(c, exp-int32(e3)).String()
	switch {
	case e3 > 0:
		return s + "E+" + strconv.Itoa(e3)
	case e3 < 0:
		return s + "E" + strconv.Itoa(e3)
	default:
		return s
	}
}

// Commas formats the value like String, with the integer part grouped in
// thousands.
func (r Result) Commas() string {
	s := r.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	ip, fp := s, ""
	if k := strings.IndexByte(s, '.'); k >= 0 {
		ip, fp = s[:k], s[k:]
	}
	i, ok := new(big.Int).SetString(ip, 10)
	if !ok {
		panic("calc: bad integer part " + strconv.Quote(ip))
	}
	s = humanize.BigComma(i) + fp
	if neg {
		s = "-" + s
	}
	return s
}

// stripzeros returns the coefficient and exponent of d with trailing zero
// digits removed from the coefficient.
func stripzeros(d decimal.Decimal) (*big.Int, int32) {
	c := d.Coefficient()
	exp := d.Exponent()
	if c.Sign() == 0 {
		return c, 0
	}
	ten := big.NewInt(10)
	q, m := new(big.Int), new(big.Int)
	for {
		q.QuoRem(c, ten, m)
		if m.Sign() != 0 {
			return c, exp
		}
		c.Set(q)
		exp++
	}
}
