package calc_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
)

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"zero", "", "0"},
		{"num", "1.5", "1.5"},
		{"precedence", "1+2*3", "7"},
		{"grouping", "(1+2)*3", "9"},
		{"sub-left", "10-3-2", "5"},
		{"div-left", "8/4/2", "1"},
		{"pow-right", "2^3^2", "512"},
		{"neg-pow", "-2^2", "4"},
		{"pow-neg", "2^-2", "0.25"},
		{"sub-neg", "3--5", "8"},
		{"plus", "+5", "5"},
		{"exact-mul", "0.1*0.2", "0.02"},
		{"exact-add", "0.1+0.2", "0.3"},

		{"implicit-num", "2 3", "6"},
		{"implicit-paren", "2(3+4)", "14"},
		{"implicit-ident", "2two^2", "16"},
		{"implicit-paren-pow", "2(3)^2", "36"},
		{"implicit-fact", "2 3!", "720"},
		{"implicit-then-mul", "2 3*4", "24"},
		{"implicit-in-sum", "1+2 3^2", "37"},
		{"implicit-calls", "cube(2)cube(1)", "8"},

		{"thousand", "5k", "5000"},
		{"million", "1.5m", "1500000"},
		{"billion", "2b", "2000000000"},
		{"trillion", "3t", "3000000000000"},
		{"suffix-add", "2k+1", "2001"},
		{"fact", "5!", "120"},
		{"fact-zero", "0!", "1"},
		{"neg-fact", "-5!", "-120"},
		{"group-fact", "(1+2)!", "6"},

		{"third", "1/3", "0.33333333333333333333"},
		{"two-thirds", "2/3", "0.66666666666666666667"},
		{"neg-two-thirds", "-2/3", "-0.66666666666666666667"},
		{"sevenths", "10/7", "1.42857142857142857143"},
		{"half", "5/2", "2.5"},

		{"mod", "7%3", "1"},
		{"mod-neg-dividend", "-7%3", "-1"},
		{"mod-neg-divisor", "7%-3", "1"},
		{"mod-frac", "7.5%2", "1.5"},

		{"int-valued-exp", "2^3.0", "8"},
		{"zero-zero", "0^0", "1"},
		{"zero-frac", "0^0.5", "0"},
		{"neg-base-int-exp", "(-2)^3", "-8"},
		{"one-huge-pow", "1^999999999", "1"},
		{"one-point-zero-huge-pow", "1.0^999999999", "1"},
		{"neg-one-odd-pow", "(-1)^999999999", "-1"},
		{"neg-one-even-pow", "(-1)^-999999998", "1"},
		{"zero-huge-pow", "0^999999999", "0"},
		{"large-pow", "2^1000 % 1000", "376"},

		{"pi", "pi", "3.1415926535897932384626433832795028841971693993751"},
		{"three-pi", "3pi", "9.4247779607693797153879301498385086525915081981253"},
		{"g-var", "g", "9.81"},
		{"two-g", "2g", "19.62"},
		{"g-func", "g(3,1)", "10"},
		{"words", "two thousand + seven", "2007"},
		{"power", "power(2, 10)", "1024"},
		{"sum", "sum(1, add(2, 3))", "6"},
		{"ans", "ans", "0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.want, r.String())
		})
	}
}

func TestEvalFractionalPower(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		places int32
		want   string
	}{
		{"sqrt2", "sqrt(2)", 15, "1.414213562373095"},
		{"sqrt4", "4^0.5", 10, "2.0000000000"},
		{"cube-root", "27^(1/3)", 8, "3.00000000"},
		{"neg-frac", "4^-0.5", 10, "0.5000000000"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.want, r.StringFixed(c.places))
		})
	}
}

func TestEvalScale(t *testing.T) {
	r, err := calc.Eval("5/2")
	require.NoError(t, err)
	assert.Equal(t, int32(-calc.DefaultScale), r.Exponent())

	cases := []struct {
		src  string
		want string
	}{
		{"2/3", "0.67"},
		{"1/8", "0.13"},
		{"-1/8", "-0.13"},
		{"1/400", "0"},
		{"2^-3", "0.13"},
	}
	for _, c := range cases {
		r, err := calc.Eval(c.src, calc.DivisionScale(2))
		require.NoError(t, err, c.src)
		assert.Equal(t, c.want, r.String(), c.src)
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  calc.EvalError
	}{
		{"undefined", "nope", new(calc.NameError)},
		{"undefined-func", "nope(1)", new(calc.FuncError)},
		{"few-args", "power(2)", new(calc.ArityError)},
		{"many-args", "cube(1, 2)", new(calc.ArityError)},
		{"arity-before-args", "power(nope)", new(calc.ArityError)},
		{"div-zero", "1/0", new(calc.DivisionByZeroError)},
		{"div-zero-expr", "1/(2-2)", new(calc.DivisionByZeroError)},
		{"mod-zero", "1%0", new(calc.DivisionByZeroError)},
		{"zero-neg-pow", "0^-1", new(calc.DivisionByZeroError)},
		{"zero-neg-frac-pow", "0^-0.5", new(calc.DivisionByZeroError)},
		{"neg-root", "(-8)^(1/3)", new(calc.DomainError)},
		{"neg-fact", "(-5)!", new(calc.DomainError)},
		{"frac-fact", "2.5!", new(calc.DomainError)},
		{"big-fact", "1000!", new(calc.OverflowError)},
		{"suffix-fact", "(2k)!", new(calc.OverflowError)},
		{"big-pow", "2^1000000000", new(calc.OverflowError)},
		{"big-neg-pow", "2^-1000000000", new(calc.OverflowError)},
		{"huge-pow", "2^999999999", new(calc.OverflowError)},
		{"huge-neg-pow", "3^-999999999", new(calc.OverflowError)},
		{"huge-pow-wide-base", "12345^300000", new(calc.OverflowError)},
		{"huge-pow-scaled-base", "1k^500000", new(calc.OverflowError)},
		{"huge-pow-small-base", "0.001^500000", new(calc.OverflowError)},
		{"in-arg", "cube(nope)", new(calc.NameError)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := calc.Eval(c.src)
			require.Error(t, err)
			assert.IsType(t, c.err, err)
			var ee calc.EvalError
			assert.True(t, errors.As(err, &ee))
		})
	}
}

func TestEvalErrorDetails(t *testing.T) {
	_, err := calc.Eval("power(2)")
	var aerr *calc.ArityError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, &calc.ArityError{Func: "power", Want: 2, Got: 1}, aerr)
	assert.EqualError(t, err, `function "power" expects 2 args, got 1`)

	_, err = calc.Eval("x + 1")
	assert.EqualError(t, err, `variable not found: "x"`)
	_, err = calc.Eval("h(1)")
	assert.EqualError(t, err, `function not found: "h"`)
	_, err = calc.Eval("3/0")
	assert.EqualError(t, err, "division by zero: 3 / 0")
	_, err = calc.Eval("(-1)!")
	assert.EqualError(t, err, "-1 outside domain of ! (argument 1)")
}

func TestEvalInputError(t *testing.T) {
	_, err := calc.Eval("2+")
	var ie calc.InputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 3, ie.Pos())
	var ee calc.EvalError
	assert.False(t, errors.As(err, &ee))
}

func TestEvalIdempotent(t *testing.T) {
	ctx := calc.NewContext(calc.NewRegistry())
	e, err := calc.Parse("g(3, 1) / 7 + sqrt(2) - 5!")
	require.NoError(t, err)
	a, err := ctx.Eval(e)
	require.NoError(t, err)
	b, err := ctx.Eval(e)
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "%v != %v", a, b)
}

func define(t *testing.T, reg *calc.Registry, name string, params []string, body string) {
	t.Helper()
	require.NoError(t, reg.DefineFunc(name, params, body))
}

func evalIn(reg *calc.Registry, src string, opts ...calc.ContextOption) (decimal.Decimal, error) {
	e, err := calc.Parse(src)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return calc.NewContext(reg, opts...).Eval(e)
}

func TestCallScope(t *testing.T) {
	t.Run("no-dynamic-scope", func(t *testing.T) {
		reg := calc.NewRegistry()
		define(t, reg, "h", []string{"x"}, "y")
		define(t, reg, "k2", []string{"y"}, "h(1)")
		_, err := evalIn(reg, "k2(5)")
		var nerr *calc.NameError
		require.True(t, errors.As(err, &nerr), "want *NameError, got %v", err)
		assert.Equal(t, "y", nerr.Name)
	})
	t.Run("params-shadow-vars", func(t *testing.T) {
		reg := calc.NewRegistry()
		define(t, reg, "sh", []string{"pi"}, "pi*2")
		r, err := evalIn(reg, "sh(1)")
		require.NoError(t, err)
		assert.Equal(t, "2", r.String())
		r, err = evalIn(reg, "pi")
		require.NoError(t, err)
		assert.Equal(t, "3.1415926535897932384626433832795028841971693993751", r.String())
	})
	t.Run("args-in-caller-frame", func(t *testing.T) {
		reg := calc.NewRegistry()
		define(t, reg, "inner", []string{"x"}, "x*10")
		define(t, reg, "outer", []string{"x"}, "inner(x*2)")
		r, err := evalIn(reg, "outer(1)")
		require.NoError(t, err)
		assert.Equal(t, "20", r.String())
	})
	t.Run("frame-restored", func(t *testing.T) {
		reg := calc.NewRegistry()
		define(t, reg, "id", []string{"x"}, "x")
		define(t, reg, "twice", []string{"x"}, "id(1) + x")
		r, err := evalIn(reg, "twice(5)")
		require.NoError(t, err)
		assert.Equal(t, "6", r.String())
	})
	t.Run("globals-visible", func(t *testing.T) {
		reg := calc.NewRegistry()
		require.NoError(t, reg.DefineVar("rate", decimal.RequireFromString("0.5")))
		define(t, reg, "scaled", []string{"x"}, "x rate")
		r, err := evalIn(reg, "scaled(8)")
		require.NoError(t, err)
		assert.Equal(t, "4", r.String())
	})
	t.Run("niladic", func(t *testing.T) {
		reg := calc.NewRegistry()
		define(t, reg, "answer", nil, "6*7")
		r, err := evalIn(reg, "answer()")
		require.NoError(t, err)
		assert.Equal(t, "42", r.String())
	})
	t.Run("late-binding", func(t *testing.T) {
		reg := calc.NewEmptyRegistry()
		define(t, reg, "later", []string{"x"}, "x + other(x)")
		_, err := evalIn(reg, "later(1)")
		var ferr *calc.FuncError
		require.True(t, errors.As(err, &ferr))
		define(t, reg, "other", []string{"y"}, "y*y")
		r, err := evalIn(reg, "later(3)")
		require.NoError(t, err)
		assert.Equal(t, "12", r.String())
	})
}

func TestRecursionDepth(t *testing.T) {
	reg := calc.NewRegistry()
	define(t, reg, "loop", []string{"n"}, "n*loop(n-1)")
	_, err := evalIn(reg, "loop(3)", calc.MaxDepth(100))
	var derr *calc.DepthError
	require.True(t, errors.As(err, &derr), "want *DepthError, got %v", err)
	assert.Equal(t, "loop", derr.Func)
	assert.Equal(t, 100, derr.Depth)

	define(t, reg, "deep", []string{"n"}, "cube(cube(n))")
	_, err = evalIn(reg, "deep(1)", calc.MaxDepth(2))
	assert.IsType(t, new(calc.DepthError), err)
	r, err := evalIn(reg, "deep(1)", calc.MaxDepth(3))
	require.NoError(t, err)
	assert.Equal(t, "1", r.String())
}
