package calc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		src  string
		tree string
	}{
		{"num", "1", "1"},
		{"empty", "", "0"},
		{"name", "x", "x"},
		{"paren", "((x))", "x"},

		{"add", "x+y", "(+ x y)"},
		{"precedence", "2+3*4", "(+ 2 (* 3 4))"},
		{"grouping", "(2+3)*4", "(* (+ 2 3) 4)"},
		{"sub-left", "2-3-4", "(- (- 2 3) 4)"},
		{"div-left", "8/4/2", "(/ (/ 8 4) 2)"},
		{"mod-mul", "7%4*2", "(* (% 7 4) 2)"},
		{"pow-right", "2^3^2", "(^ 2 (^ 3 2))"},
		{"pow-over-mul", "2*3^2", "(* 2 (^ 3 2))"},

		{"neg", "-x", "(- x)"},
		{"plus", "+5", "(+ 5)"},
		{"double-neg", "--5", "(- (- 5))"},
		{"neg-pow", "-2^2", "(^ (- 2) 2)"},
		{"pow-neg", "2^-2", "(^ 2 (- 2))"},
		{"sub-neg", "3--5", "(- 3 (- 5))"},
		{"neg-fact", "-5!", "(- (! 5))"},
		{"paren-neg-fact", "(-5)!", "(! (- 5))"},

		{"thousand", "5k+2", "(+ (k 5) 2)"},
		{"suffix-chain", "(2k)!", "(! (k 2))"},
		{"suffix-on-call", "f(x)!", "(! (f(x)))"},
		{"suffix-on-group", "(1+2)m", "(m (+ 1 2))"},

		{"implicit-paren", "2(3+4)", "(* 2 (+ 3 4))"},
		{"implicit-num", "2 3", "(* 2 3)"},
		{"implicit-ident", "3pi", "(* 3 pi)"},
		{"implicit-three", "a b c", "(* (* a b) c)"},
		{"implicit-pow", "2x^2", "(^ (* 2 x) 2)"},
		{"implicit-paren-pow", "2(3)^2", "(^ (* 2 3) 2)"},
		{"implicit-pow-rhs", "2^x y", "(* (^ 2 x) y)"},
		{"neg-implicit", "-2x", "(* (- 2) x)"},
		{"implicit-after-pow", "2^3 4", "(* (^ 2 3) 4)"},
		{"implicit-in-sum", "1+2 3", "(+ 1 (* 2 3))"},
		{"implicit-parens", "2(3)(4)", "(* (* 2 3) 4)"},
		{"implicit-calls", "f(x)g(y)", "(* (f(x)) (g(y)))"},
		{"implicit-suffix", "2 3!", "(! (* 2 3))"},
		{"implicit-call-suffix", "2f(x)k", "(k (* 2 (f(x))))"},
		{"implicit-neg", "2(-3)", "(* 2 (- 3))"},

		{"call0", "h()", "(h())"},
		{"call2", "power(2, 3)", "(power(2, 3))"},
		{"call-nested", "f(1+2, g(3))", "(f((+ 1 2), (g(3))))"},
		{"call-neg-arg", "f(-1, -x)", "(f((- 1), (- x)))"},
		{"call-implicit-arg", "f(1 2)", "(f((* 1 2)))"},
		{"call-in-sum", "1+f(2)*3", "(+ 1 (* (f(2)) 3))"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := Parse(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.tree, e.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		pos  int
	}{
		{"trailing-op", "2+", new(TokenError), 3},
		{"leading-op", "*2", new(TokenError), 1},
		{"empty-parens", "()", new(TokenError), 2},
		{"empty-arg", "f(1,)", new(TokenError), 5},
		{"leading-comma", "f(,1)", new(TokenError), 3},
		{"unclosed", "(2+3", new(BracketError), 5},
		{"unclosed-call", "f(1", new(BracketError), 4},
		{"stray-close", "2+3)", new(BracketError), 4},
		{"comma-in-group", "(1,2)", new(BracketError), 3},
		{"semicolon-in-args", "f(1;2)", new(CommaError), 4},
		{"top-comma", "1,2", new(SeparatorError), 2},
		{"top-semicolon", "1;2", new(SeparatorError), 2},
		{"lex", "1..2", new(LexError), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := Parse(c.src)
			require.Error(t, err)
			assert.Nil(t, e)
			assert.IsType(t, c.err, err)
			var ie InputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, c.pos, ie.Pos(), "%v", err)
		})
	}
}

func TestParseBracketMessages(t *testing.T) {
	_, err := Parse("(2+3")
	assert.EqualError(t, err, "5: open bracket ( at 1 with no close bracket")
	_, err = Parse("2)")
	assert.EqualError(t, err, "2: close bracket ) with no open bracket")
	_, err = Parse("f(1;2)")
	assert.EqualError(t, err, `4: expected comma between arguments but found ";"`)
}

func TestParsePrefixInInfixPosition(t *testing.T) {
	// The lexer never produces this sequence.
	toks := []Token{num("1", 1), prefix(PrefixMinus, 2), num("2", 3), kind(TokenEnd, 4)}
	e, err := ParseTokens(toks)
	assert.Nil(t, e)
	var perr *PrefixError
	require.True(t, errors.As(err, &perr), "want *PrefixError, got %#v", err)
	assert.Equal(t, 2, perr.Pos())
	assert.Equal(t, PrefixMinus, perr.Prefix)
}

func TestParseTokensWithoutEnd(t *testing.T) {
	e, err := ParseTokens([]Token{num("1", 1), op(OpAdd, 2), num("2", 3)})
	require.NoError(t, err)
	assert.Equal(t, "(+ 1 2)", e.String())
}

func TestParseList(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		trees []string
	}{
		{"one", "1+2", []string{"(+ 1 2)"}},
		{"three", "1;x;2 y", []string{"1", "x", "(* 2 y)"}},
		{"signed", "1; -2; +x", []string{"1", "(- 2)", "(+ x)"}},
		{"trailing", "1;", []string{"1"}},
		{"empty", "", []string{"0"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			exprs, err := ParseList(c.src)
			require.NoError(t, err)
			var got []string
			for _, e := range exprs {
				got = append(got, e.String())
			}
			assert.Equal(t, c.trees, got)
		})
	}
}

func TestParseListErrors(t *testing.T) {
	for _, src := range []string{";", "1;;2", "1,2", "(1;2)", "1)"} {
		exprs, err := ParseList(src)
		assert.Error(t, err, "%q", src)
		assert.Nil(t, exprs, "%q", src)
	}
}

func TestVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars []string
	}{
		{"none", "1+2+3", nil},
		{"one", "1+2+x", []string{"x"}},
		{"sort", "z+y+x+w+v+u+s+r+q+p+o+n+l+j+i+h+g+f+e+d+c+a", []string{"a", "c", "d", "e", "f", "g", "h", "i", "j", "l", "n", "o", "p", "q", "r", "s", "u", "v", "w", "x", "y", "z"}},
		{"reuse", "a+b+c+b+a", []string{"a", "b", "c"}},
		{"args", "f(x, g(y))", []string{"x", "y"}},
		{"under-ops", "-x! + y k", []string{"x", "y"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := Parse(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.vars, e.Vars())
		})
	}
}
