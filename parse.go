package calc

import "sort"

// Expr = num | name | Call | Prefix Expr | Expr Suffix | Expr op Expr | Expr Expr | '(' Expr ')'
// Call = name '(' [ Expr { ',' Expr } ] ')'
// Prefix = '+' | '-'
// Suffix = 'k' | 'm' | 'b' | 't' | '!'
// op = '+' | '-' | '*' | '/' | '%' | '^'
//
// Juxtaposed operands (Expr Expr) are an implicit multiplication.

// Expr is a parsed expression that can be evaluated with a Context.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the sorted list of variable names used in the expression.
	names []string
}

// prefixbp is the binding power of a sign's operand. It is above every infix
// left power, so -2^2 is (-2)^2.
const prefixbp = 9

// ParseTokens parses a single expression from a token sequence produced by
// Tokenize. The expression must extend to the End token.
func ParseTokens(toks []Token) (*Expr, error) {
	p := parser{toks: toks}
	n, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if end := p.next(); end.Kind != TokenEnd {
		return nil, itShouldNotHaveEndedThisWay(end)
	}
	return newExpr(n), nil
}

// Parse tokenizes and parses a single expression.
func Parse(src string) (*Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseList parses a list of expressions separated by semicolons. A trailing
// semicolon is allowed.
func ParseList(src string) ([]*Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := parser{toks: toks}
	var r []*Expr
	for {
		n, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		r = append(r, newExpr(n))
		switch end := p.next(); end.Kind {
		case TokenEnd:
			return r, nil
		case TokenSemiColon:
			if p.peek().Kind == TokenEnd {
				return r, nil
			}
		default:
			return nil, itShouldNotHaveEndedThisWay(end)
		}
	}
}

func newExpr(n *node) *Expr {
	m := make(map[string]bool)
	n.names(m)
	ex := Expr{n: n, names: make([]string, 0, len(m))}
	for k := range m {
		ex.names = append(ex.names, k)
	}
	sort.Strings(ex.names)
	return &ex
}

type parser struct {
	toks []Token
	pos  int
}

// peek returns the next token without consuming it. Past the end of the
// input, the result is an End token, whether or not the sequence has one.
func (p *parser) peek() Token {
	if p.pos >= len(p.toks) {
		col := 1
		if len(p.toks) > 0 {
			col = p.toks[len(p.toks)-1].Col + 1
		}
		return Token{Kind: TokenEnd, Col: col}
	}
	return p.toks[p.pos]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

// expr parses an expression whose infix operators all have left binding power
// at least minbp. It stops before the first token it does not consume, which
// is always a terminator or a less binding operator.
func (p *parser) expr(minbp int8) (*node, error) {
	lhs, err := p.operand()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenEnd, TokenComma, TokenSemiColon, TokenClose:
			return lhs, nil
		case TokenSuffix:
			// Suffixes apply immediately regardless of binding power.
			p.next()
			lhs = &node{kind: nodeSuffix, suffix: tok.Suffix, left: lhs}
		case TokenOperator:
			l, r := tok.Op.BindingPower()
			if l < minbp {
				return lhs, nil
			}
			p.next()
			rhs, err := p.expr(r)
			if err != nil {
				return nil, err
			}
			lhs = &node{kind: nodeBinary, op: tok.Op, left: lhs, right: rhs}
		case TokenNumber, TokenIdent, TokenOpen:
			// 2 x -> (2) * (x)
			// 2(expr) -> (2) * (expr)
			// 2 x^2 -> (2 * x)^2
			// The right side is one operand; later suffixes and operators
			// apply to the product.
			l, _ := OpMul.BindingPower()
			if l < minbp {
				return lhs, nil
			}
			rhs, err := p.operand()
			if err != nil {
				return nil, err
			}
			lhs = &node{kind: nodeBinary, op: OpMul, left: lhs, right: rhs}
		case TokenPrefix:
			// The lexer only produces prefixes in operand position, so this
			// means the token sequence was built by hand.
			return nil, &PrefixError{Col: tok.Col, Prefix: tok.Prefix}
		default:
			panic("calc: unknown token: " + tok.String())
		}
	}
}

// operand parses the token in operand position along with anything it owns:
// a call's argument list, a sign's operand, or a parenthesized group.
func (p *parser) operand() (*node, error) {
	tok := p.next()
	switch tok.Kind {
	case TokenNumber:
		return &node{kind: nodeNum, num: tok.Num}, nil
	case TokenIdent:
		if p.peek().Kind != TokenOpen {
			return &node{kind: nodeName, name: tok.Name}, nil
		}
		open := p.next()
		args, err := p.arglist(open)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeCall, name: tok.Name, args: args}, nil
	case TokenPrefix:
		rhs, err := p.expr(prefixbp)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodePrefix, prefix: tok.Prefix, left: rhs}, nil
	case TokenOpen:
		n, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if end := p.next(); end.Kind != TokenClose {
			return nil, &BracketError{Col: end.Col, Open: tok.Col, Found: end.text()}
		}
		return n, nil
	default:
		return nil, &TokenError{Col: tok.Col, Token: tok.text()}
	}
}

// arglist parses the arguments of a call after its open parenthesis,
// including the closing parenthesis.
func (p *parser) arglist(open Token) ([]*node, error) {
	if p.peek().Kind == TokenClose {
		p.next()
		return nil, nil
	}
	var args []*node
	for {
		a, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		switch end := p.next(); end.Kind {
		case TokenClose:
			return args, nil
		case TokenComma:
			// next argument
		case TokenEnd:
			return nil, &BracketError{Col: end.Col, Open: open.Col}
		default:
			return nil, &CommaError{Col: end.Col, Found: end.text()}
		}
	}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a top-level expression.
func itShouldNotHaveEndedThisWay(tok Token) error {
	switch tok.Kind {
	case TokenClose:
		return &BracketError{Col: tok.Col, Found: ")"}
	case TokenComma, TokenSemiColon:
		return &SeparatorError{Col: tok.Col, Sep: tok.text()}
	default:
		panic("calc: it really should not have ended this way: " + tok.String())
	}
}

// Vars returns the variable names referenced by the expression, including
// names that only resolve to function parameters.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates an s-expression representation of the parsed expression.
func (e *Expr) String() string {
	return e.n.String()
}
