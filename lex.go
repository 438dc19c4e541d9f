package calc

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Token is a single lexical element of an expression.
type Token struct {
	Kind TokenKind
	// Num is the value of a Number token.
	Num decimal.Decimal
	// Name is the text of an Ident token.
	Name   string
	Op     Operator
	Prefix Prefix
	Suffix Suffix
	// Col is the 1-based rune column where the token starts.
	Col int
}

func (t Token) String() string {
	var s string
	switch t.Kind {
	case TokenNumber:
		s = t.Num.String()
	case TokenOperator:
		s = t.Op.String()
	case TokenPrefix:
		s = t.Prefix.String()
	case TokenSuffix:
		s = t.Suffix.String()
	case TokenOpen:
		s = "("
	case TokenClose:
		s = ")"
	case TokenIdent:
		s = t.Name
	case TokenComma:
		s = ","
	case TokenSemiColon:
		s = ";"
	case TokenEnd:
		return "End"
	default:
		s = "?"
	}
	return t.Kind.String() + ":" + s
}

// text is the source spelling of the token, for error messages.
func (t Token) text() string {
	if t.Kind == TokenEnd {
		return ""
	}
	s := t.String()
	return s[strings.IndexByte(s, ':')+1:]
}

// TokenKind identifies the variant of a Token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// TokenNumber is a decimal literal.
	TokenNumber
	// TokenOperator is a binary operator.
	TokenOperator
	// TokenPrefix is a unary sign.
	TokenPrefix
	// TokenSuffix is a magnitude or factorial suffix.
	TokenSuffix
	// TokenOpen and TokenClose are parentheses.
	TokenOpen
	TokenClose
	// TokenIdent is a variable or function name.
	TokenIdent
	TokenComma
	TokenSemiColon
	// TokenEnd terminates every token sequence.
	TokenEnd
)

func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "Number"
	case TokenOperator:
		return "Operator"
	case TokenPrefix:
		return "Prefix"
	case TokenSuffix:
		return "Suffix"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	case TokenIdent:
		return "Ident"
	case TokenComma:
		return "Comma"
	case TokenSemiColon:
		return "SemiColon"
	case TokenEnd:
		return "End"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operator is a binary arithmetic operator.
type Operator int8

const (
	OpAdd Operator = iota + 1
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

// Operators contains the runes which are lexed as binary operators. + and -
// are prefixes instead where an operand is expected.
const Operators = "+-*/%^"

var opsyms = [...]string{OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpPow: "^"}

func (op Operator) String() string {
	if op < OpAdd || op > OpPow {
		return "Operator(" + strconv.Itoa(int(op)) + ")"
	}
	return opsyms[op]
}

// BindingPower returns the left and right binding powers of the operator. A
// right power below the left power makes the operator right-associative.
func (op Operator) BindingPower() (left, right int8) {
	switch op {
	case OpAdd, OpSub:
		return 2, 3
	case OpMul, OpDiv, OpMod:
		return 4, 5
	case OpPow:
		return 7, 6
	default:
		panic("calc: no binding power for " + op.String())
	}
}

// Prefix is a unary sign applied to an operand.
type Prefix int8

const (
	PrefixPlus Prefix = iota + 1
	PrefixMinus
)

func (p Prefix) String() string {
	switch p {
	case PrefixPlus:
		return "+"
	case PrefixMinus:
		return "-"
	default:
		return "Prefix(" + strconv.Itoa(int(p)) + ")"
	}
}

// Suffix is a postfix operator applied to the preceding operand.
type Suffix int8

const (
	SuffixThousand Suffix = iota + 1
	SuffixMillion
	SuffixBillion
	SuffixTrillion
	SuffixFactorial
)

// Suffixes contains the runes which may be lexed as suffixes.
const Suffixes = "kmbt!"

func (s Suffix) String() string {
	if s < SuffixThousand || s > SuffixFactorial {
		return "Suffix(" + strconv.Itoa(int(s)) + ")"
	}
	return Suffixes[s-1 : s]
}

// Tokenize converts src to a sequence of tokens ending with an End token.
// Empty or all-whitespace input yields the number 0.
func Tokenize(src string) ([]Token, error) {
	if strings.TrimSpace(src) == "" {
		return []Token{{Kind: TokenNumber, Num: decimal.Zero, Col: 1}, {Kind: TokenEnd, Col: 1}}, nil
	}
	l := lexer{src: []rune(src)}
	for l.i < len(l.src) {
		if err := l.next(); err != nil {
			return nil, err
		}
	}
	l.emit(Token{Kind: TokenEnd, Col: len(l.src) + 1})
	return l.toks, nil
}

type lexer struct {
	src  []rune
	i    int
	toks []Token
}

func (l *lexer) emit(tok Token) {
	l.toks = append(l.toks, tok)
}

// last returns the most recently emitted token, or a token of kind tokenNone
// if there is none.
func (l *lexer) last() Token {
	if len(l.toks) == 0 {
		return Token{}
	}
	return l.toks[len(l.toks)-1]
}

// next scans one token, or skips one whitespace rune.
func (l *lexer) next() error {
	r := l.src[l.i]
	col := l.i + 1
	switch {
	case unicode.IsSpace(r):
		l.i++
		return nil
	case '0' <= r && r <= '9', r == '.':
		return l.scanNum()
	case l.prefixAt(r):
		p := PrefixPlus
		if r == '-' {
			p = PrefixMinus
		}
		l.emit(Token{Kind: TokenPrefix, Prefix: p, Col: col})
		l.i++
		return nil
	case l.suffixAt(r):
		s := Suffix(strings.IndexRune(Suffixes, r) + 1)
		l.emit(Token{Kind: TokenSuffix, Suffix: s, Col: col})
		l.i++
		return nil
	case strings.ContainsRune(Operators, r):
		op := Operator(strings.IndexRune(Operators, r) + 1)
		l.emit(Token{Kind: TokenOperator, Op: op, Col: col})
		l.i++
		return nil
	case r == '(':
		l.emit(Token{Kind: TokenOpen, Col: col})
		l.i++
		return nil
	case r == ')':
		l.emit(Token{Kind: TokenClose, Col: col})
		l.i++
		return nil
	case unicode.IsLetter(r):
		l.scanIdent()
		return nil
	case r == ',':
		l.emit(Token{Kind: TokenComma, Col: col})
		l.i++
		return nil
	case r == ';':
		l.emit(Token{Kind: TokenSemiColon, Col: col})
		l.i++
		return nil
	default:
		return &LexError{Text: string(r), Kind: "invalid char", Col: col}
	}
}

// prefixAt reports whether r at the current position is a sign rather than a
// binary operator, i.e. whether it is in operand position.
func (l *lexer) prefixAt(r rune) bool {
	if r != '+' && r != '-' {
		return false
	}
	switch t := l.last(); t.Kind {
	case tokenNone, TokenPrefix, TokenOperator, TokenComma, TokenOpen, TokenSemiColon:
		return true
	default:
		return false
	}
}

// suffixAt reports whether r at the current position is a suffix. A suffix
// must follow an operand and must not be followed by a letter or digit, so
// that 5kg lexes as 5 followed by the identifier kg.
func (l *lexer) suffixAt(r rune) bool {
	if !strings.ContainsRune(Suffixes, r) {
		return false
	}
	switch t := l.last(); t.Kind {
	case TokenNumber, TokenIdent, TokenClose:
	default:
		return false
	}
	if l.i+1 < len(l.src) {
		n := l.src[l.i+1]
		return !unicode.IsLetter(n) && !unicode.IsDigit(n)
	}
	return true
}

func (l *lexer) scanNum() error {
	start := l.i
	dot := false
	for ; l.i < len(l.src); l.i++ {
		r := l.src[l.i]
		if r == '.' {
			if dot {
				return &LexError{Text: string(l.src[start : l.i+1]), Kind: "multiple dots in number", Col: start + 1}
			}
			dot = true
			continue
		}
		if r < '0' || r > '9' {
			break
		}
	}
	text := string(l.src[start:l.i])
	if text == "." {
		return &LexError{Text: text, Kind: "a single dot is not a valid number", Col: start + 1}
	}
	// 5. and .5 are complete numerals, but the decimal parser wants digits on
	// both sides of the point.
	if strings.HasSuffix(text, ".") {
		text = text[:len(text)-1]
	}
	if strings.HasPrefix(text, ".") {
		text = "0" + text
	}
	v, err := decimal.NewFromString(text)
	if err != nil {
		return &LexError{Text: text, Kind: "invalid number", Col: start + 1}
	}
	l.emit(Token{Kind: TokenNumber, Num: v, Col: start + 1})
	return nil
}

func (l *lexer) scanIdent() {
	start := l.i
	for l.i++; l.i < len(l.src); l.i++ {
		r := l.src[l.i]
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
	}
	l.emit(Token{Kind: TokenIdent, Name: string(l.src[start:l.i]), Col: start + 1})
}

// LexError indicates invalid input text. It implements InputError.
type LexError struct {
	// Text is the offending text.
	Text string
	// Kind describes the problem.
	Kind string
	// Col is the 1-based rune column where the offending text starts.
	Col int
}

func (err *LexError) Error() string {
	return errpos(err.Col, err.Kind+": "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
