package calc

import "strconv"

// TokenError is an error indicating a token that cannot start an operand,
// e.g. an operator or separator where a number or name is expected. It
// implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Token is the token's text, or the empty string at the end of input.
	Token string
}

func (err *TokenError) Error() string {
	if err.Token == "" {
		return errpos(err.Col, "unexpected end of expression")
	}
	return errpos(err.Col, "unexpected token "+strconv.Quote(err.Token))
}

func (err *TokenError) Pos() int {
	return err.Col
}

// BracketError is an error indicating a missing or stray close parenthesis.
// It implements InputError.
type BracketError struct {
	// Col is the position of the token found instead of a close parenthesis,
	// or of the stray close parenthesis.
	Col int
	// Open is the position of the unmatched open parenthesis, or 0 for a
	// stray close parenthesis.
	Open int
	// Found is the token found instead of the close parenthesis. It is empty
	// at the end of input.
	Found string
}

func (err *BracketError) Error() string {
	if err.Open == 0 {
		return errpos(err.Col, "close bracket ) with no open bracket")
	}
	if err.Found == "" {
		return errpos(err.Col, "open bracket ( at "+strconv.Itoa(err.Open)+" with no close bracket")
	}
	return errpos(err.Col, "expected ) to match ( at "+strconv.Itoa(err.Open)+" but found "+strconv.Quote(err.Found))
}

func (err *BracketError) Pos() int {
	return err.Col
}

// CommaError is an error indicating two call arguments without a comma
// between them. It implements InputError.
type CommaError struct {
	// Col is the position of the token found instead of a comma.
	Col int
	// Found is the token found instead of a comma.
	Found string
}

func (err *CommaError) Error() string {
	return errpos(err.Col, "expected comma between arguments but found "+strconv.Quote(err.Found))
}

func (err *CommaError) Pos() int {
	return err.Col
}

// PrefixError is an error indicating a sign in infix position. It implements
// InputError.
type PrefixError struct {
	Col    int
	Prefix Prefix
}

func (err *PrefixError) Error() string {
	return errpos(err.Col, "prefix "+strconv.Quote(err.Prefix.String())+" shouldn't be here")
}

func (err *PrefixError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating an illegal use of a comma or semicolon
// separator. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input text implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based rune column of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*TokenError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*CommaError)(nil)
	_ InputError = (*PrefixError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*LexError)(nil)
)
