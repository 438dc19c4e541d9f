package calc

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Context is a context for evaluating expressions against a Registry. A
// Context holds no per-evaluation state, so it is safe to use concurrently as
// long as its Registry is.
type Context struct {
	reg   *Registry
	scale int32
	prec  uint
	depth int
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	scaleopt int32
	precopt  uint
	depthopt int
)

func (scaleopt) ctxOption() {}
func (precopt) ctxOption()  {}
func (depthopt) ctxOption() {}

// DivisionScale sets the number of fractional digits kept by division.
func DivisionScale(scale int32) ContextOption {
	return scaleopt(scale)
}

// Prec sets the precision in bits of the floating-point approximation used
// for fractional exponents.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// MaxDepth sets the maximum depth of nested function calls.
func MaxDepth(depth int) ContextOption {
	return depthopt(depth)
}

// Defaults for contexts.
const (
	DefaultScale    = 20
	DefaultPrec     = 64
	DefaultMaxDepth = 10000
)

// NewContext creates a new evaluation context that resolves names in reg.
func NewContext(reg *Registry, opts ...ContextOption) *Context {
	ctx := Context{reg: reg, scale: DefaultScale, prec: DefaultPrec, depth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case scaleopt:
			ctx.scale = int32(opt)
		case precopt:
			ctx.prec = uint(opt)
		case depthopt:
			ctx.depth = int(opt)
		default:
			panic("calc: unknown option type")
		}
	}
	return &ctx
}

// Registry returns the registry the context resolves names in.
func (ctx *Context) Registry() *Registry {
	return ctx.reg
}

// Scale returns the number of fractional digits kept by division.
func (ctx *Context) Scale() int32 {
	return ctx.scale
}

// Prec returns the precision in bits of fractional exponentiation.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Eval evaluates an expression and returns its result.
func (ctx *Context) Eval(e *Expr) (decimal.Decimal, error) {
	ev := evaluation{ctx: ctx}
	return ev.eval(e.n)
}

// evaluation is the state of one call to Eval. The call frame belongs to
// exactly one evaluation and is never shared.
type evaluation struct {
	ctx *Context
	// frame holds the parameters of the innermost function call, or nil at
	// top level. Enclosing calls' frames are not visible.
	frame map[string]decimal.Decimal
	depth int
}

func (ev *evaluation) eval(n *node) (decimal.Decimal, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeName:
		return ev.lookup(n.name)
	case nodeCall:
		return ev.call(n)
	case nodeBinary:
		l, err := ev.eval(n.left)
		if err != nil {
			return l, err
		}
		r, err := ev.eval(n.right)
		if err != nil {
			return r, err
		}
		switch n.op {
		case OpAdd:
			return l.Add(r), nil
		case OpSub:
			return l.Sub(r), nil
		case OpMul:
			return l.Mul(r), nil
		case OpDiv:
			return divide(l, r, ev.ctx.scale)
		case OpMod:
			return remainder(l, r)
		case OpPow:
			return ev.ctx.power(l, r)
		default:
			panic("calc: invalid operator " + n.op.String())
		}
	case nodePrefix:
		v, err := ev.eval(n.left)
		if err != nil {
			return v, err
		}
		switch n.prefix {
		case PrefixPlus:
			return v, nil
		case PrefixMinus:
			return v.Neg(), nil
		default:
			panic("calc: invalid prefix " + n.prefix.String())
		}
	case nodeSuffix:
		v, err := ev.eval(n.left)
		if err != nil {
			return v, err
		}
		return magnitude(v, n.suffix)
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
}

// lookup resolves a variable in the current call frame, then the registry.
func (ev *evaluation) lookup(name string) (decimal.Decimal, error) {
	if v, ok := ev.frame[name]; ok {
		return v, nil
	}
	if v, ok := ev.ctx.reg.Var(name); ok {
		return v, nil
	}
	return decimal.Decimal{}, &NameError{Name: name}
}

// call evaluates a function call node. Arguments are evaluated in the
// caller's frame, then the body is evaluated in a fresh frame holding only
// the parameters.
func (ev *evaluation) call(n *node) (decimal.Decimal, error) {
	fn, ok := ev.ctx.reg.Func(n.name)
	if !ok {
		return decimal.Decimal{}, &FuncError{Name: n.name}
	}
	if len(n.args) != len(fn.Params) {
		return decimal.Decimal{}, &ArityError{Func: n.name, Want: len(fn.Params), Got: len(n.args)}
	}
	if ev.depth >= ev.ctx.depth {
		return decimal.Decimal{}, &DepthError{Func: n.name, Depth: ev.depth}
	}
	frame := make(map[string]decimal.Decimal, len(fn.Params))
	for i, a := range n.args {
		v, err := ev.eval(a)
		if err != nil {
			return v, err
		}
		frame[fn.Params[i]] = v
	}
	caller := ev.frame
	ev.frame = frame
	ev.depth++
	r, err := ev.eval(fn.Body.n)
	ev.depth--
	ev.frame = caller
	return r, err
}

// Eval is a shortcut to parse an expression and evaluate it against a new
// registry holding the default definitions.
func Eval(src string, opts ...ContextOption) (decimal.Decimal, error) {
	e, err := Parse(src)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return NewContext(NewRegistry(), opts...).Eval(e)
}

// EvalError is implemented by every error resulting from evaluating a
// well-formed expression.
type EvalError interface {
	error
	evalError()
}

// NameError is an error from a lookup for a variable that is missing from both
// the call frame and the registry.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "variable not found: " + strconv.Quote(err.Name)
}

// FuncError is an error from a call to a function that is not defined.
type FuncError struct {
	Name string
}

func (err *FuncError) Error() string {
	return "function not found: " + strconv.Quote(err.Name)
}

// ArityError is an error from calling a function with the wrong number of
// arguments.
type ArityError struct {
	Func string
	// Want is the number of parameters the function has.
	Want int
	// Got is the number of arguments in the call.
	Got int
}

func (err *ArityError) Error() string {
	return "function " + strconv.Quote(err.Func) + " expects " + strconv.Itoa(err.Want) + " args, got " + strconv.Itoa(err.Got)
}

// DivisionByZeroError is an error from dividing by exactly zero.
type DivisionByZeroError struct {
	// X is the dividend.
	X  decimal.Decimal
	Op Operator
}

func (err *DivisionByZeroError) Error() string {
	return "division by zero: " + err.X.String() + " " + err.Op.String() + " 0"
}

// DomainError is an error returned when an operation is applied to operands
// outside its domain.
type DomainError struct {
	// X is the out-of-domain operand.
	X decimal.Decimal
	// Arg is the 1-based index of the operand.
	Arg int
	// Func is a name identifying the operation.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// OverflowError is an error returned when an operand is too large to compute
// a result for.
type OverflowError struct {
	X decimal.Decimal
	// Limit is the bound the operand reached. It is zero if the limit is
	// implicit in the representation.
	Limit decimal.Decimal
	Func  string
}

func (err *OverflowError) Error() string {
	if err.Limit.IsZero() {
		return err.Func + " overflows for " + err.X.String()
	}
	return err.Func + " too large: " + err.X.String() + " is at or beyond " + err.Limit.String()
}

// DepthError is an error returned when function calls nest too deeply,
// usually because of unbounded recursion.
type DepthError struct {
	// Func is the function whose call exceeded the limit.
	Func  string
	Depth int
}

func (err *DepthError) Error() string {
	return "calling " + strconv.Quote(err.Func) + ": call depth exceeds " + strconv.Itoa(err.Depth)
}

func (*NameError) evalError()           {}
func (*FuncError) evalError()           {}
func (*ArityError) evalError()          {}
func (*DivisionByZeroError) evalError() {}
func (*DomainError) evalError()         {}
func (*OverflowError) evalError()       {}
func (*DepthError) evalError()          {}
func (*DefinitionError) evalError()     {}

var (
	_ EvalError = (*NameError)(nil)
	_ EvalError = (*FuncError)(nil)
	_ EvalError = (*ArityError)(nil)
	_ EvalError = (*DivisionByZeroError)(nil)
	_ EvalError = (*DomainError)(nil)
	_ EvalError = (*OverflowError)(nil)
	_ EvalError = (*DepthError)(nil)
	_ EvalError = (*DefinitionError)(nil)
)
