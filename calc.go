package calc

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Calculator evaluates input lines against a registry, remembering each
// result in the ans variable. Parsed input is cached by its text. A
// Calculator is safe for concurrent use, although concurrent calculations
// race to set ans.
type Calculator struct {
	reg   *Registry
	ctx   *Context
	cache *lru.Cache
}

// Option configures a Calculator.
type Option func(*calcopts)

type calcopts struct {
	reg   *Registry
	ctx   []ContextOption
	cache int
}

// WithRegistry makes the calculator use an existing registry instead of a new
// one holding the default definitions.
func WithRegistry(reg *Registry) Option {
	return func(o *calcopts) {
		o.reg = reg
	}
}

// WithContext applies options to the calculator's evaluation context.
func WithContext(opts ...ContextOption) Option {
	return func(o *calcopts) {
		o.ctx = append(o.ctx, opts...)
	}
}

// WithCacheSize sets the number of parsed inputs to remember. Zero disables
// the cache.
func WithCacheSize(n int) Option {
	return func(o *calcopts) {
		o.cache = n
	}
}

// DefaultCacheSize is the number of parsed inputs a Calculator remembers
// unless configured otherwise.
const DefaultCacheSize = 256

// New creates a calculator.
func New(opts ...Option) (*Calculator, error) {
	o := calcopts{cache: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.reg == nil {
		o.reg = NewRegistry()
	}
	c := Calculator{reg: o.reg, ctx: NewContext(o.reg, o.ctx...)}
	if o.cache > 0 {
		cache, err := lru.New(o.cache)
		if err != nil {
			return nil, errors.Wrap(err, "creating parse cache")
		}
		c.cache = cache
	}
	return &c, nil
}

// Registry returns the calculator's registry.
func (c *Calculator) Registry() *Registry {
	return c.reg
}

// Context returns the calculator's evaluation context.
func (c *Calculator) Context() *Context {
	return c.ctx
}

// Parse parses a semicolon-separated list of expressions, using the cache if
// possible.
func (c *Calculator) Parse(src string) ([]*Expr, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(src); ok {
			return v.([]*Expr), nil
		}
	}
	exprs, err := ParseList(src)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Add(src, exprs)
	}
	return exprs, nil
}

// Calc evaluates each expression in src in order and returns the last
// result. After each successful expression, ans holds its value, so later
// expressions in the same input can refer to earlier ones. Evaluation stops
// at the first error.
func (c *Calculator) Calc(src string) (Result, error) {
	exprs, err := c.Parse(src)
	if err != nil {
		return Result{}, err
	}
	var r decimal.Decimal
	for _, e := range exprs {
		r, err = c.ctx.Eval(e)
		if err != nil {
			return Result{}, err
		}
		if err := c.setans(r); err != nil {
			return Result{}, err
		}
	}
	return Result{value: r}, nil
}

// setans stores v in ans, creating it if it has been removed from a custom
// registry.
func (c *Calculator) setans(v decimal.Decimal) error {
	if err := c.reg.SetVar("ans", v); err == nil {
		return nil
	}
	err := c.reg.DefineVar("ans", v)
	var derr *DefinitionError
	if errors.As(err, &derr) && derr.Exists {
		// Another calculation defined it first.
		err = c.reg.SetVar("ans", v)
	}
	return errors.Wrap(err, "storing ans")
}
