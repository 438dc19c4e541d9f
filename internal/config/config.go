// Package config loads calculator settings and startup definitions from YAML.
package config

import (
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/zephyrtronium/calc"
)

// Config is the startup configuration of a calculator.
type Config struct {
	// Scale is the number of fractional digits kept by division.
	Scale int32 `yaml:"scale"`
	// Prec is the binary precision of fractional exponentiation.
	Prec      uint `yaml:"prec"`
	MaxDepth  int  `yaml:"max_depth"`
	CacheSize int  `yaml:"cache_size"`
	// Funcs are defined before Vars, so variable expressions can call them.
	Funcs []Func `yaml:"funcs"`
	// Vars are evaluated and defined in order.
	Vars []Var `yaml:"vars"`
}

// Var is a variable definition. Expr is evaluated once, at definition.
type Var struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

// Func is a function definition.
type Func struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
	Body   string   `yaml:"body"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Scale:     calc.DefaultScale,
		Prec:      calc.DefaultPrec,
		MaxDepth:  calc.DefaultMaxDepth,
		CacheSize: calc.DefaultCacheSize,
	}
}

// Load reads a YAML configuration file. Settings missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return cfg, nil
}

// Parse decodes a YAML configuration. Unknown keys are errors.
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting.
func (cfg *Config) Validate() error {
	var result *multierror.Error
	if cfg.Scale < 0 {
		result = multierror.Append(result, errors.Errorf("scale must be non-negative, not %d", cfg.Scale))
	}
	if cfg.Prec == 0 {
		result = multierror.Append(result, errors.New("prec must be positive"))
	}
	if cfg.MaxDepth <= 0 {
		result = multierror.Append(result, errors.Errorf("max_depth must be positive, not %d", cfg.MaxDepth))
	}
	if cfg.CacheSize < 0 {
		result = multierror.Append(result, errors.Errorf("cache_size must be non-negative, not %d", cfg.CacheSize))
	}
	return result.ErrorOrNil()
}

// Options returns the calculator options for the configured settings.
func (cfg *Config) Options() []calc.Option {
	return []calc.Option{
		calc.WithContext(calc.DivisionScale(cfg.Scale), calc.Prec(cfg.Prec), calc.MaxDepth(cfg.MaxDepth)),
		calc.WithCacheSize(cfg.CacheSize),
	}
}

// Apply adds the configured definitions to c, replacing existing ones with
// the same names. It attempts every definition and returns all failures.
func (cfg *Config) Apply(c *calc.Calculator) error {
	var result *multierror.Error
	for _, fn := range cfg.Funcs {
		if err := fn.Define(c.Registry()); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, v := range cfg.Vars {
		if err := v.Define(c); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Define evaluates v's expression with c and stores the result, creating the
// variable if needed. ans is not changed.
func (v Var) Define(c *calc.Calculator) error {
	e, err := calc.Parse(v.Expr)
	if err != nil {
		return errors.Wrapf(err, "parsing value of %s", v.Name)
	}
	x, err := c.Context().Eval(e)
	if err != nil {
		return errors.Wrapf(err, "evaluating value of %s", v.Name)
	}
	reg := c.Registry()
	if reg.HasVar(v.Name) {
		err = reg.SetVar(v.Name, x)
	} else {
		err = reg.DefineVar(v.Name, x)
	}
	return errors.Wrapf(err, "defining %s", v.Name)
}

// Define adds fn to reg, replacing any function with the same name.
func (fn Func) Define(reg *calc.Registry) error {
	if reg.HasFunc(fn.Name) {
		return reg.SetFunc(fn.Name, fn.Params, fn.Body)
	}
	return reg.DefineFunc(fn.Name, fn.Params, fn.Body)
}

// ParseVar parses a variable definition written as "name = expr".
func ParseVar(s string) (Var, error) {
	name, expr, ok := strings.Cut(s, "=")
	if !ok {
		return Var{}, errors.Errorf(`variable definitions must be "name = expr", not %q`, s)
	}
	return Var{Name: strings.TrimSpace(name), Expr: strings.TrimSpace(expr)}, nil
}

// ParseFunc parses a function definition written as "name(a, b) = body".
func ParseFunc(s string) (Func, error) {
	head, body, ok := strings.Cut(s, "=")
	head = strings.TrimSpace(head)
	open := strings.IndexByte(head, '(')
	if !ok || open < 0 || !strings.HasSuffix(head, ")") {
		return Func{}, errors.Errorf(`function definitions must be "name(params) = body", not %q`, s)
	}
	fn := Func{Name: strings.TrimSpace(head[:open]), Body: strings.TrimSpace(body)}
	if ps := strings.TrimSpace(head[open+1 : len(head)-1]); ps != "" {
		for _, p := range strings.Split(ps, ",") {
			fn.Params = append(fn.Params, strings.TrimSpace(p))
		}
	}
	return fn, nil
}
