package calc

import (
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Function is a user-definable function. Its body is parsed once, when the
// function is defined.
type Function struct {
	Params []string
	Body   *Expr
}

// Registry holds the variables and functions that expressions can refer to.
// Variables and functions live in separate namespaces; a name followed by an
// open parenthesis always refers to a function. It is safe to use a Registry
// concurrently.
type Registry struct {
	mu    sync.RWMutex
	vars  map[string]decimal.Decimal
	funcs map[string]*Function
}

var globalvars = []struct{ name, value string }{
	{"pi", "3.14159265358979323846264338327950288419716939937510"},
	{"phi", "1.61803398874989484820458683436563811772030917980576"},
	{"e", "2.71828182845904523536028747135266249775724709369995"},
	{"g", "9.81"},
	{"one", "1"},
	{"two", "2"},
	{"three", "3"},
	{"four", "4"},
	{"five", "5"},
	{"six", "6"},
	{"seven", "7"},
	{"eight", "8"},
	{"nine", "9"},
	{"ten", "10"},
	{"hundred", "100"},
	{"thousand", "1000"},
	{"million", "1000000"},
	{"billion", "1000000000"},
	{"trillion", "1000000000000"},
	{"ans", "0"},
}

var globalfuncs = []struct {
	name   string
	params []string
	body   string
}{
	{"cube", []string{"x"}, "x^3"},
	{"sqrt", []string{"x"}, "x^0.5"},
	{"power", []string{"x", "y"}, "x^y"},
	{"f", []string{"x", "y"}, "x^y"},
	{"g", []string{"x", "y"}, "f(x,2)+y"},
	{"add", []string{"x", "y"}, "x+y"},
	{"sum", []string{"x", "y"}, "x+y"},
}

// NewEmptyRegistry creates a registry with no definitions.
func NewEmptyRegistry() *Registry {
	return &Registry{
		vars:  make(map[string]decimal.Decimal),
		funcs: make(map[string]*Function),
	}
}

// NewRegistry creates a registry holding the default constants, number words,
// the ans variable, and the default functions.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, v := range globalvars {
		if err := r.DefineVar(v.name, decimal.RequireFromString(v.value)); err != nil {
			panic(err)
		}
	}
	for _, f := range globalfuncs {
		if err := r.DefineFunc(f.name, f.params, f.body); err != nil {
			panic(err)
		}
	}
	return r
}

// DefineVar adds a new variable. It is an error if the variable already
// exists.
func (r *Registry) DefineVar(name string, value decimal.Decimal) error {
	if err := checkName(name); err != nil {
		return errors.Wrap(err, "defining variable")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vars[name]; ok {
		return &DefinitionError{Kind: "variable", Name: name, Exists: true}
	}
	r.vars[name] = value
	return nil
}

// SetVar changes the value of an existing variable. It is an error if the
// variable does not exist.
func (r *Registry) SetVar(name string, value decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vars[name]; !ok {
		return &DefinitionError{Kind: "variable", Name: name}
	}
	r.vars[name] = value
	return nil
}

// Var returns the value of a variable.
func (r *Registry) Var(name string) (decimal.Decimal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vars[name]
	return v, ok
}

// DefineFunc adds a new function. The body is parsed immediately, so a
// malformed body is reported here rather than when the function is called.
// It is an error if the function already exists.
func (r *Registry) DefineFunc(name string, params []string, body string) error {
	fn, err := newFunction(name, params, body)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[name]; ok {
		return &DefinitionError{Kind: "function", Name: name, Exists: true}
	}
	r.funcs[name] = fn
	return nil
}

// SetFunc replaces an existing function. It is an error if the function does
// not exist.
func (r *Registry) SetFunc(name string, params []string, body string) error {
	fn, err := newFunction(name, params, body)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[name]; !ok {
		return &DefinitionError{Kind: "function", Name: name}
	}
	r.funcs[name] = fn
	return nil
}

// Func returns a function definition. The result must not be modified.
func (r *Registry) Func(name string) (*Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// HasVar and HasFunc report whether a name is defined.
func (r *Registry) HasVar(name string) bool {
	_, ok := r.Var(name)
	return ok
}

func (r *Registry) HasFunc(name string) bool {
	_, ok := r.Func(name)
	return ok
}

// VarNames returns the sorted names of all variables.
func (r *Registry) VarNames() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.vars))
	for k := range r.vars {
		names = append(names, k)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// FuncNames returns the sorted names of all functions.
func (r *Registry) FuncNames() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.funcs))
	for k := range r.funcs {
		names = append(names, k)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func newFunction(name string, params []string, body string) (*Function, error) {
	if err := checkName(name); err != nil {
		return nil, errors.Wrap(err, "defining function")
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if err := checkName(p); err != nil {
			return nil, errors.Wrapf(err, "defining function %s", name)
		}
		if seen[p] {
			return nil, errors.Errorf("defining function %s: duplicate parameter %q", name, p)
		}
		seen[p] = true
	}
	e, err := Parse(body)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing body of function %s", name)
	}
	return &Function{Params: append([]string(nil), params...), Body: e}, nil
}

// checkName verifies that name would lex as a single identifier.
func checkName(name string) error {
	toks, err := Tokenize(name)
	if err != nil {
		return err
	}
	if len(toks) != 2 || toks[0].Kind != TokenIdent || toks[0].Name != name {
		return errors.Errorf("invalid name %q", name)
	}
	return nil
}

// DefinitionError is an error from defining a name that already exists or
// redefining one that does not.
type DefinitionError struct {
	// Kind is "variable" or "function".
	Kind string
	Name string
	// Exists is true if the name was already defined.
	Exists bool
}

func (err *DefinitionError) Error() string {
	if err.Exists {
		return err.Kind + " " + strconv.Quote(err.Name) + " already defined"
	}
	return err.Kind + " " + strconv.Quote(err.Name) + " has not been defined"
}
