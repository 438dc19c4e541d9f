package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jcgregorio/logger"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/config"
)

const helpText = `Type an expression to evaluate it. Separate several with ;.
Operators:  + - * / % ^ and parentheses; "2x" and "2(x+1)" multiply
Suffixes:   k m b t (thousand to trillion) and ! (factorial)
The previous result is available as ans.

Commands:
  help                  show this message
  exit, esc             leave the calculator
  dev                   toggle tracing of tokens and parse trees
  vars                  list variables
  funcs                 list functions
  let name = expr       define or redefine a variable
  def name(a, b) = body define or redefine a function
`

// session is the state of an interactive or batch run.
type session struct {
	calc   *calc.Calculator
	out    io.Writer
	errw   io.Writer
	log    *logger.Logger
	debug  bool
	format formatter
}

// formatter presents results according to the output flags.
type formatter struct {
	// round is the number of fractional digits to show, or negative to show
	// the exact value.
	round  int
	sci    bool
	commas bool
}

func (f formatter) apply(r calc.Result) string {
	switch {
	case f.sci:
		return r.Scientific()
	case f.commas && f.round >= 0:
		return commas(r.Raw().StringFixed(int32(f.round)))
	case f.commas:
		return r.Commas()
	case f.round >= 0:
		s, _ := r.Round(f.round)
		return s
	default:
		return r.String()
	}
}

// commas groups the integer digits of a formatted fixed-point number while
// keeping its trailing fractional zeros.
func commas(s string) string {
	ip, fp, _ := strings.Cut(s, ".")
	g := calc.NewResult(decimal.RequireFromString(ip)).Commas()
	if ip == "-0" {
		g = "-0"
	}
	if fp == "" {
		return g
	}
	return g + "." + fp
}

func (s *session) setDebug(debug bool) {
	s.debug = debug
	s.log = newLogger(s.errw, debug)
}

// repl reads and runs lines from in until it ends or the user exits.
func (s *session) repl(in io.Reader) error {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	if interactive {
		fmt.Fprintln(s.out, `calc (type "help" for help, "exit" to quit)`)
	}
	sc := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(s.out, "> ")
		}
		if !sc.Scan() {
			if interactive {
				fmt.Fprintln(s.out)
			}
			return sc.Err()
		}
		if !s.command(strings.TrimSpace(sc.Text())) {
			return nil
		}
	}
}

// command runs one line of input. It returns false if the session should
// end. Command words are only recognized alone or, for let and def, at the
// start of the line, so variables may share their names.
func (s *session) command(line string) bool {
	switch line {
	case "":
	case "exit", "esc":
		return false
	case "help":
		fmt.Fprint(s.out, helpText)
	case "dev":
		s.setDebug(!s.debug)
		if s.debug {
			fmt.Fprintln(s.out, "debug on")
		} else {
			fmt.Fprintln(s.out, "debug off")
		}
	case "vars":
		reg := s.calc.Registry()
		for _, name := range reg.VarNames() {
			v, _ := reg.Var(name)
			fmt.Fprintf(s.out, "%s = %s\n", name, s.format.apply(calc.NewResult(v)))
		}
	case "funcs":
		reg := s.calc.Registry()
		for _, name := range reg.FuncNames() {
			fn, _ := reg.Func(name)
			fmt.Fprintf(s.out, "%s(%s) = %v\n", name, strings.Join(fn.Params, ", "), fn.Body)
		}
	default:
		s.define(line)
	}
	return true
}

// define runs a let or def command, or evaluates line if it is neither.
func (s *session) define(line string) {
	word, rest, _ := strings.Cut(line, " ")
	switch word {
	case "let":
		v, err := config.ParseVar(rest)
		if err == nil {
			err = v.Define(s.calc)
		}
		if err != nil {
			s.report("", err)
			return
		}
		x, _ := s.calc.Registry().Var(v.Name)
		fmt.Fprintf(s.out, "%s = %s\n", v.Name, s.format.apply(calc.NewResult(x)))
	case "def":
		fn, err := config.ParseFunc(rest)
		if err == nil {
			err = fn.Define(s.calc.Registry())
		}
		if err != nil {
			s.report("", err)
			return
		}
		fmt.Fprintf(s.out, "defined %s\n", fn.Name)
	default:
		r, err := s.eval(line)
		if err != nil {
			s.report(line, err)
			return
		}
		fmt.Fprintln(s.out, s.format.apply(r))
	}
}

// eval calculates src, tracing its tokens and trees in debug mode.
func (s *session) eval(src string) (calc.Result, error) {
	if s.debug {
		if toks, err := calc.Tokenize(src); err == nil {
			s.log.Debugf("tokens: %v", toks)
		}
		if exprs, err := s.calc.Parse(src); err == nil {
			for _, e := range exprs {
				s.log.Debugf("tree: %v", e)
			}
		}
	}
	return s.calc.Calc(src)
}

// report prints an error. If src is the input that failed, input errors also
// mark the offending column.
func (s *session) report(src string, err error) {
	red := color.New(color.FgRed)
	var ie calc.InputError
	if src != "" && errors.As(err, &ie) {
		fmt.Fprintln(s.errw, src)
		fmt.Fprintln(s.errw, strings.Repeat(" ", ie.Pos()-1)+"^")
	}
	red.Fprintln(s.errw, err)
}
