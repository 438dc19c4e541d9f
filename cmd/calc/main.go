// Command calc evaluates decimal expressions given as arguments, or
// interactively when there are none.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/jcgregorio/logger"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/config"
)

// flag names
const (
	configFlagName   = "config"
	scaleFlagName    = "scale"
	precFlagName     = "prec"
	maxDepthFlagName = "max-depth"
	cacheFlagName    = "cache"
	varFlagName      = "var"
	funcFlagName     = "func"
	debugFlagName    = "debug"
	roundFlagName    = "round"
	sciFlagName      = "sci"
	commasFlagName   = "commas"
)

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// defList collects every use of a repeatable flag. Unlike a string slice
// flag, it does not split values on commas, which function definitions use.
type defList []string

func (d *defList) Set(s string) error {
	*d = append(*d, s)
	return nil
}

func (d *defList) String() string {
	return strings.Join(*d, "; ")
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	var vars, funcs defList
	return &cli.App{
		Name:      "calc",
		Usage:     "arbitrary-precision decimal calculator",
		UsageText: "calc [options] [expression ...]",
		Description: "With arguments, calc evaluates each one and prints its result. " +
			"Otherwise it reads expressions from standard input; type help for commands.",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configFlagName,
				Usage: "YAML file with settings and startup definitions",
			},
			&cli.IntFlag{
				Name:  scaleFlagName,
				Value: calc.DefaultScale,
				Usage: "fractional digits kept by division",
			},
			&cli.UintFlag{
				Name:  precFlagName,
				Value: calc.DefaultPrec,
				Usage: "precision in bits of fractional powers",
			},
			&cli.IntFlag{
				Name:  maxDepthFlagName,
				Value: calc.DefaultMaxDepth,
				Usage: "maximum depth of nested function calls",
			},
			&cli.IntFlag{
				Name:  cacheFlagName,
				Value: calc.DefaultCacheSize,
				Usage: "number of parsed inputs to remember, or 0 to disable",
			},
			&cli.GenericFlag{
				Name:  varFlagName,
				Value: &vars,
				Usage: `"name = expr" variable definition (any number of times)`,
			},
			&cli.GenericFlag{
				Name:  funcFlagName,
				Value: &funcs,
				Usage: `"name(a, b) = body" function definition (any number of times)`,
			},
			&cli.BoolFlag{
				Name:  debugFlagName,
				Usage: "trace tokens and parse trees",
			},
			&cli.IntFlag{
				Name:  roundFlagName,
				Value: -1,
				Usage: "print results with exactly this many fractional digits",
			},
			&cli.BoolFlag{
				Name:  sciFlagName,
				Usage: "print results in engineering notation",
			},
			&cli.BoolFlag{
				Name:  commasFlagName,
				Usage: "group integer digits in thousands",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx, vars, funcs)
			if err != nil {
				return err
			}
			c, err := calc.New(cfg.Options()...)
			if err != nil {
				return err
			}
			if err := cfg.Apply(c); err != nil {
				return errors.Wrap(err, "applying startup definitions")
			}
			s := &session{
				calc:  c,
				out:   stdout,
				errw:  stderr,
				debug: ctx.Bool(debugFlagName),
				format: formatter{
					round:  ctx.Int(roundFlagName),
					sci:    ctx.Bool(sciFlagName),
					commas: ctx.Bool(commasFlagName),
				},
			}
			s.setDebug(s.debug)
			if ctx.NArg() > 0 {
				return s.batch(ctx.Args().Slice())
			}
			return s.repl(stdin)
		},
	}
}

// loadConfig builds the configuration from defaults, then the config file,
// then flags.
func loadConfig(ctx *cli.Context, vars, funcs defList) (*config.Config, error) {
	cfg := config.Default()
	if ctx.IsSet(configFlagName) {
		var err error
		cfg, err = config.Load(ctx.String(configFlagName))
		if err != nil {
			return nil, err
		}
	}
	if ctx.IsSet(scaleFlagName) {
		cfg.Scale = int32(ctx.Int(scaleFlagName))
	}
	if ctx.IsSet(precFlagName) {
		cfg.Prec = ctx.Uint(precFlagName)
	}
	if ctx.IsSet(maxDepthFlagName) {
		cfg.MaxDepth = ctx.Int(maxDepthFlagName)
	}
	if ctx.IsSet(cacheFlagName) {
		cfg.CacheSize = ctx.Int(cacheFlagName)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var result *multierror.Error
	for _, s := range funcs {
		fn, err := config.ParseFunc(s)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		cfg.Funcs = append(cfg.Funcs, fn)
	}
	for _, s := range vars {
		v, err := config.ParseVar(s)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		cfg.Vars = append(cfg.Vars, v)
	}
	return cfg, result.ErrorOrNil()
}

// batch evaluates each argument as a separate input. Evaluation continues
// past errors; all of them are returned together.
func (s *session) batch(args []string) error {
	var result *multierror.Error
	for _, arg := range args {
		r, err := s.eval(arg)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "%q", arg))
			continue
		}
		fmt.Fprintln(s.out, s.format.apply(r))
	}
	return result.ErrorOrNil()
}

// syncWriter adapts a writer with nothing to flush for the logger.
type syncWriter struct {
	io.Writer
}

func (syncWriter) Sync() error { return nil }

func newLogger(w io.Writer, debug bool) *logger.Logger {
	sw, ok := w.(logger.SyncWriter)
	if !ok {
		sw = syncWriter{w}
	}
	return logger.NewFromOptions(&logger.Options{
		SyncWriter:   sw,
		IncludeDebug: debug,
	})
}
