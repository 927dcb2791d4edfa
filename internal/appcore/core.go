// internal/appcore/core.go
package appcore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"genopipe/internal/clibase"
	"genopipe/internal/cliutil"
	"genopipe/internal/cmdutil"
	"genopipe/internal/config"
	"genopipe/internal/logging"
	"genopipe/internal/runner"
	"genopipe/internal/version"
	"genopipe/internal/writers"
)

// Spec describes one command to Setup.
type Spec struct {
	Name    string
	Summary string
	Usage   string

	Flags func(fs *pflag.FlagSet)    // command-specific flags
	Keys  map[string]string          // command flag → config key
	Check func(*config.Config) error // extra validation after loading

	Examples func(w io.Writer) // quickstart body for --examples
}

// Env is everything a command needs once its arguments are parsed.
type Env struct {
	Config   *config.Config
	Viper    *viper.Viper
	Common   clibase.Common
	Flags    *pflag.FlagSet
	Args     []string // positionals, globs expanded
	Log      *slog.Logger
	Launcher runner.Launcher
}

// Setup parses argv, loads the configuration and builds the logger. When
// done is true the command has nothing left to do and must return code:
// help or version was printed, or the arguments were unusable.
func Setup(argv []string, stdout, stderr io.Writer, spec Spec) (env *Env, code int, done bool) {
	fs := clibase.NewFlagSet(spec.Name)
	fs.SetOutput(io.Discard)
	var c clibase.Common
	clibase.Register(fs, &c)
	if spec.Flags != nil {
		spec.Flags(fs)
	}

	usage := func(w io.Writer) int {
		outw := bufio.NewWriter(w)
		clibase.PrintUsage(outw, fs, spec.Name, spec.Summary, spec.Usage)
		if err := outw.Flush(); err != nil && !writers.IsBrokenPipe(err) {
			_, _ = fmt.Fprintln(stderr, err)
			return cmdutil.ExitFailure
		}
		return cmdutil.ExitOK
	}

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, usage(stdout), true
		}
		_, _ = fmt.Fprintf(stderr, "error: %v\n\n", err)
		usage(stderr)
		return nil, cmdutil.ExitUsage, true
	}
	if c.Help {
		return nil, usage(stdout), true
	}
	if c.Version {
		_, _ = fmt.Fprintf(stdout, "%s version %s\n", spec.Name, version.Version)
		return nil, cmdutil.ExitOK, true
	}

	if c.Examples {
		clibase.PrintExamples(stdout, spec.Name, spec.Examples)
		return nil, cmdutil.ExitOK, true
	}

	args, err := cliutil.ExpandPositionals(fs.Args())
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return nil, cmdutil.ExitUsage, true
	}
	cfg, v, err := clibase.Load(fs, &c, spec.Keys)
	if err == nil && spec.Check != nil {
		err = spec.Check(cfg)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return nil, cmdutil.ExitUsage, true
	}

	log, err := logging.New(stderr, spec.Name, logging.Options{
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
		Quiet:   c.Quiet,
		Verbose: c.Verbose,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return nil, cmdutil.ExitUsage, true
	}
	if f := v.ConfigFileUsed(); f != "" {
		log.Debug("config loaded", "file", f)
	}

	return &Env{
		Config:   cfg,
		Viper:    v,
		Common:   c,
		Flags:    fs,
		Args:     args,
		Log:      log,
		Launcher: &runner.Runner{Logger: log},
	}, 0, false
}
