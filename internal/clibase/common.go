// internal/clibase/common.go
package clibase

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"genopipe/internal/config"
)

// Common holds CLI fields shared by every command.
type Common struct {
	Config    string
	Root      string
	Jobs      int
	Timeout   time.Duration
	SkipEmpty bool

	Quiet     bool
	Verbose   bool
	LogFormat string
	Version   bool
	Examples  bool
	Help      bool
}

// NewFlagSet returns a flag set that reports errors instead of exiting and
// prints nothing on its own.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// Register wires the shared flags onto fs.
func Register(fs *pflag.FlagSet, c *Common) {
	fs.StringVarP(&c.Config, "config", "c", "", "config file (yaml, toml or json)")
	fs.StringVar(&c.Root, "root", ".", "project root; relative paths resolve against it")
	fs.IntVarP(&c.Jobs, "jobs", "j", 1, "parallel tool invocations where allowed (0=all CPUs)")
	fs.DurationVar(&c.Timeout, "timeout", 0, "per-invocation timeout (0=none)")
	fs.BoolVar(&c.SkipEmpty, "skip-empty", false, "skip empty tool outputs instead of failing")

	fs.BoolVarP(&c.Quiet, "quiet", "q", false, "only log warnings and errors")
	fs.BoolVar(&c.Verbose, "verbose", false, "log every tool invocation")
	fs.StringVar(&c.LogFormat, "log-format", "text", "log format: text | json")
	fs.BoolVarP(&c.Version, "version", "v", false, "print version and exit")
	fs.BoolVar(&c.Examples, "examples", false, "show a quickstart and exit")
	fs.BoolVarP(&c.Help, "help", "h", false, "show this help and exit")
}

// Keys maps the shared flags onto config keys.
var Keys = map[string]string{
	"root":       "root",
	"jobs":       "jobs",
	"timeout":    "timeout",
	"skip-empty": "skip_empty",
	"log-format": "log.format",
}

// Load builds the configuration for one command: defaults, the --config
// file, the environment, then every flag in keys (plus the shared Keys)
// that was set on the command line.
func Load(fs *pflag.FlagSet, c *Common, keys map[string]string) (*config.Config, *viper.Viper, error) {
	if err := Validate(c); err != nil {
		return nil, nil, err
	}
	v := config.New()
	if err := config.BindFlags(v, fs, Keys); err != nil {
		return nil, nil, err
	}
	if err := config.BindFlags(v, fs, keys); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(v, c.Config)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// Validate applies shared CLI invariants.
func Validate(c *Common) error {
	if c.Jobs < 0 {
		return errors.New("--jobs must be ≥ 0")
	}
	if c.Timeout < 0 {
		return errors.New("--timeout must be ≥ 0")
	}
	if c.Quiet && c.Verbose {
		return errors.New("--quiet conflicts with --verbose")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid --log-format %q", c.LogFormat)
	}
	return nil
}
