// Package logging builds the structured logger every command uses.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Options select the handler and level.
type Options struct {
	Format  string // text | json
	Level   string // debug | info | warn | error
	Quiet   bool   // forces warn
	Verbose bool   // forces debug
	RunID   string // empty: a fresh UUID
}

// New returns a logger writing to w. Every record carries run_id and cmd.
func New(w io.Writer, cmd string, o Options) (*slog.Logger, error) {
	level, err := ParseLevel(o.Level)
	if err != nil {
		return nil, err
	}
	switch {
	case o.Verbose:
		level = slog.LevelDebug
	case o.Quiet:
		level = slog.LevelWarn
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(o.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, hopts)
	case "json":
		h = slog.NewJSONHandler(w, hopts)
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", o.Format)
	}

	id := o.RunID
	if id == "" {
		id = uuid.NewString()
	}
	return slog.New(h).With("run_id", id, "cmd", cmd), nil
}

// ParseLevel maps a level name to its slog level; "" is info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
