// Package log provides the leveled logger used by ammogen.
package log

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging surface the rest of the tool depends on.
// Arguments after msg are alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Zerolog implements Logger on top of a zerolog.Logger.
type Zerolog struct {
	l zerolog.Logger
}

// New returns a console logger writing to w at the given level
// ("debug", "info", "warn", "error", "disabled").
func New(w io.Writer, level string) (*Zerolog, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return &Zerolog{l: zerolog.New(out).Level(lvl).With().Timestamp().Logger()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Zerolog {
	return &Zerolog{l: zerolog.Nop()}
}

// ParseLevel maps a level name onto a zerolog level. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off", "none":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func (z *Zerolog) Debug(msg string, args ...any) { emit(z.l.Debug(), msg, args) }
func (z *Zerolog) Info(msg string, args ...any)  { emit(z.l.Info(), msg, args) }
func (z *Zerolog) Warn(msg string, args ...any)  { emit(z.l.Warn(), msg, args) }
func (z *Zerolog) Error(msg string, args ...any) { emit(z.l.Error(), msg, args) }

func emit(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			ev = ev.Interface("!BADKEY", args[i])
			break
		}
		switch v := args[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case string:
			ev = ev.Str(key, v)
		case int:
			ev = ev.Int(key, v)
		case int64:
			ev = ev.Int64(key, v)
		case time.Duration:
			ev = ev.Dur(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}
