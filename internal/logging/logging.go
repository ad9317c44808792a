// Package logging configures the process-wide JSON logger and carries the
// per-request fields every log line repeats.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdobak/go-xerrors"
)

// Initialize installs the default logger. LOGGING_LEVEL selects debug, info,
// warn, or error; anything else means info.
func Initialize() {
	slog.SetDefault(New(os.Stdout, decodeLogLevel(os.Getenv("LOGGING_LEVEL"))))
}

// New returns a JSON logger on w. Error attributes are rendered as
// {msg, trace} groups.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}))
}

func decodeLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	if err, ok := a.Value.Any().(error); ok {
		a.Value = errorValue(err)
	}
	return a
}

type frame struct {
	Func   string `json:"func"`
	Source string `json:"source"`
	Line   int    `json:"line"`
}

func errorValue(err error) slog.Value {
	attrs := []slog.Attr{slog.String("msg", err.Error())}

	if trace := xerrors.StackTrace(err); len(trace) > 0 {
		frames := make([]frame, 0, len(trace))
		for _, f := range trace.Frames() {
			frames = append(frames, frame{
				Func:   filepath.Base(f.Function),
				Source: filepath.Join(filepath.Base(filepath.Dir(f.File)), filepath.Base(f.File)),
				Line:   f.Line,
			})
		}
		attrs = append(attrs, slog.Any("trace", frames))
	}
	return slog.GroupValue(attrs...)
}

// WrapError prefixes err with msg and records the caller's stack.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return xerrors.Newf("%s: %v", msg, xerrors.WithStackTrace(err, 1))
}
