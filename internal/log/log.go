// Package log provides context-aware logging for mgit.
//
// Console diagnostics go to the writer passed to [New] (stderr in the CLI).
// When a file sink is attached with [Logger.WithFile], debug lines, warnings
// and executed commands are also recorded there as zerolog JSON lines,
// independent of the verbose flag.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// Logger provides output and verbose command logging.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
	file    *zerolog.Logger
}

// New creates a new logger. quiet suppresses all console output.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet}
}

// WithFile attaches a persistent log sink. Passing nil detaches it.
func (l *Logger) WithFile(w io.Writer) *Logger {
	if w == nil {
		l.file = nil
		return l
	}
	zl := zerolog.New(w).With().Timestamp().Logger()
	l.file = &zl
	return l
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

// Printf writes formatted output.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Warnf prints a warning line and records it in the file sink.
func (l *Logger) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.file != nil {
		l.file.Warn().Msg(msg)
	}
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "Warning: %s\n", msg)
}

// Debug logs a message with key/value pairs.
// Console output only in verbose mode; an odd trailing key is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if l.file != nil {
		ev := l.file.Debug()
		for i := 0; i+1 < len(keyvals); i += 2 {
			ev = ev.Interface(fmt.Sprint(keyvals[i]), keyvals[i+1])
		}
		ev.Msg(msg)
	}
	if !l.IsVerbose() {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(l.out, b.String())
}

// Command logs an external command execution and returns a callback that
// records its duration. Console output only in verbose mode.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	return func(d time.Duration) {
		if l.file != nil {
			l.file.Debug().Str("dir", dir).Str("cmd", line).Dur("took", d).Msg("exec")
		}
		if !l.IsVerbose() {
			return
		}
		if dir != "" {
			fmt.Fprintf(l.out, "[%s] $ %s (%s)\n", dir, line, d.Round(time.Millisecond))
			return
		}
		fmt.Fprintf(l.out, "$ %s (%s)\n", line, d.Round(time.Millisecond))
	}
}

// IsVerbose returns true if verbose mode is enabled and not overridden by quiet.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}
