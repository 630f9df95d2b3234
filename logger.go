package schedule

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"
)

// DefaultLogger is used by a Scheduler if none is specified. It logs errors
// only.
var DefaultLogger = PrintfLogger(log.New(os.Stdout, "schedule: ", log.LstdFlags))

// DiscardLogger can be used by callers to discard all log messages.
var DiscardLogger = PrintfLogger(log.New(io.Discard, "", 0))

// Logger is the interface used in this package for logging, so that any
// backend can be plugged in. It is a subset of the github.com/go-logr/logr
// interface; the logadapter package provides zap and zerolog backends.
type Logger interface {
	// Info logs routine messages about the scheduler's operation.
	Info(msg string, keysAndValues ...any)
	// Error logs an error condition.
	Error(err error, msg string, keysAndValues ...any)
}

// Printfer is anything with a Printf method, such as *log.Logger.
type Printfer interface {
	Printf(format string, v ...any)
}

// PrintfLogger wraps a Printf-based logger into a Logger that logs errors
// only.
func PrintfLogger(l Printfer) Logger {
	return printfLogger{l: l}
}

// VerbosePrintfLogger wraps a Printf-based logger into a Logger that logs
// everything.
func VerbosePrintfLogger(l Printfer) Logger {
	return printfLogger{l: l, verbose: true}
}

type printfLogger struct {
	l       Printfer
	verbose bool
}

func (p printfLogger) Info(msg string, keysAndValues ...any) {
	if p.verbose {
		p.l.Printf("%s", logfmt(msg, keysAndValues))
	}
}

func (p printfLogger) Error(err error, msg string, keysAndValues ...any) {
	p.l.Printf("%s", logfmt(msg, append([]any{"error", err}, keysAndValues...)))
}

// logfmt renders msg followed by key=value pairs. Times print in the same
// layout as job listings.
func logfmt(msg string, keysAndValues []any) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		sb.WriteString(", ")
		fmt.Fprintf(&sb, "%v=", keysAndValues[i])
		switch v := keysAndValues[i+1].(type) {
		case time.Time:
			sb.WriteString(formatRun(v))
		default:
			fmt.Fprintf(&sb, "%v", v)
		}
	}
	return sb.String()
}

// SlogLogger adapts log/slog to the Logger interface.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a Logger that writes to l, or to slog.Default() if l
// is nil.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{logger: l}
}

// Info logs at slog.LevelInfo.
func (s *SlogLogger) Info(msg string, keysAndValues ...any) {
	s.logger.Info(msg, keysAndValues...)
}

// Error logs at slog.LevelError with the error under the "error" key.
func (s *SlogLogger) Error(err error, msg string, keysAndValues ...any) {
	s.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
