package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat shows hour-to-hundredths timestamps on command logs.
const logTimeFormat = "15:04:05.00"

// newLogger creates the command logger writing to w at the given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress measures one operation from construction to donef. Not safe for
// concurrent donef calls.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts the clock.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// donef logs the formatted message with the elapsed time appended, rounded
// to the millisecond: "Fitted star in 37 trials (1.234s)".
func (p *progress) donef(format string, args ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Infof(format+" (%s)", append(args, elapsed)...)
}

// loggerKey carries the command logger through context.
type loggerKey struct{}

// withLogger attaches l to ctx for code that only receives a context.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached to ctx, falling back to
// log.Default() so callers never get nil.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
