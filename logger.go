package nullbench

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with benchmark-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger writing human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithKernel adds a kernel field to the logger.
func (l *Logger) WithKernel(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("kernel", name),
	}
}

// LogGenerated logs dataset generation.
func (l *Logger) LogGenerated(ctx context.Context, n, nulls int, elapsed time.Duration) {
	l.InfoContext(ctx, "dataset generated",
		"n", n,
		"nulls", nulls,
		"elapsed", elapsed,
	)
}

// LogVerify logs the outcome of the verification pass.
func (l *Logger) LogVerify(ctx context.Context, kernels int, sum int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "verification failed",
			"kernels", kernels,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "kernels verified",
		"kernels", kernels,
		"sum", sum,
	)
}

// LogResult logs one timed kernel.
func (l *Logger) LogResult(ctx context.Context, res Result) {
	l.WithKernel(res.Name).DebugContext(ctx, "kernel complete",
		"iterations", res.Iterations,
		"mean", res.MeanDuration(),
		"sum", res.Sum,
		"total", res.Total,
	)
}
