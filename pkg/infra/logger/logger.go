// Package logger configures the process-wide slog logger for modelrun.
//
// Request and trace IDs are read from the context keys owned by pkg/unit, so
// a logger obtained through WithContext inside a unit carries the same IDs
// the gateway put in the response metadata.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jguan/modelrun/pkg/unit"
)

type contextKey int

const unitKey contextKey = iota

var (
	defaultLogger *slog.Logger
	once          sync.Once
	mu            sync.RWMutex
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is the output format (json, text).
	Format string
	// Output defaults to os.Stderr so command output on stdout stays clean.
	Output io.Writer
	// AddSource adds source file:line to log entries.
	AddSource bool
}

// Init installs the default logger. Only the first call takes effect;
// Reset allows reconfiguration.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {
		defaultLogger = New(cfg)
		slog.SetDefault(defaultLogger)
	})
}

// Reset clears the default logger so Init can run again. Used by tests and
// by the CLI when --config changes the logging section.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	defaultLogger = nil
}

// New builds a logger without touching the process default.
func New(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog level. An empty name is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Default returns the installed logger, or slog.Default before Init.
func Default() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		return slog.Default()
	}
	return l
}

// WithContext returns the default logger enriched with request_id, trace_id
// and unit when the context carries them.
func WithContext(ctx context.Context) *slog.Logger {
	l := Default()

	if rid := unit.GetRequestID(ctx); rid != "" {
		l = l.With("request_id", rid)
	}
	if tid := unit.GetTraceID(ctx); tid != "" {
		l = l.With("trace_id", tid)
	}
	if u, ok := ctx.Value(unitKey).(string); ok && u != "" {
		l = l.With("unit", u)
	}

	return l
}

// SetUnit adds a unit name to the context.
func SetUnit(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, unitKey, name)
}

func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }
