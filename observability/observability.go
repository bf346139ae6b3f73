// Package observability defines the structured logging boundary used by the
// execution engine. An [Observer] is propagated through a [context.Context]
// with [ContextWithObserver] and retrieved with [ObserverFromContext]; the
// default implementation routes events through the standard library slog.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Observer receives leveled, attribute-carrying events from the engine and
// providers. Implementations must be safe for concurrent use.
type Observer interface {
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}

// Attribute is a key-value pair attached to an observation.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value}
}

// Error creates an error attribute under the conventional "error" key.
func Error(err error) Attribute {
	return Attribute{Key: "error", Value: err}
}

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var observerContextKey = contextKey{}

// ObserverFromContext extracts the Observer from the context.
// Returns nil if no observer is present.
func ObserverFromContext(ctx context.Context) Observer {
	if ctx == nil {
		return nil
	}
	observer, _ := ctx.Value(observerContextKey).(Observer)
	return observer
}

// ContextWithObserver returns a new context with the given observer attached.
func ContextWithObserver(ctx context.Context, observer Observer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, observerContextKey, observer)
}

// SlogObserver implements Observer on top of a slog.Logger.
type SlogObserver struct {
	logger *slog.Logger
}

var _ Observer = (*SlogObserver)(nil)

// NewSlog creates an observer backed by the given logger. A nil logger
// falls back to slog.Default().
func NewSlog(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) log(ctx context.Context, level slog.Level, msg string, attrs []Attribute) {
	logAttrs := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	o.logger.LogAttrs(ctx, level, msg, logAttrs...)
}

// Debug logs the event at debug level.
func (o *SlogObserver) Debug(ctx context.Context, msg string, attrs ...Attribute) {
	o.log(ctx, slog.LevelDebug, msg, attrs)
}

// Info logs the event at info level.
func (o *SlogObserver) Info(ctx context.Context, msg string, attrs ...Attribute) {
	o.log(ctx, slog.LevelInfo, msg, attrs)
}

// Warn logs the event at warn level.
func (o *SlogObserver) Warn(ctx context.Context, msg string, attrs ...Attribute) {
	o.log(ctx, slog.LevelWarn, msg, attrs)
}

// Error logs the event at error level.
func (o *SlogObserver) Error(ctx context.Context, msg string, attrs ...Attribute) {
	o.log(ctx, slog.LevelError, msg, attrs)
}
