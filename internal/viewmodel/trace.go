package viewmodel

import (
	"context"
	"log/slog"
)

// Tracer receives the console trace of a view model.
type Tracer interface {
	Trace(source string, value any)
}

// TraceFunc adapts a function to Tracer.
type TraceFunc func(source string, value any)

// Trace calls f.
func (f TraceFunc) Trace(source string, value any) {
	f(source, value)
}

// SlogTracer writes each trace as an info record on l.
func SlogTracer(l *slog.Logger) Tracer {
	return TraceFunc(func(source string, value any) {
		l.LogAttrs(context.Background(), slog.LevelInfo, source, slog.Any("value", value))
	})
}

type nopTracer struct{}

func (nopTracer) Trace(string, any) {}

func tracerOrNop(t Tracer) Tracer {
	if t == nil {
		return nopTracer{}
	}
	return t
}

// traceTo returns a value callback that traces under source.
func traceTo[T any](t Tracer, source string) func(T) {
	return func(v T) {
		t.Trace(source, v)
	}
}
