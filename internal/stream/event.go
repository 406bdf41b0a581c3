package stream

import "fmt"

// EventKind tags an Event.
type EventKind uint8

const (
	// KindNext carries a value.
	KindNext EventKind = iota

	// KindError terminates the stream with a reason.
	KindError

	// KindCompleted terminates the stream normally.
	KindCompleted
)

// String returns the lowercase name of the kind.
func (k EventKind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindError:
		return "error"
	case KindCompleted:
		return "completed"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is a single notification flowing through a stream.
// Construct one with Next, Error or Completed.
type Event[T any] struct {
	kind  EventKind
	value T
	err   error
}

// Next returns a value event.
func Next[T any](v T) Event[T] {
	return Event[T]{kind: KindNext, value: v}
}

// Error returns a terminal error event.
func Error[T any](err error) Event[T] {
	return Event[T]{kind: KindError, err: err}
}

// Completed returns a terminal completion event.
func Completed[T any]() Event[T] {
	return Event[T]{kind: KindCompleted}
}

// Kind returns the event tag.
func (e Event[T]) Kind() EventKind {
	return e.kind
}

// Value returns the payload of a Next event. ok is false for terminal events.
func (e Event[T]) Value() (v T, ok bool) {
	if e.kind != KindNext {
		return v, false
	}
	return e.value, true
}

// Err returns the reason carried by an Error event, or nil.
func (e Event[T]) Err() error {
	return e.err
}

// IsTerminal reports whether the event ends the stream.
func (e Event[T]) IsTerminal() bool {
	return e.kind == KindError || e.kind == KindCompleted
}

func (e Event[T]) String() string {
	switch e.kind {
	case KindNext:
		return fmt.Sprintf("next(%v)", e.value)
	case KindError:
		return fmt.Sprintf("error(%v)", e.err)
	default:
		return e.kind.String()
	}
}

// Handlers groups the callbacks of one subscription. Nil callbacks are
// skipped.
type Handlers[T any] struct {
	OnNext      func(T)
	OnError     func(error)
	OnCompleted func()
}

// OnNext builds Handlers that only observe values.
func OnNext[T any](fn func(T)) Handlers[T] {
	return Handlers[T]{OnNext: fn}
}

func (h Handlers[T]) dispatch(e Event[T]) {
	switch e.kind {
	case KindNext:
		if h.OnNext != nil {
			h.OnNext(e.value)
		}
	case KindError:
		if h.OnError != nil {
			h.OnError(e.err)
		}
	case KindCompleted:
		if h.OnCompleted != nil {
			h.OnCompleted()
		}
	}
}
