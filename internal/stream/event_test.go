package stream

import (
	"errors"
	"testing"
)

func TestEvent_Constructors(t *testing.T) {
	reason := errors.New("boom")

	tests := []struct {
		name     string
		event    Event[int]
		kind     EventKind
		terminal bool
		str      string
	}{
		{"next", Next(7), KindNext, false, "next(7)"},
		{"error", Error[int](reason), KindError, true, "error(boom)"},
		{"completed", Completed[int](), KindCompleted, true, "completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Kind(); got != tt.kind {
				t.Errorf("Kind() = %v, want %v", got, tt.kind)
			}
			if got := tt.event.IsTerminal(); got != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.terminal)
			}
			if got := tt.event.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestEvent_Value(t *testing.T) {
	v, ok := Next("hello").Value()
	if !ok || v != "hello" {
		t.Errorf("Next.Value() = %q, %v; want hello, true", v, ok)
	}

	v, ok = Completed[string]().Value()
	if ok || v != "" {
		t.Errorf("Completed.Value() = %q, %v; want zero, false", v, ok)
	}
}

func TestEvent_Err(t *testing.T) {
	reason := errors.New("boom")
	if got := Error[int](reason).Err(); got != reason {
		t.Errorf("Err() = %v, want %v", got, reason)
	}
	if got := Next(1).Err(); got != nil {
		t.Errorf("Next.Err() = %v, want nil", got)
	}
}

func TestEventKind_String(t *testing.T) {
	if got := EventKind(42).String(); got != "kind(42)" {
		t.Errorf("String() = %q, want kind(42)", got)
	}
}

func TestHandlers_NilCallbacksAreSkipped(t *testing.T) {
	var h Handlers[int]

	// Must not panic.
	h.dispatch(Next(1))
	h.dispatch(Error[int](errors.New("x")))
	h.dispatch(Completed[int]())
}
