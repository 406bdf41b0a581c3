package stream

import (
	"errors"
	"fmt"
)

// ErrStaleAccess is returned when the latest value of a terminated
// BehaviorSubject is read.
var ErrStaleAccess = errors.New("stream: latest value read after termination")

// StaleAccessError describes a read from a terminated BehaviorSubject.
type StaleAccessError struct {
	// Stream is the name given with WithName, if any.
	Stream string

	// Kind is the terminal event that sealed the stream.
	Kind EventKind

	// Cause is the reason of the terminating Error event, nil on completion.
	Cause error
}

func (e *StaleAccessError) Error() string {
	name := e.Stream
	if name == "" {
		name = "subject"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: value read after %s: %v", name, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: value read after %s", name, e.Kind)
}

// Is makes errors.Is(err, ErrStaleAccess) hold.
func (e *StaleAccessError) Is(target error) bool {
	return target == ErrStaleAccess
}

// Unwrap returns the terminating reason.
func (e *StaleAccessError) Unwrap() error {
	return e.Cause
}
