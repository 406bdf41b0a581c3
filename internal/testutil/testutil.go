// Package testutil provides shared test helpers for relaykit tests.
package testutil

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
)

// Recorder captures the callbacks of one stream subscription.
//
// Its Next, Error and Completed methods have the shapes of the stream
// handler callbacks, so a test can write
//
//	rec := testutil.NewRecorder[int]()
//	s.Subscribe(stream.Handlers[int]{OnNext: rec.Next, OnError: rec.Error, OnCompleted: rec.Completed})
type Recorder[T any] struct {
	mu        sync.Mutex
	values    []T
	errs      []error
	completed int
}

// NewRecorder creates an empty recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

// Next records a value.
func (r *Recorder[T]) Next(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

// Error records a terminal error.
func (r *Recorder[T]) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// Completed records a completion.
func (r *Recorder[T]) Completed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

// Values returns a copy of the recorded values.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.values)
}

// Errors returns a copy of the recorded errors.
func (r *Recorder[T]) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.errs)
}

// CompletedCount returns how many completions were recorded.
func (r *Recorder[T]) CompletedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

// Reset forgets everything recorded so far.
func (r *Recorder[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = nil
	r.errs = nil
	r.completed = 0
}

// TraceLine is one call captured by TraceRecorder.
type TraceLine struct {
	Source string
	Value  any
}

// String formats the line as "source value".
func (l TraceLine) String() string {
	return fmt.Sprintf("%s %v", l.Source, l.Value)
}

// TraceRecorder captures view-model traces.
type TraceRecorder struct {
	mu    sync.Mutex
	lines []TraceLine
}

// Trace records one line.
func (r *TraceRecorder) Trace(source string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, TraceLine{Source: source, Value: value})
}

// Lines returns a copy of the recorded lines.
func (r *TraceRecorder) Lines() []TraceLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.lines)
}

// Strings returns the recorded lines formatted with TraceLine.String.
func (r *TraceRecorder) Strings() []string {
	lines := r.Lines()
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

// AssertValues fails the test unless got equals want element by element.
func AssertValues[T comparable](t *testing.T, got, want []T, msg string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

// AssertEqual is a simple equality assertion helper.
func AssertEqual[T comparable](t *testing.T, expected, actual T, msg string) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// AssertTrue asserts that a condition is true.
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Errorf("%s: expected true, got false", msg)
	}
}

// AssertFalse asserts that a condition is false.
func AssertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Errorf("%s: expected false, got true", msg)
	}
}

// AssertNoError asserts that an error is nil.
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: unexpected error: %v", msg, err)
	}
}

// AssertError asserts that an error is not nil.
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected error, got nil", msg)
	}
}

// AssertContains checks if a string contains a substring.
func AssertContains(t *testing.T, s, substr, msg string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("%s: string %q does not contain %q", msg, s, substr)
	}
}
