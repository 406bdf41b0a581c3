package stream

// PublishSubject broadcasts events to its current subscribers without
// replaying anything to late ones.
type PublishSubject[T any] struct {
	source[T]
}

// NewPublishSubject returns an empty PublishSubject.
func NewPublishSubject[T any](opts ...Option) *PublishSubject[T] {
	cfg := newConfig("publish_subject", opts)
	return &PublishSubject[T]{source: source[T]{r: newRegistry[T](cfg)}}
}

// Push delivers e to every subscriber. After a terminal event every further
// Push is ignored.
func (s *PublishSubject[T]) Push(e Event[T]) {
	s.r.push(e)
}

// OnNext pushes a value.
func (s *PublishSubject[T]) OnNext(v T) {
	s.r.push(Next(v))
}

// OnError terminates the subject with err.
func (s *PublishSubject[T]) OnError(err error) {
	s.r.push(Error[T](err))
}

// OnCompleted terminates the subject normally.
func (s *PublishSubject[T]) OnCompleted() {
	s.r.push(Completed[T]())
}

// IsTerminated reports whether an Error or Completed event has been pushed.
func (s *PublishSubject[T]) IsTerminated() bool {
	return s.r.terminated()
}

// BehaviorSubject is a PublishSubject that remembers the last value and
// replays it to each new subscriber.
type BehaviorSubject[T any] struct {
	source[T]
}

// NewBehaviorSubject returns a BehaviorSubject holding initial.
func NewBehaviorSubject[T any](initial T, opts ...Option) *BehaviorSubject[T] {
	cfg := newConfig("behavior_subject", opts)
	return &BehaviorSubject[T]{source: source[T]{r: newReplayRegistry(cfg, initial)}}
}

// Push delivers e to every subscriber and records Next values.
func (s *BehaviorSubject[T]) Push(e Event[T]) {
	s.r.push(e)
}

// OnNext pushes a value.
func (s *BehaviorSubject[T]) OnNext(v T) {
	s.r.push(Next(v))
}

// OnError terminates the subject with err.
func (s *BehaviorSubject[T]) OnError(err error) {
	s.r.push(Error[T](err))
}

// OnCompleted terminates the subject normally.
func (s *BehaviorSubject[T]) OnCompleted() {
	s.r.push(Completed[T]())
}

// IsTerminated reports whether an Error or Completed event has been pushed.
func (s *BehaviorSubject[T]) IsTerminated() bool {
	return s.r.terminated()
}

// Value returns the latest value. Once the subject has terminated it returns
// a *StaleAccessError instead.
func (s *BehaviorSubject[T]) Value() (T, error) {
	v, term := s.r.value()
	if term != nil {
		var zero T
		return zero, &StaleAccessError{
			Stream: s.r.cfg.name,
			Kind:   term.Kind(),
			Cause:  term.Err(),
		}
	}
	return v, nil
}
