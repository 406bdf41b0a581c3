package stream

// PublishRelay is a PublishSubject that can only carry values. It never
// terminates, so OnError and OnCompleted handlers given to Subscribe are
// never called.
type PublishRelay[T any] struct {
	source[T]
}

// NewPublishRelay returns an empty PublishRelay.
func NewPublishRelay[T any](opts ...Option) *PublishRelay[T] {
	cfg := newConfig("publish_relay", opts)
	return &PublishRelay[T]{source: source[T]{r: newRegistry[T](cfg)}}
}

// Push delivers v to every subscriber.
func (r *PublishRelay[T]) Push(v T) {
	r.r.push(Next(v))
}

// BehaviorRelay is a value-only BehaviorSubject. Its current value is always
// readable.
type BehaviorRelay[T any] struct {
	source[T]
}

// NewBehaviorRelay returns a BehaviorRelay holding initial.
func NewBehaviorRelay[T any](initial T, opts ...Option) *BehaviorRelay[T] {
	cfg := newConfig("behavior_relay", opts)
	return &BehaviorRelay[T]{source: source[T]{r: newReplayRegistry(cfg, initial)}}
}

// Push records v and delivers it to every subscriber.
func (r *BehaviorRelay[T]) Push(v T) {
	r.r.push(Next(v))
}

// Value returns the latest value.
func (r *BehaviorRelay[T]) Value() T {
	v, _ := r.r.value()
	return v
}
