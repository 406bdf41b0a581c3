package viewmodel

import (
	"github.com/brianly1003/relaykit/internal/stream"
	"github.com/brianly1003/relaykit/internal/sync"
)

const (
	openRelayCaps        = AllCapabilities
	openPublishRelayCaps = UpdateReactivelyInside | ReadReactivelyInside | UpdateProcedurallyInside |
		UpdateReactivelyOutside | ReadReactivelyOutside | UpdateProcedurallyOutside
	observerOutputCaps = UpdateReactivelyInside | ReadReactivelyInside | UpdateProcedurallyInside |
		UpdateReactivelyOutside | ReadReactivelyOutside
	outputOnlyCaps       = UpdateReactivelyInside | ReadReactivelyInside | UpdateProcedurallyInside | ReadReactivelyOutside
	outputWithUpdateCaps = outputOnlyCaps | UpdateProcedurallyOutside
	derivedCaps          = UpdateReactivelyOutside | ReadReactivelyOutside
	plainStateCaps       = UpdateProcedurallyInside | ReadProcedurallyInside |
		UpdateProcedurallyOutside | ReadProcedurallyOutside | HoldsValue
	guardedCaps    = AllCapabilities
	tapCounterCaps = AllCapabilities
)

// OpenRelay exposes its BehaviorRelay as a field. Anyone can read or write it
// in any style, which makes it the shortest shape and the least safe one.
type OpenRelay struct {
	owner
	Value *stream.BehaviorRelay[int]
}

// NewOpenRelay seeds the relay with 1 and traces every value.
func NewOpenRelay(t Tracer) *OpenRelay {
	vm := &OpenRelay{
		owner: newOwner(t),
		Value: stream.NewBehaviorRelay(0, stream.WithName("open_relay")),
	}
	stream.Just(1).Bind(vm.Value.AsObserver()).DisposedBy(vm.bag)
	vm.Value.SubscribeNext(traceTo[int](vm.tracer, "open_relay")).DisposedBy(vm.bag)
	return vm
}

// Capabilities reports the reachable directions.
func (vm *OpenRelay) Capabilities() Capability { return openRelayCaps }

// OpenPublishRelay exposes a PublishRelay. It holds nothing, so there is no
// stale state, but anyone may still push into it.
type OpenPublishRelay struct {
	owner
	Value *stream.PublishRelay[int]
}

// NewOpenPublishRelay traces every value pushed after construction.
func NewOpenPublishRelay(t Tracer) *OpenPublishRelay {
	vm := &OpenPublishRelay{
		owner: newOwner(t),
		Value: stream.NewPublishRelay[int](stream.WithName("open_publish_relay")),
	}
	// Emitted before anyone listens, so it is lost.
	stream.Just(1).Bind(vm.Value.AsObserver()).DisposedBy(vm.bag)
	vm.Value.SubscribeNext(traceTo[int](vm.tracer, "open_publish_relay")).DisposedBy(vm.bag)
	return vm
}

// Capabilities reports the reachable directions.
func (vm *OpenPublishRelay) Capabilities() Capability { return openPublishRelayCaps }

// ObserverOutput hides its relay behind an Observer for input and an
// Observable for output.
type ObserverOutput struct {
	owner
	value *stream.PublishRelay[int]
}

// NewObserverOutput returns a model with nothing held.
func NewObserverOutput(t Tracer) *ObserverOutput {
	vm := &ObserverOutput{
		owner: newOwner(t),
		value: stream.NewPublishRelay[int](stream.WithName("observer_output")),
	}
	vm.value.SubscribeNext(traceTo[int](vm.tracer, "observer_output")).DisposedBy(vm.bag)
	return vm
}

// Input accepts values from outside.
func (vm *ObserverOutput) Input() stream.Observer[int] { return vm.value.AsObserver() }

// Output publishes the values received.
func (vm *ObserverOutput) Output() stream.Observable[int] { return vm.value.AsObservable() }

// Capabilities reports the reachable directions.
func (vm *ObserverOutput) Capabilities() Capability { return observerOutputCaps }

// OutputOnly can only be observed. Nothing outside can push into it.
type OutputOnly struct {
	owner
	value *stream.PublishRelay[int]
}

// NewOutputOnly returns a model whose output is fed by seed, one value per
// element, once the first subscriber has been traced.
func NewOutputOnly(t Tracer, seed ...int) *OutputOnly {
	vm := &OutputOnly{
		owner: newOwner(t),
		value: stream.NewPublishRelay[int](stream.WithName("output_only")),
	}
	vm.value.SubscribeNext(traceTo[int](vm.tracer, "output_only")).DisposedBy(vm.bag)
	for _, v := range seed {
		vm.value.Push(v)
	}
	return vm
}

// Output publishes the model's values.
func (vm *OutputOnly) Output() stream.Observable[int] { return vm.value.AsObservable() }

// Capabilities reports the reachable directions.
func (vm *OutputOnly) Capabilities() Capability { return outputOnlyCaps }

// OutputWithUpdate is OutputOnly plus a procedural Update.
type OutputWithUpdate struct {
	owner
	value *stream.PublishRelay[int]
}

// NewOutputWithUpdate returns a model with nothing held.
func NewOutputWithUpdate(t Tracer) *OutputWithUpdate {
	vm := &OutputWithUpdate{
		owner: newOwner(t),
		value: stream.NewPublishRelay[int](stream.WithName("output_with_update")),
	}
	vm.value.SubscribeNext(traceTo[int](vm.tracer, "output_with_update")).DisposedBy(vm.bag)
	return vm
}

// Update publishes v.
func (vm *OutputWithUpdate) Update(v int) { vm.value.Push(v) }

// Output publishes the model's values.
func (vm *OutputWithUpdate) Output() stream.Observable[int] { return vm.value.AsObservable() }

// Capabilities reports the reachable directions.
func (vm *OutputWithUpdate) Capabilities() Capability { return outputWithUpdateCaps }

// Derived transforms an input stream it is given and holds nothing itself.
type Derived struct {
	owner
	output stream.Observable[int]
}

// NewDerived traces input and exposes it doubled.
func NewDerived(input stream.Observable[int], t Tracer) *Derived {
	vm := &Derived{
		owner:  newOwner(t),
		output: stream.Map(input, func(v int) int { return 2 * v }),
	}
	input.SubscribeNext(traceTo[int](vm.tracer, "derived")).DisposedBy(vm.bag)
	return vm
}

// Output is the input doubled.
func (vm *Derived) Output() stream.Observable[int] { return vm.output }

// Capabilities reports the reachable directions.
func (vm *Derived) Capabilities() Capability { return derivedCaps }

// PlainState is an ordinary value holder with no streams at all. Changes are
// invisible unless the caller asks.
type PlainState struct {
	tracer Tracer
	value  int
}

// NewPlainState returns a zero-valued model.
func NewPlainState(t Tracer) *PlainState {
	return &PlainState{tracer: tracerOrNop(t)}
}

// Value returns the held value.
func (vm *PlainState) Value() int { return vm.value }

// Update stores twice v.
func (vm *PlainState) Update(v int) {
	vm.value = 2 * v
	vm.tracer.Trace("plain_state", vm.value)
}

// Close is a no-op; PlainState holds no subscriptions.
func (vm *PlainState) Close() {}

// Capabilities reports the reachable directions.
func (vm *PlainState) Capabilities() Capability { return plainStateCaps }

// Guarded keeps its BehaviorRelay private but re-exposes every direction
// through an Observer, an Observable and plain accessors. It is as open as
// OpenRelay with more code.
type Guarded struct {
	owner
	value *stream.BehaviorRelay[int]
}

// NewGuarded seeds the relay with 1 and traces every value.
func NewGuarded(t Tracer) *Guarded {
	vm := &Guarded{
		owner: newOwner(t),
		value: stream.NewBehaviorRelay(0, stream.WithName("guarded")),
	}
	stream.Just(1).Bind(vm.value.AsObserver()).DisposedBy(vm.bag)
	vm.value.SubscribeNext(traceTo[int](vm.tracer, "guarded")).DisposedBy(vm.bag)
	return vm
}

// Input accepts values from outside.
func (vm *Guarded) Input() stream.Observer[int] { return vm.value.AsObserver() }

// Output publishes the held value and its changes.
func (vm *Guarded) Output() stream.Observable[int] { return vm.value.AsObservable() }

// Value returns the held value.
func (vm *Guarded) Value() int { return vm.value.Value() }

// Update replaces the held value.
func (vm *Guarded) Update(v int) { vm.value.Push(v) }

// Capabilities reports the reachable directions.
func (vm *Guarded) Capabilities() Capability { return guardedCaps }

// TapCounter is a held counter that the presentation layer both drives and
// observes. It is safe for concurrent use: updates are serialized so every
// subscriber sees the same order.
type TapCounter struct {
	owner
	mu    sync.Mutex
	value *stream.BehaviorRelay[int]
}

// NewTapCounter returns a counter starting at initial. opts configure the
// underlying relay.
func NewTapCounter(initial int, t Tracer, opts ...stream.Option) *TapCounter {
	opts = append([]stream.Option{stream.WithName("tap_counter")}, opts...)
	vm := &TapCounter{
		owner: newOwner(t),
		value: stream.NewBehaviorRelay(initial, opts...),
	}
	vm.value.SubscribeNext(traceTo[int](vm.tracer, "tap_counter")).DisposedBy(vm.bag)
	return vm
}

// Tap increments the counter and returns the new value. Subscribers run
// while the counter is locked and must not call back into it, nor subscribe
// to Changes.
func (vm *TapCounter) Tap() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	next := vm.value.Value() + 1
	vm.value.Push(next)
	return next
}

// Set replaces the counter value.
func (vm *TapCounter) Set(v int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.value.Push(v)
}

// Input accepts values from outside, serialized with Tap and Set.
func (vm *TapCounter) Input() stream.Observer[int] {
	return stream.NewObserver(vm.Set)
}

// Value returns the current count.
func (vm *TapCounter) Value() int { return vm.value.Value() }

// Changes replays the current count and then every change. The replay is
// taken under the counter lock, so it always precedes newer values.
func (vm *TapCounter) Changes() stream.Observable[int] {
	return stream.NewObservable(func(h stream.Handlers[int]) *stream.Token {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		return vm.value.Subscribe(h)
	})
}

// Capabilities reports the reachable directions.
func (vm *TapCounter) Capabilities() Capability { return tapCounterCaps }
