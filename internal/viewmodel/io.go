package viewmodel

import "github.com/brianly1003/relaykit/internal/stream"

// IOFactor is what every input/output sample multiplies its input by.
const IOFactor = 10

func scale(v int) int { return v * IOFactor }

// ExposedIO splits input and output into two exported relays. Nothing stops a
// caller from pushing into Out directly.
type ExposedIO struct {
	owner
	In  *stream.PublishRelay[int]
	Out *stream.PublishRelay[int]
}

// NewExposedIO wires In to Out through a subscription.
func NewExposedIO() *ExposedIO {
	io := &ExposedIO{
		owner: newOwner(nil),
		In:    stream.NewPublishRelay[int](stream.WithName("exposed_io.in")),
		Out:   stream.NewPublishRelay[int](stream.WithName("exposed_io.out")),
	}
	out := io.Out
	io.In.SubscribeNext(func(v int) {
		out.Push(scale(v))
	}).DisposedBy(io.bag)
	return io
}

// ObserverIO hides its relays and hands out an Observer and an Observable.
type ObserverIO struct {
	owner
	in  *stream.PublishRelay[int]
	out *stream.PublishRelay[int]
}

// NewObserverIO wires the input to the output through a subscription.
func NewObserverIO() *ObserverIO {
	io := &ObserverIO{
		owner: newOwner(nil),
		in:    stream.NewPublishRelay[int](stream.WithName("observer_io.in")),
		out:   stream.NewPublishRelay[int](stream.WithName("observer_io.out")),
	}
	out := io.out
	io.in.SubscribeNext(func(v int) {
		out.Push(scale(v))
	}).DisposedBy(io.bag)
	return io
}

// Input accepts values.
func (io *ObserverIO) Input() stream.Observer[int] { return io.in.AsObserver() }

// Output publishes each input multiplied by IOFactor.
func (io *ObserverIO) Output() stream.Observable[int] { return io.out.AsObservable() }

// BoundIO is ObserverIO with the transformation declared through Map and Bind.
type BoundIO struct {
	owner
	in  *stream.PublishRelay[int]
	out *stream.PublishRelay[int]
}

// NewBoundIO binds the mapped input to the output.
func NewBoundIO() *BoundIO {
	io := &BoundIO{
		owner: newOwner(nil),
		in:    stream.NewPublishRelay[int](stream.WithName("bound_io.in")),
		out:   stream.NewPublishRelay[int](stream.WithName("bound_io.out")),
	}
	stream.Map(io.in.AsObservable(), scale).Bind(io.out.AsObserver()).DisposedBy(io.bag)
	return io
}

// Input accepts values.
func (io *BoundIO) Input() stream.Observer[int] { return io.in.AsObserver() }

// Output publishes each input multiplied by IOFactor.
func (io *BoundIO) Output() stream.Observable[int] { return io.out.AsObservable() }

// GroupedInput holds the relays a GroupedIO reads from.
type GroupedInput struct {
	Value *stream.PublishRelay[int]
}

// GroupedOutput holds the relays a GroupedIO writes to.
type GroupedOutput struct {
	Value *stream.PublishRelay[int]
}

// GroupedIO groups its relays by direction. The grouping documents intent
// but both groups are still writable relays.
type GroupedIO struct {
	owner
	Input  GroupedInput
	Output GroupedOutput
}

// NewGroupedIO binds the mapped input to the output.
func NewGroupedIO() *GroupedIO {
	io := &GroupedIO{
		owner:  newOwner(nil),
		Input:  GroupedInput{Value: stream.NewPublishRelay[int](stream.WithName("grouped_io.in"))},
		Output: GroupedOutput{Value: stream.NewPublishRelay[int](stream.WithName("grouped_io.out"))},
	}
	stream.Map(io.Input.Value.AsObservable(), scale).Bind(io.Output.Value.AsObserver()).DisposedBy(io.bag)
	return io
}

// StrictInput exposes only the write side.
type StrictInput struct {
	Value stream.Observer[int]
}

// StrictOutput exposes only the read side.
type StrictOutput struct {
	Value stream.Observable[int]
}

// StrictIO groups by direction and narrows each group to a one-way view.
type StrictIO struct {
	owner
	Input  StrictInput
	Output StrictOutput
}

// NewStrictIO binds the mapped input to the output.
func NewStrictIO() *StrictIO {
	in := stream.NewPublishRelay[int](stream.WithName("strict_io.in"))
	out := stream.NewPublishRelay[int](stream.WithName("strict_io.out"))
	io := &StrictIO{
		owner:  newOwner(nil),
		Input:  StrictInput{Value: in.AsObserver()},
		Output: StrictOutput{Value: out.AsObservable()},
	}
	stream.Map(in.AsObservable(), scale).Bind(out.AsObserver()).DisposedBy(io.bag)
	return io
}

// MethodIO takes input through a plain method and publishes output as an
// Observable. Only relays are used, and the logic lives in a subscription.
type MethodIO struct {
	owner
	in  *stream.PublishRelay[int]
	out *stream.PublishRelay[int]
}

// NewMethodIO wires the input to the output through a subscription.
func NewMethodIO() *MethodIO {
	io := &MethodIO{
		owner: newOwner(nil),
		in:    stream.NewPublishRelay[int](stream.WithName("method_io.in")),
		out:   stream.NewPublishRelay[int](stream.WithName("method_io.out")),
	}
	out := io.out
	io.in.SubscribeNext(func(v int) {
		out.Push(scale(v))
	}).DisposedBy(io.bag)
	return io
}

// Input pushes v through the model.
func (io *MethodIO) Input(v int) { io.in.Push(v) }

// Output publishes each input multiplied by IOFactor.
func (io *MethodIO) Output() stream.Observable[int] { return io.out.AsObservable() }
