package viewmodel

import (
	"errors"
	"fmt"

	"github.com/brianly1003/relaykit/internal/domain"
	"github.com/brianly1003/relaykit/internal/stream"
)

// Scenario is a named, self-contained walkthrough that reports through a
// Tracer.
type Scenario struct {
	Name        string
	Description string
	Run         func(Tracer)
}

var errSample = errors.New("sample failure")

var scenarios = []Scenario{
	{"primitives", "publish/behavior subjects and relays side by side", runPrimitives},
	{"external", "subscribe to and push into a relay owned by another type", runExternal},
	{"open-relay", "exported BehaviorRelay", runOpenRelay},
	{"open-publish-relay", "exported PublishRelay", runOpenPublishRelay},
	{"observer-output", "Observer in, Observable out", runObserverOutput},
	{"output-only", "Observable out only", runOutputOnly},
	{"output-with-update", "Observable out plus Update", runOutputWithUpdate},
	{"derived", "injected input mapped to the output", runDerived},
	{"plain-state", "plain field with no streams", runPlainState},
	{"guarded", "private relay re-exposed in every direction", runGuarded},
	{"tap-counter", "held counter tapped by the presentation layer", runTapCounter},
	{"exposed-io", "input and output relays both exported", runExposedIO},
	{"observer-io", "Observer input, Observable output", runObserverIO},
	{"bound-io", "Map and Bind instead of a subscription", runBoundIO},
	{"grouped-io", "relays grouped into Input and Output", runGroupedIO},
	{"strict-io", "Input and Output narrowed to one-way views", runStrictIO},
	{"method-io", "input method, Observable output", runMethodIO},
	{"source-of-truth", "one owner shared by a mirror and two readers", runSourceOfTruth},
}

// Scenarios returns every scenario in display order.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// Lookup finds a scenario by name.
func Lookup(name string) (Scenario, error) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", domain.ErrUnknownScenario, name)
}

func traceHandlers[T any](t Tracer, source string) stream.Handlers[T] {
	return stream.Handlers[T]{
		OnNext:      traceTo[T](t, source),
		OnError:     func(err error) { t.Trace(source, err) },
		OnCompleted: func() { t.Trace(source, "completed") },
	}
}

func runPrimitives(t Tracer) {
	t = tracerOrNop(t)
	bag := stream.NewDisposeBag()
	defer bag.Dispose()

	ps := stream.NewPublishSubject[int](stream.WithName("publish_subject"))
	pr := stream.NewPublishRelay[int](stream.WithName("publish_relay"))
	bs := stream.NewBehaviorSubject(0, stream.WithName("behavior_subject"))
	br := stream.NewBehaviorRelay(0, stream.WithName("behavior_relay"))

	ps.Subscribe(traceHandlers[int](t, "publish_subject")).DisposedBy(bag)
	pr.Subscribe(traceHandlers[int](t, "publish_relay")).DisposedBy(bag)
	bs.Subscribe(traceHandlers[int](t, "behavior_subject")).DisposedBy(bag)
	br.Subscribe(traceHandlers[int](t, "behavior_relay")).DisposedBy(bag)

	ps.OnNext(1)
	ps.OnNext(2)
	ps.OnError(errSample)
	ps.OnCompleted()
	ps.OnNext(3)

	pr.Push(1)
	pr.Push(2)
	pr.Push(3)

	bs.OnNext(1)
	bs.OnNext(2)
	if v, err := bs.Value(); err == nil {
		t.Trace("behavior_subject.value", v)
	}
	bs.OnError(errSample)
	bs.OnCompleted()
	v, err := bs.Value()
	if err != nil {
		v = -1
	}
	t.Trace("behavior_subject.value", v)

	br.Push(1)
	br.Push(2)
	t.Trace("behavior_relay.value", br.Value())
}

func runExternal(t Tracer) {
	t = tracerOrNop(t)
	relay := NewOpenPublishRelay(nil)
	defer relay.Close()

	tok := relay.Value.Subscribe(traceHandlers[int](t, "publish_relay"))
	defer tok.Dispose()
	relay.Value.Push(1)
	relay.Value.Push(2)
}

func runOpenRelay(t Tracer) {
	t = tracerOrNop(t)
	bag := stream.NewDisposeBag()
	defer bag.Dispose()
	outer := stream.NewBehaviorRelay(0)

	vm := NewOpenRelay(t)
	defer vm.Close()

	outer.AsObservable().Bind(vm.Value.AsObserver()).DisposedBy(bag)
	vm.Value.SubscribeNext(traceTo[int](t, "caller")).DisposedBy(bag)
	vm.Value.Push(1)
	t.Trace("caller.value", vm.Value.Value())
}

func runOpenPublishRelay(t Tracer) {
	t = tracerOrNop(t)
	bag := stream.NewDisposeBag()
	defer bag.Dispose()
	outer := stream.NewBehaviorRelay(0)

	vm := NewOpenPublishRelay(t)
	defer vm.Close()

	outer.AsObservable().Bind(vm.Value.AsObserver()).DisposedBy(bag)
	vm.Value.SubscribeNext(traceTo[int](t, "caller")).DisposedBy(bag)
	vm.Value.Push(1)
}

func runObserverOutput(t Tracer) {
	t = tracerOrNop(t)
	bag := stream.NewDisposeBag()
	defer bag.Dispose()
	outer := stream.NewBehaviorRelay(0)

	vm := NewObserverOutput(t)
	defer vm.Close()

	outer.AsObservable().Bind(vm.Input()).DisposedBy(bag)
	vm.Output().SubscribeNext(traceTo[int](t, "caller")).DisposedBy(bag)
	outer.Push(1)
}

func runOutputOnly(t Tracer) {
	t = tracerOrNop(t)
	bag := stream.NewDisposeBag()
	defer bag.Dispose()

	vm := NewOutputOnly(t, 1)
	defer vm.Close()

	vm.Output().SubscribeNext(traceTo[int](t, "caller")).DisposedBy(bag)
}

func runOutputWithUpdate(t Tracer) {
	t = tracerOrNop(t)
	bag := stream.NewDisposeBag()
	defer bag.Dispose()

	vm := NewOutputWithUpdate(t)
	defer vm.Close()

	vm.Output().SubscribeNext(traceTo[int](t, "caller")).DisposedBy(bag)
	vm.Update(1)
}

func runDerived(t Tracer) {
	t = tracerOrNop(t)
	bag := stream.NewDisposeBag()
	defer bag.Dispose()
	outer := stream.NewBehaviorRelay(0)

	vm := NewDerived(outer.AsObservable(), t)
	defer vm.Close()

	vm.Output().SubscribeNext(traceTo[int](t, "caller")).DisposedBy(bag)
	outer.Push(1)
}

func runPlainState(t Tracer) {
	t = tracerOrNop(t)
	vm := NewPlainState(t)
	defer vm.Close()

	vm.Update(1)
	t.Trace("caller.value", vm.Value())
}

func runGuarded(t Tracer) {
	t = tracerOrNop(t)
	bag := stream.NewDisposeBag()
	defer bag.Dispose()
	outer := stream.NewBehaviorRelay(0)

	vm := NewGuarded(t)
	defer vm.Close()

	outer.AsObservable().Bind(vm.Input()).DisposedBy(bag)
	vm.Output().SubscribeNext(traceTo[int](t, "caller")).DisposedBy(bag)
	vm.Update(1)
	t.Trace("caller.value", vm.Value())
}

func runTapCounter(t Tracer) {
	t = tracerOrNop(t)
	vm := NewTapCounter(0, t)
	defer vm.Close()

	vm.Tap()
	vm.Tap()
	vm.Set(10)
	vm.Tap()
	t.Trace("caller.value", vm.Value())
}

func runExposedIO(t Tracer) {
	t = tracerOrNop(t)
	io := NewExposedIO()
	defer io.Close()

	tok := io.Out.SubscribeNext(traceTo[int](t, "output"))
	defer tok.Dispose()
	io.In.Push(1)
	io.In.Push(2)
	// Out is an output, but it is still a relay anyone can push into.
	io.Out.Push(10)
}

func runObserverIO(t Tracer) {
	t = tracerOrNop(t)
	io := NewObserverIO()
	defer io.Close()

	tok := io.Output().SubscribeNext(traceTo[int](t, "output"))
	defer tok.Dispose()
	io.Input().Push(1)
	io.Input().Push(2)
}

func runBoundIO(t Tracer) {
	t = tracerOrNop(t)
	io := NewBoundIO()
	defer io.Close()

	tok := io.Output().SubscribeNext(traceTo[int](t, "output"))
	defer tok.Dispose()
	io.Input().Push(1)
	io.Input().Push(2)
}

func runGroupedIO(t Tracer) {
	t = tracerOrNop(t)
	io := NewGroupedIO()
	defer io.Close()

	tok := io.Output.Value.SubscribeNext(traceTo[int](t, "output"))
	defer tok.Dispose()
	io.Input.Value.Push(1)
}

func runStrictIO(t Tracer) {
	t = tracerOrNop(t)
	io := NewStrictIO()
	defer io.Close()

	tok := io.Output.Value.SubscribeNext(traceTo[int](t, "output"))
	defer tok.Dispose()
	io.Input.Value.Push(1)
}

func runMethodIO(t Tracer) {
	t = tracerOrNop(t)
	io := NewMethodIO()
	defer io.Close()

	tok := io.Output().Bind(stream.NewObserver(traceTo[int](t, "output")))
	defer tok.Dispose()
	io.Input(1)
	io.Input(2)
}

func runSourceOfTruth(t Tracer) {
	t = tracerOrNop(t)
	bag := stream.NewDisposeBag()
	defer bag.Dispose()

	src := NewTruthOwner()
	mirror := NewTruthMirror(t)
	reader := NewTruthReader(src.Value, t)
	whole := NewOwnerReader(src, t)
	defer func() {
		whole.Close()
		reader.Close()
		mirror.Close()
		src.Close()
	}()

	src.Value.AsObservable().Bind(mirror.Value.AsObserver()).DisposedBy(bag)

	src.Load()
	t.Trace("truth_owner.value", src.Value.Value())
	reader.Current()
	whole.Current()
}
