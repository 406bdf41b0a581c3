package viewmodel

import "github.com/brianly1003/relaykit/internal/stream"

// TruthOwner is the single place the shared value lives.
type TruthOwner struct {
	owner
	Value *stream.BehaviorRelay[int]
}

// NewTruthOwner returns an owner holding 0.
func NewTruthOwner() *TruthOwner {
	return &TruthOwner{
		owner: newOwner(nil),
		Value: stream.NewBehaviorRelay(0, stream.WithName("truth_owner")),
	}
}

// Load stands in for fetching the value from a server. It binds the result
// into Value.
func (o *TruthOwner) Load() {
	stream.Just(1).Bind(o.Value.AsObserver()).DisposedBy(o.bag)
}

// TruthMirror only needs to react to values, so it keeps a PublishRelay that
// the caller feeds with a binding.
type TruthMirror struct {
	owner
	Value *stream.PublishRelay[int]
}

// NewTruthMirror traces every value bound into it.
func NewTruthMirror(t Tracer) *TruthMirror {
	m := &TruthMirror{
		owner: newOwner(t),
		Value: stream.NewPublishRelay[int](stream.WithName("truth_mirror")),
	}
	m.Value.SubscribeNext(traceTo[int](m.tracer, "truth_mirror")).DisposedBy(m.bag)
	return m
}

// TruthReader receives only the relay it reads from.
type TruthReader struct {
	owner
	value *stream.BehaviorRelay[int]
}

// NewTruthReader traces every value of relay.
func NewTruthReader(relay *stream.BehaviorRelay[int], t Tracer) *TruthReader {
	r := &TruthReader{owner: newOwner(t), value: relay}
	relay.SubscribeNext(traceTo[int](r.tracer, "truth_reader")).DisposedBy(r.bag)
	return r
}

// Current traces and returns the shared value.
func (r *TruthReader) Current() int {
	v := r.value.Value()
	r.tracer.Trace("truth_reader.current", v)
	return v
}

// OwnerReader receives the whole TruthOwner. It works, but couples the reader
// to everything the owner exposes; prefer TruthReader.
type OwnerReader struct {
	owner
	source *TruthOwner
}

// NewOwnerReader traces every value of src.Value.
func NewOwnerReader(src *TruthOwner, t Tracer) *OwnerReader {
	r := &OwnerReader{owner: newOwner(t), source: src}
	src.Value.SubscribeNext(traceTo[int](r.tracer, "owner_reader")).DisposedBy(r.bag)
	return r
}

// Current traces and returns the shared value.
func (r *OwnerReader) Current() int {
	v := r.source.Value.Value()
	r.tracer.Trace("owner_reader.current", v)
	return v
}
