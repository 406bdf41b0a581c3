package viewmodel

import "github.com/brianly1003/relaykit/internal/stream"

// owner carries what every stream-backed model needs: the bag that holds its
// subscriptions and the tracer its callbacks write to.
type owner struct {
	bag    *stream.DisposeBag
	tracer Tracer
}

func newOwner(t Tracer) owner {
	return owner{
		bag:    stream.NewDisposeBag(),
		tracer: tracerOrNop(t),
	}
}

// Close tears down every subscription the model holds.
func (o owner) Close() {
	o.bag.Dispose()
}
