package stream

// Observable is a read-only view of a stream. The zero value never emits.
type Observable[T any] struct {
	subscribe func(Handlers[T]) *Token
}

// NewObservable builds an Observable from a subscribe function. The function
// runs once per subscription.
func NewObservable[T any](subscribe func(Handlers[T]) *Token) Observable[T] {
	return Observable[T]{subscribe: subscribe}
}

// Subscribe registers h with the underlying stream.
func (o Observable[T]) Subscribe(h Handlers[T]) *Token {
	if o.subscribe == nil {
		return disposedToken()
	}
	return o.subscribe(h)
}

// SubscribeNext is Subscribe with only a value callback.
func (o Observable[T]) SubscribeNext(fn func(T)) *Token {
	return o.Subscribe(OnNext(fn))
}

// Bind forwards every value to to. A terminal event ends the binding without
// reaching to, since observers only accept values.
func (o Observable[T]) Bind(to Observer[T]) *Token {
	return o.Subscribe(OnNext(to.Push))
}

// Bind forwards values from src to dst. See Observable.Bind.
func Bind[T any](src Observable[T], dst Observer[T]) *Token {
	return src.Bind(dst)
}

// Map returns an Observable whose values are fn applied to the values of src.
// Nothing is subscribed upstream until the result is subscribed, and each
// upstream value produces exactly one downstream value. fn is not called for
// subscribers without an OnNext handler. Terminal events pass through
// unchanged.
func Map[T, U any](src Observable[T], fn func(T) U) Observable[U] {
	return NewObservable(func(h Handlers[U]) *Token {
		var onNext func(T)
		if h.OnNext != nil {
			onNext = func(v T) { h.OnNext(fn(v)) }
		}
		return src.Subscribe(Handlers[T]{
			OnNext: onNext,
			OnError:     h.OnError,
			OnCompleted: h.OnCompleted,
		})
	})
}

// Just returns an Observable that emits v and completes on every
// subscription.
func Just[T any](v T) Observable[T] {
	return NewObservable(func(h Handlers[T]) *Token {
		h.dispatch(Next(v))
		h.dispatch(Completed[T]())
		return disposedToken()
	})
}

// Observer is a write-only sink. The zero value drops everything.
type Observer[T any] struct {
	handler func(T)
}

// NewObserver wraps handler as an Observer.
func NewObserver[T any](handler func(T)) Observer[T] {
	return Observer[T]{handler: handler}
}

// Push hands v to the wrapped handler.
func (o Observer[T]) Push(v T) {
	if o.handler != nil {
		o.handler(v)
	}
}
