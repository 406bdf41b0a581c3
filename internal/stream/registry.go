package stream

import (
	"slices"

	"github.com/brianly1003/relaykit/internal/sync"
)

type subscriber[T any] struct {
	token    *Token
	handlers Handlers[T]
}

// registry is the state shared by every subject and relay: the ordered
// subscriber list, the terminal event and, for behavior variants, the latest
// value. Callbacks are never invoked while mu is held.
type registry[T any] struct {
	cfg config

	mu       sync.Mutex
	subs     []*subscriber[T]
	terminal *Event[T]

	// replay is set for behavior variants; latest is only meaningful then.
	replay bool
	latest T
}

func newRegistry[T any](cfg config) *registry[T] {
	return &registry[T]{cfg: cfg}
}

func newReplayRegistry[T any](cfg config, initial T) *registry[T] {
	return &registry[T]{cfg: cfg, replay: true, latest: initial}
}

func (r *registry[T]) subscribe(h Handlers[T]) *Token {
	r.mu.Lock()
	if r.terminal != nil {
		term := *r.terminal
		r.mu.Unlock()

		r.cfg.logger.Debug().
			Str("kind", term.Kind().String()).
			Msg("late subscriber received terminal event")
		h.dispatch(term)
		return disposedToken()
	}

	sub := &subscriber[T]{handlers: h}
	sub.token = NewToken(func() { r.remove(sub) })
	r.subs = append(r.subs, sub)
	count := len(r.subs)
	replay, current := r.replay, r.latest
	r.mu.Unlock()

	r.cfg.logger.Debug().
		Str("subscriber_id", sub.token.ID()).
		Int("subscribers", count).
		Msg("subscriber registered")

	if replay {
		h.dispatch(Next(current))
	}
	return sub.token
}

func (r *registry[T]) remove(sub *subscriber[T]) {
	r.mu.Lock()
	r.subs = slices.DeleteFunc(r.subs, func(s *subscriber[T]) bool { return s == sub })
	count := len(r.subs)
	r.mu.Unlock()

	r.cfg.logger.Debug().
		Str("subscriber_id", sub.token.ID()).
		Int("subscribers", count).
		Msg("subscriber removed")
}

// push delivers e to a snapshot of the current subscribers. It returns false
// when the stream had already terminated and nothing was delivered.
func (r *registry[T]) push(e Event[T]) bool {
	r.mu.Lock()
	if r.terminal != nil {
		r.mu.Unlock()
		r.cfg.logger.Trace().
			Str("kind", e.Kind().String()).
			Msg("event dropped: stream terminated")
		return false
	}

	snapshot := slices.Clone(r.subs)
	if e.IsTerminal() {
		term := e
		r.terminal = &term
		r.subs = nil
	} else if r.replay {
		r.latest = e.value
	}
	r.mu.Unlock()

	for _, sub := range snapshot {
		// Disposed by an earlier callback in this same traversal.
		if sub.token.IsDisposed() {
			continue
		}
		sub.handlers.dispatch(e)
	}

	if e.IsTerminal() {
		ev := r.cfg.logger.Debug().
			Str("kind", e.Kind().String()).
			Int("subscribers", len(snapshot))
		if err := e.Err(); err != nil {
			ev = ev.AnErr("reason", err)
		}
		ev.Msg("stream terminated")

		for _, sub := range snapshot {
			sub.token.Dispose()
		}
	}
	return true
}

// value returns the latest value and, if the stream has ended, its terminal
// event.
func (r *registry[T]) value() (T, *Event[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest, r.terminal
}

func (r *registry[T]) terminated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.terminal != nil
}

func (r *registry[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// source carries the read side shared by subjects and relays.
type source[T any] struct {
	r *registry[T]
}

// Subscribe registers h and returns the token that ends the subscription.
// Behavior variants deliver the current value to h before returning.
func (s source[T]) Subscribe(h Handlers[T]) *Token {
	return s.r.subscribe(h)
}

// SubscribeNext is Subscribe with only a value callback.
func (s source[T]) SubscribeNext(fn func(T)) *Token {
	return s.r.subscribe(OnNext(fn))
}

// SubscriberCount returns the number of live subscriptions.
func (s source[T]) SubscriberCount() int {
	return s.r.count()
}

// AsObservable returns a read-only view.
func (s source[T]) AsObservable() Observable[T] {
	return NewObservable(s.r.subscribe)
}

// AsObserver returns a write-only view that pushes values into the stream.
func (s source[T]) AsObserver() Observer[T] {
	return NewObserver(func(v T) {
		s.r.push(Next(v))
	})
}
