package stream

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/brianly1003/relaykit/internal/sync"
)

// Disposable is anything that can release a resource exactly once.
type Disposable interface {
	Dispose()
}

// Token represents one subscription.
type Token struct {
	id       string
	release  func()
	once     sync.Once
	disposed atomic.Bool
}

// NewToken wraps a release action. The action runs at most once.
func NewToken(release func()) *Token {
	return &Token{
		id:      uuid.New().String(),
		release: release,
	}
}

// disposedToken returns a token that has already been released.
func disposedToken() *Token {
	t := NewToken(nil)
	t.Dispose()
	return t
}

// ID returns the token's unique identifier.
func (t *Token) ID() string {
	return t.id
}

// Dispose runs the release action. Later calls do nothing.
func (t *Token) Dispose() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		t.disposed.Store(true)
		if t.release != nil {
			t.release()
		}
	})
}

// IsDisposed reports whether Dispose has run.
func (t *Token) IsDisposed() bool {
	if t == nil {
		return true
	}
	return t.disposed.Load()
}

// DisposedBy hands the token to bag and returns it.
func (t *Token) DisposedBy(bag *DisposeBag) *Token {
	bag.Add(t)
	return t
}

// DisposeBag owns a set of Disposables and releases them together.
//
// A bag is torn down by Dispose, typically from the owner's Close method.
// Anything added afterwards is released immediately.
type DisposeBag struct {
	mu       sync.Mutex
	items    []Disposable
	disposed bool
}

// NewDisposeBag returns an empty bag.
func NewDisposeBag() *DisposeBag {
	return &DisposeBag{}
}

// Add stores d, or releases it at once if the bag is already torn down.
func (b *DisposeBag) Add(d Disposable) {
	if d == nil {
		return
	}

	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		d.Dispose()
		return
	}
	b.items = append(b.items, d)
	b.mu.Unlock()
}

// Dispose releases every stored item once and empties the bag.
// Calling it again is a no-op.
func (b *DisposeBag) Dispose() {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return
	}
	b.disposed = true
	items := b.items
	b.items = nil
	b.mu.Unlock()

	// Release outside the lock: a release may add to this bag again.
	for _, d := range items {
		d.Dispose()
	}
}

// Len returns the number of items currently held.
func (b *DisposeBag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// IsDisposed reports whether the bag has been torn down.
func (b *DisposeBag) IsDisposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}
