package stream

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/brianly1003/relaykit/internal/testutil"
)

func TestPublishRelay_NoInitialDelivery(t *testing.T) {
	r := NewPublishRelay[int]()
	rec := testutil.NewRecorder[int]()

	r.Subscribe(record(rec))
	testutil.AssertEqual(t, 0, len(rec.Values()), "values right after subscribe")

	r.Push(1)
	r.Push(2)

	testutil.AssertValues(t, rec.Values(), []int{1, 2}, "values")
}

func TestPublishRelay_NeverTerminates(t *testing.T) {
	r := NewPublishRelay[int]()
	rec := testutil.NewRecorder[int]()
	r.Subscribe(record(rec))

	for i := 0; i < 1000; i++ {
		r.Push(i)
	}

	testutil.AssertEqual(t, 1000, len(rec.Values()), "values")
	testutil.AssertEqual(t, 0, len(rec.Errors()), "errors")
	testutil.AssertEqual(t, 0, rec.CompletedCount(), "completions")
}

func TestBehaviorRelay_ReplaysCurrentValue(t *testing.T) {
	r := NewBehaviorRelay(0)
	rec := testutil.NewRecorder[int]()

	r.Subscribe(record(rec))
	r.Push(1)
	r.Push(2)

	testutil.AssertValues(t, rec.Values(), []int{0, 1, 2}, "values")
	testutil.AssertEqual(t, 2, r.Value(), "Value()")

	late := testutil.NewRecorder[int]()
	r.Subscribe(record(late))
	testutil.AssertValues(t, late.Values(), []int{2}, "late subscriber replay")
	testutil.AssertEqual(t, 0, len(rec.Errors())+rec.CompletedCount(), "terminal callbacks")
}

func TestBehaviorRelay_ValueWithoutSubscribers(t *testing.T) {
	r := NewBehaviorRelay("a")
	r.Push("b")

	testutil.AssertEqual(t, "b", r.Value(), "Value()")
	testutil.AssertEqual(t, 0, r.SubscriberCount(), "subscribers")
}

func TestRelay_AsObserverAndObservable(t *testing.T) {
	r := NewPublishRelay[int]()
	rec := testutil.NewRecorder[int]()

	r.AsObservable().Subscribe(record(rec))
	in := r.AsObserver()
	in.Push(4)
	in.Push(5)

	testutil.AssertValues(t, rec.Values(), []int{4, 5}, "values")
}

func TestRelay_ConcurrentUse(t *testing.T) {
	r := NewBehaviorRelay(0)
	var delivered atomic.Int64
	bag := NewDisposeBag()

	const subscribers = 4
	for i := 0; i < subscribers; i++ {
		r.SubscribeNext(func(int) { delivered.Add(1) }).DisposedBy(bag)
	}

	var wg sync.WaitGroup
	const pushers, perPusher = 8, 100
	for i := 0; i < pushers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perPusher; j++ {
				r.Push(j)
			}
		}()
	}
	wg.Wait()

	// Every subscriber gets the replay plus every push.
	want := int64(subscribers * (1 + pushers*perPusher))
	testutil.AssertEqual(t, want, delivered.Load(), "deliveries")

	bag.Dispose()
	testutil.AssertEqual(t, 0, r.SubscriberCount(), "subscribers after teardown")
}
