// Package stream implements the reactive primitives used by relaykit view
// models: subjects, relays, read-only observables, write-only observers and
// the dispose bags that own subscriptions.
//
// # Variants
//
//   - PublishSubject: broadcasts Next, Error and Completed; no replay.
//   - BehaviorSubject: like PublishSubject but keeps the latest value and
//     replays it to new subscribers. Value fails with ErrStaleAccess once the
//     subject has terminated.
//   - PublishRelay / BehaviorRelay: value-only wrappers that can never
//     terminate. BehaviorRelay.Value never fails.
//
// # Delivery
//
// Push delivers synchronously on the caller's goroutine, in subscription
// order. The subscriber list is snapshotted before delivery, so a callback may
// push, subscribe or dispose without disturbing the traversal in progress. A
// subscriber disposed during delivery receives nothing further.
//
// The contract is single-threaded. The registry is still guarded by a mutex
// so that concurrent use does not corrupt state, but no ordering is promised
// across goroutines.
//
// # Ownership
//
// Subjects and relays belong to whoever constructs them. Subscriptions are
// represented by *Token values which should be added to the owner's
// DisposeBag; tearing the bag down severs every subscription it holds.
//
// Binding two relays to each other produces unbounded re-entrant propagation.
// Nothing here detects the cycle.
package stream
