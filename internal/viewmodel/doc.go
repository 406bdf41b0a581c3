// Package viewmodel collects the view-model shapes relaykit demonstrates on
// top of the stream package: how much of a view model's state is exposed,
// which direction values may flow, and whether the model holds a value at all.
//
// Every model owns its relays and a DisposeBag and must be closed by its
// owner. Subscription callbacks capture the relays they forward to, never the
// model itself, so a model never stores a reference back to whoever owns it.
//
// Traces that the models emit go through an injected Tracer.
package viewmodel
