// Package formstate implements the form-state store the condition engine
// writes into: a dotted-path value map with a dirty flag, change and reset
// subscriptions, batched updates, and an explicit deferred-task queue that
// stands in for next-tick scheduling. The store is single-goroutine by design,
// matching the cooperative, UI-event-driven model of the forms that own it.
package formstate
