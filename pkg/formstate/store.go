package formstate

import (
	"github.com/google/uuid"
)

// Store holds form values keyed by dotted paths alongside the dirty flag and
// the subscription/batching machinery condition runtimes depend on. It is
// deliberately single-goroutine: the form lifecycle that owns the store drives
// every mutation, mirroring UI-event-driven scheduling. Dispatch runs change
// subscribers and drains the deferred queue until the state is quiescent;
// convergence is the responsibility of schema authors (see condition.Runtime).
type Store struct {
	values  map[string]any
	initial map[string]any
	dirty   bool

	batching int
	pending  bool
	running  bool
	queue    []func()

	changeSubs []subscriber
	resetSubs  []subscriber
}

type subscriber struct {
	token string
	fn    func()
}

// New seeds a store with prefilled values. Dotted keys are expanded into
// nested maps so prefill and ChangeFieldValue writes share one shape, and the
// prefill is deep-copied so a later Reset can restore it regardless of what
// conditions wrote in between.
func New(prefill map[string]any) *Store {
	values := make(map[string]any, len(prefill))
	for key, value := range prefill {
		setPath(values, key, deepCopy(value))
	}
	return &Store{
		values:  values,
		initial: cloneValues(values),
	}
}

// Values returns the live value map. Callers treat it as read-only and route
// writes through ChangeFieldValue so subscribers observe them.
func (s *Store) Values() map[string]any {
	return s.values
}

// Dirty reports whether any field changed since construction or the last
// Reset.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Get resolves a dotted path into the value map.
func (s *Store) Get(path string) (any, bool) {
	return getPath(s.values, path)
}

// ChangeFieldValue writes a value at a dotted path, marks the form dirty, and
// notifies subscribers. Inside a Batch the notification is held until the
// batch closes so the writes appear as one store transition.
func (s *Store) ChangeFieldValue(name string, value any) {
	setPath(s.values, name, value)
	s.dirty = true
	s.pending = true
	s.dispatch()
}

// Batch executes fn so that all contained ChangeFieldValue calls are observed
// as a single combined update.
func (s *Store) Batch(fn func()) {
	s.batching++
	defer func() {
		s.batching--
		s.dispatch()
	}()
	fn()
}

// Defer queues fn to run after the current notification pass completes. This
// is the store's explicit next-tick hook: runtimes use it so every write
// derived from one evaluation pass is enqueued before any is applied.
func (s *Store) Defer(fn func()) {
	s.queue = append(s.queue, fn)
	s.dispatch()
}

// Subscribe registers a change listener and returns its subscription token.
func (s *Store) Subscribe(fn func()) string {
	token := uuid.NewString()
	s.changeSubs = append(s.changeSubs, subscriber{token: token, fn: fn})
	return token
}

// SubscribeReset registers a listener for the dirty → clean transition.
func (s *Store) SubscribeReset(fn func()) string {
	token := uuid.NewString()
	s.resetSubs = append(s.resetSubs, subscriber{token: token, fn: fn})
	return token
}

// Unsubscribe removes the subscription identified by token from either list.
func (s *Store) Unsubscribe(token string) {
	s.changeSubs = removeSubscriber(s.changeSubs, token)
	s.resetSubs = removeSubscriber(s.resetSubs, token)
}

// Reset restores the prefill snapshot, clears the dirty flag, and notifies
// reset subscribers so conditions re-apply freshly.
func (s *Store) Reset() {
	s.values = cloneValues(s.initial)
	s.dirty = false

	// Hold dispatch while reset listeners run so every runtime re-arms
	// before any of their deferred writes land.
	wasRunning := s.running
	s.running = true
	for _, sub := range snapshotSubs(s.resetSubs) {
		sub.fn()
	}
	s.running = wasRunning
	s.dispatch()
}

// dispatch delivers pending notifications and drains the deferred queue until
// the store is quiescent. Re-entrant calls (from inside a batch, a subscriber,
// or a deferred task) fall through; the outermost call picks the work up.
func (s *Store) dispatch() {
	if s.batching > 0 || s.running {
		return
	}
	s.running = true
	defer func() { s.running = false }()

	for s.pending || len(s.queue) > 0 {
		if s.pending {
			s.pending = false
			for _, sub := range snapshotSubs(s.changeSubs) {
				sub.fn()
			}
		}
		for len(s.queue) > 0 {
			fn := s.queue[0]
			s.queue = s.queue[1:]
			fn()
		}
	}
}

func removeSubscriber(subs []subscriber, token string) []subscriber {
	for i, sub := range subs {
		if sub.token == token {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}

// snapshotSubs copies the list so subscribers that unsubscribe mid-dispatch do
// not shift entries under the loop.
func snapshotSubs(subs []subscriber) []subscriber {
	return append([]subscriber(nil), subs...)
}
