package condition

import (
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"
)

// Store is the form-state collaborator a Runtime mutates. Implementations must
// route every write issued inside Batch as one observable update, and run
// functions handed to Defer after the current notification pass completes so
// all writes from one evaluation are enqueued before any is applied.
// formstate.Store satisfies this interface.
type Store interface {
	Values() map[string]any
	Dirty() bool
	ChangeFieldValue(name string, value any)
	Batch(fn func())
	Defer(fn func())
	Subscribe(fn func()) string
	SubscribeReset(fn func()) string
	Unsubscribe(token string)
}

// Runtime bridges the pure evaluator to live form state. It re-evaluates its
// expression whenever watched values change, diffs the resulting assignments
// against the last-applied list, and schedules only genuinely new writes as a
// single deferred batch. Recording the applied list before the batch lands is
// what keeps the change → evaluate → write cycle from looping: the next pass
// recomputes the identical assignments and short-circuits on equality.
//
// A Runtime is single-goroutine by contract, like the store it drives. There
// is no cycle detector beyond the equality short-circuit; two conditions that
// keep assigning *different* values to each other's fields are an authoring
// error and will not converge.
type Runtime struct {
	expr   *Expression
	store  Store
	fields []string

	initial    bool
	remembered []AssignmentMap

	haveSnapshot bool
	snapshot     map[string]any
	last         Result

	mounted   bool
	changeTok string
	resetTok  string
}

// NewRuntime wires an expression to a store. A missing store or expression is
// a fatal integration error, reported immediately rather than at first use.
func NewRuntime(expr *Expression, store Store) (*Runtime, error) {
	if expr == nil {
		return nil, fmt.Errorf("condition: runtime requires an expression")
	}
	if store == nil {
		return nil, fmt.Errorf("condition: runtime requires a store")
	}
	return &Runtime{
		expr:    expr,
		store:   store,
		fields:  expr.Fields(),
		initial: true,
	}, nil
}

// Mount subscribes to the store and runs the first evaluation pass. Call
// Unmount when the conditional block leaves the form.
func (r *Runtime) Mount() {
	if r.mounted {
		return
	}
	r.mounted = true
	r.changeTok = r.store.Subscribe(r.sync)
	r.resetTok = r.store.SubscribeReset(r.reset)
	r.sync()
}

// Unmount detaches the runtime from the store. The runtime keeps its last
// result so Visible stays answerable, but no further writes are scheduled.
func (r *Runtime) Unmount() {
	if !r.mounted {
		return
	}
	r.mounted = false
	r.store.Unsubscribe(r.changeTok)
	r.store.Unsubscribe(r.resetTok)
}

// Visible reports whether the wrapped content should be produced at all.
// False means absent, not hidden: callers must not render or validate the
// guarded fields.
func (r *Runtime) Visible() bool {
	return r.last.Visible
}

// Result returns the full outcome of the most recent evaluation.
func (r *Runtime) Result() Result {
	return r.last
}

// SetExpression swaps the condition, clearing the memoization guard so the
// next pass re-evaluates even if values did not move.
func (r *Runtime) SetExpression(expr *Expression) error {
	if expr == nil {
		return fmt.Errorf("condition: runtime requires an expression")
	}
	r.expr = expr
	r.fields = expr.Fields()
	r.haveSnapshot = false
	if r.mounted {
		r.sync()
	}
	return nil
}

// sync runs one evaluation pass against the store's current values.
func (r *Runtime) sync() {
	values := r.store.Values()
	snap := r.watchedValues(values)
	if r.haveSnapshot && cmp.Equal(snap, r.snapshot) {
		return
	}
	r.snapshot = snap
	r.haveSnapshot = true
	r.last = Evaluate(r.expr, values)

	candidates := r.last.Sets
	if r.last.Set != nil {
		candidates = []AssignmentMap{r.last.Set}
	}
	r.commit(candidates)
}

// reset reruns conditions after the form returned to a pristine state. The
// remembered list is dropped so the next commit always fires instead of being
// suppressed by a stale equality check.
func (r *Runtime) reset() {
	r.initial = true
	r.remembered = nil
	r.haveSnapshot = false
	r.sync()
}

// commit applies the candidate assignment list under the dedup policy: the
// list must be non-empty and either this is the first pass since mount/reset
// or the list differs from the one last applied. Elements are additionally
// checked per index so a sequence where only some entries moved writes only
// those entries.
func (r *Runtime) commit(candidates []AssignmentMap) {
	if len(candidates) == 0 {
		return
	}
	if !r.initial && cmp.Equal(candidates, r.remembered) {
		return
	}

	pending := make([]AssignmentMap, 0, len(candidates))
	for i, set := range candidates {
		if len(set) == 0 {
			continue
		}
		if !r.initial && i < len(r.remembered) && cmp.Equal(set, r.remembered[i]) {
			continue
		}
		pending = append(pending, set)
	}

	// Remember before the batch lands; this is the loop breaker.
	r.remembered = candidates
	r.initial = false

	if len(pending) == 0 {
		return
	}
	r.store.Defer(func() {
		r.store.Batch(func() {
			for _, set := range pending {
				for _, name := range sortedKeys(set) {
					r.store.ChangeFieldValue(name, set[name])
				}
			}
		})
	})
}

// watchedValues snapshots the subset of values the expression reads, so a
// store update that touches unrelated fields skips re-evaluation entirely.
// Container values are deep-copied: the store mutates nested maps in place,
// and a snapshot holding references would alias the live value and compare
// equal to it forever.
func (r *Runtime) watchedValues(values map[string]any) map[string]any {
	snap := make(map[string]any, len(r.fields))
	for _, name := range r.fields {
		snap[name] = copyValue(lookupValue(values, name))
	}
	return snap
}

func copyValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = copyValue(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = copyValue(v)
		}
		return clone
	default:
		return typed
	}
}

func sortedKeys(set AssignmentMap) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
