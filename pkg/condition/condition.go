package condition

import "regexp"

// Kind identifies which variant of the expression union a node represents.
type Kind string

const (
	KindLeaf     Kind = "leaf"
	KindAnd      Kind = "and"
	KindOr       Kind = "or"
	KindNot      Kind = "not"
	KindSequence Kind = "sequence"
	KindUnknown  Kind = "unknown"
)

// AssignmentMap collects field-name → value pairs that a satisfied condition
// wants written into form state.
type AssignmentMap map[string]any

// Branch carries the overrides a `then` or `else` clause contributes to the
// evaluation result. Visible, when present, replaces the default visibility;
// Set is injected as the result's assignment map.
type Branch struct {
	Set     AssignmentMap `json:"set,omitempty" yaml:"set,omitempty"`
	Visible *bool         `json:"visible,omitempty" yaml:"visible,omitempty"`
}

// Expression is a node in the recursive condition tree. Exactly one variant is
// meaningful per node: a leaf (When plus its tests), And, Or, Not, or Sequence.
// A node matching no variant evaluates to the default negative result; Validate
// reports it so schema loaders can reject authoring typos early.
type Expression struct {
	// Leaf fields. When names one or more form fields by dotted path; the
	// leaf is satisfied when any named field passes the test.
	When       []string
	Is         any
	IsNotEmpty bool
	IsEmpty    bool
	Pattern    string
	Flags      string
	NotMatch   bool
	Then       *Branch
	Else       *Branch

	// Composite variants.
	And      []*Expression
	Or       []*Expression
	Not      *Expression
	Sequence []*Expression

	re *regexp.Regexp
}

// Result is the outcome of evaluating an expression against a value map.
// Visible gates rendering of the conditional block; Result is the raw boolean
// used by composite nodes. Set is populated by a leaf's then/else clause while
// Sets carries the ordered accumulation produced by sequence nodes.
type Result struct {
	Visible bool
	Result  bool
	Set     AssignmentMap
	Sets    []AssignmentMap
}

// Kind reports which variant this node represents. Dispatch order mirrors
// evaluation: composite tags win over leaf fields, unknown catches the rest.
func (e *Expression) Kind() Kind {
	switch {
	case e == nil:
		return KindUnknown
	case e.And != nil:
		return KindAnd
	case e.Sequence != nil:
		return KindSequence
	case e.Or != nil:
		return KindOr
	case e.Not != nil:
		return KindNot
	case len(e.When) > 0:
		return KindLeaf
	default:
		return KindUnknown
	}
}

// Fields returns the distinct field names the expression watches, in order of
// first appearance. Runtimes use it to scope re-evaluation to relevant values.
func (e *Expression) Fields() []string {
	var out []string
	seen := make(map[string]struct{})
	e.collectFields(&out, seen)
	return out
}

func (e *Expression) collectFields(out *[]string, seen map[string]struct{}) {
	if e == nil {
		return
	}
	for _, name := range e.When {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		*out = append(*out, name)
	}
	for _, child := range e.And {
		child.collectFields(out, seen)
	}
	for _, child := range e.Or {
		child.collectFields(out, seen)
	}
	e.Not.collectFields(out, seen)
	for _, child := range e.Sequence {
		child.collectFields(out, seen)
	}
}

// regexp returns the compiled pattern, compiling on first use for expressions
// built in code rather than parsed. A malformed pattern is a configuration
// error (Parse and Validate reject it); here it panics like regexp.MustCompile.
func (e *Expression) regexp() *regexp.Regexp {
	if e.re == nil {
		e.re = regexp.MustCompile(applyFlags(e.Pattern, e.Flags))
	}
	return e.re
}

func applyFlags(pattern, flags string) string {
	if flags == "" {
		return pattern
	}
	return "(?" + flags + ")" + pattern
}
