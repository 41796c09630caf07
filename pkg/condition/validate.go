package condition

import (
	"fmt"
	"regexp"
	"strings"
)

// Validate checks an expression tree for authoring mistakes the permissive
// evaluator would otherwise swallow: nodes matching no variant, nodes mixing
// variant tags, empty field names, and patterns that do not compile. Schema
// loaders run it so typos surface at load time instead of as a silently
// invisible field.
func Validate(e *Expression) error {
	return validateNode(e, "condition")
}

func validateNode(e *Expression, path string) error {
	if e == nil {
		return fmt.Errorf("%s: expression is nil", path)
	}
	if err := validateExclusive(e, path); err != nil {
		return err
	}

	switch e.Kind() {
	case KindAnd:
		return validateChildren(e.And, path+".and")
	case KindOr:
		return validateChildren(e.Or, path+".or")
	case KindSequence:
		return validateChildren(e.Sequence, path+".sequence")
	case KindNot:
		return validateNode(e.Not, path+".not")
	case KindLeaf:
		return validateLeaf(e, path)
	default:
		return fmt.Errorf("%s: node matches no known variant (expected when, and, or, not, or sequence)", path)
	}
}

func validateExclusive(e *Expression, path string) error {
	tags := 0
	if e.And != nil {
		tags++
	}
	if e.Or != nil {
		tags++
	}
	if e.Not != nil {
		tags++
	}
	if e.Sequence != nil {
		tags++
	}
	if len(e.When) > 0 {
		tags++
	}
	if tags > 1 {
		return fmt.Errorf("%s: node mixes variant tags; exactly one of when/and/or/not/sequence is allowed", path)
	}
	return nil
}

func validateChildren(children []*Expression, path string) error {
	if len(children) == 0 {
		return fmt.Errorf("%s: needs at least one child", path)
	}
	for i, child := range children {
		if err := validateNode(child, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func validateLeaf(e *Expression, path string) error {
	for i, name := range e.When {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%s: when[%d] is empty", path, i)
		}
	}
	if e.IsNotEmpty && e.IsEmpty {
		return fmt.Errorf("%s: isNotEmpty and isEmpty are mutually exclusive", path)
	}
	if e.Pattern != "" {
		if _, err := regexp.Compile(applyFlags(e.Pattern, e.Flags)); err != nil {
			return fmt.Errorf("%s: invalid pattern %q: %w", path, e.Pattern, err)
		}
	}
	return nil
}
