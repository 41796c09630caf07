package condition

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse builds an expression tree from a generically decoded JSON/YAML value.
// An array is an implicit And. Leaf options that are not recognized are
// ignored; a node matching no known variant parses into an unknown node that
// evaluates negatively (Validate flags it for strict loaders). A pattern that
// fails to compile is a schema error and is reported here.
func Parse(raw any) (*Expression, error) {
	switch node := raw.(type) {
	case nil:
		return nil, fmt.Errorf("condition: expression is empty")
	case []any:
		children, err := parseChildren(node)
		if err != nil {
			return nil, err
		}
		return &Expression{And: children}, nil
	case map[string]any:
		return parseNode(node)
	default:
		return nil, fmt.Errorf("condition: expected object or array, got %T", raw)
	}
}

// UnmarshalJSON decodes the wire format described in the schema contract.
func (e *Expression) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("condition: decode expression: %w", err)
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*e = *parsed
	return nil
}

// UnmarshalYAML lets expressions appear inline in YAML form documents.
func (e *Expression) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("condition: decode expression: %w", err)
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*e = *parsed
	return nil
}

func parseChildren(raw []any) ([]*Expression, error) {
	out := make([]*Expression, 0, len(raw))
	for i, entry := range raw {
		child, err := Parse(entry)
		if err != nil {
			return nil, fmt.Errorf("condition: child %d: %w", i, err)
		}
		out = append(out, child)
	}
	return out, nil
}

func parseNode(node map[string]any) (*Expression, error) {
	if raw, ok := node["and"]; ok {
		return parseComposite("and", raw)
	}
	if raw, ok := node["sequence"]; ok {
		return parseComposite("sequence", raw)
	}
	if raw, ok := node["or"]; ok {
		return parseComposite("or", raw)
	}
	if raw, ok := node["not"]; ok {
		child, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("condition: not: %w", err)
		}
		return &Expression{Not: child}, nil
	}
	if _, ok := node["when"]; ok {
		return parseLeaf(node)
	}

	// No recognized variant tag; evaluates to the default negative result.
	return &Expression{}, nil
}

func parseComposite(tag string, raw any) (*Expression, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("condition: %s expects a list, got %T", tag, raw)
	}
	children, err := parseChildren(list)
	if err != nil {
		return nil, fmt.Errorf("condition: %s: %w", tag, err)
	}
	expr := &Expression{}
	switch tag {
	case "and":
		expr.And = children
	case "or":
		expr.Or = children
	case "sequence":
		expr.Sequence = children
	}
	return expr, nil
}

func parseLeaf(node map[string]any) (*Expression, error) {
	expr := &Expression{}

	switch when := node["when"].(type) {
	case string:
		if strings.TrimSpace(when) == "" {
			return nil, fmt.Errorf("condition: when is empty")
		}
		expr.When = []string{when}
	case []any:
		for i, entry := range when {
			name, ok := entry.(string)
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("condition: when[%d] must be a field name", i)
			}
			expr.When = append(expr.When, name)
		}
		if len(expr.When) == 0 {
			return nil, fmt.Errorf("condition: when list is empty")
		}
	default:
		return nil, fmt.Errorf("condition: when must be a field name or list, got %T", node["when"])
	}

	expr.Is = node["is"]
	expr.IsNotEmpty = boolOption(node["isNotEmpty"])
	expr.IsEmpty = boolOption(node["isEmpty"])
	expr.NotMatch = boolOption(node["notMatch"])

	if raw, ok := node["pattern"]; ok {
		pattern, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("condition: pattern must be a string, got %T", raw)
		}
		expr.Pattern = pattern
	}
	if raw, ok := node["flags"]; ok {
		flags, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("condition: flags must be a string, got %T", raw)
		}
		expr.Flags = supportedFlags(flags)
	}
	if expr.Pattern != "" {
		re, err := regexp.Compile(applyFlags(expr.Pattern, expr.Flags))
		if err != nil {
			return nil, fmt.Errorf("condition: invalid pattern %q: %w", expr.Pattern, err)
		}
		expr.re = re
	}

	then, err := parseBranch("then", node["then"])
	if err != nil {
		return nil, err
	}
	expr.Then = then

	els, err := parseBranch("else", node["else"])
	if err != nil {
		return nil, err
	}
	expr.Else = els

	return expr, nil
}

func parseBranch(tag string, raw any) (*Branch, error) {
	if raw == nil {
		return nil, nil
	}
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("condition: %s expects an object, got %T", tag, raw)
	}
	branch := &Branch{}
	if rawSet, ok := node["set"]; ok {
		set, ok := rawSet.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("condition: %s.set expects an object, got %T", tag, rawSet)
		}
		branch.Set = AssignmentMap(set)
	}
	if rawVisible, ok := node["visible"]; ok {
		visible, ok := rawVisible.(bool)
		if !ok {
			return nil, fmt.Errorf("condition: %s.visible expects a boolean, got %T", tag, rawVisible)
		}
		branch.Visible = &visible
	}
	return branch, nil
}

func boolOption(raw any) bool {
	b, ok := raw.(bool)
	return ok && b
}

// supportedFlags keeps the regexp flags Go understands; JS-only flags such as
// "g" have no effect on a boolean match and are dropped.
func supportedFlags(flags string) string {
	var out strings.Builder
	for _, ch := range flags {
		switch ch {
		case 'i', 'm', 's', 'U':
			out.WriteRune(ch)
		}
	}
	return out.String()
}
