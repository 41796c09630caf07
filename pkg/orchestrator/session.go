package orchestrator

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formcond/pkg/condition"
	"github.com/goliatone/go-formcond/pkg/formstate"
	"github.com/goliatone/go-formcond/pkg/model"
	"github.com/goliatone/go-formcond/pkg/visibility"
	exprvis "github.com/goliatone/go-formcond/pkg/visibility/expr"
)

// Option customises a Session before its runtimes mount.
type Option func(*Session)

// WithValues seeds store values on top of the form's field defaults.
func WithValues(values map[string]any) Option {
	return func(s *Session) {
		s.overrides = values
	}
}

// WithVisibilityEvaluator replaces the rule evaluator used for VisibleWhen
// strings. Pass nil to disable rule evaluation entirely.
func WithVisibilityEvaluator(evaluator visibility.Evaluator) Option {
	return func(s *Session) {
		s.evaluator = evaluator
		s.evaluatorSpecified = true
	}
}

// WithVisibilityExtras injects out-of-form context made available to rule
// expressions under the extras identifier.
func WithVisibilityExtras(extras map[string]any) Option {
	return func(s *Session) {
		s.extras = extras
	}
}

// Session wires a form model to a live store. Opening a session validates the
// form, seeds the store from defaults plus overrides, and mounts one condition
// runtime per conditional field so visibility and value-setting react to every
// change until Close.
type Session struct {
	form      *model.FormModel
	store     *formstate.Store
	runtimes  map[string]*condition.Runtime
	evaluator visibility.Evaluator
	extras    map[string]any
	overrides map[string]any
	closed    bool

	evaluatorSpecified bool
}

// Open validates the form and mounts a session against a fresh store.
func Open(form *model.FormModel, options ...Option) (*Session, error) {
	if form == nil {
		return nil, errors.New("orchestrator: form is required")
	}
	if err := model.Validate(form); err != nil {
		return nil, fmt.Errorf("orchestrator: validate form: %w", err)
	}

	s := &Session{
		form:     form,
		runtimes: make(map[string]*condition.Runtime),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if !s.evaluatorSpecified {
		s.evaluator = exprvis.New()
	}

	s.store = formstate.New(model.Prefill(form, s.overrides))
	if err := s.mountRuntimes(form.Fields, ""); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) mountRuntimes(fields []model.Field, prefix string) error {
	for i := range fields {
		field := &fields[i]
		path := model.Path(prefix, field.Name)
		if field.Condition != nil {
			runtime, err := condition.NewRuntime(field.Condition, s.store)
			if err != nil {
				return fmt.Errorf("orchestrator: mount %q: %w", path, err)
			}
			runtime.Mount()
			s.runtimes[path] = runtime
		}
		if err := s.mountRuntimes(field.Nested, path); err != nil {
			return err
		}
	}
	return nil
}

// Store exposes the underlying store for hosts that subscribe directly.
func (s *Session) Store() *formstate.Store {
	return s.store
}

// Change writes a single field value and lets the mounted runtimes settle.
func (s *Session) Change(path string, value any) {
	s.store.ChangeFieldValue(path, value)
}

// Values returns the store's live value map. Callers treat it as read-only
// and route writes through Change so mounted runtimes observe them.
func (s *Session) Values() map[string]any {
	return s.store.Values()
}

// Reset restores the store to its prefill state and re-arms every runtime so
// condition sets commit again on the next matching pass.
func (s *Session) Reset() {
	s.store.Reset()
}

// VisibleFields returns the form's fields filtered down to what the current
// values make visible. A field without a condition or rule is always visible;
// hiding a field hides its nested fields with it.
func (s *Session) VisibleFields() ([]model.Field, error) {
	fields, err := s.visibleFields(s.form.Fields, "")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: visible fields: %w", err)
	}
	return fields, nil
}

func (s *Session) visibleFields(fields []model.Field, prefix string) ([]model.Field, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	ctx := visibility.Context{Values: s.store.Values(), Extras: s.extras}
	result := make([]model.Field, 0, len(fields))
	for _, field := range fields {
		path := model.Path(prefix, field.Name)

		if runtime, ok := s.runtimes[path]; ok && !runtime.Visible() {
			continue
		}
		if field.VisibleWhen != "" && s.evaluator != nil {
			visible, err := s.evaluator.Eval(path, field.VisibleWhen, ctx)
			if err != nil {
				return nil, err
			}
			if !visible {
				continue
			}
		}

		nested, err := s.visibleFields(field.Nested, path)
		if err != nil {
			return nil, err
		}
		field.Nested = nested
		result = append(result, field)
	}
	return result, nil
}

// Close unmounts every runtime. The session must not be used afterwards.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, runtime := range s.runtimes {
		runtime.Unmount()
	}
}
