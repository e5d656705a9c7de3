package scope

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Lookup when no scope binds the name.
var ErrNotFound = errors.New("name not found")

// Stack is an ordered sequence of scopes; the last element is the innermost
// (currently executing) activation.
type Stack struct {
	filter Filter
	scopes []*Scope
}

// NewStack creates an empty stack using the given visibility filter.
func NewStack(f Filter) *Stack {
	return &Stack{filter: f}
}

// Depth returns the number of activations on the stack.
func (s *Stack) Depth() int {
	if s == nil {
		return 0
	}
	return len(s.scopes)
}

// snapshot renders and filters bindings into a fresh scope, preserving
// encounter order.
func (s *Stack) snapshot(bindings []Binding) (*Scope, error) {
	sc := NewScope()
	for _, b := range bindings {
		if b.Value == nil {
			return nil, fmt.Errorf("binding %q: nil value", b.Name)
		}
		r, err := b.Value.Render()
		if err != nil {
			return nil, fmt.Errorf("binding %q: render: %w", b.Name, err)
		}
		if s.filter.Hide(b.Name, r) {
			continue
		}
		sc.add(Entry{Name: b.Name, Value: b.Value, Rendering: r})
	}
	return sc, nil
}

// Push snapshots the bindings into a new innermost scope. Used on a call
// event.
func (s *Stack) Push(bindings []Binding) error {
	sc, err := s.snapshot(bindings)
	if err != nil {
		return err
	}
	s.scopes = append(s.scopes, sc)
	return nil
}

// ReplaceTop rebuilds the innermost scope from scratch. This is a full
// resnapshot: a binding hidden by the filter now is simply absent, no matter
// what an earlier snapshot decided. Used on a line event.
func (s *Stack) ReplaceTop(bindings []Binding) error {
	if len(s.scopes) == 0 {
		return errors.New("replace on empty stack")
	}
	sc, err := s.snapshot(bindings)
	if err != nil {
		return err
	}
	s.scopes[len(s.scopes)-1] = sc
	return nil
}

// Pop removes the innermost scope. Used on a return event.
func (s *Stack) Pop() {
	if len(s.scopes) == 0 {
		return
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// Merged computes the shadow-resolved view of the whole stack: scopes are
// walked innermost to outermost and the first binding seen per name wins.
// The result lists the innermost scope's bindings first.
func (s *Stack) Merged() *Scope {
	out := NewScope()
	for i := len(s.scopes) - 1; i >= 0; i-- {
		for _, e := range s.scopes[i].Entries() {
			if _, ok := out.Get(e.Name); ok {
				continue
			}
			out.add(e)
		}
	}
	return out
}

// Lookup searches scopes innermost to outermost for name.
func (s *Stack) Lookup(name string) (Binding, error) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if e, ok := s.scopes[i].Get(name); ok {
			return Binding{Name: e.Name, Value: e.Value}, nil
		}
	}
	return Binding{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Frames returns the scopes innermost first, for diagnostic dumps.
func (s *Stack) Frames() []*Scope {
	out := make([]*Scope, len(s.scopes))
	for i := range s.scopes {
		out[i] = s.scopes[len(s.scopes)-1-i]
	}
	return out
}
