// Package scope implements the lexical scope stack of a trace session:
// per-activation snapshots of visible bindings and the shadow-resolving
// merged view across the whole stack.
package scope

import (
	"strings"

	"vartrace/internal/value"
)

// Binding is a name/value pair delivered by the event source.
type Binding struct {
	Name  string
	Value value.Value
}

// Entry is a binding that survived filtering, with its rendering captured at
// snapshot time.
type Entry struct {
	Name      string
	Value     value.Value
	Rendering value.Rendering
}

// Scope holds the visible bindings of one activation at one point in time.
// Names are unique; insertion order is preserved.
type Scope struct {
	entries []Entry
	index   map[string]int
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{index: make(map[string]int)}
}

// add appends an entry, replacing any earlier entry with the same name.
func (s *Scope) add(e Entry) {
	if i, ok := s.index[e.Name]; ok {
		s.entries[i] = e
		return
	}
	s.index[e.Name] = len(s.entries)
	s.entries = append(s.entries, e)
}

// Len returns the number of visible bindings.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns the bindings in insertion order.
func (s *Scope) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

// Get returns the entry bound to name.
func (s *Scope) Get(name string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// String renders the scope as "name = value" pairs, or a fixed placeholder
// when nothing is visible.
func (s *Scope) String() string {
	if s.Len() == 0 {
		return "<no variables>"
	}
	var sb strings.Builder
	for i, e := range s.entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.Name)
		sb.WriteString(" = ")
		sb.WriteString(e.Rendering.Text)
	}
	return sb.String()
}
