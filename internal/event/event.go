// Package event defines the execution events a trace session consumes and
// the contract between a session and its event source.
package event

import (
	"fmt"

	"vartrace/internal/scope"
	"vartrace/internal/value"
)

// Kind identifies the type of an execution event.
type Kind uint8

const (
	// KindCall marks entry into an activation.
	KindCall Kind = iota + 1
	// KindLine marks reaching a new statement inside the activation.
	KindLine
	// KindReturn marks the activation returning.
	KindReturn
	// KindException marks an exception being raised.
	KindException
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindLine:
		return "line"
	case KindReturn:
		return "return"
	case KindException:
		return "exception"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "call":
		return KindCall, nil
	case "line":
		return KindLine, nil
	case "return":
		return KindReturn, nil
	case "exception":
		return KindException, nil
	default:
		return 0, fmt.Errorf("invalid event kind: %q (expected: call|line|return|exception)", s)
	}
}

// Event is one execution event delivered by the source, in execution order.
type Event struct {
	Kind Kind
	Name string // activation name

	// Locals are the currently bound names, in binding order.
	// Present on call, line and return events.
	Locals []scope.Binding

	// Return is the returned value. Present on return events; nil means the
	// activation returned nothing.
	Return value.Value

	// ExcType and ExcMessage summarize a raised exception.
	ExcType    string
	ExcMessage string

	// Disasm is optional low-level positional disassembly of the execution
	// point, produced by an external collaborator. Shown only in verbose mode.
	Disasm string
}

// Handler processes events one at a time, synchronously. A non-nil error
// aborts the session.
type Handler interface {
	Handle(ev *Event) error
}

// Source delivers an event stream to one persistent handler for the duration
// of a session.
type Source interface {
	Drive(h Handler) error
}
