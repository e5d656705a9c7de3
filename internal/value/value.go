// Package value defines the runtime values a traced program can bind to
// names, together with their display rendering.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// strPreviewWidth bounds the display width of string previews.
const strPreviewWidth = 48

// Rendering is the display form of a value. Terse marks a generic,
// non-distinguishing representation (the "<... at 0x...>" family); the
// visibility filter hides terse values unless told otherwise.
type Rendering struct {
	Text  string
	Terse bool
}

// Value is the capability every bound value must support: a total rendering
// into display text plus a terseness flag. A rendering error is a contract
// violation and aborts the trace session.
type Value interface {
	Render() (Rendering, error)
}

// Int is a signed integer value.
type Int struct {
	N int64
}

// Render returns the decimal form.
func (v Int) Render() (Rendering, error) {
	return Rendering{Text: strconv.FormatInt(v.N, 10)}, nil
}

// Float is a floating-point value.
type Float struct {
	F float64
}

// Render returns the shortest round-trippable form.
func (v Float) Render() (Rendering, error) {
	return Rendering{Text: strconv.FormatFloat(v.F, 'g', -1, 64)}, nil
}

// Bool is a boolean value.
type Bool struct {
	B bool
}

// Render returns "True" or "False".
func (v Bool) Render() (Rendering, error) {
	if v.B {
		return Rendering{Text: "True"}, nil
	}
	return Rendering{Text: "False"}, nil
}

// Str is a string value.
type Str struct {
	S string
}

// Render returns the quoted string, truncated to a bounded display width.
func (v Str) Render() (Rendering, error) {
	s := v.S
	if runewidth.StringWidth(s) > strPreviewWidth {
		s = runewidth.Truncate(s, strPreviewWidth, "…")
	}
	return Rendering{Text: strconv.Quote(s)}, nil
}

// Nothing is the unit/absent value.
type Nothing struct{}

// Render returns "None".
func (v Nothing) Render() (Rendering, error) {
	return Rendering{Text: "None"}, nil
}

// Func is a function value. Its rendering carries no distinguishing content
// beyond the name, so it is terse.
type Func struct {
	Name string
}

// Render returns the generic function form.
func (v Func) Render() (Rendering, error) {
	return Rendering{Text: fmt.Sprintf("<function %s>", v.Name), Terse: true}, nil
}

// Object is an opaque heap object identified only by class and address.
type Object struct {
	Class string
	Addr  uint64
}

// Render returns the generic object form.
func (v Object) Render() (Rendering, error) {
	if v.Class == "" {
		return Rendering{Text: fmt.Sprintf("<object at 0x%x>", v.Addr), Terse: true}, nil
	}
	return Rendering{Text: fmt.Sprintf("<%s object at 0x%x>", v.Class, v.Addr), Terse: true}, nil
}

// Array is an ordered sequence of values.
type Array struct {
	Elems []Value
}

// Render renders every element; a failing element fails the whole rendering.
func (v Array) Render() (Rendering, error) {
	var sb strings.Builder
	sb.WriteString("[")
	for i, el := range v.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		if el == nil {
			return Rendering{}, fmt.Errorf("array element %d: nil value", i)
		}
		r, err := el.Render()
		if err != nil {
			return Rendering{}, fmt.Errorf("array element %d: %w", i, err)
		}
		sb.WriteString(r.Text)
	}
	sb.WriteString("]")
	return Rendering{Text: sb.String()}, nil
}
