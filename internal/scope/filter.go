package scope

import (
	"strings"

	"vartrace/internal/value"
)

// internalPrefix marks runtime-internal names.
const internalPrefix = "__"

// Filter decides which bindings are interesting enough to keep in a scope
// snapshot. Both checks are independent; either one hides a binding.
type Filter struct {
	ShowInternal        bool // keep __-prefixed names
	ShowUnrepresentable bool // keep values with terse renderings
}

// Hide reports whether a binding should be dropped from a snapshot.
func (f Filter) Hide(name string, r value.Rendering) bool {
	if strings.HasPrefix(name, internalPrefix) && !f.ShowInternal {
		return true
	}
	if r.Terse && !f.ShowUnrepresentable {
		return true
	}
	return false
}
