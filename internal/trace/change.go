package trace

import "vartrace/internal/scope"

// viewEntry is one rendered binding of a merged view snapshot.
type viewEntry struct {
	name string
	text string
}

// ChangeDetector remembers the last merged view that was emitted and decides
// whether the current one is worth logging. Equality is whole-view: any
// changed, added or removed binding makes the whole view eligible again.
type ChangeDetector struct {
	seen bool
	prev []viewEntry
}

// NewChangeDetector creates a detector with no previous view.
func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{}
}

// ShouldEmit reports whether view differs from the last emitted view and, if
// so, records it as the new snapshot.
func (d *ChangeDetector) ShouldEmit(view *scope.Scope) bool {
	cur := snapshotView(view)
	if d.seen && equalViews(d.prev, cur) {
		return false
	}
	d.seen = true
	d.prev = cur
	return true
}

// Record stores view as the last emitted snapshot unconditionally. Used when
// the processor logs regardless of change, i.e. at a return point.
func (d *ChangeDetector) Record(view *scope.Scope) {
	d.seen = true
	d.prev = snapshotView(view)
}

func snapshotView(view *scope.Scope) []viewEntry {
	entries := view.Entries()
	out := make([]viewEntry, len(entries))
	for i, e := range entries {
		out[i] = viewEntry{name: e.Name, text: e.Rendering.Text}
	}
	return out
}

func equalViews(a, b []viewEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
