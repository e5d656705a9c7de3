// Package record reads and writes recorded event streams and replays them
// into a trace session. Two formats are supported: NDJSON (one event object
// per line, convenient to author and inspect) and a compact msgpack binary
// format (.vtr).
package record

import (
	"fmt"
	"path/filepath"
	"strings"

	"vartrace/internal/event"
)

// Replay delivers a recorded event stream to one persistent handler,
// synchronously and in recorded order.
type Replay struct {
	events []event.Event
}

// NewReplay creates a replay source over events.
func NewReplay(events []event.Event) *Replay {
	return &Replay{events: events}
}

// Len returns the number of recorded events.
func (r *Replay) Len() int {
	if r == nil {
		return 0
	}
	return len(r.events)
}

// Drive invokes h once per event, inline. A handler error aborts the replay.
func (r *Replay) Drive(h event.Handler) error {
	for i := range r.events {
		if err := h.Handle(&r.events[i]); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return nil
}

// FormatForPath picks a stream format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".json":
		return FormatNDJSON, nil
	case ".vtr":
		return FormatVTR, nil
	default:
		return 0, fmt.Errorf("unknown stream format for %q (expected: .ndjson|.json|.vtr)", path)
	}
}

// Format identifies a recorded stream encoding.
type Format uint8

const (
	// FormatNDJSON is newline-delimited JSON.
	FormatNDJSON Format = iota + 1
	// FormatVTR is the msgpack binary stream.
	FormatVTR
)

// String returns the string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatNDJSON:
		return "ndjson"
	case FormatVTR:
		return "vtr"
	default:
		return "unknown"
	}
}
