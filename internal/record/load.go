package record

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"vartrace/internal/event"
)

// Decode reads a stream in the given format.
func Decode(r io.Reader, format Format) ([]event.Event, error) {
	switch format {
	case FormatNDJSON:
		return DecodeNDJSON(r)
	case FormatVTR:
		return DecodeVTR(r)
	default:
		return nil, fmt.Errorf("unknown stream format: %v", format)
	}
}

// Encode writes a stream in the given format.
func Encode(w io.Writer, events []event.Event, format Format) error {
	switch format {
	case FormatNDJSON:
		return EncodeNDJSON(w, events)
	case FormatVTR:
		return EncodeVTR(w, events)
	default:
		return fmt.Errorf("unknown stream format: %v", format)
	}
}

// Load reads a recorded stream from path, picking the format from its
// extension.
func Load(path string) ([]event.Event, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	defer f.Close() //nolint:errcheck
	events, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// Save writes a recorded stream to path, picking the format from its
// extension. The file is written via a temp file and renamed into place.
func Save(path string, events []event.Event) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return fmt.Errorf("create stream: %w", err)
	}
	if err := Encode(f, events, format); err != nil {
		f.Close()          //nolint:errcheck
		os.Remove(f.Name()) //nolint:errcheck
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name()) //nolint:errcheck
		return fmt.Errorf("close stream: %w", err)
	}
	return os.Rename(f.Name(), path)
}
