package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"

	"vartrace/internal/event"
	"vartrace/internal/scope"
	"vartrace/internal/value"
)

// jsonEvent is the NDJSON wire form of one event.
type jsonEvent struct {
	Event   string        `json:"event"`
	Name    string        `json:"name"`
	Locals  []jsonBinding `json:"locals,omitempty"`
	Value   any           `json:"value,omitempty"`
	Type    string        `json:"type,omitempty"`
	Message string        `json:"message,omitempty"`
	Disasm  string        `json:"disasm,omitempty"`
}

type jsonBinding struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// DecodeNDJSON reads one JSON event object per line. Blank lines and
// #-prefixed comment lines are skipped.
func DecodeNDJSON(r io.Reader) ([]event.Event, error) {
	var events []event.Event
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var je jsonEvent
		if err := json.Unmarshal([]byte(line), &je); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		ev, err := je.toEvent()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	return events, nil
}

func (je *jsonEvent) toEvent() (event.Event, error) {
	kind, err := event.ParseKind(je.Event)
	if err != nil {
		return event.Event{}, err
	}
	ev := event.Event{
		Kind:       kind,
		Name:       je.Name,
		ExcType:    je.Type,
		ExcMessage: je.Message,
		Disasm:     je.Disasm,
	}
	for _, b := range je.Locals {
		v, err := decodeValue(b.Value)
		if err != nil {
			return event.Event{}, fmt.Errorf("local %q: %w", b.Name, err)
		}
		ev.Locals = append(ev.Locals, scope.Binding{Name: b.Name, Value: v})
	}
	if kind == event.KindReturn {
		v, err := decodeValue(je.Value)
		if err != nil {
			return event.Event{}, fmt.Errorf("return value: %w", err)
		}
		ev.Return = v
	}
	return ev, nil
}

// decodeValue maps a decoded JSON value onto a runtime value. Numbers become
// Int when they convert exactly, Float otherwise. An object with a "func"
// key is a function; any other object is an opaque heap object described by
// optional "class" and "addr" keys.
func decodeValue(raw any) (value.Value, error) {
	switch v := raw.(type) {
	case nil:
		return value.Nothing{}, nil
	case bool:
		return value.Bool{B: v}, nil
	case string:
		return value.Str{S: v}, nil
	case float64:
		if n, err := safecast.Convert[int64](v); err == nil {
			return value.Int{N: n}, nil
		}
		return value.Float{F: v}, nil
	case []any:
		arr := value.Array{Elems: make([]value.Value, 0, len(v))}
		for i, el := range v {
			dv, err := decodeValue(el)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			arr.Elems = append(arr.Elems, dv)
		}
		return arr, nil
	case map[string]any:
		if name, ok := v["func"].(string); ok {
			return value.Func{Name: name}, nil
		}
		obj := value.Object{}
		if class, ok := v["class"].(string); ok {
			obj.Class = class
		}
		if addr, ok := v["addr"].(float64); ok {
			a, err := safecast.Convert[uint64](addr)
			if err != nil {
				return nil, fmt.Errorf("addr %v: %w", addr, err)
			}
			obj.Addr = a
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported value %T", raw)
	}
}

// EncodeNDJSON writes one JSON object per event.
func EncodeNDJSON(w io.Writer, events []event.Event) error {
	enc := json.NewEncoder(w)
	for i := range events {
		je, err := fromEvent(&events[i])
		if err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
		if err := enc.Encode(je); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return nil
}

func fromEvent(ev *event.Event) (jsonEvent, error) {
	je := jsonEvent{
		Event:   ev.Kind.String(),
		Name:    ev.Name,
		Type:    ev.ExcType,
		Message: ev.ExcMessage,
		Disasm:  ev.Disasm,
	}
	for _, b := range ev.Locals {
		raw, err := encodeValue(b.Value)
		if err != nil {
			return jsonEvent{}, fmt.Errorf("local %q: %w", b.Name, err)
		}
		je.Locals = append(je.Locals, jsonBinding{Name: b.Name, Value: raw})
	}
	if ev.Kind == event.KindReturn && ev.Return != nil {
		raw, err := encodeValue(ev.Return)
		if err != nil {
			return jsonEvent{}, fmt.Errorf("return value: %w", err)
		}
		je.Value = raw
	}
	return je, nil
}

func encodeValue(v value.Value) (any, error) {
	switch v := v.(type) {
	case nil, value.Nothing:
		return nil, nil
	case value.Bool:
		return v.B, nil
	case value.Str:
		return v.S, nil
	case value.Int:
		return v.N, nil
	case value.Float:
		return v.F, nil
	case value.Array:
		out := make([]any, 0, len(v.Elems))
		for i, el := range v.Elems {
			raw, err := encodeValue(el)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, raw)
		}
		return out, nil
	case value.Func:
		return map[string]any{"func": v.Name}, nil
	case value.Object:
		out := map[string]any{}
		if v.Class != "" {
			out["class"] = v.Class
		}
		if v.Addr != 0 {
			out["addr"] = v.Addr
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value %T", v)
	}
}
