package record

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"vartrace/internal/event"
	"vartrace/internal/scope"
	"vartrace/internal/value"
)

// Current schema version - increment when the payload format changes
const vtrSchemaVersion uint16 = 1

// vtrPayload is the on-disk form of a recorded stream.
type vtrPayload struct {
	Schema uint16
	Events []vtrEvent
}

type vtrEvent struct {
	Kind    string
	Name    string
	Locals  []vtrBinding
	Return  *vtrValue
	Type    string
	Message string
	Disasm  string
}

type vtrBinding struct {
	Name  string
	Value vtrValue
}

// vtrValue is a tagged union over the runtime value kinds.
type vtrValue struct {
	Kind  string
	Int   int64      `msgpack:",omitempty"`
	Float float64    `msgpack:",omitempty"`
	Bool  bool       `msgpack:",omitempty"`
	Str   string     `msgpack:",omitempty"`
	Elems []vtrValue `msgpack:",omitempty"`
	Class string     `msgpack:",omitempty"`
	Addr  uint64     `msgpack:",omitempty"`
	Func  string     `msgpack:",omitempty"`
}

// EncodeVTR serializes events as a versioned msgpack payload.
func EncodeVTR(w io.Writer, events []event.Event) error {
	payload := vtrPayload{Schema: vtrSchemaVersion}
	for i := range events {
		ve, err := toVTREvent(&events[i])
		if err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
		payload.Events = append(payload.Events, ve)
	}
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(&payload); err != nil {
		return fmt.Errorf("encode stream: %w", err)
	}
	return nil
}

// DecodeVTR reads a msgpack payload back into events.
func DecodeVTR(r io.Reader) ([]event.Event, error) {
	var payload vtrPayload
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode stream: %w", err)
	}
	if payload.Schema != vtrSchemaVersion {
		return nil, fmt.Errorf("unsupported stream schema %d (want %d)", payload.Schema, vtrSchemaVersion)
	}
	events := make([]event.Event, 0, len(payload.Events))
	for i := range payload.Events {
		ev, err := fromVTREvent(&payload.Events[i])
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func toVTREvent(ev *event.Event) (vtrEvent, error) {
	ve := vtrEvent{
		Kind:    ev.Kind.String(),
		Name:    ev.Name,
		Type:    ev.ExcType,
		Message: ev.ExcMessage,
		Disasm:  ev.Disasm,
	}
	for _, b := range ev.Locals {
		vv, err := toVTRValue(b.Value)
		if err != nil {
			return vtrEvent{}, fmt.Errorf("local %q: %w", b.Name, err)
		}
		ve.Locals = append(ve.Locals, vtrBinding{Name: b.Name, Value: vv})
	}
	if ev.Return != nil {
		vv, err := toVTRValue(ev.Return)
		if err != nil {
			return vtrEvent{}, fmt.Errorf("return value: %w", err)
		}
		ve.Return = &vv
	}
	return ve, nil
}

func fromVTREvent(ve *vtrEvent) (event.Event, error) {
	kind, err := event.ParseKind(ve.Kind)
	if err != nil {
		return event.Event{}, err
	}
	ev := event.Event{
		Kind:       kind,
		Name:       ve.Name,
		ExcType:    ve.Type,
		ExcMessage: ve.Message,
		Disasm:     ve.Disasm,
	}
	for _, b := range ve.Locals {
		v, err := fromVTRValue(&b.Value)
		if err != nil {
			return event.Event{}, fmt.Errorf("local %q: %w", b.Name, err)
		}
		ev.Locals = append(ev.Locals, scope.Binding{Name: b.Name, Value: v})
	}
	if ve.Return != nil {
		v, err := fromVTRValue(ve.Return)
		if err != nil {
			return event.Event{}, fmt.Errorf("return value: %w", err)
		}
		ev.Return = v
	}
	return ev, nil
}

func toVTRValue(v value.Value) (vtrValue, error) {
	switch v := v.(type) {
	case value.Int:
		return vtrValue{Kind: "int", Int: v.N}, nil
	case value.Float:
		return vtrValue{Kind: "float", Float: v.F}, nil
	case value.Bool:
		return vtrValue{Kind: "bool", Bool: v.B}, nil
	case value.Str:
		return vtrValue{Kind: "str", Str: v.S}, nil
	case value.Nothing:
		return vtrValue{Kind: "nothing"}, nil
	case value.Func:
		return vtrValue{Kind: "func", Func: v.Name}, nil
	case value.Object:
		return vtrValue{Kind: "object", Class: v.Class, Addr: v.Addr}, nil
	case value.Array:
		out := vtrValue{Kind: "array"}
		for i, el := range v.Elems {
			ev, err := toVTRValue(el)
			if err != nil {
				return vtrValue{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Elems = append(out.Elems, ev)
		}
		return out, nil
	default:
		return vtrValue{}, fmt.Errorf("unsupported value %T", v)
	}
}

func fromVTRValue(vv *vtrValue) (value.Value, error) {
	switch vv.Kind {
	case "int":
		return value.Int{N: vv.Int}, nil
	case "float":
		return value.Float{F: vv.Float}, nil
	case "bool":
		return value.Bool{B: vv.Bool}, nil
	case "str":
		return value.Str{S: vv.Str}, nil
	case "nothing":
		return value.Nothing{}, nil
	case "func":
		return value.Func{Name: vv.Func}, nil
	case "object":
		return value.Object{Class: vv.Class, Addr: vv.Addr}, nil
	case "array":
		arr := value.Array{}
		for i := range vv.Elems {
			el, err := fromVTRValue(&vv.Elems[i])
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			arr.Elems = append(arr.Elems, el)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unknown value kind %q", vv.Kind)
	}
}
