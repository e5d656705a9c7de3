package value_test

import (
	"strings"
	"testing"

	"vartrace/internal/value"
)

func TestRenderScalars(t *testing.T) {
	cases := []struct {
		name  string
		v     value.Value
		text  string
		terse bool
	}{
		{"int", value.Int{N: 42}, "42", false},
		{"negative int", value.Int{N: -7}, "-7", false},
		{"float", value.Float{F: 2.5}, "2.5", false},
		{"bool true", value.Bool{B: true}, "True", false},
		{"bool false", value.Bool{B: false}, "False", false},
		{"string", value.Str{S: "hi"}, `"hi"`, false},
		{"nothing", value.Nothing{}, "None", false},
		{"func", value.Func{Name: "f"}, "<function f>", true},
		{"object", value.Object{Class: "socket", Addr: 0xdeadbeef}, "<socket object at 0xdeadbeef>", true},
		{"classless object", value.Object{Addr: 0x10}, "<object at 0x10>", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := tc.v.Render()
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if r.Text != tc.text {
				t.Errorf("text = %q, want %q", r.Text, tc.text)
			}
			if r.Terse != tc.terse {
				t.Errorf("terse = %v, want %v", r.Terse, tc.terse)
			}
		})
	}
}

func TestRenderLongStringTruncated(t *testing.T) {
	long := strings.Repeat("a", 200)
	r, err := value.Str{S: long}.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(r.Text) >= len(long) {
		t.Fatalf("expected truncation, got %d bytes", len(r.Text))
	}
	if !strings.Contains(r.Text, "…") {
		t.Errorf("expected ellipsis in %q", r.Text)
	}
}

func TestRenderArray(t *testing.T) {
	arr := value.Array{Elems: []value.Value{
		value.Int{N: 1},
		value.Str{S: "two"},
		value.Array{Elems: []value.Value{value.Bool{B: true}}},
	}}
	r, err := arr.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `[1, "two", [True]]`
	if r.Text != want {
		t.Errorf("text = %q, want %q", r.Text, want)
	}
	if r.Terse {
		t.Error("array rendering should not be terse")
	}
}

func TestRenderArrayNilElementFails(t *testing.T) {
	arr := value.Array{Elems: []value.Value{value.Int{N: 1}, nil}}
	if _, err := arr.Render(); err == nil {
		t.Fatal("expected error for nil element")
	}
}
