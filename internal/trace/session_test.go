package trace_test

import (
	"bytes"
	"strings"
	"testing"

	"vartrace/internal/event"
	"vartrace/internal/scope"
	"vartrace/internal/trace"
	"vartrace/internal/value"
)

func intBind(name string, n int64) scope.Binding {
	return scope.Binding{Name: name, Value: value.Int{N: n}}
}

func runSession(t *testing.T, cfg trace.Config, events []event.Event) (*trace.Session, string, error) {
	t.Helper()
	var buf bytes.Buffer
	cfg.Output = &buf
	sess := trace.NewSession(cfg)
	for i := range events {
		if err := sess.Handle(&events[i]); err != nil {
			return sess, buf.String(), err
		}
	}
	return sess, buf.String(), nil
}

func TestScenarioSingleActivation(t *testing.T) {
	events := []event.Event{
		{Kind: event.KindCall, Name: "f"},
		{Kind: event.KindLine, Name: "f", Locals: []scope.Binding{intBind("x", 1)}},
		{Kind: event.KindLine, Name: "f", Locals: []scope.Binding{intBind("x", 2)}},
		{Kind: event.KindReturn, Name: "f", Locals: []scope.Binding{intBind("x", 2)}, Return: value.Int{N: 3}},
	}

	sess, out, err := runSession(t, trace.Config{}, events)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	want := strings.Join([]string{
		"--> f",
		"  x = 1",
		"  x = 2",
		"  x = 2",
		"<-- f (returned 3)",
		"",
	}, "\n")
	if out != want {
		t.Errorf("transcript:\n%s\nwant:\n%s", out, want)
	}
	if sess.Depth() != 0 {
		t.Errorf("final depth = %d, want 0", sess.Depth())
	}
}

func TestScenarioNestedActivations(t *testing.T) {
	events := []event.Event{
		{Kind: event.KindCall, Name: "f", Locals: []scope.Binding{intBind("x", 1)}},
		{Kind: event.KindCall, Name: "g", Locals: []scope.Binding{intBind("x", 5)}},
		{Kind: event.KindLine, Name: "g", Locals: []scope.Binding{intBind("x", 5)}},
		{Kind: event.KindReturn, Name: "g", Locals: []scope.Binding{intBind("x", 5)}, Return: value.Int{N: 0}},
		{Kind: event.KindLine, Name: "f", Locals: []scope.Binding{intBind("x", 1)}},
		{Kind: event.KindReturn, Name: "f", Locals: []scope.Binding{intBind("x", 1)}},
	}

	sess, out, err := runSession(t, trace.Config{}, events)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	want := strings.Join([]string{
		"--> f",
		"  --> g",
		"    x = 5",
		"    x = 5",
		"  <-- g (returned 0)",
		"  x = 1",
		"  x = 1",
		"<-- f (returned None)",
		"",
	}, "\n")
	if out != want {
		t.Errorf("transcript:\n%s\nwant:\n%s", out, want)
	}
	if sess.Depth() != 0 {
		t.Errorf("final depth = %d, want 0", sess.Depth())
	}
}

func TestScenarioExceptionIsObservational(t *testing.T) {
	events := []event.Event{
		{Kind: event.KindCall, Name: "f"},
		{Kind: event.KindLine, Name: "f", Locals: []scope.Binding{intBind("x", 1)}},
		{Kind: event.KindException, Name: "f", ExcType: "ValueError", ExcMessage: "boom"},
		{Kind: event.KindLine, Name: "f", Locals: []scope.Binding{intBind("x", 1)}},
		{Kind: event.KindReturn, Name: "f", Locals: []scope.Binding{intBind("x", 1)}},
	}

	var depthAfterExc int
	var buf bytes.Buffer
	sess := trace.NewSession(trace.Config{Output: &buf})
	for i := range events {
		if err := sess.Handle(&events[i]); err != nil {
			t.Fatalf("handle event %d: %v", i, err)
		}
		if events[i].Kind == event.KindException {
			depthAfterExc = sess.Depth()
		}
	}
	out := buf.String()

	if depthAfterExc != 1 {
		t.Errorf("depth after exception = %d, want 1", depthAfterExc)
	}
	if got := strings.Count(out, "--- exception ---"); got != 1 {
		t.Errorf("exception marker count = %d, want 1", got)
	}
	if !strings.Contains(out, "  ValueError: boom") {
		t.Errorf("missing exception summary in:\n%s", out)
	}
	if !strings.HasSuffix(out, "<-- f (returned None)\n") {
		t.Errorf("subsequent events did not process normally:\n%s", out)
	}
	// The unchanged line event after the exception stays suppressed.
	if got := strings.Count(out, "x = 1"); got != 2 {
		t.Errorf("state line count = %d, want 2 (line + return point):\n%s", got, out)
	}
}

func TestEmptyViewPlaceholder(t *testing.T) {
	events := []event.Event{
		{Kind: event.KindCall, Name: "f"},
		{Kind: event.KindLine, Name: "f"},
	}
	_, out, err := runSession(t, trace.Config{}, events)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(out, "  <no variables>") {
		t.Errorf("missing placeholder in:\n%s", out)
	}
}

func TestShadowedValueHiddenByFilterRevealsOuter(t *testing.T) {
	// When the inner binding is filtered away, the merged view falls back to
	// the outer scope's value for the same name.
	events := []event.Event{
		{Kind: event.KindCall, Name: "f", Locals: []scope.Binding{intBind("x", 1)}},
		{Kind: event.KindCall, Name: "g"},
		{Kind: event.KindLine, Name: "g", Locals: []scope.Binding{
			{Name: "x", Value: value.Object{Addr: 0x1}},
		}},
	}
	_, out, err := runSession(t, trace.Config{}, events)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(out, "    x = 1") {
		t.Errorf("expected outer x to show through:\n%s", out)
	}
}

func TestUnhandledEventKindIsFatal(t *testing.T) {
	ev := event.Event{Kind: event.Kind(99), Name: "f"}
	sess := trace.NewSession(trace.Config{Output: &bytes.Buffer{}})
	if err := sess.Handle(&ev); err == nil {
		t.Fatal("expected error for unhandled event kind")
	}
}

func TestRenderFailurePropagates(t *testing.T) {
	events := []event.Event{
		{Kind: event.KindCall, Name: "f"},
		{Kind: event.KindLine, Name: "f", Locals: []scope.Binding{
			{Name: "a", Value: value.Array{Elems: []value.Value{nil}}},
		}},
	}
	_, _, err := runSession(t, trace.Config{}, events)
	if err == nil {
		t.Fatal("expected rendering failure to abort the session")
	}
}

func TestVerboseUnchangedLine(t *testing.T) {
	events := []event.Event{
		{Kind: event.KindCall, Name: "f"},
		{Kind: event.KindLine, Name: "f", Locals: []scope.Binding{intBind("x", 1)}},
		{Kind: event.KindLine, Name: "f", Locals: []scope.Binding{intBind("x", 1)}},
	}
	_, out, err := runSession(t, trace.Config{Verbose: true}, events)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(out, "  stack unchanged: x = 1") {
		t.Errorf("missing unchanged line in:\n%s", out)
	}
	if !strings.Contains(out, "  Stack (top frame first):") {
		t.Errorf("missing stack dump in:\n%s", out)
	}
	if !strings.Contains(out, "   Frame -1: x = 1") {
		t.Errorf("missing frame line in:\n%s", out)
	}
}

func TestVerboseDisassemblyHook(t *testing.T) {
	events := []event.Event{
		{Kind: event.KindCall, Name: "f", Disasm: "  1 LOAD_CONST 0"},
	}
	var calls int
	cfg := trace.Config{
		Verbose: true,
		Disasm: trace.DisassemblerFunc(func(ev *event.Event) string {
			calls++
			return ev.Disasm
		}),
	}
	_, out, err := runSession(t, cfg, events)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if calls != 1 {
		t.Errorf("disassembler calls = %d, want 1", calls)
	}
	if !strings.Contains(out, "  1 LOAD_CONST 0\n") {
		t.Errorf("missing disassembly in:\n%s", out)
	}
}

func TestDisassemblerIgnoredWhenNotVerbose(t *testing.T) {
	events := []event.Event{
		{Kind: event.KindCall, Name: "f", Disasm: "  1 LOAD_CONST 0"},
	}
	cfg := trace.Config{
		Disasm: trace.DisassemblerFunc(func(ev *event.Event) string { return ev.Disasm }),
	}
	_, out, err := runSession(t, cfg, events)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if strings.Contains(out, "LOAD_CONST") {
		t.Errorf("disassembly must not appear without verbose:\n%s", out)
	}
}

func TestWellNestedStreamRestoresDepth(t *testing.T) {
	var events []event.Event
	names := []string{"a", "b", "c"}
	for _, n := range names {
		events = append(events,
			event.Event{Kind: event.KindCall, Name: n},
			event.Event{Kind: event.KindLine, Name: n, Locals: []scope.Binding{intBind(n, 1)}},
		)
	}
	for i := len(names) - 1; i >= 0; i-- {
		events = append(events, event.Event{
			Kind: event.KindReturn, Name: names[i],
			Locals: []scope.Binding{intBind(names[i], 1)},
		})
	}

	sess, _, err := runSession(t, trace.Config{}, events)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sess.Depth() != 0 {
		t.Errorf("final depth = %d, want 0", sess.Depth())
	}
}
