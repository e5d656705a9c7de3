package trace

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"vartrace/internal/event"
	"vartrace/internal/scope"
	"vartrace/internal/value"
)

var (
	callColor   = color.New(color.FgGreen)
	returnColor = color.New(color.FgBlue)
	excColor    = color.New(color.FgRed, color.Bold)
)

// Disassembler supplies low-level positional disassembly for an execution
// point. It is an external collaborator; the session only invokes it when
// verbose mode is on and never interprets its output.
type Disassembler interface {
	Disassemble(ev *event.Event) string
}

// DisassemblerFunc adapts a function to the Disassembler interface.
type DisassemblerFunc func(ev *event.Event) string

// Disassemble calls f.
func (f DisassemblerFunc) Disassemble(ev *event.Event) string { return f(ev) }

// Config holds session configuration, threaded in from outside the core.
type Config struct {
	ShowInternal        bool // show __-prefixed names
	ShowUnrepresentable bool // show values with terse renderings
	Verbose             bool // diagnostic output (disassembly, stack dumps)

	Output io.Writer    // log destination (stdout if nil)
	Color  bool         // colorize event markers
	Disasm Disassembler // optional, used only in verbose mode
}

// Session is one traced run's state: the scope stack plus the change
// detector's last-emitted snapshot. Create one per run; it registers as the
// source's persistent handler for the run's duration.
type Session struct {
	cfg      Config
	stack    *scope.Stack
	detector *ChangeDetector
	log      *Logger

	callMark string
	retMark  string
	excMark  string
}

// NewSession creates a session ready to handle events.
func NewSession(cfg Config) *Session {
	stack := scope.NewStack(scope.Filter{
		ShowInternal:        cfg.ShowInternal,
		ShowUnrepresentable: cfg.ShowUnrepresentable,
	})
	s := &Session{
		cfg:      cfg,
		stack:    stack,
		detector: NewChangeDetector(),
		log:      NewLogger(cfg.Output, stack),
		callMark: "-->",
		retMark:  "<--",
		excMark:  "--- exception ---",
	}
	if cfg.Color {
		s.callMark = callColor.Sprint(s.callMark)
		s.retMark = returnColor.Sprint(s.retMark)
		s.excMark = excColor.Sprint(s.excMark)
	}
	return s
}

// Depth returns the current stack depth.
func (s *Session) Depth() int {
	return s.stack.Depth()
}

// Handle processes one event. An unrecognized kind or a rendering failure is
// a broken contract with the event source and aborts the session.
func (s *Session) Handle(ev *event.Event) error {
	if s.cfg.Verbose && s.cfg.Disasm != nil {
		s.log.Raw(s.cfg.Disasm.Disassemble(ev))
	}

	switch ev.Kind {
	case event.KindCall:
		return s.onCall(ev)
	case event.KindLine:
		return s.onLine(ev)
	case event.KindReturn:
		return s.onReturn(ev)
	case event.KindException:
		s.onException(ev)
		return nil
	default:
		return fmt.Errorf("unhandled event kind %s", ev.Kind)
	}
}

func (s *Session) onCall(ev *event.Event) error {
	s.log.Logf("%s %s", s.callMark, ev.Name)
	return s.stack.Push(ev.Locals)
}

func (s *Session) onLine(ev *event.Event) error {
	if err := s.stack.ReplaceTop(ev.Locals); err != nil {
		return err
	}
	view := s.stack.Merged()
	if s.detector.ShouldEmit(view) {
		s.log.Log(view.String())
	} else if s.cfg.Verbose {
		s.log.Log("stack unchanged: " + view.String())
	}
	s.dumpStack()
	return nil
}

func (s *Session) onReturn(ev *event.Event) error {
	// Capture final state at the return point before unwinding. Unlike a
	// line event this always logs, so the last thing seen before the
	// unwind marker is the state the activation returned with.
	if err := s.stack.ReplaceTop(ev.Locals); err != nil {
		return err
	}
	view := s.stack.Merged()
	s.detector.Record(view)
	s.log.Log(view.String())
	s.dumpStack()
	ret := ev.Return
	if ret == nil {
		ret = value.Nothing{}
	}
	r, err := ret.Render()
	if err != nil {
		return fmt.Errorf("return value: render: %w", err)
	}
	s.stack.Pop()
	s.log.Logf("%s %s (returned %s)", s.retMark, ev.Name, r.Text)
	return nil
}

// dumpStack prints every frame top-first in verbose mode.
func (s *Session) dumpStack() {
	if !s.cfg.Verbose {
		return
	}
	s.log.Log("Stack (top frame first):")
	for i, frame := range s.stack.Frames() {
		s.log.Logf(" Frame %d: %s", -(i + 1), frame)
	}
}

// onException logs the exception summary. It is observational only: the
// stack is untouched and control stays with the traced program.
func (s *Session) onException(ev *event.Event) {
	s.log.Log(s.excMark)
	s.log.Log(exceptionSummary(ev))
}

// exceptionSummary renders the final line of an exception's textual summary.
func exceptionSummary(ev *event.Event) string {
	if ev.ExcMessage == "" {
		return ev.ExcType
	}
	return ev.ExcType + ": " + ev.ExcMessage
}
