package trace

import (
	"fmt"
	"io"
	"strings"

	"vartrace/internal/scope"
)

// Logger writes log lines indented once per current stack depth. It has no
// state of its own beyond the output writer; depth is read from the stack.
type Logger struct {
	w     io.Writer
	stack *scope.Stack
}

// NewLogger creates a logger over w reading depth from stack.
func NewLogger(w io.Writer, stack *scope.Stack) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{w: w, stack: stack}
}

// Log writes text as one line, indented for the current depth.
func (l *Logger) Log(text string) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.w, "%s%s\n", strings.Repeat("  ", l.stack.Depth()), text) //nolint:errcheck
}

// Logf formats and writes one indented line.
func (l *Logger) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// Raw writes text without indentation, terminating it with a newline if
// needed. Used for diagnostic blocks produced by external collaborators.
func (l *Logger) Raw(text string) {
	if l == nil || text == "" {
		return
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	io.WriteString(l.w, text) //nolint:errcheck
}
