// Package trace implements the trace session: the state machine that drives
// the scope stack from execution events and renders visible variable state
// as it changes.
//
// # Architecture
//
//   - Session: processes one event at a time, owns the scope stack and the
//     change detector. Implements event.Handler.
//   - ChangeDetector: remembers the last emitted merged view and suppresses
//     repeats.
//   - Logger: writes log lines indented once per stack depth.
//
// # Usage
//
//	sess := trace.NewSession(trace.Config{Output: os.Stdout})
//	err := source.Drive(sess)
//
// Exactly one session is active per traced run; a session holds all of the
// run's mutable state and is not safe for concurrent use. The protocol is
// fully synchronous: the source invokes the session inline, once per event,
// in execution order.
package trace
