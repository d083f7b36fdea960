// Package diag provides an optional execution trace log for the CPU
// core, in the style of the teacher's Cpu6502.Logger: a plain
// *log.Logger writing to a file, enabled only when a trace destination
// is configured.
package diag

import "log"

// Tracer wraps a stdlib logger. A nil *Tracer is valid and silently
// discards every call, so callers never need to check whether tracing
// is enabled before logging a step.
type Tracer struct {
	l *log.Logger
}

// New wraps l as given; prefix and flags are whatever l was built with
// (the CLI launcher passes log.New(f, "", 0), as the teacher's CPU logger
// does).
func New(l *log.Logger) *Tracer {
	return &Tracer{l: l}
}

// Step logs one executed instruction: PC, opcode byte, and both stack
// depths.
func (t *Tracer) Step(pc uint16, opcode byte, wsDepth, rsDepth int) {
	if t == nil || t.l == nil {
		return
	}
	t.l.Printf("pc=%#04x op=%#02x ws=%d rs=%d", pc, opcode, wsDepth, rsDepth)
}

// Haltf logs a termination reason.
func (t *Tracer) Haltf(format string, args ...any) {
	if t == nil || t.l == nil {
		return
	}
	t.l.Printf(format, args...)
}
