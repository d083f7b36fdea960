package vm

import "errors"

// Sentinel errors for the fault taxonomy (spec.md §7). These are never
// returned for division by zero, which is defined behavior (result 0),
// not a fault. Exported so hosts and tests can compare with errors.Is
// against the Fault a RunVector failure wraps.
var (
	ErrROMTooLarge    = errors.New("rom too large for address space")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrUnknownDevice  = errors.New("write to unimplemented device")
	ErrUnknownOpcode  = errors.New("unknown opcode")

	errHalt = errors.New("system halt")
)

// Fault is a structured diagnostic describing why RunVector stopped
// abnormally. It wraps one of the sentinel errors above, so callers can
// use errors.Is against e.g. ErrStackOverflow.
type Fault struct {
	Err    error
	PC     uint16
	Opcode byte
	WS     []byte
	RS     []byte
	Around [7]byte // memory bytes [PC-3, PC+4), wrapping around the 64 KiB space
}

func (f *Fault) Error() string {
	return f.Err.Error()
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// HaltError is returned by RunVector when a System device write to the
// state port (0x0F) terminates execution. It is a normal termination
// signal, not a fault — it carries the 7-bit exit code the host should
// use for process exit.
type HaltError struct {
	Code byte
}

func (h *HaltError) Error() string {
	return errHalt.Error()
}

func (h *HaltError) Unwrap() error {
	return errHalt
}
