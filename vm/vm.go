// Package vm implements the fetch/decode/execute kernel of an Uxn-class
// stack machine: two 256-byte stacks, 64 KiB of flat memory, and a
// 256-byte device page dispatched through a Host callback.
package vm

import (
	"fmt"

	"github.com/kestrel-systems/uxnvm/internal/diag"
)

// ResetVector is where execution begins: spec.md §3, "Initial value on
// reset".
const ResetVector uint16 = 0x0100

// CPU is the VM's owned aggregate state: PC, both stacks, memory, and the
// device page. The host holds a single *CPU and drives it by calling
// LoadROM once and RunVector repeatedly.
type CPU struct {
	PC uint16
	WS Stack
	RS Stack

	Mem     Memory
	Devices DevicePage

	lenientUnderflow bool
	trace            *diag.Tracer
}

// Option configures a CPU at construction time.
type Option func(*CPU)

// WithLenientUnderflow makes stack underflow substitute a zero byte and
// continue instead of faulting. Canonical behavior (the default) is
// fatal; spec.md §7 asks for this as a documented, testable switch.
func WithLenientUnderflow() Option {
	return func(c *CPU) { c.lenientUnderflow = true }
}

// WithTracer enables per-step execution tracing through t. A nil *Tracer,
// or one built with diag.New(nil), is also accepted and simply logs nothing.
func WithTracer(t *diag.Tracer) Option {
	return func(c *CPU) { c.trace = t }
}

// New creates a CPU with PC at the reset vector, empty stacks, and zeroed
// memory and device page.
func New(opts ...Option) *CPU {
	c := &CPU{PC: ResetVector}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetHost attaches the callback target for device-page writes.
func (c *CPU) SetHost(h Host) {
	c.Devices.SetHost(h)
}

// LoadROM copies prog into memory at 0x0100. It must be called before the
// first RunVector.
func (c *CPU) LoadROM(prog []byte) error {
	return c.Mem.LoadROM(prog)
}

// PokeDevice writes a device-page byte directly, without going through the
// host callback. Used by the host to deliver input (console bytes, argv)
// between vector invocations — re-entering RunVector while a vector is
// executing is undefined, per spec.md §5.
func (c *CPU) PokeDevice(port byte, v byte) {
	c.Devices.PokeDevice(port, v)
}

// RunVector sets PC to addr and executes until BRK (returns nil), until a
// System halt (returns *HaltError), or until a fatal condition (returns
// *Fault). Stacks, memory, and the device page persist across calls.
func (c *CPU) RunVector(addr uint16) error {
	c.PC = addr
	for {
		brk, err := c.step()
		if err != nil {
			return err
		}
		if brk {
			return nil
		}
	}
}

// step fetches, decodes, and executes exactly one instruction.
func (c *CPU) step() (brk bool, err error) {
	opcodePC := c.PC
	opcode := c.Mem.ReadByte(c.PC)
	c.PC++

	in := decode(opcode)
	c.trace.Step(opcodePC, opcode, c.WS.SP(), c.RS.SP())

	var execErr error
	if in.base == 0 {
		brk, execErr = c.execImmediate(in)
	} else {
		execErr = c.execBase(in)
	}

	if execErr == nil {
		return brk, nil
	}

	if halt, ok := execErr.(*HaltError); ok {
		return false, halt
	}

	return false, &Fault{
		Err:    execErr,
		PC:     opcodePC,
		Opcode: opcode,
		WS:     append([]byte(nil), c.WS.Bytes()...),
		RS:     append([]byte(nil), c.RS.Bytes()...),
		Around: c.memoryAround(opcodePC),
	}
}

// memoryAround snapshots the 7 memory bytes centered 3 before pc, for
// fault diagnostics (spec.md §7).
func (c *CPU) memoryAround(pc uint16) [7]byte {
	var out [7]byte
	for i := range out {
		addr := int(pc) - 3 + i
		if addr < 0 {
			addr += int(memorySize)
		}
		out[i] = c.Mem.ReadByte(uint16(addr))
	}
	return out
}

// primary returns the primary and "other" stacks for this instruction: WS
// is primary unless moder selects RS (spec.md §4.4).
func (c *CPU) primary(moder bool) (prim, other *Stack) {
	if moder {
		return &c.RS, &c.WS
	}
	return &c.WS, &c.RS
}

func (f *Fault) String() string {
	return fmt.Sprintf("%s at pc=%#04x opcode=%#02x ws=%v rs=%v mem=% x",
		f.Err, f.PC, f.Opcode, f.WS, f.RS, f.Around)
}
