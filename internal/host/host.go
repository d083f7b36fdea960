// Package host implements the reference System and Console device
// semantics on top of the uxn CPU core: the part of the machine spec.md
// calls the host adapter rather than the CPU kernel.
package host

import (
	"fmt"
	"io"

	"github.com/kestrel-systems/uxnvm/vm"
)

// Device page port layout, relative to the full 256-byte page.
const (
	portSystemState = 0x0F
	portSystemExpLo = 0x02
	portSystemExpHi = 0x03

	portConsoleVecHi = 0x10
	portConsoleVecLo = 0x11
	portConsoleRead  = 0x12
	portConsoleType  = 0x17
	portConsoleWrite = 0x18
)

// Console type byte states, written to portConsoleType before invoking the
// Console vector, per spec.md §6.
const (
	ConsoleNoQueue  byte = 0
	ConsoleStdin    byte = 1
	ConsoleArg      byte = 2
	ConsoleArgSpace byte = 3
	ConsoleArgEnd   byte = 4
)

// Adapter implements vm.Host: System device halt semantics and Console
// device stdout/stdin/argv plumbing. One Adapter is built per CPU and
// attached with (*vm.CPU).SetHost.
type Adapter struct {
	cpu *vm.CPU
	out io.Writer
}

// New builds an Adapter writing Console output to out (os.Stdout in the
// CLI launcher, a bytes.Buffer in tests).
func New(cpu *vm.CPU, out io.Writer) *Adapter {
	a := &Adapter{cpu: cpu, out: out}
	cpu.SetHost(a)
	return a
}

// DeviceWrite dispatches a device-page write to the device that owns its
// port, per spec.md §4.6. Only the System (0x00-0x0F) and Console
// (0x10-0x1F) devices are installed; a write landing on any other device
// is fatal, per the "unknown device" entry in spec.md §7's taxonomy.
func (a *Adapter) DeviceWrite(port byte, value byte) error {
	switch port >> 4 {
	case 0x0:
		return a.systemWrite(port, value)
	case 0x1:
		return a.consoleWrite(port, value)
	default:
		return fmt.Errorf("device %#x, port %#02x: %w", port>>4, port, vm.ErrUnknownDevice)
	}
}

// systemWrite implements the System device. Port 0x0F halts with a 7-bit
// exit code on any nonzero value; 0x02/0x03 (the expansion pointer) are
// stored but inert, per SPEC_FULL.md §4.6.
func (a *Adapter) systemWrite(port, value byte) error {
	switch port {
	case portSystemState:
		if value != 0 {
			return &vm.HaltError{Code: value & 0x7F}
		}
		return nil
	case portSystemExpLo, portSystemExpHi:
		return nil
	default:
		return nil
	}
}

// consoleWrite implements the Console device's one side-effecting port:
// 0x18 emits a byte to stdout. The vector address (0x10-0x11), read
// buffer (0x12), and type byte (0x17) are host-to-CPU delivery ports —
// the host writes them via PokeDevice, never the other way round — so a
// CPU-originated write there is stored with no side effect.
func (a *Adapter) consoleWrite(port, value byte) error {
	if port != portConsoleWrite {
		return nil
	}
	_, err := a.out.Write([]byte{value})
	return err
}

// ConsoleVector returns the Console device's vector address, read back
// from the device page after the ROM (or a prior vector) has set it.
func (a *Adapter) ConsoleVector() uint16 {
	return a.cpu.Devices.ReadShort(portConsoleVecHi)
}

// SetArgc pokes argc into the Console type port. Must be called before
// the first reset-vector run, per spec.md §6.
func (a *Adapter) SetArgc(n int) {
	a.cpu.PokeDevice(portConsoleType, byte(n))
}

// DeliverArgs streams each argument's bytes into the Console device after
// SetArgc and the reset vector have already run, invoking the Console
// vector between writes, per the argument delivery protocol in
// SPEC_FULL.md §4.6. If the ROM never set a Console vector, the ports are
// still written but no vector runs.
func (a *Adapter) DeliverArgs(args []string) error {
	for i, arg := range args {
		for j := 0; j < len(arg); j++ {
			a.cpu.PokeDevice(portConsoleRead, arg[j])
			a.cpu.PokeDevice(portConsoleType, ConsoleArg)
			if err := a.runConsoleVector(); err != nil {
				return err
			}
		}
		kind := ConsoleArgSpace
		if i == len(args)-1 {
			kind = ConsoleArgEnd
		}
		a.cpu.PokeDevice(portConsoleType, kind)
		if err := a.runConsoleVector(); err != nil {
			return err
		}
	}
	return nil
}

// DeliverStdin feeds a single byte read from stdin to the Console device
// and runs its vector. Used by the terminal reader (terminal.go) once per
// keystroke.
func (a *Adapter) DeliverStdin(b byte) error {
	a.cpu.PokeDevice(portConsoleRead, b)
	a.cpu.PokeDevice(portConsoleType, ConsoleStdin)
	return a.runConsoleVector()
}

func (a *Adapter) runConsoleVector() error {
	addr := a.ConsoleVector()
	if addr == 0 {
		return nil
	}
	return a.cpu.RunVector(addr)
}
