package host

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/kestrel-systems/uxnvm/vm"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func TestAdapterConsoleWritesToOut(t *testing.T) {
	cpu := vm.New()
	var out bytes.Buffer
	New(cpu, &out)

	assert(t, cpu.LoadROM([]byte{0x80, 'Z', 0x80, 0x18, 0x17, 0x00}) == nil, "load failed")
	assert(t, cpu.RunVector(vm.ResetVector) == nil, "unexpected error")
	assert(t, out.String() == "Z", "got %q, want %q", out.String(), "Z")
}

func TestAdapterSystemHalt(t *testing.T) {
	cpu := vm.New()
	var out bytes.Buffer
	New(cpu, &out)

	assert(t, cpu.LoadROM([]byte{0x80, 0x2A, 0x80, 0x0F, 0x17, 0x00}) == nil, "load failed")
	err := cpu.RunVector(vm.ResetVector)
	var halt *vm.HaltError
	assert(t, errors.As(err, &halt), "expected a *vm.HaltError, got %v", err)
	assert(t, halt.Code == 0x2A, "got code %#x, want 0x2a", halt.Code)
}

func TestAdapterUnknownDeviceIsFatal(t *testing.T) {
	cpu := vm.New()
	var out bytes.Buffer
	New(cpu, &out)

	// write to device 0x2 (port 0x20), which this host never installs.
	assert(t, cpu.LoadROM([]byte{0x80, 0x01, 0x80, 0x20, 0x17, 0x00}) == nil, "load failed")
	err := cpu.RunVector(vm.ResetVector)
	assert(t, errors.Is(err, vm.ErrUnknownDevice), "want ErrUnknownDevice, got %v", err)
}

func TestAdapterExpansionPointerIsStoredButInert(t *testing.T) {
	cpu := vm.New()
	var out bytes.Buffer
	New(cpu, &out)

	assert(t, cpu.LoadROM([]byte{0x80, 0x12, 0x80, 0x02, 0x17, 0x00}) == nil, "load failed")
	assert(t, cpu.RunVector(vm.ResetVector) == nil, "unexpected error")
	assert(t, cpu.Devices.ReadByte(0x02) == 0x12, "expansion pointer byte should be stored")
}
