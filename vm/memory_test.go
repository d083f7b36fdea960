package vm

import "testing"

func TestMemoryRoundTripShort(t *testing.T) {
	var m Memory
	for _, addr := range []uint16{0x0000, 0x0100, 0x7FFF, 0xFFFE} {
		for _, v := range []uint16{0x0000, 0x00FF, 0xABCD, 0xFFFF} {
			m.WriteShort(addr, v)
			got := m.ReadShort(addr)
			assert(t, got == v, "poke16(%#04x,%#04x); peek16 got %#04x", addr, v, got)
		}
	}
}

func TestMemoryLoadROM(t *testing.T) {
	var m Memory
	prog := []byte{0x01, 0x02, 0x03}
	assert(t, m.LoadROM(prog) == nil, "load failed")
	assert(t, m.ReadByte(0x0100) == 0x01, "byte at rom base mismatch")
	assert(t, m.ReadByte(0x0102) == 0x03, "byte at rom base+2 mismatch")
}

func TestMemoryLoadROMTooLarge(t *testing.T) {
	var m Memory
	prog := make([]byte, int(romMaxLen)+1)
	err := m.LoadROM(prog)
	assert(t, err == ErrROMTooLarge, "want ErrROMTooLarge, got %v", err)
}
