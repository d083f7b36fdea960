package vm

import "testing"

func TestExecNip(t *testing.T) {
	c := New()
	c.WS.PushByte(0x11)
	c.WS.PushByte(0x22)
	assert(t, c.execBase(decode(opNIP)) == nil, "NIP failed")
	assert(t, c.WS.SP() == 1, "want sp=1, got %d", c.WS.SP())
	top, _ := c.WS.PeekByte(0)
	assert(t, top == 0x22, "NIP should discard the second item, keep top")
}

func TestExecSwp(t *testing.T) {
	c := New()
	c.WS.PushByte(0xAA)
	c.WS.PushByte(0xBB)
	assert(t, c.execBase(decode(opSWP)) == nil, "SWP failed")
	top, _ := c.WS.PeekByte(0)
	next, _ := c.WS.PeekByte(1)
	assert(t, top == 0xAA && next == 0xBB, "got top=%#x next=%#x, want AA/BB", top, next)
}

func TestExecOvr(t *testing.T) {
	c := New()
	c.WS.PushByte(0x01)
	c.WS.PushByte(0x02)
	assert(t, c.execBase(decode(opOVR)) == nil, "OVR failed")
	assert(t, c.WS.SP() == 3, "want sp=3, got %d", c.WS.SP())
	top, _ := c.WS.PeekByte(0)
	mid, _ := c.WS.PeekByte(1)
	bot, _ := c.WS.PeekByte(2)
	assert(t, top == 0x01 && mid == 0x02 && bot == 0x01,
		"got top-down %#x %#x %#x, want 01 02 01", top, mid, bot)
}

func TestExecGthLth(t *testing.T) {
	cases := []struct{ n, t, gth, lth byte }{
		{5, 3, 1, 0},
		{3, 5, 0, 1},
		{3, 3, 0, 0},
	}
	for _, cs := range cases {
		c := New()
		c.WS.PushByte(cs.n)
		c.WS.PushByte(cs.t)
		assert(t, c.execBase(decode(opGTH)) == nil, "GTH failed")
		got, _ := c.WS.PopByte()
		assert(t, got == cs.gth, "GTH(%d,%d) got %d want %d", cs.n, cs.t, got, cs.gth)

		c2 := New()
		c2.WS.PushByte(cs.n)
		c2.WS.PushByte(cs.t)
		assert(t, c2.execBase(decode(opLTH)) == nil, "LTH failed")
		got2, _ := c2.WS.PopByte()
		assert(t, got2 == cs.lth, "LTH(%d,%d) got %d want %d", cs.n, cs.t, got2, cs.lth)
	}
}

func TestExecJcnTakenAndNotTaken(t *testing.T) {
	c := New()
	c.PC = 0x0200
	c.WS.PushByte(1)    // cond: nonzero, branch taken
	c.WS.PushByte(0xFF) // address operand (top): byte-mode relative offset -1
	assert(t, c.execBase(decode(opJCN)) == nil, "JCN failed")
	assert(t, c.PC == 0x01FF, "branch taken: got pc=%#04x, want 0x01ff", c.PC)

	c2 := New()
	c2.PC = 0x0200
	c2.WS.PushByte(0) // cond zero: not taken
	c2.WS.PushByte(0xFF)
	assert(t, c2.execBase(decode(opJCN)) == nil, "JCN failed")
	assert(t, c2.PC == 0x0200, "branch not taken: pc should be unchanged, got %#04x", c2.PC)
}

func TestExecSthMovesAcrossStacks(t *testing.T) {
	c := New()
	c.WS.PushByte(0x42)
	assert(t, c.execBase(decode(opSTH)) == nil, "STH failed")
	assert(t, c.WS.SP() == 0, "WS should be empty after STH")
	assert(t, c.RS.SP() == 1, "RS should have received the byte")
	v, _ := c.RS.PopByte()
	assert(t, v == 0x42, "got %#x, want 0x42", v)
}

func TestExecSthReturnModeUsesWSAsOther(t *testing.T) {
	c := New()
	c.RS.PushByte(0x99)
	in := decode(0x4F) // base 0x0F (STH) with moder set
	assert(t, c.execBase(in) == nil, "STHr failed")
	assert(t, c.RS.SP() == 0, "RS (primary) should be empty")
	assert(t, c.WS.SP() == 1, "WS (other) should have received the byte")
}

func TestExecLdzStz(t *testing.T) {
	c := New()
	c.Mem.WriteByte(0x0050, 0x77)
	c.WS.PushByte(0x50)
	assert(t, c.execBase(decode(opLDZ)) == nil, "LDZ failed")
	v, _ := c.WS.PopByte()
	assert(t, v == 0x77, "got %#x, want 0x77", v)

	c.WS.PushByte(0x99)
	c.WS.PushByte(0x60)
	assert(t, c.execBase(decode(opSTZ)) == nil, "STZ failed")
	assert(t, c.Mem.ReadByte(0x0060) == 0x99, "STZ did not write expected byte")
}

func TestExecLdrStrRelative(t *testing.T) {
	c := New()
	c.PC = 0x0300
	c.Mem.WriteByte(0x0305, 0x55)
	c.WS.PushByte(0x05) // +5
	assert(t, c.execBase(decode(opLDR)) == nil, "LDR failed")
	v, _ := c.WS.PopByte()
	assert(t, v == 0x55, "got %#x, want 0x55", v)
}

func TestExecSft(t *testing.T) {
	c := New()
	c.WS.PushByte(0x01) // value
	c.WS.PushByte(0x10) // shift byte: high nibble=left 1, low nibble=right 0
	assert(t, c.execBase(decode(opSFT)) == nil, "SFT failed")
	v, _ := c.WS.PopByte()
	assert(t, v == 0x02, "got %#x, want 0x02", v)
}

func TestExecAddShortModeWrap(t *testing.T) {
	c := New()
	c.WS.PushShort(0xFFFF)
	c.WS.PushShort(0x0001)
	in := decode(0x38) // ADD2
	assert(t, c.execBase(in) == nil, "ADD2 failed")
	v, _ := c.WS.PopShort()
	assert(t, v == 0x0000, "short-mode add should wrap to 0x0000, got %#x", v)
}

func TestExecAddByteModeWrap(t *testing.T) {
	c := New()
	c.WS.PushByte(0xFF)
	c.WS.PushByte(0x01)
	assert(t, c.execBase(decode(opADD)) == nil, "ADD failed")
	v, _ := c.WS.PopByte()
	assert(t, v == 0x00, "byte-mode add should wrap to 0x00, got %#x", v)
}
