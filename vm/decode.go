package vm

// instruction is the decoded form of one opcode byte: the 5-bit base
// selecting which operation runs, and the three orthogonal mode bits that
// parametrize it.
type instruction struct {
	base  byte
	mode2 bool // short mode: operands are 16-bit
	moder bool // return mode: RS is primary instead of WS
	modek bool // keep mode: operands are peeked, not popped
}

// decode splits an opcode byte into base and mode bits, per spec.md §4.3.
func decode(b byte) instruction {
	return instruction{
		base:  b & 0x1F,
		mode2: b>>5&1 != 0,
		moder: b>>6&1 != 0,
		modek: b>>7&1 != 0,
	}
}

// immediateKind distinguishes the five base==0 encodings.
type immediateKind int

const (
	immBRK immediateKind = iota
	immJCI
	immJMI
	immJSI
	immLIT
)

// classify resolves which of the base==0 immediate instructions this
// instruction is, per the mode-bit table in spec.md §4.3. Keep mode is
// the selector for LIT regardless of the other two bits.
func (in instruction) classify() immediateKind {
	if in.modek {
		return immLIT
	}
	switch {
	case !in.mode2 && !in.moder:
		return immBRK
	case in.mode2 && !in.moder:
		return immJCI
	case !in.mode2 && in.moder:
		return immJMI
	default: // mode2 && moder
		return immJSI
	}
}
