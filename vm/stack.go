package vm

// stackCapacity is the fixed size of both the working and return stacks.
const stackCapacity = 256

// Stack is a fixed 256-byte LIFO. Both the working stack and the return
// stack are instances of this type; which one is "primary" for a given
// instruction is selected by the moder mode bit, not by type.
type Stack struct {
	data [stackCapacity]byte
	sp   int
}

// SP returns the live pointer: the number of bytes currently in use.
func (s *Stack) SP() int { return s.sp }

// SetSP overwrites the live pointer directly.
func (s *Stack) SetSP(sp int) { s.sp = sp }

func (s *Stack) PushByte(v byte) error {
	if s.sp >= stackCapacity {
		return ErrStackOverflow
	}
	s.data[s.sp] = v
	s.sp++
	return nil
}

func (s *Stack) PopByte() (byte, error) {
	if s.sp <= 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.data[s.sp], nil
}

// PeekByte reads the byte `offset` positions below the top without moving
// sp. offset 0 is the top-most byte.
func (s *Stack) PeekByte(offset int) (byte, error) {
	idx := s.sp - 1 - offset
	if idx < 0 {
		return 0, ErrStackUnderflow
	}
	return s.data[idx], nil
}

// PushShort pushes a 16-bit value high byte first, so that the low byte
// ends up on top.
func (s *Stack) PushShort(v uint16) error {
	if err := s.PushByte(byte(v >> 8)); err != nil {
		return err
	}
	return s.PushByte(byte(v))
}

// PopShort reads [sp-2, sp-1] big-endian (high below low) and retracts sp
// by 2.
func (s *Stack) PopShort() (uint16, error) {
	lo, err := s.PopByte()
	if err != nil {
		return 0, err
	}
	hi, err := s.PopByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// PeekShort reads the 16-bit value `offset` shorts below the top without
// moving sp.
func (s *Stack) PeekShort(offset int) (uint16, error) {
	lo, err := s.PeekByte(offset * 2)
	if err != nil {
		return 0, err
	}
	hi, err := s.PeekByte(offset*2 + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// Drop discards n bytes from the top of the stack without reading them.
func (s *Stack) Drop(n int) error {
	if s.sp < n {
		return ErrStackUnderflow
	}
	s.sp -= n
	return nil
}

// Bytes returns the live portion of the stack, bottom first, for
// diagnostics. The returned slice aliases internal storage and must not
// be retained.
func (s *Stack) Bytes() []byte {
	return s.data[:s.sp]
}

// stackView wraps a Stack with the keep-mode read policy: when keep is
// true, popByte/popShort behave like peeks — reads walk a private cursor
// and leave sp alone, so that writes still land on top of the preserved
// operands. This mirrors
// the teacher's separation of "get the value" from "mutate sp" (peekStack
// vs popStack in vm.go), generalized into one type instead of duplicating
// every opcode handler for the keep-mode variant.
type stackView struct {
	s    *Stack
	keep bool
	// lenient substitutes a zero byte for an underflowing pop instead of
	// faulting, per the WithLenientUnderflow option.
	lenient bool
	// cursor is the read position for keep-mode peeks: it starts at the
	// live sp and walks downward with each operand read, but — unlike a
	// real pop — never touches s.sp. Because reads never move sp, writes
	// issued afterward via pushByte/pushShort land on top of the
	// untouched operands automatically; no restore step is needed.
	cursor      int
	cursorValid bool
}

func newStackView(s *Stack, keep, lenient bool) *stackView {
	return &stackView{s: s, keep: keep, lenient: lenient}
}

func (v *stackView) popByte() (byte, error) {
	if !v.keep {
		b, err := v.s.PopByte()
		if err == ErrStackUnderflow && v.lenient {
			return 0, nil
		}
		return b, err
	}
	if !v.cursorValid {
		v.cursor = v.s.SP()
		v.cursorValid = true
	}
	if v.cursor <= 0 {
		if v.lenient {
			return 0, nil
		}
		return 0, ErrStackUnderflow
	}
	v.cursor--
	return v.s.data[v.cursor], nil
}

func (v *stackView) popShort() (uint16, error) {
	lo, err := v.popByte()
	if err != nil {
		return 0, err
	}
	hi, err := v.popByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func (v *stackView) pushByte(b byte) error {
	return v.s.PushByte(b)
}

func (v *stackView) pushShort(x uint16) error {
	return v.s.PushShort(x)
}
