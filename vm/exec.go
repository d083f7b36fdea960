package vm

// Base opcode numbers, per spec.md §4.4.
const (
	opINC byte = 0x01
	opPOP byte = 0x02
	opNIP byte = 0x03
	opSWP byte = 0x04
	opROT byte = 0x05
	opDUP byte = 0x06
	opOVR byte = 0x07
	opEQU byte = 0x08
	opNEQ byte = 0x09
	opGTH byte = 0x0A
	opLTH byte = 0x0B
	opJMP byte = 0x0C
	opJCN byte = 0x0D
	opJSR byte = 0x0E
	opSTH byte = 0x0F
	opLDZ byte = 0x10
	opSTZ byte = 0x11
	opLDR byte = 0x12
	opSTR byte = 0x13
	opLDA byte = 0x14
	opSTA byte = 0x15
	opDEI byte = 0x16
	opDEO byte = 0x17
	opADD byte = 0x18
	opSUB byte = 0x19
	opMUL byte = 0x1A
	opDIV byte = 0x1B
	opAND byte = 0x1C
	opORA byte = 0x1D
	opEOR byte = 0x1E
	opSFT byte = 0x1F
)

func mask(v uint16, mode2 bool) uint16 {
	if mode2 {
		return v
	}
	return v & 0xFF
}

// execImmediate runs one of the base==0 instructions: BRK, JCI, JMI, JSI,
// or LIT, per the mode-bit table in spec.md §4.3. It returns brk=true only
// for BRK, which ends the current vector.
func (c *CPU) execImmediate(in instruction) (brk bool, err error) {
	switch in.classify() {
	case immBRK:
		return true, nil

	case immLIT:
		prim, _ := c.primary(in.moder)
		if in.mode2 {
			v := c.Mem.ReadShort(c.PC)
			c.PC += 2
			return false, prim.PushShort(v)
		}
		v := c.Mem.ReadByte(c.PC)
		c.PC++
		return false, prim.PushByte(v)

	case immJCI:
		cond, err := newStackView(&c.WS, false, c.lenientUnderflow).popByte()
		if err != nil {
			return false, err
		}
		offset := int16(c.Mem.ReadShort(c.PC))
		c.PC += 2
		if cond != 0 {
			c.PC = uint16(int32(c.PC) + int32(offset))
		}
		return false, nil

	case immJMI:
		offset := int16(c.Mem.ReadShort(c.PC))
		c.PC += 2
		c.PC = uint16(int32(c.PC) + int32(offset))
		return false, nil

	case immJSI:
		if err := c.RS.PushShort(c.PC + 2); err != nil {
			return false, err
		}
		offset := int16(c.Mem.ReadShort(c.PC))
		c.PC += 2
		c.PC = uint16(int32(c.PC) + int32(offset))
		return false, nil
	}

	return false, ErrUnknownOpcode
}

// execBase runs one of the 31 non-immediate base opcodes, parametrized by
// the three mode bits exactly as spec.md §4.4 describes.
func (c *CPU) execBase(in instruction) error {
	prim, other := c.primary(in.moder)
	v := newStackView(prim, in.modek, c.lenientUnderflow)

	switch in.base {
	case opINC:
		t, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		return v.pushValue(mask(t+1, in.mode2), in.mode2)

	case opPOP:
		_, err := v.popValue(in.mode2)
		return err

	case opNIP:
		t, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		if _, err := v.popValue(in.mode2); err != nil {
			return err
		}
		return v.pushValue(t, in.mode2)

	case opSWP:
		t, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		n, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		if err := v.pushValue(t, in.mode2); err != nil {
			return err
		}
		return v.pushValue(n, in.mode2)

	case opROT:
		t, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		n, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		l, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		if err := v.pushValue(n, in.mode2); err != nil {
			return err
		}
		if err := v.pushValue(t, in.mode2); err != nil {
			return err
		}
		return v.pushValue(l, in.mode2)

	case opDUP:
		t, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		if err := v.pushValue(t, in.mode2); err != nil {
			return err
		}
		return v.pushValue(t, in.mode2)

	case opOVR:
		t, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		n, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		if err := v.pushValue(n, in.mode2); err != nil {
			return err
		}
		if err := v.pushValue(t, in.mode2); err != nil {
			return err
		}
		return v.pushValue(n, in.mode2)

	case opEQU, opNEQ, opGTH, opLTH:
		t, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		n, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		var result bool
		switch in.base {
		case opEQU:
			result = n == t
		case opNEQ:
			result = n != t
		case opGTH:
			result = n > t
		case opLTH:
			result = n < t
		}
		return v.pushByte(boolByte(result))

	case opJMP:
		addr, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		c.PC = c.jumpTarget(in.mode2, addr)
		return nil

	case opJCN:
		addr, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		cond, err := v.popByte()
		if err != nil {
			return err
		}
		if cond != 0 {
			c.PC = c.jumpTarget(in.mode2, addr)
		}
		return nil

	case opJSR:
		addr, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		if err := other.PushShort(c.PC); err != nil {
			return err
		}
		c.PC = c.jumpTarget(in.mode2, addr)
		return nil

	case opSTH:
		t, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		if in.mode2 {
			return other.PushShort(t)
		}
		return other.PushByte(byte(t))

	case opLDZ:
		addr, err := v.popByte()
		if err != nil {
			return err
		}
		if in.mode2 {
			return v.pushShort(c.Mem.ReadShort(uint16(addr)))
		}
		return v.pushByte(c.Mem.ReadByte(uint16(addr)))

	case opSTZ:
		addr, err := v.popByte()
		if err != nil {
			return err
		}
		val, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		if in.mode2 {
			c.Mem.WriteShort(uint16(addr), val)
		} else {
			c.Mem.WriteByte(uint16(addr), byte(val))
		}
		return nil

	case opLDR:
		off, err := v.popByte()
		if err != nil {
			return err
		}
		addr := uint16(int32(c.PC) + int32(int8(off)))
		if in.mode2 {
			return v.pushShort(c.Mem.ReadShort(addr))
		}
		return v.pushByte(c.Mem.ReadByte(addr))

	case opSTR:
		off, err := v.popByte()
		if err != nil {
			return err
		}
		val, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		addr := uint16(int32(c.PC) + int32(int8(off)))
		if in.mode2 {
			c.Mem.WriteShort(addr, val)
		} else {
			c.Mem.WriteByte(addr, byte(val))
		}
		return nil

	case opLDA:
		addr, err := v.popShort()
		if err != nil {
			return err
		}
		if in.mode2 {
			return v.pushShort(c.Mem.ReadShort(addr))
		}
		return v.pushByte(c.Mem.ReadByte(addr))

	case opSTA:
		addr, err := v.popShort()
		if err != nil {
			return err
		}
		val, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		if in.mode2 {
			c.Mem.WriteShort(addr, val)
		} else {
			c.Mem.WriteByte(addr, byte(val))
		}
		return nil

	case opDEI:
		port, err := v.popByte()
		if err != nil {
			return err
		}
		if in.mode2 {
			return v.pushShort(c.Devices.ReadShort(port))
		}
		return v.pushByte(c.Devices.ReadByte(port))

	case opDEO:
		port, err := v.popByte()
		if err != nil {
			return err
		}
		val, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		if in.mode2 {
			return c.Devices.WriteShort(port, val)
		}
		return c.Devices.WriteByte(port, byte(val))

	case opADD, opSUB, opMUL, opDIV, opAND, opORA, opEOR:
		t, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		n, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		var result uint16
		switch in.base {
		case opADD:
			result = n + t
		case opSUB:
			result = n - t
		case opMUL:
			result = n * t
		case opDIV:
			if t == 0 {
				result = 0
			} else {
				result = n / t
			}
		case opAND:
			result = n & t
		case opORA:
			result = n | t
		case opEOR:
			result = n ^ t
		}
		return v.pushValue(mask(result, in.mode2), in.mode2)

	case opSFT:
		shift, err := v.popByte()
		if err != nil {
			return err
		}
		value, err := v.popValue(in.mode2)
		if err != nil {
			return err
		}
		result := (value >> (shift & 0x0F)) << ((shift >> 4) & 0x0F)
		return v.pushValue(mask(result, in.mode2), in.mode2)
	}

	return ErrUnknownOpcode
}

// jumpTarget resolves a JMP/JCN/JSR address operand: absolute if mode2,
// else a PC-relative signed byte offset added to the current PC (which
// has already been advanced past the opcode and past this instruction's
// operand pops — spec.md §4.4/§9 resolve the byte-mode base to "PC is
// advanced past the opcode first, then adjusted by the signed byte").
func (c *CPU) jumpTarget(mode2 bool, addr uint16) uint16 {
	if mode2 {
		return addr
	}
	return uint16(int32(c.PC) + int32(int8(byte(addr))))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// popValue and pushValue read/write a mode2-sized operand (byte or short)
// through a stackView, applying the keep-mode peek policy uniformly.
func (v *stackView) popValue(mode2 bool) (uint16, error) {
	if mode2 {
		return v.popShort()
	}
	b, err := v.popByte()
	return uint16(b), err
}

func (v *stackView) pushValue(x uint16, mode2 bool) error {
	if mode2 {
		return v.pushShort(x)
	}
	return v.pushByte(byte(x))
}
