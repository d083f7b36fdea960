package vm

import (
	"fmt"
	"io"
)

var baseNames = map[byte]string{
	0x00: "BRK",
	opINC: "INC",
	opPOP: "POP",
	opNIP: "NIP",
	opSWP: "SWP",
	opROT: "ROT",
	opDUP: "DUP",
	opOVR: "OVR",
	opEQU: "EQU",
	opNEQ: "NEQ",
	opGTH: "GTH",
	opLTH: "LTH",
	opJMP: "JMP",
	opJCN: "JCN",
	opJSR: "JSR",
	opSTH: "STH",
	opLDZ: "LDZ",
	opSTZ: "STZ",
	opLDR: "LDR",
	opSTR: "STR",
	opLDA: "LDA",
	opSTA: "STA",
	opDEI: "DEI",
	opDEO: "DEO",
	opADD: "ADD",
	opSUB: "SUB",
	opMUL: "MUL",
	opDIV: "DIV",
	opAND: "AND",
	opORA: "ORA",
	opEOR: "EOR",
	opSFT: "SFT",
}

// Disassemble writes a best-effort, one-opcode-per-line listing of rom to
// w: address, raw byte, and mnemonic with mode suffixes (2/r/k in that
// order, matching Uxn assembly convention). It does not attempt to follow
// control flow or distinguish code from data — every byte is treated as
// an opcode, so LIT operand bytes will be misdisassembled as opcodes.
// Diagnostic only, per spec.md §1's Non-goals.
func Disassemble(w io.Writer, rom []byte) error {
	for i, b := range rom {
		addr := uint16(romBase) + uint16(i)
		in := decode(b)

		var name string
		if in.base == 0 {
			switch in.classify() {
			case immLIT:
				name = "LIT"
			case immJCI:
				name = "JCI"
			case immJMI:
				name = "JMI"
			case immJSI:
				name = "JSI"
			default:
				name = "BRK"
			}
		} else {
			var ok bool
			name, ok = baseNames[in.base]
			if !ok {
				name = "???"
			}
		}

		suffix := ""
		if in.mode2 {
			suffix += "2"
		}
		if in.moder {
			suffix += "r"
		}
		if in.modek {
			suffix += "k"
		}

		if _, err := fmt.Fprintf(w, "%#04x  %02x  %s%s\n", addr, b, name, suffix); err != nil {
			return err
		}
	}
	return nil
}
