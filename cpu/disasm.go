package cpu

import "fmt"

var rs = [...]string{"R0", "R1", "R2", "R3", "R4", "R5", "SP", "PC"}

var miscNames = [...]string{"HALT", "WAIT", "RTI", "BPT", "IOT", "RESET", "RTT", "MFPT"}

var eisNames = [...]string{"MUL", "DIV", "ASH", "ASHC", "XOR", "FIS", "CIS", "SOB"}

// disasmaddr formats one operand. Index modes show the displacement word
// fetched with the instruction.
func disasmaddr(m Mode, r uint16, disp uint16) string {
	reg := rs[r&7]
	switch m {
	case Register:
		return reg
	case RegisterDeferred:
		return "(" + reg + ")"
	case Autoincrement:
		return "(" + reg + ")+"
	case AutoincrementDeferred:
		return "*(" + reg + ")+"
	case Autodecrement:
		return "-(" + reg + ")"
	case AutodecrementDeferred:
		return "*-(" + reg + ")"
	case Index:
		return fmt.Sprintf("%06o(%s)", disp, reg)
	case IndexDeferred:
		return fmt.Sprintf("*%06o(%s)", disp, reg)
	}
	panic(fmt.Sprintf("disasmaddr: unknown addressing mode, register %v, mode %o", reg, m))
}

// Disasm produces disassembled symbols of a decoded instruction
func (c *CPU) Disasm(ins Instruction) string {
	if ins.op == nil {
		return fmt.Sprintf(".WORD %06o", ins.Word)
	}
	msg := ins.Name
	switch {
	case ins.Family == UnaryLow && ins.Selector == 0:
		if ins.Word < uint16(len(miscNames)) {
			return miscNames[ins.Word]
		}
		return fmt.Sprintf(".WORD %06o", ins.Word)
	case ins.Family == UnaryLow && ins.Selector == 2:
		switch (ins.Word >> 3) & 7 {
		case 0:
			return "RTS " + rs[ins.Word&7]
		case 3:
			return fmt.Sprintf("SPL %o", ins.Word&7)
		case 4, 5:
			return fmt.Sprintf("CCC %02o", ins.Word&017)
		case 6, 7:
			return fmt.Sprintf("SCC %02o", ins.Word&017)
		}
		return fmt.Sprintf(".WORD %06o", ins.Word)
	case ins.Family == Binary && ins.Selector == 007:
		msg = eisNames[(ins.Word>>9)&7]
		if msg == "SOB" {
			return fmt.Sprintf("SOB %s, -%#o", rs[(ins.Word>>6)&7], 2*(ins.Word&077))
		}
	}

	o := byte(ins.Word & 0377)
	switch ins.op.flag {
	case flagS | flagD:
		msg += " " + disasmaddr(ins.SrcMode, ins.SrcReg, ins.Displacement) + ","
		fallthrough
	case flagD:
		msg += " " + disasmaddr(ins.DstMode, ins.DstReg, ins.Displacement)
	case flagO:
		if o&0x80 == 0x80 {
			msg += fmt.Sprintf(" -%#o", (2 * ((0xFF ^ uint16(o)) + 1)))
		} else {
			msg += fmt.Sprintf(" +%#o", (2 * uint16(o)))
		}
	case flagR | flagD:
		msg += " " + rs[(ins.Word&0700)>>6] + ", " + disasmaddr(ins.DstMode, ins.DstReg, ins.Displacement)
	case flagR:
		msg += " " + rs[ins.Word&7]
	case flagNone:
		msg += fmt.Sprintf(" %03o", o)
	}
	return msg
}

// DisasmAt decodes and disassembles the instruction at addr.
// addr is a physical offset, there is no wraparound at 0177776.
func (c *CPU) DisasmAt(addr uint32) (string, error) {
	word, err := c.ReadWordAt(addr)
	if err != nil {
		return "", err
	}
	// reserved words come back without an opcode and print as .WORD
	ins, _ := Decode(word)
	ins.Address = uint16(addr)
	ins.Displacement, ins.hasDisplacement = c.memory.peekWord(addr + 2)
	return c.Disasm(ins), nil
}
