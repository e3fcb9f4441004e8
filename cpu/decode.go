package cpu

import (
	"fmt"

	"micro11/interrupts"
)

// Family of an instruction word, chosen by its top four bits
type Family int

// instruction families
const (
	// UnaryLow - 0000 top bits, opcode in bits 11-6, destination in 5-0
	UnaryLow Family = iota
	// UnaryHigh - 1000 top bits, same layout, byte operations and branches
	UnaryHigh
	// Binary - any other top bits select the operation, source in 11-6
	Binary
)

func (f Family) String() string {
	switch f {
	case UnaryLow:
		return "unary-low"
	case UnaryHigh:
		return "unary-high"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// operand layout flags, used by the disassembler
const (
	flagD    = 1 << 0 // destination mode/register
	flagS    = 1 << 1 // source mode/register
	flagO    = 1 << 2 // 8 bit branch offset
	flagR    = 1 << 3 // register in bits 8-6
	flagNone = 1 << 4 // 8 bit trap code
)

// opcode is one entry of a family table.
// exec is nil for instructions that are known but not implemented.
type opcode struct {
	name  string
	width Width
	flag  uint
	exec  func(*CPU, Instruction, Width)
}

// Instruction is a decoded instruction word
type Instruction struct {
	Word     uint16
	Family   Family
	Selector uint16

	SrcMode Mode
	SrcReg  uint16
	DstMode Mode
	DstReg  uint16

	// Address the instruction was fetched from
	Address uint16

	// Displacement is the word following the opcode. It is always fetched
	// and the PC is never advanced past it.
	Displacement    uint16
	hasDisplacement bool

	Name string
	op   *opcode
}

// Implemented reports whether the instruction has semantics
func (ins Instruction) Implemented() bool {
	return ins.op != nil && ins.op.exec != nil
}

// Width returns the operand width of the instruction
func (ins Instruction) Width() Width {
	if ins.op == nil || ins.op.width == 0 {
		return Word
	}
	return ins.op.width
}

func (ins Instruction) source() operand {
	return ins.operand(ins.SrcMode, ins.SrcReg)
}

func (ins Instruction) destination() operand {
	return ins.operand(ins.DstMode, ins.DstReg)
}

func (ins Instruction) operand(mode Mode, reg uint16) operand {
	if mode.indexed() && !ins.hasDisplacement {
		panic(interrupts.Bus(uint32(ins.Address)+2, "displacement fetch"))
	}
	return operand{mode: mode, reg: reg, disp: ins.Displacement}
}

var unaryLowOpcodes = map[uint16]*opcode{
	000: {name: "HALT"},
	001: {name: "JMP", flag: flagD},
	002: {name: "RTS", flag: flagR},
	003: {name: "SWAB", flag: flagD},
	050: {name: "CLR", width: Word, flag: flagD, exec: (*CPU).clrOp},
	051: {name: "COM", width: Word, flag: flagD, exec: (*CPU).comOp},
	052: {name: "INC", width: Word, flag: flagD, exec: (*CPU).incOp},
	053: {name: "DEC", width: Word, flag: flagD, exec: (*CPU).decOp},
	054: {name: "NEG", width: Word, flag: flagD, exec: (*CPU).negOp},
	055: {name: "ADC", flag: flagD},
	056: {name: "SBC", flag: flagD},
	057: {name: "TST", width: Word, flag: flagD, exec: (*CPU).tstOp},
	060: {name: "ROR", flag: flagD},
	061: {name: "ROL", flag: flagD},
	062: {name: "ASR", flag: flagD},
	063: {name: "ASL", flag: flagD},
	064: {name: "MARK"},
	065: {name: "MFPI", flag: flagD},
	066: {name: "MTPI", flag: flagD},
	067: {name: "SXT", flag: flagD},
}

var unaryHighOpcodes = map[uint16]*opcode{
	050: {name: "CLRB", width: Byte, flag: flagD, exec: (*CPU).clrOp},
	051: {name: "COMB", width: Byte, flag: flagD, exec: (*CPU).comOp},
	052: {name: "INCB", width: Byte, flag: flagD, exec: (*CPU).incOp},
	053: {name: "DECB", width: Byte, flag: flagD, exec: (*CPU).decOp},
	054: {name: "NEGB", width: Byte, flag: flagD, exec: (*CPU).negOp},
	055: {name: "ADCB", flag: flagD},
	056: {name: "SBCB", flag: flagD},
	057: {name: "TSTB", width: Byte, flag: flagD, exec: (*CPU).tstOp},
	060: {name: "RORB", flag: flagD},
	061: {name: "ROLB", flag: flagD},
	062: {name: "ASRB", flag: flagD},
	063: {name: "ASLB", flag: flagD},
	064: {name: "MTPS", flag: flagD},
	065: {name: "MFPD", flag: flagD},
	066: {name: "MTPD", flag: flagD},
	067: {name: "MFPS", flag: flagD},
}

var binaryOpcodes = map[uint16]*opcode{
	001: {name: "MOV", width: Word, flag: flagS | flagD, exec: (*CPU).movOp},
	002: {name: "CMP", width: Word, flag: flagS | flagD, exec: (*CPU).cmpOp},
	003: {name: "BIT", width: Word, flag: flagS | flagD, exec: (*CPU).bitOp},
	004: {name: "BIC", width: Word, flag: flagS | flagD, exec: (*CPU).bicOp},
	005: {name: "BIS", width: Word, flag: flagS | flagD, exec: (*CPU).bisOp},
	006: {name: "ADD", width: Word, flag: flagS | flagD, exec: (*CPU).addOp},
	007: {name: "EIS", flag: flagR | flagD},
	011: {name: "MOVB", width: Byte, flag: flagS | flagD, exec: (*CPU).movOp},
	012: {name: "CMPB", width: Byte, flag: flagS | flagD, exec: (*CPU).cmpOp},
	013: {name: "BITB", width: Byte, flag: flagS | flagD, exec: (*CPU).bitOp},
	014: {name: "BICB", width: Byte, flag: flagS | flagD, exec: (*CPU).bicOp},
	015: {name: "BISB", width: Byte, flag: flagS | flagD, exec: (*CPU).bisOp},
	016: {name: "SUB", width: Word, flag: flagS | flagD, exec: (*CPU).subOp},
	017: {name: "FP"},
}

// span registers name for a run of selectors, branches and traps keep
// their offset or code in the low selector bits
func span(table map[uint16]*opcode, from, to uint16, name string, flag uint) {
	for s := from; s <= to; s++ {
		table[s] = &opcode{name: name, flag: flag}
	}
}

func init() {
	span(unaryLowOpcodes, 004, 007, "BR", flagO)
	span(unaryLowOpcodes, 010, 013, "BNE", flagO)
	span(unaryLowOpcodes, 014, 017, "BEQ", flagO)
	span(unaryLowOpcodes, 020, 023, "BGE", flagO)
	span(unaryLowOpcodes, 024, 027, "BLT", flagO)
	span(unaryLowOpcodes, 030, 033, "BGT", flagO)
	span(unaryLowOpcodes, 034, 037, "BLE", flagO)
	span(unaryLowOpcodes, 040, 047, "JSR", flagR|flagD)

	span(unaryHighOpcodes, 000, 003, "BPL", flagO)
	span(unaryHighOpcodes, 004, 007, "BMI", flagO)
	span(unaryHighOpcodes, 010, 013, "BHI", flagO)
	span(unaryHighOpcodes, 014, 017, "BLOS", flagO)
	span(unaryHighOpcodes, 020, 023, "BVC", flagO)
	span(unaryHighOpcodes, 024, 027, "BVS", flagO)
	span(unaryHighOpcodes, 030, 033, "BCC", flagO)
	span(unaryHighOpcodes, 034, 037, "BCS", flagO)
	span(unaryHighOpcodes, 040, 043, "EMT", flagNone)
	span(unaryHighOpcodes, 044, 047, "TRAP", flagNone)
}

// Decode classifies an instruction word and extracts its fields.
// A selector missing from its family table is a reserved instruction trap.
func Decode(word uint16) (Instruction, error) {
	ins := Instruction{
		Word:    word,
		DstMode: Mode((word >> 3) & 7),
		DstReg:  word & 7,
	}

	var table map[uint16]*opcode
	switch word >> 12 {
	case 000:
		ins.Family = UnaryLow
		ins.Selector = (word >> 6) & 077
		table = unaryLowOpcodes
	case 010:
		ins.Family = UnaryHigh
		ins.Selector = (word >> 6) & 077
		table = unaryHighOpcodes
	default:
		ins.Family = Binary
		ins.Selector = word >> 12
		ins.SrcMode = Mode((word >> 9) & 7)
		ins.SrcReg = (word >> 6) & 7
		table = binaryOpcodes
	}

	op, ok := table[ins.Selector]
	if !ok {
		return ins, interrupts.Invalid(word, fmt.Sprintf("reserved instruction (%v selector %03o)", ins.Family, ins.Selector))
	}
	ins.op = op
	ins.Name = op.name
	return ins, nil
}
