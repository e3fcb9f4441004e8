package cpu

import (
	"fmt"
)

// Mode is the 3 bit addressing mode of an operand
type Mode uint16

// addressing modes
const (
	Register              Mode = iota // R
	RegisterDeferred                  // (R)
	Autoincrement                     // (R)+
	AutoincrementDeferred             // @(R)+
	Autodecrement                     // -(R)
	AutodecrementDeferred             // @-(R)
	Index                             // X(R)
	IndexDeferred                     // @X(R)
)

var modeNames = [...]string{
	"register",
	"register deferred",
	"autoincrement",
	"autoincrement deferred",
	"autodecrement",
	"autodecrement deferred",
	"index",
	"index deferred",
}

func (m Mode) String() string {
	if m > IndexDeferred {
		return fmt.Sprintf("mode(%d)", uint16(m))
	}
	return modeNames[m]
}

// indexed reports whether the mode consumes the displacement word
func (m Mode) indexed() bool {
	return m == Index || m == IndexDeferred
}

// Width of an operand in bytes. Also the autoincrement / autodecrement step.
type Width uint16

// operand widths
const (
	Byte Width = 1
	Word Width = 2
)

func (w Width) sign() uint16 {
	if w == Byte {
		return 0x80
	}
	return 0x8000
}

func (w Width) mask() uint16 {
	if w == Byte {
		return 0xff
	}
	return 0xffff
}

func (w Width) String() string {
	if w == Byte {
		return "byte"
	}
	return "word"
}

// Access tells the resolver whether a read or write stands alone or is one
// half of a read-modify-write on the same operand. Across a ModifyRead and
// the following ModifyWrite every register side effect happens exactly once:
// autoincrement is applied by the write, autodecrement by the read.
type Access int

const (
	// Single is a standalone read or write
	Single Access = iota
	// ModifyRead is the read half of read-modify-write
	ModifyRead
	// ModifyWrite is the write half of read-modify-write
	ModifyWrite
)

func (a Access) String() string {
	switch a {
	case Single:
		return "single"
	case ModifyRead:
		return "modify-read"
	case ModifyWrite:
		return "modify-write"
	}
	return fmt.Sprintf("access(%d)", int(a))
}

// operandAddress returns the memory offset the operand points to, applying
// autodecrement. Autoincrement is left to postIncrement, after the access.
// Deferred modes always fetch the pointer as a word.
func (c *CPU) operandAddress(mode Mode, reg uint16, disp uint16, width Width, access Access) uint32 {
	r := &c.Registers[reg]
	switch mode {
	case RegisterDeferred, Autoincrement:
		return uint32(*r)
	case AutoincrementDeferred:
		return uint32(c.memory.readWord(uint32(*r)))
	case Autodecrement:
		if access != ModifyWrite {
			*r -= uint16(width)
		}
		return uint32(*r)
	case AutodecrementDeferred:
		if access != ModifyWrite {
			*r -= 2
		}
		return uint32(c.memory.readWord(uint32(*r)))
	case Index:
		return uint32(*r) + uint32(disp)
	case IndexDeferred:
		return uint32(c.memory.readWord(uint32(*r))) + uint32(disp)
	}
	panic(fmt.Sprintf("operandAddress: no address for %v", mode))
}

func (c *CPU) postIncrement(mode Mode, reg uint16, width Width, access Access) {
	if access == ModifyRead {
		return
	}
	switch mode {
	case Autoincrement:
		c.Registers[reg] += uint16(width)
	case AutoincrementDeferred:
		c.Registers[reg] += 2
	}
}

func (c *CPU) readOperandWord(mode Mode, reg, disp uint16, access Access) uint16 {
	if mode == Register {
		return c.Registers[reg]
	}
	data := c.memory.readWord(c.operandAddress(mode, reg, disp, Word, access))
	c.postIncrement(mode, reg, Word, access)
	return data
}

func (c *CPU) readOperandByte(mode Mode, reg, disp uint16, access Access) byte {
	if mode == Register {
		return byte(c.Registers[reg] & 0xff)
	}
	data := c.memory.readByte(c.operandAddress(mode, reg, disp, Byte, access))
	c.postIncrement(mode, reg, Byte, access)
	return data
}

func (c *CPU) writeOperandWord(mode Mode, reg, value, disp uint16, access Access) {
	if mode == Register {
		c.Registers[reg] = value
		return
	}
	c.memory.writeWord(c.operandAddress(mode, reg, disp, Word, access), value)
	c.postIncrement(mode, reg, Word, access)
}

// writeOperandByte in register mode replaces the low byte only
func (c *CPU) writeOperandByte(mode Mode, reg uint16, value byte, disp uint16, access Access) {
	if mode == Register {
		c.Registers[reg] = (c.Registers[reg] & 0xff00) | uint16(value)
		return
	}
	c.memory.writeByte(c.operandAddress(mode, reg, disp, Byte, access), value)
	c.postIncrement(mode, reg, Byte, access)
}

// width generic helpers used by the instructions

func (c *CPU) readOperand(o operand, w Width, access Access) uint16 {
	if w == Byte {
		return uint16(c.readOperandByte(o.mode, o.reg, o.disp, access))
	}
	return c.readOperandWord(o.mode, o.reg, o.disp, access)
}

func (c *CPU) writeOperand(o operand, w Width, value uint16, access Access) {
	if w == Byte {
		c.writeOperandByte(o.mode, o.reg, byte(value), o.disp, access)
		return
	}
	c.writeOperandWord(o.mode, o.reg, value, o.disp, access)
}

// operand is one decoded source or destination field
type operand struct {
	mode Mode
	reg  uint16
	disp uint16
}

func checkOperand(mode Mode, reg uint16) error {
	if mode > IndexDeferred {
		return fmt.Errorf("%w: addressing mode %d", ErrBadOperand, uint16(mode))
	}
	if reg > 7 {
		return fmt.Errorf("%w: register %d", ErrBadOperand, reg)
	}
	return nil
}

// ReadOperandWord resolves a word operand for reading.
// disp is only used by the index modes.
func (c *CPU) ReadOperandWord(mode Mode, reg, disp uint16, access Access) (value uint16, err error) {
	if err := checkOperand(mode, reg); err != nil {
		return 0, err
	}
	defer trapped(&err)
	return c.readOperandWord(mode, reg, disp, access), nil
}

// ReadOperandByte resolves a byte operand for reading
func (c *CPU) ReadOperandByte(mode Mode, reg, disp uint16, access Access) (value byte, err error) {
	if err := checkOperand(mode, reg); err != nil {
		return 0, err
	}
	defer trapped(&err)
	return c.readOperandByte(mode, reg, disp, access), nil
}

// WriteOperandWord stores value through a word operand
func (c *CPU) WriteOperandWord(mode Mode, reg, value, disp uint16, access Access) (err error) {
	if err := checkOperand(mode, reg); err != nil {
		return err
	}
	defer trapped(&err)
	c.writeOperandWord(mode, reg, value, disp, access)
	return nil
}

// WriteOperandByte stores value through a byte operand
func (c *CPU) WriteOperandByte(mode Mode, reg uint16, value byte, disp uint16, access Access) (err error) {
	if err := checkOperand(mode, reg); err != nil {
		return err
	}
	defer trapped(&err)
	c.writeOperandByte(mode, reg, value, disp, access)
	return nil
}
