package cpu

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"micro11/interrupts"
	"micro11/psw"
)

// register roles. Nothing but the instruction fetch treats them specially.
const (
	RegSP = 6
	RegPC = 7
)

// ErrBadOperand is returned by the operand primitives for a mode or register
// number outside 0-7
var ErrBadOperand = errors.New("bad operand")

// CPU type:
// one register file, one physical memory and one set of condition codes.
// A CPU is driven by a single caller; it is not safe for concurrent use.
type CPU struct {
	Registers [8]uint16

	memory Memory
	flags  psw.Flags

	// tracer, if set, gets the state and disassembly of every instruction
	tracer *log.Logger
}

// New initializes and returns the CPU with memorySize bytes of zeroed memory
func New(memorySize uint32) *CPU {
	c := CPU{}
	c.memory = NewMemory(memorySize)
	return &c
}

// SetTracer attaches a logger receiving one line per executed instruction.
// nil switches tracing off.
func (c *CPU) SetTracer(l *log.Logger) {
	c.tracer = l
}

// PC returns R7
func (c *CPU) PC() uint16 {
	return c.Registers[RegPC]
}

// SetPC sets R7
func (c *CPU) SetPC(pc uint16) {
	c.Registers[RegPC] = pc
}

// Memory gives direct access to physical memory, for test setup and inspection
func (c *CPU) Memory() Memory {
	return c.memory
}

// Flags returns the condition codes
func (c *CPU) Flags() psw.Flags {
	return c.flags
}

// SetFlags replaces the condition codes
func (c *CPU) SetFlags(f psw.Flags) {
	c.flags = f
}

// Reset zeroes registers, flags and memory
func (c *CPU) Reset() {
	c.Registers = [8]uint16{}
	c.flags.Clear()
	for i := range c.memory {
		c.memory[i] = 0
	}
}

// trapped turns a trap raised by the memory layer back into an error.
// Anything else keeps panicking.
func trapped(err *error) {
	t := recover()
	switch t := t.(type) {
	case interrupts.Trap:
		*err = t
	case nil:
		// ignore
	default:
		panic(t)
	}
}

// ReadByteAt returns the byte at addr
func (c *CPU) ReadByteAt(addr uint32) (b byte, err error) {
	defer trapped(&err)
	return c.memory.readByte(addr), nil
}

// ReadWordAt returns the little endian word at addr
func (c *CPU) ReadWordAt(addr uint32) (w uint16, err error) {
	defer trapped(&err)
	return c.memory.readWord(addr), nil
}

// WriteByteAt stores data at addr
func (c *CPU) WriteByteAt(addr uint32, data byte) (err error) {
	defer trapped(&err)
	c.memory.writeByte(addr, data)
	return nil
}

// WriteWordAt stores data at addr, low byte first
func (c *CPU) WriteWordAt(addr uint32, data uint16) (err error) {
	defer trapped(&err)
	c.memory.writeWord(addr, data)
	return nil
}

// Fetch reads the instruction at PC together with the word following it,
// which index modes use as displacement. Nothing is modified.
func (c *CPU) Fetch() (Instruction, error) {
	var ins Instruction
	var err error
	func() {
		defer trapped(&err)
		pc := c.Registers[RegPC]
		word := c.memory.readWord(uint32(pc))
		ins, err = Decode(word)
		ins.Address = pc
		ins.Displacement, ins.hasDisplacement = c.memory.peekWord(uint32(pc) + 2)
	}()
	return ins, err
}

// Step executes exactly one instruction.
// Decode faults leave the CPU untouched. A bus error stops the instruction
// where it happened; register changes made before that point stay.
func (c *CPU) Step() (err error) {
	ins, err := c.Fetch()
	if err != nil {
		return err
	}
	if !ins.Implemented() {
		return interrupts.Invalid(ins.Word, ins.Name+" not implemented")
	}

	if c.tracer != nil {
		c.tracer.Printf("%s%s\n", c.printState(ins.Word), c.Disasm(ins))
	}

	defer trapped(&err)
	c.Registers[RegPC] += 2
	ins.op.exec(c, ins, ins.Width())
	return nil
}

// Run steps until n instructions executed or a fault happened.
// Returns the number of completed instructions.
func (c *CPU) Run(n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := c.Step(); err != nil {
			return i, err
		}
	}
	return n, nil
}

// DumpRegisters displays register values
func (c *CPU) DumpRegisters() string {
	var res strings.Builder
	for i, reg := range c.Registers {
		fmt.Fprintf(&res, "R%d %06o ", i, reg)
	}
	s := res.String()
	return s[:(len(s) - 1)]
}

func (c *CPU) printState(instruction uint16) string {
	//registers
	out := fmt.Sprintf("%s\n", c.DumpRegisters())

	// flags
	out += fmt.Sprintf("%s ", c.flags.String())

	// instruction
	out += fmt.Sprintf(" instr %06o: %06o   ", c.Registers[RegPC], instruction)

	return out
}
