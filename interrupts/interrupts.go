package interrupts

import "fmt"

/**
 * Separate package exists mainly in order to avoid cyclic imports.
 * The core has no interrupt or trap handling; a Trap is only the report of
 * why a step stopped.
 */

/********************************
 * trap vectors:
 ********************************/

// INTBus - bus error: address outside of physical memory
const INTBus = 04

// INTInval - reserved or not implemented instruction
const INTInval = 010

// Trap describes a fault raised while executing an instruction
type Trap struct {
	Vector uint16
	Msg    string

	// Address is the offending memory offset for bus errors
	Address uint32

	// Instruction is the opcode word that was executing
	Instruction uint16
}

// sentinel traps, to be used with errors.Is
var (
	ErrBus                = Trap{Vector: INTBus}
	ErrInvalidInstruction = Trap{Vector: INTInval}
)

// Bus returns a memory access fault for addr
func Bus(addr uint32, msg string) Trap {
	return Trap{Vector: INTBus, Address: addr, Msg: msg}
}

// Invalid returns a decode fault for instruction
func Invalid(instruction uint16, msg string) Trap {
	return Trap{Vector: INTInval, Instruction: instruction, Msg: msg}
}

func (t Trap) Error() string {
	switch t.Vector {
	case INTBus:
		return fmt.Sprintf("trap %03o: bus error at %06o: %s", t.Vector, t.Address, t.Msg)
	case INTInval:
		return fmt.Sprintf("trap %03o: instruction %06o: %s", t.Vector, t.Instruction, t.Msg)
	}
	return fmt.Sprintf("trap %03o: %s", t.Vector, t.Msg)
}

// Is matches any trap with the same vector
func (t Trap) Is(target error) bool {
	tt, ok := target.(Trap)
	return ok && tt.Vector == t.Vector
}
