package cpu

// Definition of the implemented PDP-11 CPU instructions
// All follow the func (*CPU) (Instruction, Width) signature.
// Word and byte forms share one function.

// setNZ sets N and Z from a result of the given width
func (c *CPU) setNZ(w Width, result uint16) {
	c.flags.N = result&w.sign() != 0
	c.flags.Z = result&w.mask() == 0
}

// carry is the bit just above the operand width
func carry(w Width) uint32 {
	return uint32(w.mask()) + 1
}

// single operand cpu instructions:

// clr - clear destination
func (c *CPU) clrOp(ins Instruction, w Width) {
	c.writeOperand(ins.destination(), w, 0, Single)

	c.flags.N = false
	c.flags.Z = true
	c.flags.V = false
	c.flags.C = false
}

// com - complement dst -> replace the contents of the destination address
// by their logical complement (each bit equal 0 is set to 1, each 1 is cleared)
func (c *CPU) comOp(ins Instruction, w Width) {
	dst := ins.destination()
	dest := c.readOperand(dst, w, ModifyRead)
	result := ^dest & w.mask()
	c.writeOperand(dst, w, result, ModifyWrite)

	c.setNZ(w, result)
	c.flags.V = false
	c.flags.C = true
}

// inc - increment dst
// V is set when dst held all ones before, C is not affected
func (c *CPU) incOp(ins Instruction, w Width) {
	dst := ins.destination()
	dest := c.readOperand(dst, w, ModifyRead)
	result := (dest + 1) & w.mask()
	c.writeOperand(dst, w, result, ModifyWrite)

	c.setNZ(w, result)
	c.flags.V = dest == w.mask()
}

// dec - decrement dst
// V is set when dst was the most negative number, C is not affected
func (c *CPU) decOp(ins Instruction, w Width) {
	dst := ins.destination()
	dest := c.readOperand(dst, w, ModifyRead)
	result := (dest - 1) & w.mask()
	c.writeOperand(dst, w, result, ModifyWrite)

	c.setNZ(w, result)
	c.flags.V = dest == w.sign()
}

// neg - negate dst
// replace the contents of the destination address
// by it's 2 complement. 0100000 is replaced by itself
func (c *CPU) negOp(ins Instruction, w Width) {
	dst := ins.destination()
	dest := c.readOperand(dst, w, ModifyRead)
	result := (^dest + 1) & w.mask()
	c.writeOperand(dst, w, result, ModifyWrite)

	c.setNZ(w, result)
	c.flags.V = result == w.sign()
	c.flags.C = result != 0
}

// tst - sets the condition codes N and Z according to the contents
// of the destination address
func (c *CPU) tstOp(ins Instruction, w Width) {
	dest := c.readOperand(ins.destination(), w, Single)

	c.setNZ(w, dest)
	c.flags.V = false
	c.flags.C = false
}

// double operand cpu instructions:

// mov - move src to dst. MOVB to a register sign extends into the high byte.
func (c *CPU) movOp(ins Instruction, w Width) {
	source := c.readOperand(ins.source(), w, Single)
	dst := ins.destination()

	if w == Byte && dst.mode == Register {
		value := source
		if source&0x80 != 0 {
			value |= 0xff00
		}
		c.writeOperandWord(dst.mode, dst.reg, value, dst.disp, Single)
	} else {
		c.writeOperand(dst, w, source, Single)
	}

	c.setNZ(w, source)
	c.flags.V = false
}

// cmp - compare src - dst, nothing is written back.
// C is set when the subtraction did not borrow.
func (c *CPU) cmpOp(ins Instruction, w Width) {
	source := c.readOperand(ins.source(), w, Single)
	dest := c.readOperand(ins.destination(), w, Single)

	res := uint32(source) - uint32(dest)
	result := uint16(res) & w.mask()

	c.setNZ(w, result)
	c.flags.V = (source^dest)&w.sign() != 0 && (dest^result)&w.sign() == 0
	c.flags.C = res&carry(w) == 0
}

// add - dst = src + dst
func (c *CPU) addOp(ins Instruction, w Width) {
	source := c.readOperand(ins.source(), w, Single)
	dst := ins.destination()
	dest := c.readOperand(dst, w, ModifyRead)

	sum := uint32(source) + uint32(dest)
	result := uint16(sum) & w.mask()
	c.writeOperand(dst, w, result, ModifyWrite)

	c.setNZ(w, result)
	c.flags.V = (source^dest)&w.sign() == 0 && (dest^result)&w.sign() != 0
	c.flags.C = sum&carry(w) != 0
}

// sub - dst = dst - src
// C is set when the subtraction did not borrow.
func (c *CPU) subOp(ins Instruction, w Width) {
	source := c.readOperand(ins.source(), w, Single)
	dst := ins.destination()
	dest := c.readOperand(dst, w, ModifyRead)

	res := uint32(dest) - uint32(source)
	result := uint16(res) & w.mask()
	c.writeOperand(dst, w, result, ModifyWrite)

	c.setNZ(w, result)
	c.flags.V = (source^dest)&w.sign() != 0 && (dest^result)&w.sign() == 0
	c.flags.C = res&carry(w) == 0
}

// bit - logical and of src and dst, only the flags are changed
func (c *CPU) bitOp(ins Instruction, w Width) {
	source := c.readOperand(ins.source(), w, Single)
	dest := c.readOperand(ins.destination(), w, Single)

	c.setNZ(w, source&dest)
	c.flags.V = false
}

// bic - clear in dst every bit set in src
func (c *CPU) bicOp(ins Instruction, w Width) {
	source := c.readOperand(ins.source(), w, Single)
	dst := ins.destination()
	dest := c.readOperand(dst, w, ModifyRead)
	result := dest &^ source
	c.writeOperand(dst, w, result, ModifyWrite)

	c.setNZ(w, result)
	c.flags.V = false
}

// bis - set in dst every bit set in src
func (c *CPU) bisOp(ins Instruction, w Width) {
	source := c.readOperand(ins.source(), w, Single)
	dst := ins.destination()
	dest := c.readOperand(dst, w, ModifyRead)
	result := dest | source
	c.writeOperand(dst, w, result, ModifyWrite)

	c.setNZ(w, result)
	c.flags.V = false
}
