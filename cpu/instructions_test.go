package cpu

import (
	"bytes"
	"log"
	"testing"

	"micro11/interrupts"
	"micro11/octal"
	"micro11/psw"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var o = octal.MustParse

// ch3 examples, PDP-11 processor handbook chapter 3.3

func TestCh331_2(t *testing.T) {
	c := New(262144)
	c.Registers[2] = o("000002")
	c.Registers[4] = o("000004")
	poke(c, 0, o("060204")) // ADD R2, R4
	c.SetPC(0)

	require.NoError(t, c.Step())

	assert.Equal(t, o("000006"), c.Registers[4])
	assert.Equal(t, uint16(2), c.PC())
}

func TestCh331_3(t *testing.T) {
	c := New(262144)
	c.Registers[4] = o("022222")
	poke(c, 0, o("105104")) // COMB R4
	c.SetPC(0)

	require.NoError(t, c.Step())

	assert.Equal(t, o("022155"), c.Registers[4])
	assert.Equal(t, uint16(2), c.PC())
}

func TestCh332_1(t *testing.T) {
	c := New(262144)
	poke(c, uint32(o("030000")), o("111116"))
	c.Registers[5] = o("030000")
	poke(c, uint32(o("020000")), o("005025")) // CLR (R5)+
	c.Registers[7] = o("020000")

	require.NoError(t, c.Step())

	assert.Equal(t, o("000000"), wordAt(c, uint32(o("030000"))))
	assert.Equal(t, o("030002"), c.Registers[5])
	assert.Equal(t, o("020002"), c.PC())
}

func TestCh332_2(t *testing.T) {
	c := New(262144)
	poke(c, uint32(o("030000")), o("111116"))
	c.Registers[5] = o("030000")
	poke(c, uint32(o("020000")), o("105025")) // CLRB (R5)+
	c.Registers[7] = o("020000")

	require.NoError(t, c.Step())

	assert.Equal(t, o("111000"), wordAt(c, uint32(o("030000"))))
	assert.Equal(t, o("030001"), c.Registers[5])
	assert.Equal(t, o("020002"), c.PC())
}

func TestCh332_3(t *testing.T) {
	c := New(262144)
	poke(c, uint32(o("100002")), o("010000"))
	c.Registers[2] = o("100002")
	c.Registers[4] = o("010000")
	poke(c, uint32(o("010000")), o("062204")) // ADD (R2)+, R4
	c.Registers[7] = o("010000")

	require.NoError(t, c.Step())

	assert.Equal(t, o("010000"), wordAt(c, uint32(o("100002"))))
	assert.Equal(t, o("100004"), c.Registers[2])
	assert.Equal(t, o("020000"), c.Registers[4])
	assert.Equal(t, o("010002"), c.PC())
}

// step runs a single instruction placed at 02000
func step(t *testing.T, c *CPU, instruction string) {
	t.Helper()
	poke(c, 02000, o(instruction))
	c.SetPC(02000)
	require.NoError(t, c.Step())
	require.Equal(t, uint16(02002), c.PC())
}

func TestReadModifyWriteInstructions(t *testing.T) {
	tests := []struct {
		name        string
		instruction string
		r0          uint16
		addr        uint32
		before      uint16
		after       uint16
		wantR0      uint16
	}{
		{"INC (R0)+", "005220", 0x0100, 0x0100, 5, 6, 0x0102},
		{"INC -(R0)", "005240", 0x0102, 0x0100, 5, 6, 0x0100},
		{"INCB (R0)+", "105220", 0x0100, 0x0100, 0x0105, 0x0106, 0x0101},
		{"INCB -(R0)", "105240", 0x0101, 0x0100, 0x0105, 0x0106, 0x0100},
		{"COM @(R0)+", "005130", 0x0200, 0x0100, 0x00ff, 0xff00, 0x0202},
		{"COMB @-(R0)", "105150", 0x0202, 0x0100, 0x00ff, 0x0000, 0x0200},
		{"ADD R1,(R0)+", "060120", 0x0100, 0x0100, 3, 10, 0x0102},
		{"ADD R1,-(R0)", "060140", 0x0102, 0x0100, 3, 10, 0x0100},
		{"SUB R1,(R0)+", "160120", 0x0100, 0x0100, 10, 3, 0x0102},
		{"DEC -(R0)", "005340", 0x0102, 0x0100, 1, 0, 0x0100},
		{"NEG (R0)+", "005420", 0x0100, 0x0100, 1, 0xffff, 0x0102},
		{"BIS R1,@-(R0)", "050150", 0x0202, 0x0100, 0x0100, 0x0107, 0x0200},
		{"BIC R1,(R0)+", "040120", 0x0100, 0x0100, 0x00ff, 0x00f8, 0x0102},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(4096)
			c.Registers[0] = tt.r0
			c.Registers[1] = 7
			poke(c, 0x0100, tt.before)
			// pointers for the deferred modes
			poke(c, 0x0200, 0x0100)

			step(t, c, tt.instruction)

			assert.Equal(t, tt.after, wordAt(c, tt.addr), "memory")
			assert.Equal(t, tt.wantR0, c.Registers[0], "register delta")
		})
	}
}

func TestMovbSignExtension(t *testing.T) {
	tests := []struct {
		name string
		r1   uint16
		want uint16
		n    bool
	}{
		{"positive byte", 0x127f, 0x007f, false},
		{"negative byte", 0x1280, 0xff80, true},
		{"all ones", 0x00ff, 0xffff, true},
		{"zero", 0xff00, 0x0000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(4096)
			c.Registers[1] = tt.r1
			c.Registers[2] = 0x5555
			c.SetFlags(psw.Flags{C: true, V: true})

			step(t, c, "110102") // MOVB R1, R2

			assert.Equal(t, tt.want, c.Registers[2])
			f := c.Flags()
			assert.Equal(t, tt.n, f.N)
			assert.Equal(t, tt.want == 0, f.Z)
			assert.False(t, f.V)
			assert.True(t, f.C, "C not affected")
		})
	}
}

func TestMovbToMemoryWritesByteOnly(t *testing.T) {
	c := New(4096)
	c.Registers[1] = 0x0080
	c.Registers[2] = 0x0100
	poke(c, 0x0100, 0x5555)

	step(t, c, "110112") // MOVB R1, (R2)

	assert.Equal(t, uint16(0x5580), wordAt(c, 0x0100))
	assert.True(t, c.Flags().N)
}

func TestMovIndexDisplacement(t *testing.T) {
	c := New(4096)
	c.Registers[0] = 0x0200
	poke(c, 0x0206, 0xbeef)
	poke(c, 01000, o("016001")) // MOV 6(R0), R1
	poke(c, 01002, 6)
	c.SetPC(01000)

	require.NoError(t, c.Step())

	assert.Equal(t, uint16(0xbeef), c.Registers[1])
	// the displacement word is not skipped
	assert.Equal(t, uint16(01002), c.PC())
}

func TestIndexDeferredDestination(t *testing.T) {
	c := New(4096)
	c.Registers[1] = 0x1111
	c.Registers[3] = 0x0300
	poke(c, 0x0300, 0x0400)
	poke(c, 01000, o("010173")) // MOV R1, @X(R3)
	poke(c, 01002, 4)
	c.SetPC(01000)

	require.NoError(t, c.Step())

	assert.Equal(t, uint16(0x1111), wordAt(c, 0x0404))
	assert.Equal(t, uint16(0x0300), c.Registers[3])
}

func TestFlags(t *testing.T) {
	tests := []struct {
		name        string
		instruction string
		r1, r2      uint16
		before      psw.Flags
		wantR2      uint16
		want        psw.Flags
	}{
		{"MOV zero", "010102", 0, 0xffff, psw.Flags{C: true, V: true}, 0, psw.Flags{Z: true, C: true}},
		{"MOV negative", "010102", 0x8000, 0, psw.Flags{}, 0x8000, psw.Flags{N: true}},
		{"CLR", "005002", 0, 0x1234, psw.Flags{N: true, V: true, C: true}, 0, psw.Flags{Z: true}},
		{"CLRB keeps high byte", "105002", 0, 0x1234, psw.Flags{}, 0x1200, psw.Flags{Z: true}},
		{"ADD overflow", "060102", 1, 0x7fff, psw.Flags{}, 0x8000, psw.Flags{N: true, V: true}},
		{"ADD carry", "060102", 1, 0xffff, psw.Flags{}, 0, psw.Flags{Z: true, C: true}},
		{"ADD negative no overflow", "060102", 0xfffe, 0xffff, psw.Flags{}, 0xfffd, psw.Flags{N: true, C: true}},
		{"CMP equal", "020102", 5, 5, psw.Flags{}, 5, psw.Flags{Z: true, C: true}},
		{"CMP src greater", "020102", 5, 3, psw.Flags{}, 3, psw.Flags{C: true}},
		{"CMP src less borrows", "020102", 3, 5, psw.Flags{C: true}, 5, psw.Flags{N: true}},
		{"CMP overflow", "020102", 0x8000, 1, psw.Flags{}, 1, psw.Flags{V: true, C: true}},
		{"CMPB only low bytes", "120102", 0xff05, 0x0005, psw.Flags{}, 0x0005, psw.Flags{Z: true, C: true}},
		{"SUB", "160102", 3, 5, psw.Flags{}, 2, psw.Flags{C: true}},
		{"SUB to zero", "160102", 5, 5, psw.Flags{}, 0, psw.Flags{Z: true, C: true}},
		{"SUB borrow", "160102", 5, 3, psw.Flags{}, 0xfffe, psw.Flags{N: true}},
		{"INC", "005202", 0, 1, psw.Flags{C: true}, 2, psw.Flags{C: true}},
		{"INC all ones", "005202", 0, 0xffff, psw.Flags{C: true}, 0, psw.Flags{Z: true, V: true, C: true}},
		{"INCB all ones", "105202", 0, 0x12ff, psw.Flags{}, 0x1200, psw.Flags{Z: true, V: true}},
		{"COM", "005102", 0, 0x00ff, psw.Flags{V: true}, 0xff00, psw.Flags{N: true, C: true}},
		{"COMB", "105102", 0, 0x00ff, psw.Flags{}, 0x0000, psw.Flags{Z: true, C: true}},
		{"DEC most negative", "005302", 0, 0x8000, psw.Flags{C: true}, 0x7fff, psw.Flags{V: true, C: true}},
		{"DEC to zero", "005302", 0, 1, psw.Flags{}, 0, psw.Flags{Z: true}},
		{"NEG", "005402", 0, 1, psw.Flags{}, 0xffff, psw.Flags{N: true, C: true}},
		{"NEG zero", "005402", 0, 0, psw.Flags{C: true}, 0, psw.Flags{Z: true}},
		{"NEG most negative", "005402", 0, 0x8000, psw.Flags{}, 0x8000, psw.Flags{N: true, V: true, C: true}},
		{"NEGB", "105402", 0, 0x1201, psw.Flags{}, 0x12ff, psw.Flags{N: true, C: true}},
		{"TST", "005702", 0, 0x8000, psw.Flags{V: true, C: true}, 0x8000, psw.Flags{N: true}},
		{"TSTB", "105702", 0, 0x8000, psw.Flags{}, 0x8000, psw.Flags{Z: true}},
		{"BIT", "030102", 0x00f0, 0x0f0f, psw.Flags{C: true}, 0x0f0f, psw.Flags{Z: true, C: true}},
		{"BIC", "040102", 0x00ff, 0x8fff, psw.Flags{}, 0x8f00, psw.Flags{N: true}},
		{"BIS", "050102", 0x8000, 0x0001, psw.Flags{}, 0x8001, psw.Flags{N: true}},
		{"BISB", "150102", 0x0080, 0x1200, psw.Flags{}, 0x1280, psw.Flags{N: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(4096)
			c.Registers[1] = tt.r1
			c.Registers[2] = tt.r2
			c.SetFlags(tt.before)

			step(t, c, tt.instruction)

			assert.Equal(t, tt.wantR2, c.Registers[2], "R2")
			assert.Equal(t, tt.want, c.Flags(), "flags")
		})
	}
}

func TestUnimplementedInstructions(t *testing.T) {
	tests := []struct {
		name        string
		instruction string
	}{
		{"HALT", "000000"},
		{"JMP", "000110"},
		{"RTS", "000207"},
		{"SWAB", "000300"},
		{"BR", "000401"},
		{"BEQ", "001401"},
		{"JSR", "004767"},
		{"ADC", "005500"},
		{"ROR", "006000"},
		{"SXT", "006700"},
		{"BPL", "100001"},
		{"EMT", "104000"},
		{"TRAP", "104400"},
		{"ASLB", "106300"},
		{"MFPS", "106700"},
		{"MUL", "070001"},
		{"SOB", "077001"},
		{"FP", "170000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(4096)
			c.Registers[0] = 0x0100
			c.Registers[1] = 0x0102
			c.SetFlags(psw.Flags{N: true})
			poke(c, 01000, o(tt.instruction))
			c.SetPC(01000)
			before := c.Registers

			ins, err := Decode(o(tt.instruction))
			require.NoError(t, err, "known to the decoder")
			assert.Equal(t, tt.name, c.Disasm(ins)[:len(tt.name)])
			assert.False(t, ins.Implemented())

			err = c.Step()
			assert.ErrorIs(t, err, interrupts.ErrInvalidInstruction)
			assert.Equal(t, before, c.Registers, "nothing committed")
			assert.Equal(t, psw.Flags{N: true}, c.Flags())
		})
	}
}

func TestReservedInstructions(t *testing.T) {
	for _, word := range []string{"007000", "007777", "107000", "107777"} {
		t.Run(word, func(t *testing.T) {
			c := New(4096)
			poke(c, 0, o(word))

			_, err := Decode(o(word))
			assert.ErrorIs(t, err, interrupts.ErrInvalidInstruction)

			err = c.Step()
			assert.ErrorIs(t, err, interrupts.ErrInvalidInstruction)
			assert.Equal(t, uint16(0), c.PC())
		})
	}
}

func TestStepBusErrors(t *testing.T) {
	t.Run("PC outside of memory", func(t *testing.T) {
		c := New(4096)
		c.SetPC(4096)
		assert.ErrorIs(t, c.Step(), interrupts.ErrBus)
		assert.Equal(t, uint16(4096), c.PC())
	})

	t.Run("destination outside of memory", func(t *testing.T) {
		c := New(4096)
		c.Registers[0] = 0x2000
		poke(c, 0, o("005020")) // CLR (R0)+
		err := c.Step()
		assert.ErrorIs(t, err, interrupts.ErrBus)
		// the fetch is committed, the increment is not
		assert.Equal(t, uint16(2), c.PC())
		assert.Equal(t, uint16(0x2000), c.Registers[0])
	})

	t.Run("autodecrement stays applied", func(t *testing.T) {
		c := New(4096)
		c.Registers[0] = 0
		poke(c, 0, o("005040")) // CLR -(R0)
		assert.ErrorIs(t, c.Step(), interrupts.ErrBus)
		assert.Equal(t, uint16(0xfffe), c.Registers[0])
	})

	t.Run("missing displacement word", func(t *testing.T) {
		c := New(4096)
		poke(c, 4094, o("005260")) // INC X(R0)
		c.SetPC(4094)
		assert.ErrorIs(t, c.Step(), interrupts.ErrBus)
	})

	t.Run("last word without displacement", func(t *testing.T) {
		c := New(4096)
		c.Registers[0] = 7
		poke(c, 4094, o("005000")) // CLR R0
		c.SetPC(4094)
		require.NoError(t, c.Step())
		assert.Equal(t, uint16(0), c.Registers[0])
		assert.Equal(t, uint16(4096), c.PC())
	})
}

func TestRun(t *testing.T) {
	c := New(4096)
	poke(c, 0, o("005200")) // INC R0
	poke(c, 2, o("005200")) // INC R0
	poke(c, 4, o("005200")) // INC R0
	// 6: HALT, not implemented

	n, err := c.Run(10)
	assert.ErrorIs(t, err, interrupts.ErrInvalidInstruction)
	assert.Equal(t, 3, n)
	assert.Equal(t, uint16(3), c.Registers[0])
	assert.Equal(t, uint16(6), c.PC())
}

func TestTracer(t *testing.T) {
	var buf bytes.Buffer
	c := New(4096)
	c.SetTracer(log.New(&buf, "", 0))
	c.Registers[2] = 2
	c.Registers[4] = 4
	poke(c, 0, o("060204"))

	require.NoError(t, c.Step())
	assert.Contains(t, buf.String(), "instr 000000: 060204")
	assert.Contains(t, buf.String(), "ADD R2, R4")

	c.SetTracer(nil)
	buf.Reset()
	poke(c, 2, o("060204"))
	require.NoError(t, c.Step())
	assert.Empty(t, buf.String())
}

func TestReset(t *testing.T) {
	c := New(16)
	c.Registers[3] = 9
	c.SetFlags(psw.Flags{Z: true})
	c.Memory()[5] = 1

	c.Reset()

	assert.Equal(t, [8]uint16{}, c.Registers)
	assert.Equal(t, psw.Flags{}, c.Flags())
	assert.Equal(t, byte(0), c.Memory()[5])
	assert.Equal(t, uint32(16), c.Memory().Size())
}
