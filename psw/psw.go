package psw

/**
Processor status word package.

The condition codes live in Flags as four independent booleans. PSW is the
packed word layout kept for tools that want the DEC bit positions.
*/

// processor word layout. Values here are bits, not the
// powers of 2
const cFlag = 0
const vFlag = 1
const zFlag = 2
const nFlag = 3

// Flags keeps the four condition codes
type Flags struct {
	N bool
	Z bool
	V bool
	C bool
}

// Clear resets all condition codes
func (f *Flags) Clear() {
	*f = Flags{}
}

// Pack returns flags in the processor status word layout
func (f Flags) Pack() PSW {
	var p PSW
	p.SetN(f.N)
	p.SetZ(f.Z)
	p.SetV(f.V)
	p.SetC(f.C)
	return p
}

// String returns the flags as [NZVC], unset flags replaced by space
func (f Flags) String() string {
	p := f.Pack()
	return p.GetFlags()
}

// PSW keeps packed processor status word
type PSW uint16

// Get returns current processor status word
func (psw *PSW) Get() uint16 {
	return uint16(*psw)
}

// Set PSW value
func (psw *PSW) Set(p uint16) {
	*psw = PSW(p)
}

// Unpack returns the condition codes kept in the status word
func (psw PSW) Unpack() Flags {
	return Flags{N: psw.N(), Z: psw.Z(), V: psw.V(), C: psw.C()}
}

// C returns C flag:
func (psw PSW) C() bool {
	return psw.getFlag(cFlag)
}

// SetC sets C flag
func (psw *PSW) SetC(status bool) {
	psw.setFlag(cFlag, status)
}

// V returns v flag
func (psw PSW) V() bool {
	return psw.getFlag(vFlag)
}

// SetV sets processor V flag
func (psw *PSW) SetV(status bool) {
	psw.setFlag(vFlag, status)
}

// Z returns Z flag
func (psw PSW) Z() bool {
	return psw.getFlag(zFlag)
}

// SetZ sets processor Z flag
func (psw *PSW) SetZ(status bool) {
	psw.setFlag(zFlag, status)
}

// N returns N flag
func (psw PSW) N() bool {
	return psw.getFlag(nFlag)
}

// SetN sets processor N flag
func (psw *PSW) SetN(status bool) {
	psw.setFlag(nFlag, status)
}

// generic get flag function
func (psw PSW) getFlag(flag uint) bool {
	return (psw & (1 << flag)) > 0
}

// generic set flag function
func (psw *PSW) setFlag(flag uint, status bool) {
	if status {
		*psw |= (1 << flag)
	} else {
		*psw &^= (1 << flag)
	}
}

// GetFlags returns set flags
func (psw PSW) GetFlags() string {
	var flags string
	if psw.N() {
		flags += "N"
	} else {
		flags += " "
	}
	if psw.Z() {
		flags += "Z"
	} else {
		flags += " "
	}
	if psw.V() {
		flags += "V"
	} else {
		flags += " "
	}
	if psw.C() {
		flags += "C"
	} else {
		flags += " "
	}
	return "[" + flags + "]"
}
