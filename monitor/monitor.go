// Package monitor implements the operator console commands: single
// stepping, examining and depositing registers, memory and flags.
//
// Numbers are octal, step counts and disassembly lengths decimal.
package monitor

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"micro11/console"
	"micro11/cpu"
	"micro11/octal"
	"micro11/psw"
)

// command errors
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
	ErrHalted         = errors.New("cpu halted, reset first")
)

// Monitor executes command lines against one CPU
type Monitor struct {
	cpu *cpu.CPU
	out console.Console
	log *log.Logger

	// fault that stopped the cpu, nil while it may run
	fault error

	hist *history
}

// HistorySize is the number of stepped instructions kept for hist
const HistorySize = 64

type command struct {
	args string
	help string
	run  func(m *Monitor, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"step":  {"[n]", "execute n instructions, default 1", (*Monitor).step},
		"reg":   {"<r> [value]", "show or set register r (0-7, R0-R7, SP, PC)", (*Monitor).reg},
		"pc":    {"[value]", "show or set the program counter", (*Monitor).pc},
		"mem":   {"<addr> [value]", "show or set the word at addr", (*Monitor).mem},
		"memb":  {"<addr> [value]", "show or set the byte at addr", (*Monitor).memb},
		"dep":   {"<addr> <word>...", "deposit successive words from addr", (*Monitor).dep},
		"dis":   {"[addr] [n]", "disassemble n instructions from addr, default PC", (*Monitor).dis},
		"hist":  {"", "show the most recently stepped instructions", (*Monitor).showHistory},
		"regs":  {"", "show all registers", (*Monitor).regs},
		"flags": {"", "show condition codes", (*Monitor).flags},
		"psw":   {"[value]", "show or set the condition codes as a packed status word", (*Monitor).statusWord},
		"reset": {"", "clear registers, flags, memory and halt", (*Monitor).reset},
		"help":  {"", "this text", (*Monitor).help},
	}
}

// New returns a monitor driving c and printing to out.
// Commands are logged to l when it is not nil.
func New(c *cpu.CPU, out console.Console, l *log.Logger) *Monitor {
	return &Monitor{cpu: c, out: out, log: l, hist: newHistory(HistorySize)}
}

// Halted reports whether a fault stopped the cpu
func (m *Monitor) Halted() bool {
	return m.fault != nil
}

// Fault returns the error that halted the cpu
func (m *Monitor) Fault() error {
	return m.fault
}

// Registers returns the register and flag dump shown after every command
func (m *Monitor) Registers() string {
	return fmt.Sprintf("%s\n%s", m.cpu.DumpRegisters(), m.cpu.Flags().String())
}

// Exec runs one command line. Results and errors are written to the
// console, the error is returned as well.
func (m *Monitor) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	if m.log != nil {
		m.log.Printf("monitor: %s", line)
	}

	name := strings.ToLower(fields[0])
	cmd, ok := commands[name]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
		m.out.WriteFault(err.Error())
		return err
	}
	err := cmd.run(m, fields[1:])
	if errors.Is(err, ErrUsage) {
		err = fmt.Errorf("%w: %s %s", ErrUsage, name, cmd.args)
	}
	if err != nil {
		m.out.WriteFault(err.Error())
	}
	return err
}

func (m *Monitor) printf(format string, a ...interface{}) {
	m.out.WriteConsole(fmt.Sprintf(format, a...))
}

func (m *Monitor) step(args []string) error {
	n := 1
	switch len(args) {
	case 0:
	case 1:
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return ErrUsage
		}
	default:
		return ErrUsage
	}
	if m.fault != nil {
		return ErrHalted
	}

	for i := 0; i < n; i++ {
		pc := m.cpu.PC()
		if dis, err := m.cpu.DisasmAt(uint32(pc)); err == nil {
			line := fmt.Sprintf("%s: %s", octal.Word(pc), dis)
			m.hist.add(line)
			m.printf("%s", line)
		}
		if err := m.cpu.Step(); err != nil {
			m.fault = err
			if m.log != nil {
				m.log.Printf("monitor: halted at %s: %v", octal.Word(pc), err)
			}
			m.printf("%s", m.Registers())
			return fmt.Errorf("halted: %w", err)
		}
	}
	m.printf("%s", m.Registers())
	return nil
}

// register names accepted by reg
func parseRegister(s string) (int, error) {
	switch strings.ToUpper(s) {
	case "SP":
		return cpu.RegSP, nil
	case "PC":
		return cpu.RegPC, nil
	}
	s = strings.TrimPrefix(strings.ToUpper(s), "R")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 7 {
		return 0, fmt.Errorf("%w: register %q", ErrUsage, s)
	}
	return n, nil
}

func (m *Monitor) reg(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	r, err := parseRegister(args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		v, err := octal.Parse(args[1])
		if err != nil {
			return err
		}
		m.cpu.Registers[r] = v
	}
	m.printf("R%d %s", r, octal.Word(m.cpu.Registers[r]))
	return nil
}

func (m *Monitor) pc(args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	return m.reg(append([]string{"PC"}, args...))
}

func (m *Monitor) mem(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	addr, err := octal.Parse(args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		v, err := octal.Parse(args[1])
		if err != nil {
			return err
		}
		if err := m.cpu.WriteWordAt(uint32(addr), v); err != nil {
			return err
		}
	}
	w, err := m.cpu.ReadWordAt(uint32(addr))
	if err != nil {
		return err
	}
	m.printf("%s: %s", octal.Word(addr), octal.Word(w))
	return nil
}

func (m *Monitor) memb(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	addr, err := octal.Parse(args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		v, err := octal.Parse(args[1])
		if err != nil {
			return err
		}
		if v > 0377 {
			return fmt.Errorf("%w: byte value %s", octal.ErrRange, args[1])
		}
		if err := m.cpu.WriteByteAt(uint32(addr), byte(v)); err != nil {
			return err
		}
	}
	b, err := m.cpu.ReadByteAt(uint32(addr))
	if err != nil {
		return err
	}
	m.printf("%s: %s", octal.Word(addr), octal.Byte(b))
	return nil
}

func (m *Monitor) dep(args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	start, err := octal.Parse(args[0])
	if err != nil {
		return err
	}
	words := make([]uint16, 0, len(args)-1)
	for _, a := range args[1:] {
		v, err := octal.Parse(a)
		if err != nil {
			return err
		}
		words = append(words, v)
	}

	// no wraparound at 0177776, a word past the end of memory is a bus error
	addr := uint32(start)
	for _, v := range words {
		if err := m.cpu.WriteWordAt(addr, v); err != nil {
			return err
		}
		addr += 2
	}
	m.printf("%d words deposited, next %06o", len(words), addr)
	return nil
}

func (m *Monitor) dis(args []string) error {
	if len(args) > 2 {
		return ErrUsage
	}
	addr := uint32(m.cpu.PC())
	n := 1
	if len(args) > 0 {
		a, err := octal.Parse(args[0])
		if err != nil {
			return err
		}
		addr = uint32(a)
	}
	if len(args) > 1 {
		var err error
		n, err = strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return ErrUsage
		}
	}
	for i := 0; i < n; i++ {
		s, err := m.cpu.DisasmAt(addr)
		if err != nil {
			return err
		}
		m.printf("%06o: %s", addr, s)
		addr += 2
	}
	return nil
}

func (m *Monitor) showHistory(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	lines := m.hist.lines()
	if len(lines) == 0 {
		m.printf("no instructions stepped")
		return nil
	}
	m.printf("%s", strings.Join(lines, "\n"))
	return nil
}

func (m *Monitor) regs(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	m.printf("%s", m.cpu.DumpRegisters())
	return nil
}

func (m *Monitor) flags(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	m.printf("%s", m.cpu.Flags().String())
	return nil
}

// statusWord shows the flags in the DEC status word layout, N Z V C in bits 3-0.
// Other bits of a new value are ignored.
func (m *Monitor) statusWord(args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	if len(args) == 1 {
		v, err := octal.Parse(args[0])
		if err != nil {
			return err
		}
		var p psw.PSW
		p.Set(v)
		m.cpu.SetFlags(p.Unpack())
	}
	p := m.cpu.Flags().Pack()
	m.printf("PSW %s %s", octal.Word(p.Get()), p.GetFlags())
	return nil
}

func (m *Monitor) reset(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	m.cpu.Reset()
	m.fault = nil
	m.hist.clear()
	m.printf("reset")
	return nil
}

func (m *Monitor) help(args []string) error {
	names := []string{"step", "reg", "pc", "mem", "memb", "dep", "dis", "hist", "regs", "flags", "psw", "reset", "help"}
	var b strings.Builder
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(&b, "%-5s %-16s %s\n", name, cmd.args, cmd.help)
	}
	m.printf("%s", b.String())
	return nil
}
