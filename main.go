package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"micro11/console"
	"micro11/cpu"
	"micro11/editor"
	"micro11/logger"
	"micro11/monitor"

	"github.com/jroimartin/gocui"
)

var (
	memorySize = flag.Uint("memory", 65536, "physical memory size in bytes")
	logPath    = flag.String("log", "", "log file; the simple console logs to stdout when empty")
	simple     = flag.Bool("simple", false, "plain terminal instead of the gui")
	trace      = flag.Bool("trace", false, "log state and disassembly of every executed instruction")
)

func main() {
	flag.Parse()
	if *memorySize == 0 || uint64(*memorySize) > math.MaxUint32 {
		fmt.Fprintf(os.Stderr, "-memory must be between 1 and %d\n", uint32(math.MaxUint32))
		os.Exit(2)
	}

	var l *log.Logger
	if *logPath == "" && !*simple {
		// stdout belongs to the gui
		l = logger.Discard()
	} else {
		var err error
		if l, err = logger.New(*logPath); err != nil {
			log.Fatal(err)
		}
	}

	c := cpu.New(uint32(*memorySize))
	if *trace {
		c.SetTracer(l)
	}

	if *simple {
		if err := runSimple(c, l); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := runGui(c, l); err != nil {
		log.Panicln(err)
	}
}

// runSimple reads keys from the terminal, or stdin when it is not one,
// and runs every completed line
func runSimple(c *cpu.CPU, l *log.Logger) error {
	kb, err := console.OpenKeyboard("/dev/tty")
	if err != nil {
		l.Printf("no terminal, reading stdin: %v", err)
		kb = console.NewKeyboard(os.Stdin)
	}
	defer kb.Close()

	out := console.NewSimple(os.Stdout)
	out.CRLF = kb.Raw()
	mon := monitor.New(c, out, l)
	ed := editor.New()

	out.WriteConsole(fmt.Sprintf("micro11, %d bytes of memory. help lists the commands.", c.Memory().Size()))
	out.Prompt()
	for {
		r, err := kb.ReadKey()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if kb.Raw() {
			out.Echo(r)
		}
		if line, done := ed.Key(r); done {
			mon.Exec(line)
			out.Prompt()
		}
	}
}

func runGui(c *cpu.CPU, l *log.Logger) error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("couldn't create gui: %w", err)
	}
	defer g.Close()

	g.Cursor = true
	g.SetManagerFunc(layout)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return err
	}

	out := console.NewGui(g, "status")
	mon := monitor.New(c, out, l)
	ce := &consoleEditor{ed: editor.New(), mon: mon}

	// start: wire the editor once the views exist
	g.Update(func(g *gocui.Gui) error {
		v, err := g.View("console")
		if err != nil {
			return err
		}
		v.Editable = true
		v.Editor = gocui.EditorFunc(func(v *gocui.View, k gocui.Key, ch rune, mod gocui.Modifier) {
			ce.Edit(v, k, ch, mod)
			updateRegisters(g, mon)
		})
		if err := g.SetKeybinding("console", gocui.KeyCtrlL, gocui.ModNone, ce.clear); err != nil {
			return err
		}
		if _, err := g.SetCurrentView("console"); err != nil {
			return err
		}
		ce.render(v)
		out.WriteConsole(fmt.Sprintf("micro11, %d bytes of memory. help lists the commands.", c.Memory().Size()))
		return updateRegisters(g, mon)
	})

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// gocui layout
func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// up -> console
	if v, err := g.SetView("console", 0, 0, maxX-1, maxY-18); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Console"
	}
	// middle -> register values
	if v, err := g.SetView("registers", 0, maxY-17, maxX-1, maxY-14); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Registers"
	}
	// down -> monitor output
	if v, err := g.SetView("status", 0, maxY-13, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
		v.Autoscroll = true
		v.Wrap = true
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
