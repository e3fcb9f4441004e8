package main

import (
	"fmt"

	"micro11/console"
	"micro11/editor"
	"micro11/monitor"

	"github.com/jroimartin/gocui"
)

/*
keyboard handling of the console view.

Every key goes through the line editor; the view shows the editor's
lines, newest at the bottom, each behind the prompt. Completed lines
are run by the monitor, whose output goes to the status view.
*/

type consoleEditor struct {
	ed  *editor.Editor
	mon *monitor.Monitor
}

// key translates a gocui key event into an editor key
func key(k gocui.Key, ch rune, mod gocui.Modifier) (rune, bool) {
	switch {
	case ch != 0 && mod == gocui.ModNone:
		return ch, true
	case k == gocui.KeySpace:
		return ' ', true
	case k == gocui.KeyTab:
		return '\t', true
	case k == gocui.KeyEnter:
		return editor.LF, true
	case k == gocui.KeyBackspace || k == gocui.KeyBackspace2:
		return editor.DEL, true
	}
	return 0, false
}

// Edit implements gocui.Editor
func (c *consoleEditor) Edit(v *gocui.View, k gocui.Key, ch rune, mod gocui.Modifier) {
	r, ok := key(k, ch, mod)
	if !ok {
		return
	}
	line, done := c.ed.Key(r)
	c.render(v)
	if done {
		c.mon.Exec(line)
	}
}

// visibleLines returns the editor lines that fit into a view of height
// rows. The line being edited is always shown, even in a collapsed view.
func visibleLines(ed *editor.Editor, height int) []string {
	if height < 1 {
		height = 1
	}
	return ed.Tail(height)
}

func (c *consoleEditor) render(v *gocui.View) {
	_, h := v.Size()
	lines := visibleLines(c.ed, h)

	v.Clear()
	for i, line := range lines {
		if i > 0 {
			fmt.Fprintln(v)
		}
		fmt.Fprint(v, console.Prompt, line)
	}
	v.SetCursor(len(console.Prompt)+len([]rune(c.ed.Current())), len(lines)-1)
}

// clear drops the typed lines, bound to Ctrl-L
func (c *consoleEditor) clear(g *gocui.Gui, v *gocui.View) error {
	c.ed.Clear()
	c.render(v)
	return nil
}

// updateRegisters redraws the register view, run from the gui main loop
func updateRegisters(g *gocui.Gui, mon *monitor.Monitor) error {
	v, err := g.View("registers")
	if err != nil {
		return err
	}
	v.Clear()
	fmt.Fprint(v, mon.Registers())
	return nil
}
