package console

import (
	"fmt"
	"sync"

	"github.com/jroimartin/gocui"
)

// Gui type definition
type Gui struct {
	g    *gocui.Gui // main gocui GUI object
	view string     // name of the view receiving the output

	mu      sync.Mutex
	pending []string // lines not yet drawn
}

// NewGui returns a console writing into the named view of g
func NewGui(g *gocui.Gui, view string) *Gui {
	return &Gui{g: g, view: view}
}

// WriteConsole displays a string on the console
func (c *Gui) WriteConsole(msg string) error {
	c.queue(splitLines(msg))
	return nil
}

// WriteFault displays msg in red
func (c *Gui) WriteFault(msg string) error {
	lines := splitLines(msg)
	for i := range lines {
		lines[i] = faultColor.Sprint(lines[i])
	}
	c.queue(lines)
	return nil
}

// queue appends lines and schedules a redraw. gocui runs updates from
// separate goroutines, so every update flushes whatever is pending and
// the order of lines is kept.
func (c *Gui) queue(lines []string) {
	if len(lines) == 0 {
		return
	}
	c.mu.Lock()
	c.pending = append(c.pending, lines...)
	c.mu.Unlock()
	c.g.Update(c.flush)
}

func (c *Gui) flush(g *gocui.Gui) error {
	v, err := g.View(c.view)
	if err != nil {
		return err
	}
	c.mu.Lock()
	lines := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, line := range lines {
		fmt.Fprintln(v, line)
	}
	return nil
}
