package console

import (
	"fmt"
	"io"
	"sync"
)

// Simple console type definition.
// Writes plain lines to out, used when the gocui interface is not wanted.
type Simple struct {
	mu  sync.Mutex
	out io.Writer

	// CRLF ends lines with "\r\n", needed while the terminal is in raw mode
	CRLF bool
}

// NewSimple returns a console writing to out
func NewSimple(out io.Writer) *Simple {
	return &Simple{out: out}
}

func (c *Simple) eol() string {
	if c.CRLF {
		return "\r\n"
	}
	return "\n"
}

// WriteConsole displays a string on the console
func (c *Simple) WriteConsole(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range splitLines(msg) {
		if _, err := fmt.Fprint(c.out, line, c.eol()); err != nil {
			return err
		}
	}
	return nil
}

// WriteFault displays msg in red
func (c *Simple) WriteFault(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range splitLines(msg) {
		if _, err := faultColor.Fprint(c.out, line); err != nil {
			return err
		}
		if _, err := io.WriteString(c.out, c.eol()); err != nil {
			return err
		}
	}
	return nil
}

// Prompt shows the command prompt, without a line end
func (c *Simple) Prompt() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := promptColor.Fprint(c.out, Prompt)
	return err
}

// Echo mirrors a typed key, the raw terminal does not echo by itself
func (c *Simple) Echo(r rune) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	switch r {
	case '\n':
		_, err = io.WriteString(c.out, c.eol())
	case '\r':
	case 0x08, 0x7f:
		_, err = io.WriteString(c.out, "\b \b")
	default:
		_, err = fmt.Fprintf(c.out, "%c", r)
	}
	return err
}
