// Package editor keeps the lines typed on the emulator keyboard.
//
// Keys arrive one at a time. A line feed closes the current line and opens a
// new one, carriage returns are dropped, so CR LF and bare LF keyboards
// behave the same.
package editor

import (
	"unicode"
	"unicode/utf8"
)

// control keys
const (
	LF  = '\n'
	CR  = '\r'
	BS  = 0x08
	DEL = 0x7f
)

// Editor is an append only line buffer with a cursor on the last line.
// Not safe for concurrent use.
type Editor struct {
	lines []string
}

// New returns an editor holding a single empty line
func New() *Editor {
	return &Editor{lines: []string{""}}
}

// Key feeds one key into the editor. When the key completes a line,
// the line is returned with done set.
func (e *Editor) Key(r rune) (line string, done bool) {
	cur := len(e.lines) - 1
	switch {
	case r == LF:
		line = e.lines[cur]
		e.lines = append(e.lines, "")
		return line, true
	case r == CR:
		// suppressed
	case r == BS || r == DEL:
		s := e.lines[cur]
		if s != "" {
			_, size := utf8.DecodeLastRuneInString(s)
			e.lines[cur] = s[:len(s)-size]
		}
	case r == '\t' || unicode.IsPrint(r):
		e.lines[cur] += string(r)
	}
	return "", false
}

// Current returns the line being edited
func (e *Editor) Current() string {
	return e.lines[len(e.lines)-1]
}

// Lines returns a copy of all lines, the current one last
func (e *Editor) Lines() []string {
	out := make([]string, len(e.lines))
	copy(out, e.lines)
	return out
}

// Tail returns at most the last n lines, for views showing a fixed number of rows
func (e *Editor) Tail(n int) []string {
	if n <= 0 {
		return nil
	}
	lines := e.Lines()
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// Clear drops everything and starts over with one empty line
func (e *Editor) Clear() {
	e.lines = []string{""}
}
