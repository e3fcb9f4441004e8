package console

import (
	"strings"

	"github.com/fatih/color"
)

/*
group all console output here.

The monitor prints command results, register dumps and faults through
a Console. Two implementations:
	- Gui: lines go to a gocui view, flushed from the gui main loop
	- Simple: lines go to a plain writer, usually the raw terminal
*/

// Console receives monitor output. Multi line messages are split,
// empty lines dropped.
type Console interface {
	// WriteConsole displays a string on the console
	WriteConsole(msg string) error
	// WriteFault displays an error, highlighted where the console can
	WriteFault(msg string) error
}

var (
	faultColor  = color.New(color.FgRed, color.Bold)
	promptColor = color.New(color.FgYellow, color.Bold)
)

// Prompt printed in front of every command line
const Prompt = ". "

func splitLines(msg string) []string {
	var lines []string
	for _, line := range strings.Split(msg, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
