package logger

import (
	"io"
	"log"
	"os"
)

// New returns the emulator logger. An empty path logs to stdout,
// anything else is appended to.
func New(path string) (*log.Logger, error) {
	if len(path) == 0 {
		return log.New(os.Stdout, "micro11 ", log.Ldate|log.Ltime|log.Lshortfile), nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}
	l := log.New(f, "micro11 ", log.Ldate|log.Ltime|log.Lshortfile)
	l.Printf("Initializing %s", path)
	return l, nil
}

// Discard returns a logger that drops everything, for the gui when no
// log file is given
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
