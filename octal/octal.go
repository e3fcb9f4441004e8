// Package octal parses and formats the octal literals PDP-11 documentation
// is written in.
package octal

import (
	"errors"
	"fmt"
)

// ErrSyntax is returned for anything that is not a 1 to 6 digit octal number
var ErrSyntax = errors.New("not an octal word")

// ErrRange is returned when the value does not fit into 16 bits
var ErrRange = errors.New("octal value out of word range")

// Parse converts up to six octal digits into a word.
// A leading "0" or "0o" prefix is accepted.
func Parse(s string) (uint16, error) {
	if len(s) > 2 && (s[:2] == "0o" || s[:2] == "0O") {
		s = s[2:]
	}
	if len(s) == 0 || len(s) > 7 {
		return 0, fmt.Errorf("%q: %w", s, ErrSyntax)
	}

	var acc uint32
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return 0, fmt.Errorf("%q: %w", s, ErrSyntax)
		}
		acc = acc<<3 | uint32(s[i]-'0')
	}
	if acc > 0xffff {
		return 0, fmt.Errorf("%q: %w", s, ErrRange)
	}
	return uint16(acc), nil
}

// MustParse is like Parse but panics on error. Meant for tests and tables.
func MustParse(s string) uint16 {
	w, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return w
}

// Word formats w as six octal digits
func Word(w uint16) string {
	return fmt.Sprintf("%06o", w)
}

// Byte formats b as three octal digits
func Byte(b byte) string {
	return fmt.Sprintf("%03o", b)
}
