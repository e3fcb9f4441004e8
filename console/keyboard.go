package console

import (
	"bufio"
	"io"

	"github.com/pkg/term"
)

// Keyboard reads single keys, from a terminal in raw mode or any reader
type Keyboard struct {
	t *term.Term // nil unless opened on a terminal
	r *bufio.Reader
}

// OpenKeyboard puts the terminal device into raw mode
func OpenKeyboard(device string) (*Keyboard, error) {
	t, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, err
	}
	return &Keyboard{t: t, r: bufio.NewReader(t)}, nil
}

// NewKeyboard reads keys from r, for piped input
func NewKeyboard(r io.Reader) *Keyboard {
	return &Keyboard{r: bufio.NewReader(r)}
}

// Raw reports whether the keyboard switched a terminal to raw mode.
// Raw terminals neither echo nor translate line ends.
func (k *Keyboard) Raw() bool {
	return k.t != nil
}

// ReadKey returns the next key. Enter arrives as carriage return in raw
// mode and is reported as line feed. Ctrl-C and Ctrl-D end the input with io.EOF.
func (k *Keyboard) ReadKey() (rune, error) {
	return readKey(k.r, k.Raw())
}

func readKey(r io.RuneReader, raw bool) (rune, error) {
	c, _, err := r.ReadRune()
	if err != nil {
		return 0, err
	}
	switch {
	case c == '\r' && raw:
		return '\n', nil
	case c == 0x03, c == 0x04:
		return 0, io.EOF
	}
	return c, nil
}

// Close restores the terminal
func (k *Keyboard) Close() error {
	if k.t == nil {
		return nil
	}
	if err := k.t.Restore(); err != nil {
		k.t.Close()
		return err
	}
	return k.t.Close()
}
