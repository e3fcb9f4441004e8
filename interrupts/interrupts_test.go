package interrupts

import (
	"errors"
	"fmt"
	"testing"
)

func TestTrap_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"bus matches bus", Bus(0200000, "read"), ErrBus, true},
		{"bus is not invalid", Bus(0200000, "read"), ErrInvalidInstruction, false},
		{"invalid matches invalid", Invalid(0170000, "FP"), ErrInvalidInstruction, true},
		{"wrapped bus", fmt.Errorf("step: %w", Bus(2, "write")), ErrBus, true},
		{"plain error", errors.New("bus"), ErrBus, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestTrap_Error(t *testing.T) {
	got := Bus(010000, "word read").Error()
	want := "trap 004: bus error at 010000: word read"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	got = Invalid(0104400, "TRAP not implemented").Error()
	want = "trap 010: instruction 104400: TRAP not implemented"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
