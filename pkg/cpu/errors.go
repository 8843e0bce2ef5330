package cpu

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAddressOutOfRange is returned for any memory access at or past MemorySize.
	ErrAddressOutOfRange = errors.New("address out of range")
	// ErrStackUnderflow is returned when a subroutine returns with no frame to return to.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrROMTooLarge is returned by Load before any byte is written.
	ErrROMTooLarge = errors.New("rom too large")
	// ErrHalted is returned by Cycle and Step after a fault until Reset is called.
	ErrHalted = errors.New("cpu halted")
)

// Fault is a fatal CPU error tied to the instruction that raised it.
type Fault struct {
	Address uint16 // fetch address of the faulting instruction
	Word    uint16
	Err     error
	// Fetch is set when the instruction itself could not be read; Word is
	// then meaningless.
	Fetch bool
}

func (f *Fault) Error() string {
	if f.Fetch {
		return fmt.Sprintf("fault at 0x%03X (instruction fetch): %v", f.Address, f.Err)
	}
	return fmt.Sprintf("fault at 0x%03X (opcode 0x%04X, %s): %v",
		f.Address, f.Word, Disassemble(f.Word), f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
