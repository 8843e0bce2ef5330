package cpu

import "github.com/pkg/errors"

// HardwareStackDepth is the frame limit of the original interpreter. The
// stack here grows past it; crossing it is reported but not fatal.
const HardwareStackDepth = 16

// Stack holds subroutine return addresses.
type Stack struct {
	frames []uint16
}

func (s *Stack) Push(addr uint16) {
	s.frames = append(s.frames, addr)
}

// Pop removes and returns the top frame only.
func (s *Stack) Pop() (uint16, error) {
	if len(s.frames) == 0 {
		return 0, errors.WithStack(ErrStackUnderflow)
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, nil
}

func (s *Stack) Depth() int {
	return len(s.frames)
}

// Frames returns a copy, bottom first.
func (s *Stack) Frames() []uint16 {
	return append([]uint16(nil), s.frames...)
}

func (s *Stack) reset(frames []uint16) {
	s.frames = append(s.frames[:0], frames...)
}
