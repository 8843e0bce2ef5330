package cpu

// InstructionSize is the width of every instruction in bytes.
const InstructionSize = 2

type ProgramCounter struct {
	counter uint16
}

func (p *ProgramCounter) Get() uint16 {
	return p.counter
}

func (p *ProgramCounter) Set(addr uint16) {
	p.counter = addr
}

func (p *ProgramCounter) Increment() {
	p.counter += InstructionSize
}

// Decrement steps back one instruction so the same fetch address is replayed
// on the next cycle. Only the key-wait instruction uses it.
func (p *ProgramCounter) Decrement() {
	p.counter -= InstructionSize
}
