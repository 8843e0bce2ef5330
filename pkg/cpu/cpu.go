package cpu

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CPU is the CHIP-8 interpreter. Between cycles it holds nothing but machine
// state; the display is passed in on every Cycle/Step call.
type CPU struct {
	V      [16]uint8
	I      uint16
	PC     ProgramCounter
	Stack  Stack
	Memory Memory
	Delay  Timer
	Sound  Timer
	Keypad Keypad

	Steps uint64

	fault  *Fault
	deep   bool
	logger *zap.Logger
	rng    *rand.Rand
	trace  bool
}

type Option func(*CPU)

func WithLogger(logger *zap.Logger) Option {
	return func(c *CPU) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRand sets the source for Cxkk.
func WithRand(rng *rand.Rand) Option {
	return func(c *CPU) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(trace bool) Option {
	return func(c *CPU) {
		c.trace = trace
	}
}

// New creates a CPU with the font installed and PC at ProgramStart.
func New(opts ...Option) *CPU {
	c := &CPU{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	c.Reset()
	return c
}

// Reset clears all machine state, reinstalls the font and clears any fault.
// Logger, random source and trace setting are kept.
func (c *CPU) Reset() {
	c.V = [16]uint8{}
	c.I = 0
	c.PC.Set(ProgramStart)
	c.Stack.reset(nil)
	c.Memory.clear()
	_ = c.Memory.Load(FontBase, Font[:])
	c.Delay.Set(0)
	c.Sound.Set(0)
	c.Keypad = Keypad{}
	c.Steps = 0
	c.fault = nil
	c.deep = false
}

// Load copies rom into memory at ProgramStart. A rom larger than MaxROMSize
// is rejected and memory is left untouched.
func (c *CPU) Load(rom []byte) error {
	if len(rom) > MaxROMSize {
		return errors.Wrapf(ErrROMTooLarge, "%d bytes, limit is %d", len(rom), MaxROMSize)
	}
	return c.Memory.Load(ProgramStart, rom)
}

func (c *CPU) KeyDown(key Key) {
	c.Keypad.KeyDown(key)
}

func (c *CPU) KeyUp(key Key) {
	c.Keypad.KeyUp(key)
}

// Cycle runs one fetch-decode-execute and then ticks both timers once.
func (c *CPU) Cycle(d Display) error {
	if err := c.Step(d); err != nil {
		return err
	}
	c.TickTimers()
	return nil
}

// Step runs one fetch-decode-execute without touching the timers, for hosts
// that dispatch faster than the 60 Hz timer rate.
func (c *CPU) Step(d Display) error {
	if c.fault != nil {
		return errors.Wrapf(ErrHalted, "after %v", c.fault)
	}

	addr := c.PC.Get()
	word, err := c.Memory.Read16(addr)
	if err != nil {
		return c.raiseFault(&Fault{Address: addr, Err: err, Fetch: true})
	}
	c.PC.Increment()

	if c.trace {
		c.logger.Debug("exec",
			zap.String("address", fmt.Sprintf("0x%03X", addr)),
			zap.String("opcode", fmt.Sprintf("0x%04X", word)),
			zap.String("mnemonic", Disassemble(word)))
	}

	op := Decode(word)
	h := lookup(op)
	if h == nil {
		c.logger.Warn("unsupported opcode",
			zap.String("address", fmt.Sprintf("0x%03X", addr)),
			zap.String("opcode", fmt.Sprintf("0x%04X", word)))
		c.Steps++
		return nil
	}
	if err := h(c, op, d); err != nil {
		return c.raise(addr, word, err)
	}
	c.Steps++
	return nil
}

func (c *CPU) TickTimers() {
	c.Delay.Tick()
	c.Sound.Tick()
}

// SoundActive reports whether the buzzer would be sounding.
func (c *CPU) SoundActive() bool {
	return c.Sound.Get() > 0
}

// Fault returns the fault that halted the CPU, or nil.
func (c *CPU) Fault() *Fault {
	return c.fault
}

func (c *CPU) Halted() bool {
	return c.fault != nil
}

func (c *CPU) raise(addr, word uint16, err error) error {
	return c.raiseFault(&Fault{Address: addr, Word: word, Err: err})
}

func (c *CPU) raiseFault(f *Fault) error {
	c.fault = f
	fields := []zap.Field{zap.String("address", fmt.Sprintf("0x%03X", f.Address))}
	if f.Fetch {
		fields = append(fields, zap.Bool("fetch", true))
	} else {
		fields = append(fields, zap.String("opcode", fmt.Sprintf("0x%04X", f.Word)))
	}
	c.logger.Error("cpu fault", append(fields, zap.Error(f.Err))...)
	return c.fault
}

// State is a plain copy of everything the CPU owns.
type State struct {
	V          [16]uint8
	I          uint16
	PC         uint16
	Stack      []uint16
	Delay      uint8
	Sound      uint8
	Keys       [KeyCount]bool
	LatchedKey int // -1 when no key wait is latched
	Steps      uint64
	Memory     []byte
}

func (c *CPU) State() State {
	s := State{
		V:          c.V,
		I:          c.I,
		PC:         c.PC.Get(),
		Stack:      c.Stack.Frames(),
		Delay:      c.Delay.Get(),
		Sound:      c.Sound.Get(),
		Keys:       c.Keypad.keys,
		LatchedKey: -1,
		Steps:      c.Steps,
		Memory:     c.Memory.Bytes(),
	}
	if key, ok := c.Keypad.Latched(); ok {
		s.LatchedKey = int(key)
	}
	return s
}

// SetState replaces the machine state and clears any fault.
func (c *CPU) SetState(s State) error {
	if len(s.Memory) != MemorySize {
		return errors.Errorf("memory image is %d bytes, want %d", len(s.Memory), MemorySize)
	}
	if s.LatchedKey >= KeyCount {
		return errors.Errorf("latched key %d out of range", s.LatchedKey)
	}
	c.V = s.V
	c.I = s.I
	c.PC.Set(s.PC)
	c.Stack.reset(s.Stack)
	c.Delay.Set(s.Delay)
	c.Sound.Set(s.Sound)
	c.Keypad.keys = s.Keys
	c.Keypad.setLatched(Key(max(s.LatchedKey, 0)), s.LatchedKey >= 0)
	c.Steps = s.Steps
	_ = c.Memory.Load(0, s.Memory)
	c.fault = nil
	c.deep = c.Stack.Depth() > HardwareStackDepth
	return nil
}
