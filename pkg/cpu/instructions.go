package cpu

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type handler func(c *CPU, op Opcode, d Display) error

// lookup matches op against the instruction set. Fixed nibbles must match
// exactly; anything else is unsupported and yields nil.
func lookup(op Opcode) handler {
	switch op.Category {
	case 0x0:
		switch op.Word() {
		case 0x00E0:
			return (*CPU).cls
		case 0x00EE:
			return (*CPU).ret
		}
	case 0x1:
		return (*CPU).jp
	case 0x2:
		return (*CPU).call
	case 0x3:
		return (*CPU).seImm
	case 0x4:
		return (*CPU).sneImm
	case 0x5:
		if op.N == 0 {
			return (*CPU).seReg
		}
	case 0x6:
		return (*CPU).ldImm
	case 0x7:
		return (*CPU).addImm
	case 0x8:
		return aluOps[op.N]
	case 0x9:
		if op.N == 0 {
			return (*CPU).sneReg
		}
	case 0xA:
		return (*CPU).ldI
	case 0xB:
		return (*CPU).jpV0
	case 0xC:
		return (*CPU).rnd
	case 0xD:
		return (*CPU).drw
	case 0xE:
		switch op.KK() {
		case 0x9E:
			return (*CPU).skp
		case 0xA1:
			return (*CPU).sknp
		}
	case 0xF:
		return miscOps[op.KK()]
	}
	return nil
}

var aluOps = [16]handler{
	0x0: (*CPU).ldReg,
	0x1: (*CPU).or,
	0x2: (*CPU).and,
	0x3: (*CPU).xor,
	0x4: (*CPU).addReg,
	0x5: (*CPU).sub,
	0x6: (*CPU).shr,
	0x7: (*CPU).subn,
	0xE: (*CPU).shl,
}

var miscOps = map[uint8]handler{
	0x07: (*CPU).ldVxDT,
	0x0A: (*CPU).ldVxK,
	0x15: (*CPU).ldDTVx,
	0x18: (*CPU).ldSTVx,
	0x1E: (*CPU).addI,
	0x29: (*CPU).ldF,
	0x33: (*CPU).ldB,
	0x55: (*CPU).store,
	0x65: (*CPU).load,
}

// 00E0
func (c *CPU) cls(_ Opcode, d Display) error {
	d.Clear()
	d.Refresh()
	return nil
}

// 00EE
func (c *CPU) ret(_ Opcode, _ Display) error {
	addr, err := c.Stack.Pop()
	if err != nil {
		return err
	}
	c.PC.Set(addr)
	if c.Stack.Depth() <= HardwareStackDepth {
		c.deep = false
	}
	return nil
}

// 1nnn
func (c *CPU) jp(op Opcode, _ Display) error {
	c.PC.Set(op.NNN())
	return nil
}

// 2nnn
func (c *CPU) call(op Opcode, _ Display) error {
	c.Stack.Push(c.PC.Get())
	if c.Stack.Depth() > HardwareStackDepth && !c.deep {
		c.deep = true
		c.logger.Warn("call stack deeper than hardware limit",
			zap.Int("depth", c.Stack.Depth()),
			zap.Int("limit", HardwareStackDepth))
	}
	c.PC.Set(op.NNN())
	return nil
}

func (c *CPU) skipIf(cond bool) {
	if cond {
		c.PC.Increment()
	}
}

// 3xkk
func (c *CPU) seImm(op Opcode, _ Display) error {
	c.skipIf(c.V[op.X] == op.KK())
	return nil
}

// 4xkk
func (c *CPU) sneImm(op Opcode, _ Display) error {
	c.skipIf(c.V[op.X] != op.KK())
	return nil
}

// 5xy0
func (c *CPU) seReg(op Opcode, _ Display) error {
	c.skipIf(c.V[op.X] == c.V[op.Y])
	return nil
}

// 6xkk
func (c *CPU) ldImm(op Opcode, _ Display) error {
	c.V[op.X] = op.KK()
	return nil
}

// 7xkk, no carry flag
func (c *CPU) addImm(op Opcode, _ Display) error {
	c.V[op.X] += op.KK()
	return nil
}

// 8xy0
func (c *CPU) ldReg(op Opcode, _ Display) error {
	c.V[op.X] = c.V[op.Y]
	return nil
}

// The bitwise ops reset VF after writing the result.

// 8xy1
func (c *CPU) or(op Opcode, _ Display) error {
	c.V[op.X] |= c.V[op.Y]
	c.V[0xF] = 0
	return nil
}

// 8xy2
func (c *CPU) and(op Opcode, _ Display) error {
	c.V[op.X] &= c.V[op.Y]
	c.V[0xF] = 0
	return nil
}

// 8xy3
func (c *CPU) xor(op Opcode, _ Display) error {
	c.V[op.X] ^= c.V[op.Y]
	c.V[0xF] = 0
	return nil
}

// The arithmetic ops compute the flag from the operands first and write VF
// last, so the flag wins when x is F.

// 8xy4
func (c *CPU) addReg(op Opcode, _ Display) error {
	sum := uint16(c.V[op.X]) + uint16(c.V[op.Y])
	c.V[op.X] = uint8(sum)
	c.V[0xF] = flag(sum > 0xFF)
	return nil
}

// 8xy5
func (c *CPU) sub(op Opcode, _ Display) error {
	vx, vy := c.V[op.X], c.V[op.Y]
	c.V[op.X] = vx - vy
	c.V[0xF] = flag(vx >= vy)
	return nil
}

// 8xy6, shifts Vy into Vx
func (c *CPU) shr(op Opcode, _ Display) error {
	vy := c.V[op.Y]
	c.V[op.X] = vy >> 1
	c.V[0xF] = vy & 0x01
	return nil
}

// 8xy7
func (c *CPU) subn(op Opcode, _ Display) error {
	vx, vy := c.V[op.X], c.V[op.Y]
	c.V[op.X] = vy - vx
	c.V[0xF] = flag(vy >= vx)
	return nil
}

// 8xyE, shifts Vy into Vx
func (c *CPU) shl(op Opcode, _ Display) error {
	vy := c.V[op.Y]
	c.V[op.X] = vy << 1
	c.V[0xF] = vy >> 7
	return nil
}

// 9xy0
func (c *CPU) sneReg(op Opcode, _ Display) error {
	c.skipIf(c.V[op.X] != c.V[op.Y])
	return nil
}

// Annn
func (c *CPU) ldI(op Opcode, _ Display) error {
	c.I = op.NNN()
	return nil
}

// Bnnn
func (c *CPU) jpV0(op Opcode, _ Display) error {
	c.PC.Set(op.NNN() + uint16(c.V[0]))
	return nil
}

// Cxkk
func (c *CPU) rnd(op Opcode, _ Display) error {
	c.V[op.X] = uint8(c.rng.Intn(256)) & op.KK()
	return nil
}

// Dxyn draws n sprite rows from I. The origin wraps, the sprite itself is
// clipped at the right and bottom edges.
func (c *CPU) drw(op Opcode, d Display) error {
	w, h := d.Width(), d.Height()
	x0 := int(c.V[op.X]) % w
	y0 := int(c.V[op.Y]) % h

	collision := false
	for row := 0; row < int(op.N); row++ {
		y := y0 + row
		if y >= h {
			break
		}
		addr, err := c.indexAddr(row)
		if err != nil {
			return err
		}
		sprite, err := c.Memory.Read8(addr)
		if err != nil {
			return err
		}
		for col := 0; col < 8; col++ {
			x := x0 + col
			if x >= w {
				break
			}
			if sprite&(0x80>>col) == 0 {
				continue
			}
			if !d.FlipPixel(x, y) {
				collision = true
			}
		}
	}
	c.V[0xF] = flag(collision)
	d.Refresh()
	return nil
}

// Ex9E
func (c *CPU) skp(op Opcode, _ Display) error {
	c.skipIf(c.Keypad.IsDown(Key(c.V[op.X])))
	return nil
}

// ExA1
func (c *CPU) sknp(op Opcode, _ Display) error {
	c.skipIf(!c.Keypad.IsDown(Key(c.V[op.X])))
	return nil
}

// Fx07
func (c *CPU) ldVxDT(op Opcode, _ Display) error {
	c.V[op.X] = c.Delay.Get()
	return nil
}

// Fx0A replays itself until a held key has been released.
func (c *CPU) ldVxK(op Opcode, _ Display) error {
	key, ok := c.Keypad.PollRelease()
	if !ok {
		c.PC.Decrement()
		return nil
	}
	c.V[op.X] = uint8(key)
	return nil
}

// Fx15
func (c *CPU) ldDTVx(op Opcode, _ Display) error {
	c.Delay.Set(c.V[op.X])
	return nil
}

// Fx18
func (c *CPU) ldSTVx(op Opcode, _ Display) error {
	c.Sound.Set(c.V[op.X])
	return nil
}

// Fx1E, no flag
func (c *CPU) addI(op Opcode, _ Display) error {
	c.I += uint16(c.V[op.X])
	return nil
}

// Fx29 does not mask Vx to a nibble.
func (c *CPU) ldF(op Opcode, _ Display) error {
	c.I = uint16(c.V[op.X])*FontGlyphSize + FontBase
	return nil
}

// Fx33
func (c *CPU) ldB(op Opcode, _ Display) error {
	v := c.V[op.X]
	for i, digit := range [3]uint8{v / 100, v / 10 % 10, v % 10} {
		addr, err := c.indexAddr(i)
		if err != nil {
			return err
		}
		if err := c.Memory.Write8(addr, digit); err != nil {
			return err
		}
	}
	return nil
}

// Fx55 leaves I pointing past the last stored byte.
func (c *CPU) store(op Opcode, _ Display) error {
	for i := 0; i <= int(op.X); i++ {
		addr, err := c.indexAddr(i)
		if err != nil {
			return err
		}
		if err := c.Memory.Write8(addr, c.V[i]); err != nil {
			return err
		}
	}
	c.I += uint16(op.X) + 1
	return nil
}

// Fx65 leaves I pointing past the last loaded byte.
func (c *CPU) load(op Opcode, _ Display) error {
	for i := 0; i <= int(op.X); i++ {
		addr, err := c.indexAddr(i)
		if err != nil {
			return err
		}
		v, err := c.Memory.Read8(addr)
		if err != nil {
			return err
		}
		c.V[i] = v
	}
	c.I += uint16(op.X) + 1
	return nil
}

// indexAddr returns I+offset without letting the sum wrap around 16 bits.
func (c *CPU) indexAddr(offset int) (uint16, error) {
	addr := int(c.I) + offset
	if addr >= MemorySize {
		return 0, errors.Wrapf(ErrAddressOutOfRange, "I+%d = 0x%X", offset, addr)
	}
	return uint16(addr), nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
