package cpu

// Opcode is one fetched instruction word split into its four nibbles.
type Opcode struct {
	Category uint8 // bits 12-15
	X        uint8 // bits 8-11
	Y        uint8 // bits 4-7
	N        uint8 // bits 0-3
}

// Decode splits word into nibble fields. Every word decodes to some Opcode.
func Decode(word uint16) Opcode {
	return Opcode{
		Category: uint8((word & 0xF000) >> 12),
		X:        uint8((word & 0x0F00) >> 8),
		Y:        uint8((word & 0x00F0) >> 4),
		N:        uint8(word & 0x000F),
	}
}

// KK is the low byte, used as an 8-bit immediate.
func (o Opcode) KK() uint8 {
	return o.Y<<4 | o.N
}

// NNN is the low 12 bits, used as an address immediate.
func (o Opcode) NNN() uint16 {
	return uint16(o.X)<<8 | uint16(o.Y)<<4 | uint16(o.N)
}

// Word reassembles the instruction word.
func (o Opcode) Word() uint16 {
	return uint16(o.Category)<<12 | o.NNN()
}
