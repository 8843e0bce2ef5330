package cpu

import "fmt"

// Disassemble renders word as assembler text. Words outside the instruction
// set come back as a DW directive so the output still assembles.
func Disassemble(word uint16) string {
	op := Decode(word)
	x, y, n, kk, nnn := op.X, op.Y, op.N, op.KK(), op.NNN()

	switch op.Category {
	case 0x0:
		switch word {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
	case 0x1:
		return fmt.Sprintf("JP $%03X", nnn)
	case 0x2:
		return fmt.Sprintf("CALL $%03X", nnn)
	case 0x3:
		return fmt.Sprintf("SE V%X, $%02X", x, kk)
	case 0x4:
		return fmt.Sprintf("SNE V%X, $%02X", x, kk)
	case 0x5:
		if n == 0 {
			return fmt.Sprintf("SE V%X, V%X", x, y)
		}
	case 0x6:
		return fmt.Sprintf("LD V%X, $%02X", x, kk)
	case 0x7:
		return fmt.Sprintf("ADD V%X, $%02X", x, kk)
	case 0x8:
		if mnemonic, ok := aluMnemonics[n]; ok {
			return fmt.Sprintf("%s V%X, V%X", mnemonic, x, y)
		}
	case 0x9:
		if n == 0 {
			return fmt.Sprintf("SNE V%X, V%X", x, y)
		}
	case 0xA:
		return fmt.Sprintf("LD I, $%03X", nnn)
	case 0xB:
		return fmt.Sprintf("JP V0, $%03X", nnn)
	case 0xC:
		return fmt.Sprintf("RND V%X, $%02X", x, kk)
	case 0xD:
		return fmt.Sprintf("DRW V%X, V%X, $%X", x, y, n)
	case 0xE:
		switch kk {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", x)
		}
	case 0xF:
		if format, ok := miscFormats[kk]; ok {
			return fmt.Sprintf(format, x)
		}
	}
	return fmt.Sprintf("DW $%04X", word)
}

var aluMnemonics = map[uint8]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

var miscFormats = map[uint8]string{
	0x07: "LD V%X, DT",
	0x0A: "LD V%X, K",
	0x15: "LD DT, V%X",
	0x18: "LD ST, V%X",
	0x1E: "ADD I, V%X",
	0x29: "LD F, V%X",
	0x33: "LD B, V%X",
	0x55: "LD [I], V%X",
	0x65: "LD V%X, [I]",
}

// Line is one disassembled instruction.
type Line struct {
	Address uint16
	Word    uint16
	Text    string
}

// DisassembleBytes walks code two bytes at a time starting at origin. A
// trailing odd byte is emitted as a DB directive.
func DisassembleBytes(code []byte, origin uint16) []Line {
	lines := make([]Line, 0, (len(code)+1)/2)
	for i := 0; i < len(code); i += InstructionSize {
		addr := origin + uint16(i)
		if i+1 >= len(code) {
			lines = append(lines, Line{Address: addr, Word: uint16(code[i]), Text: fmt.Sprintf("DB $%02X", code[i])})
			break
		}
		word := uint16(code[i])<<8 | uint16(code[i+1])
		lines = append(lines, Line{Address: addr, Word: word, Text: Disassemble(word)})
	}
	return lines
}
