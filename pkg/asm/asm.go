package asm

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"gochip8/pkg/cpu"
)

type encoder func(a *Assembler, ops []string, lineNo int) (uint16, error)

var encoders = map[string]encoder{
	"CLS":  fixed(0x00E0),
	"RET":  fixed(0x00EE),
	"JP":   encodeJP,
	"CALL": encodeAddr(0x2000),
	"SE":   encodeCompare(0x3000, 0x5000),
	"SNE":  encodeCompare(0x4000, 0x9000),
	"LD":   encodeLD,
	"ADD":  encodeADD,
	"OR":   encodeALU(0x1),
	"AND":  encodeALU(0x2),
	"XOR":  encodeALU(0x3),
	"SUB":  encodeALU(0x5),
	"SHR":  encodeShift(0x6),
	"SUBN": encodeALU(0x7),
	"SHL":  encodeShift(0xE),
	"RND":  encodeRND,
	"DRW":  encodeDRW,
	"SKP":  encodeKey(0x9E),
	"SKNP": encodeKey(0xA1),
}

// Assembler turns CHIP-8 assembly into a ROM image loaded at cpu.ProgramStart.
// Addresses, labels and the source map are absolute.
type Assembler struct {
	labels map[string]uint16
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

func NewAssembler() *Assembler {
	return &Assembler{
		labels: make(map[string]uint16),
	}
}

func Assemble(code string) ([]byte, map[uint16]int, error) {
	return NewAssembler().Assemble(code)
}

// Assemble returns the ROM bytes and a map from instruction address to the
// 1-based source line that produced it.
func (a *Assembler) Assemble(code string) ([]byte, map[uint16]int, error) {
	lines := strings.Split(code, "\n")

	if err := a.pass1(lines); err != nil {
		return nil, nil, err
	}

	return a.pass2(lines)
}

func (a *Assembler) pass1(lines []string) error {
	address := uint32(cpu.ProgramStart)

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return err
		}

		for _, lbl := range p.labels {
			key := normalizeLabel(lbl)
			if _, exists := a.labels[key]; exists {
				return errors.Errorf("duplicate label '%s' on line %d", lbl, lineNo)
			}
			if isReserved(key) {
				return errors.Errorf("label '%s' on line %d is a reserved word", lbl, lineNo)
			}
			a.labels[key] = uint16(address)
		}

		if p.mnemonic == "" {
			continue
		}

		switch p.mnemonic {
		case ".ORG":
			target, err := parseNumber(p.operands[0])
			if err != nil || target >= cpu.MemorySize {
				return errors.Errorf("invalid .ORG value on line %d: %s", lineNo, p.operands[0])
			}
			if uint32(target) < address {
				return errors.Errorf("cannot move origin backward on line %d", lineNo)
			}
			address = uint32(target)
			continue
		case ".BYTE":
			address += uint32(len(p.operands))
		case ".WORD":
			address += uint32(len(p.operands)) * 2
		default:
			if _, ok := encoders[p.mnemonic]; !ok {
				return errors.Errorf("unknown instruction on line %d: %s", lineNo, p.mnemonic)
			}
			address += cpu.InstructionSize
		}

		if address > cpu.MemorySize {
			return errors.Errorf("program too large near line %d", lineNo)
		}
	}

	return nil
}

func (a *Assembler) pass2(lines []string) ([]byte, map[uint16]int, error) {
	program := make([]byte, 0)
	sourceMap := make(map[uint16]int)

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, nil, err
		}

		if p.mnemonic == "" {
			continue
		}

		mnemonic := p.mnemonic
		ops := p.operands
		address := uint16(cpu.ProgramStart + len(program))

		if mnemonic == ".ORG" {
			target, _ := parseNumber(ops[0])
			program = append(program, make([]byte, int(target)-int(address))...)
			continue
		}

		sourceMap[address] = lineNo

		switch mnemonic {
		case ".BYTE":
			for _, op := range ops {
				val, err := a.parseImmediate(op, 0xFF, lineNo)
				if err != nil {
					return nil, nil, err
				}
				program = append(program, byte(val))
			}
			continue
		case ".WORD":
			for _, op := range ops {
				val, err := a.parseImmediate(op, 0xFFFF, lineNo)
				if err != nil {
					return nil, nil, err
				}
				program = append(program, byte(val>>8), byte(val))
			}
			continue
		}

		instr, err := encoders[mnemonic](a, ops, lineNo)
		if err != nil {
			return nil, nil, err
		}
		program = append(program, byte(instr>>8), byte(instr))
	}

	return program, sourceMap, nil
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	if line == "" {
		return p, nil
	}

	for {
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			break
		}

		beforeColon := strings.TrimSpace(line[:colon])
		if beforeColon == "" {
			return p, errors.Errorf("invalid label on line %d", lineNo)
		}

		if strings.ContainsAny(beforeColon, " \t") {
			break
		}

		if !isIdentifier(beforeColon) {
			return p, errors.Errorf("invalid label '%s' on line %d", beforeColon, lineNo)
		}

		p.labels = append(p.labels, beforeColon)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	fields := strings.Fields(normalizeInstructionText(line))
	if len(fields) == 0 {
		return p, nil
	}

	p.mnemonic = strings.ToUpper(fields[0])
	if len(fields) > 1 {
		p.operands = fields[1:]
	}

	// the disassembler's listing syntax
	switch p.mnemonic {
	case "DB":
		p.mnemonic = ".BYTE"
	case "DW":
		p.mnemonic = ".WORD"
	}

	switch p.mnemonic {
	case ".ORG":
		if len(p.operands) != 1 {
			return p, errors.Errorf(".ORG expects exactly one operand on line %d", lineNo)
		}
	case ".BYTE", ".WORD":
		if len(p.operands) == 0 {
			return p, errors.Errorf("%s expects at least one operand on line %d", p.mnemonic, lineNo)
		}
	}

	return p, nil
}

func stripComments(line string) string {
	semicolon := strings.Index(line, ";")
	doubleSlash := strings.Index(line, "//")

	cut := -1
	if semicolon >= 0 {
		cut = semicolon
	}
	if doubleSlash >= 0 && (cut == -1 || doubleSlash < cut) {
		cut = doubleSlash
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

func normalizeInstructionText(line string) string {
	return strings.ReplaceAll(line, ",", " ")
}

// parseRegister accepts V0-VF in either case.
func parseRegister(token string, lineNo int) (uint16, error) {
	t := strings.ToUpper(token)
	if len(t) == 2 && t[0] == 'V' {
		if n, err := strconv.ParseUint(t[1:], 16, 8); err == nil {
			return uint16(n), nil
		}
	}
	return 0, errors.Errorf("invalid register '%s' on line %d", token, lineNo)
}

func isRegister(token string) bool {
	_, err := parseRegister(token, 0)
	return err == nil
}

// parseNumber accepts $-prefixed hex as well as anything strconv understands
// with base prefixes.
func parseNumber(token string) (uint64, error) {
	if strings.HasPrefix(token, "$") {
		return strconv.ParseUint(token[1:], 16, 32)
	}
	return strconv.ParseUint(token, 0, 32)
}

func (a *Assembler) parseImmediate(token string, limit uint16, lineNo int) (uint16, error) {
	if value, err := parseNumber(token); err == nil {
		if value > uint64(limit) {
			return 0, errors.Errorf("immediate out of range on line %d: %s", lineNo, token)
		}
		return uint16(value), nil
	}

	label := normalizeLabel(token)
	if addr, ok := a.labels[label]; ok {
		if addr > limit {
			return 0, errors.Errorf("label '%s' out of range on line %d", token, lineNo)
		}
		return addr, nil
	}

	if isIdentifier(token) {
		return 0, errors.Errorf("undefined label '%s' on line %d", token, lineNo)
	}

	return 0, errors.Errorf("invalid immediate '%s' on line %d", token, lineNo)
}

var reserved = map[string]bool{
	"I": true, "DT": true, "ST": true, "K": true, "F": true, "B": true,
}

func isReserved(word string) bool {
	return reserved[word] || isRegister(word) || encoders[word] != nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func normalizeLabel(label string) string {
	return strings.ToUpper(label)
}
