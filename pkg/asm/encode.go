package asm

import (
	"strings"

	"github.com/pkg/errors"
)

func expect(mnemonic string, ops []string, n, lineNo int) error {
	if len(ops) != n {
		return errors.Errorf("%s expects %d operands on line %d", mnemonic, n, lineNo)
	}
	return nil
}

func fixed(word uint16) encoder {
	return func(_ *Assembler, ops []string, lineNo int) (uint16, error) {
		if len(ops) != 0 {
			return 0, errors.Errorf("unexpected operands on line %d", lineNo)
		}
		return word, nil
	}
}

func encodeAddr(base uint16) encoder {
	return func(a *Assembler, ops []string, lineNo int) (uint16, error) {
		if err := expect("instruction", ops, 1, lineNo); err != nil {
			return 0, err
		}
		nnn, err := a.parseImmediate(ops[0], 0xFFF, lineNo)
		if err != nil {
			return 0, err
		}
		return base | nnn, nil
	}
}

// JP addr | JP V0, addr
func encodeJP(a *Assembler, ops []string, lineNo int) (uint16, error) {
	if len(ops) == 2 {
		if !strings.EqualFold(ops[0], "V0") {
			return 0, errors.Errorf("JP with offset only takes V0 on line %d", lineNo)
		}
		return encodeAddr(0xB000)(a, ops[1:], lineNo)
	}
	return encodeAddr(0x1000)(a, ops, lineNo)
}

// SE/SNE Vx, byte | Vx, Vy
func encodeCompare(immBase, regBase uint16) encoder {
	return func(a *Assembler, ops []string, lineNo int) (uint16, error) {
		if err := expect("compare", ops, 2, lineNo); err != nil {
			return 0, err
		}
		x, err := parseRegister(ops[0], lineNo)
		if err != nil {
			return 0, err
		}
		if isRegister(ops[1]) {
			y, _ := parseRegister(ops[1], lineNo)
			return regBase | x<<8 | y<<4, nil
		}
		kk, err := a.parseImmediate(ops[1], 0xFF, lineNo)
		if err != nil {
			return 0, err
		}
		return immBase | x<<8 | kk, nil
	}
}

func encodeLD(a *Assembler, ops []string, lineNo int) (uint16, error) {
	if err := expect("LD", ops, 2, lineNo); err != nil {
		return 0, err
	}
	dst, src := strings.ToUpper(ops[0]), strings.ToUpper(ops[1])

	if isRegister(dst) {
		x, _ := parseRegister(dst, lineNo)
		switch {
		case isRegister(src):
			y, _ := parseRegister(src, lineNo)
			return 0x8000 | x<<8 | y<<4, nil
		case src == "DT":
			return 0xF007 | x<<8, nil
		case src == "K":
			return 0xF00A | x<<8, nil
		case src == "[I]":
			return 0xF065 | x<<8, nil
		}
		kk, err := a.parseImmediate(ops[1], 0xFF, lineNo)
		if err != nil {
			return 0, err
		}
		return 0x6000 | x<<8 | kk, nil
	}

	if dst == "I" {
		nnn, err := a.parseImmediate(ops[1], 0xFFF, lineNo)
		if err != nil {
			return 0, err
		}
		return 0xA000 | nnn, nil
	}

	low, ok := map[string]uint16{"DT": 0x15, "ST": 0x18, "F": 0x29, "B": 0x33, "[I]": 0x55}[dst]
	if !ok {
		return 0, errors.Errorf("invalid LD destination '%s' on line %d", ops[0], lineNo)
	}
	x, err := parseRegister(src, lineNo)
	if err != nil {
		return 0, err
	}
	return 0xF000 | x<<8 | low, nil
}

// ADD Vx, byte | Vx, Vy | I, Vx
func encodeADD(a *Assembler, ops []string, lineNo int) (uint16, error) {
	if err := expect("ADD", ops, 2, lineNo); err != nil {
		return 0, err
	}
	if strings.EqualFold(ops[0], "I") {
		x, err := parseRegister(ops[1], lineNo)
		if err != nil {
			return 0, err
		}
		return 0xF01E | x<<8, nil
	}
	x, err := parseRegister(ops[0], lineNo)
	if err != nil {
		return 0, err
	}
	if isRegister(ops[1]) {
		y, _ := parseRegister(ops[1], lineNo)
		return 0x8004 | x<<8 | y<<4, nil
	}
	kk, err := a.parseImmediate(ops[1], 0xFF, lineNo)
	if err != nil {
		return 0, err
	}
	return 0x7000 | x<<8 | kk, nil
}

func encodeALU(n uint16) encoder {
	return func(_ *Assembler, ops []string, lineNo int) (uint16, error) {
		if err := expect("ALU op", ops, 2, lineNo); err != nil {
			return 0, err
		}
		x, err := parseRegister(ops[0], lineNo)
		if err != nil {
			return 0, err
		}
		y, err := parseRegister(ops[1], lineNo)
		if err != nil {
			return 0, err
		}
		return 0x8000 | x<<8 | y<<4 | n, nil
	}
}

// SHR/SHL Vx, Vy. With one operand the source is Vx itself.
func encodeShift(n uint16) encoder {
	return func(a *Assembler, ops []string, lineNo int) (uint16, error) {
		if len(ops) == 1 {
			ops = []string{ops[0], ops[0]}
		}
		return encodeALU(n)(a, ops, lineNo)
	}
}

func encodeRND(a *Assembler, ops []string, lineNo int) (uint16, error) {
	if err := expect("RND", ops, 2, lineNo); err != nil {
		return 0, err
	}
	x, err := parseRegister(ops[0], lineNo)
	if err != nil {
		return 0, err
	}
	kk, err := a.parseImmediate(ops[1], 0xFF, lineNo)
	if err != nil {
		return 0, err
	}
	return 0xC000 | x<<8 | kk, nil
}

func encodeDRW(a *Assembler, ops []string, lineNo int) (uint16, error) {
	if err := expect("DRW", ops, 3, lineNo); err != nil {
		return 0, err
	}
	x, err := parseRegister(ops[0], lineNo)
	if err != nil {
		return 0, err
	}
	y, err := parseRegister(ops[1], lineNo)
	if err != nil {
		return 0, err
	}
	n, err := a.parseImmediate(ops[2], 0xF, lineNo)
	if err != nil {
		return 0, err
	}
	return 0xD000 | x<<8 | y<<4 | n, nil
}

func encodeKey(low uint16) encoder {
	return func(_ *Assembler, ops []string, lineNo int) (uint16, error) {
		if err := expect("key op", ops, 1, lineNo); err != nil {
			return 0, err
		}
		x, err := parseRegister(ops[0], lineNo)
		if err != nil {
			return 0, err
		}
		return 0xE000 | x<<8 | low, nil
	}
}
