// Package keymap maps host keyboards onto the CHIP-8 hex keypad.
//
// The layout is the usual one, the left block of a QWERTY keyboard:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
package keymap

import (
	"unicode"

	"gochip8/pkg/cpu"
)

// QWERTY maps lower-case runes to keypad keys.
var QWERTY = map[rune]cpu.Key{
	'1': cpu.Key1, '2': cpu.Key2, '3': cpu.Key3, '4': cpu.KeyC,
	'q': cpu.Key4, 'w': cpu.Key5, 'e': cpu.Key6, 'r': cpu.KeyD,
	'a': cpu.Key7, 's': cpu.Key8, 'd': cpu.Key9, 'f': cpu.KeyE,
	'z': cpu.KeyA, 'x': cpu.Key0, 'c': cpu.KeyB, 'v': cpu.KeyF,
}

// Direction is a cursor key.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Arrows maps cursor keys onto the keypad's 2/8/4/6 cross, which most games
// use for movement.
var Arrows = map[Direction]cpu.Key{
	Up:    cpu.Key2,
	Down:  cpu.Key8,
	Left:  cpu.Key4,
	Right: cpu.Key6,
}

// Lookup is case insensitive.
func Lookup(r rune) (cpu.Key, bool) {
	k, ok := QWERTY[unicode.ToLower(r)]
	return k, ok
}

// Rows returns the host runes in keypad order, for help screens.
func Rows() [4]string {
	return [4]string{"1234", "QWER", "ASDF", "ZXCV"}
}
