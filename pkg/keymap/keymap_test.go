package keymap

import (
	"testing"

	"gochip8/pkg/cpu"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		r    rune
		want cpu.Key
	}{
		{'1', cpu.Key1},
		{'4', cpu.KeyC},
		{'q', cpu.Key4},
		{'R', cpu.KeyD},
		{'x', cpu.Key0},
		{'V', cpu.KeyF},
	}
	for _, tc := range tests {
		got, ok := Lookup(tc.r)
		if !ok || got != tc.want {
			t.Errorf("Lookup(%q) = %X, %v; want %X", tc.r, got, ok, tc.want)
		}
	}
	if _, ok := Lookup('p'); ok {
		t.Error("Lookup('p') should miss")
	}
}

func TestLayoutCoversEveryKey(t *testing.T) {
	var seen [cpu.KeyCount]bool
	for _, row := range Rows() {
		for _, r := range row {
			k, ok := Lookup(r)
			if !ok {
				t.Fatalf("row rune %q not mapped", r)
			}
			if seen[k] {
				t.Errorf("key %X mapped twice", k)
			}
			seen[k] = true
		}
	}
	for k, ok := range seen {
		if !ok {
			t.Errorf("key %X unreachable", k)
		}
	}
}

func TestArrows(t *testing.T) {
	if Arrows[Up] != cpu.Key2 || Arrows[Down] != cpu.Key8 || Arrows[Left] != cpu.Key4 || Arrows[Right] != cpu.Key6 {
		t.Errorf("arrow layout: %v", Arrows)
	}
}
