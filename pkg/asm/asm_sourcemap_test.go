package asm

import (
	"testing"
)

func TestAssembleSourceMap(t *testing.T) {
	code := `
; Line 2: comment
LD V0, 10       ; Line 3
                ; Line 4: empty
LABEL:          ; Line 5
ADD V0, V1      ; Line 6
.ORG $210       ; Line 7
CLS             ; Line 8
.BYTE 1, 2, 3   ; Line 9
RET             ; Line 10
`
	_, sourceMap, err := Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	tests := []struct {
		addr uint16
		line int
	}{
		{0x200, 3},
		{0x202, 6},
		{0x210, 8},
		{0x212, 9},
		{0x215, 10},
	}

	for _, tc := range tests {
		if got := sourceMap[tc.addr]; got != tc.line {
			t.Errorf("sourceMap[0x%03X] = %d; want %d", tc.addr, got, tc.line)
		}
	}
	if len(sourceMap) != len(tests) {
		t.Errorf("sourceMap has %d entries, want %d", len(sourceMap), len(tests))
	}
}
