package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const demoSource = `
	LD V0, 5
	LD V1, 10
	ADD V0, V1   ; V0 = $F
	LD F, V0
	DRW V2, V2, 5
halt:
	JP halt
`

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.asm")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAssembleListAndRun(t *testing.T) {
	in := writeSource(t, demoSource)
	rom := strings.TrimSuffix(in, ".asm") + ".ch8"

	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-q", "-in", in}, &stdout, &stderr); code != 0 {
		t.Fatalf("assemble exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "assembled 12 bytes -> "+rom) {
		t.Errorf("unexpected assemble output: %q", stdout.String())
	}

	stdout.Reset()
	if code := realMain([]string{"-q", "-disasm", rom}, &stdout, &stderr); code != 0 {
		t.Fatalf("disasm exit %d: %s", code, stderr.String())
	}
	want := []string{
		"200  6005  LD V0, $05",
		"202  610A  LD V1, $0A",
		"204  8014  ADD V0, V1",
		"206  F029  LD F, V0",
		"208  D225  DRW V2, V2, $5",
		"20A  120A  JP $20A",
	}
	got := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("listing: expected %d lines, got %d:\n%s", len(want), len(got), stdout.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("listing line %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	stdout.Reset()
	if code := realMain([]string{"-q", "-run", rom, "-cycles", "20", "-screen"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run exit %d: %s", code, stderr.String())
	}
	out := stdout.String()
	for _, s := range []string{"PC=0x20A", "V0=0F", "V1=0A", "VF=00", "SP=0", "steps=20"} {
		if !strings.Contains(out, s) {
			t.Errorf("run output missing %q:\n%s", s, out)
		}
	}
	// the F glyph starts with a four pixel bar
	if !strings.Contains(out, "\n####....") {
		t.Errorf("screen should show the F glyph:\n%s", out)
	}
}

func TestCustomOutputPath(t *testing.T) {
	in := writeSource(t, "CLS\nRET\n")
	out := filepath.Join(t.TempDir(), "custom.rom")

	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-q", "-in", in, "-out", out}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte{0x00, 0xE0, 0x00, 0xEE}) {
		t.Errorf("unexpected ROM bytes % X", data)
	}
}

func TestRunReportsFault(t *testing.T) {
	rom := filepath.Join(t.TempDir(), "bad.ch8")
	if err := os.WriteFile(rom, []byte{0x00, 0xEE}, 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-q", "-run", rom}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "fault at 0x200 (opcode 0x00EE, RET)") {
		t.Errorf("expected fault diagnostic, got %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "PC=0x202") {
		t.Errorf("registers should still be printed: %q", stdout.String())
	}
}

func TestAssemblyErrorExitsNonZero(t *testing.T) {
	in := writeSource(t, "JP nowhere\n")

	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-q", "-in", in}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "undefined label 'nowhere'") {
		t.Errorf("unexpected error output: %q", stderr.String())
	}
}

func TestNothingToDo(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := realMain(nil, &stdout, &stderr); code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if code := realMain([]string{"-bogus"}, &stdout, &stderr); code != 2 {
		t.Errorf("unknown flag: expected exit 2, got %d", code)
	}
}

func TestQuietFlagHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-h"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "only log warnings and errors") {
		t.Errorf("-q help should match the warn level:\n%s", stderr.String())
	}
}
