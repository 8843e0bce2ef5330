package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("chip8", []string{"roms/pong.ch8"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.ROM != "roms/pong.ch8" {
		t.Errorf("ROM: got %q", cfg.ROM)
	}
	if cfg.CPUHz != 600 || cfg.TimerHz != 60 || cfg.Scale != 10 {
		t.Errorf("defaults: got %d/%d/%d", cfg.CPUHz, cfg.TimerHz, cfg.Scale)
	}
	if cfg.Hold != 150*time.Millisecond {
		t.Errorf("hold: got %v", cfg.Hold)
	}
	if cfg.StatePath != "roms/pong.state" {
		t.Errorf("state path: got %q", cfg.StatePath)
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse("chip8", []string{
		"-cpu-hz", "1000", "-timer-hz", "50", "-lockstep", "-seed", "7",
		"-scale", "4", "-state", "x.state", "-debug", "-trace", "-log", "out.log",
		"game.ch8",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.CPUHz != 1000 || cfg.TimerHz != 50 || !cfg.Lockstep || cfg.Seed != 7 {
		t.Errorf("timing flags: %+v", cfg)
	}
	if cfg.Scale != 4 || cfg.StatePath != "x.state" || !cfg.Debug || !cfg.Trace || cfg.LogFile != "out.log" {
		t.Errorf("other flags: %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no rom", nil},
		{"two roms", []string{"a.ch8", "b.ch8"}},
		{"unknown flag", []string{"-turbo", "a.ch8"}},
		{"zero cpu", []string{"-cpu-hz", "0", "a.ch8"}},
		{"negative timer", []string{"-timer-hz", "-5", "a.ch8"}},
		{"cpu above ceiling", []string{"-cpu-hz", "2000000000", "a.ch8"}},
		{"timer above ceiling", []string{"-timer-hz", "1000001", "a.ch8"}},
		{"scale", []string{"-scale", "100", "a.ch8"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("chip8", tc.args)
			var usageErr *UsageError
			if !errors.As(err, &usageErr) {
				t.Fatalf("expected *UsageError, got %v", err)
			}
			if !strings.Contains(usageErr.Usage, "usage: chip8") {
				t.Errorf("usage text missing: %q", usageErr.Usage)
			}
		})
	}
}

func TestParseRateCeiling(t *testing.T) {
	cfg, err := Parse("chip8", []string{"-cpu-hz", "1000000", "-timer-hz", "1000000", "a.ch8"})
	if err != nil {
		t.Fatalf("rates at the ceiling should parse: %v", err)
	}
	if cfg.CPUHz != MaxRateHz || cfg.TimerHz != MaxRateHz {
		t.Errorf("rates: got %d/%d", cfg.CPUHz, cfg.TimerHz)
	}

	_, err = Parse("chip8", []string{"-cpu-hz", "2000000000", "a.ch8"})
	if err == nil || !strings.Contains(err.Error(), "-cpu-hz must be between 1 and 1000000") {
		t.Errorf("expected a range error, got %v", err)
	}
}

func TestParseHelp(t *testing.T) {
	_, err := Parse("chip8", []string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chip8.log")

	logger, err := NewLogger(false, true, path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("hidden when quiet")
	logger.Warn("always shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hidden when quiet") {
		t.Error("info message written in quiet mode")
	}
	if !strings.Contains(string(data), "always shown") {
		t.Error("warning missing from log")
	}
}
