package main

import (
	"testing"

	"github.com/gdamore/tcell"

	"gochip8/pkg/cpu"
)

func newSimDisplay(t *testing.T) (*termDisplay, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(sim.Fini)
	sim.SetSize(80, 24)
	return newTermDisplay(sim, cpu.NewSurface(cpu.DisplayWidth, cpu.DisplayHeight)), sim
}

func TestTermDisplayHalfBlocks(t *testing.T) {
	d, sim := newSimDisplay(t)

	d.FlipPixel(2, 0) // top half of cell (2,0)
	d.FlipPixel(3, 1) // bottom half of cell (3,0)
	d.FlipPixel(4, 0)
	d.FlipPixel(4, 1)
	if !d.draw() {
		t.Fatal("first draw should paint")
	}

	tests := []struct {
		x          int
		wantTop    bool
		wantBottom bool
	}{
		{1, false, false},
		{2, true, false},
		{3, false, true},
		{4, true, true},
	}
	for _, tc := range tests {
		mainc, _, style, _ := sim.GetContent(tc.x, 0)
		if mainc != upperHalf {
			t.Errorf("cell %d: expected half block, got %q", tc.x, mainc)
		}
		fg, bg, _ := style.Decompose()
		if (fg == d.on) != tc.wantTop || (bg == d.on) != tc.wantBottom {
			t.Errorf("cell %d: fg on=%v bg on=%v, want %v/%v", tc.x, fg == d.on, bg == d.on, tc.wantTop, tc.wantBottom)
		}
	}
}

func TestTermDisplayRedrawsOnlyWhenDirty(t *testing.T) {
	d, _ := newSimDisplay(t)

	d.draw()
	if d.draw() {
		t.Error("clean display should not redraw")
	}

	var display cpu.Display = d
	display.Refresh()
	if !d.draw() {
		t.Error("Refresh should mark the display dirty")
	}
	if d.Frame() != 1 {
		t.Errorf("surface frame: expected 1, got %d", d.Frame())
	}
}

func TestTermDisplayStatus(t *testing.T) {
	d, sim := newSimDisplay(t)
	d.drawStatus("PAUSED")

	for i, want := range "PAUSED" {
		got, _, _, _ := sim.GetContent(i, d.Rows())
		if got != want {
			t.Errorf("status col %d: expected %q, got %q", i, want, got)
		}
	}
	if got, _, _, _ := sim.GetContent(10, d.Rows()); got != ' ' {
		t.Errorf("status padding: got %q", got)
	}
}
