package main

import (
	"image/color"
	"strings"

	"github.com/gdamore/tcell"

	"gochip8/pkg/cpu"
	"gochip8/pkg/keymap"
)

// upperHalf draws the top pixel of a cell in the foreground colour and the
// bottom pixel in the background colour, so one row of cells shows two rows
// of pixels.
const upperHalf = '▀'

// termDisplay is the CHIP-8 display drawn with tcell. Pixel state lives in
// the embedded surface; Refresh only marks the frame dirty and draw paints
// it at the host frame rate.
type termDisplay struct {
	*cpu.Surface
	screen  tcell.Screen
	on, off tcell.Color
	dirty   bool
}

func newTermDisplay(screen tcell.Screen, surface *cpu.Surface) *termDisplay {
	return &termDisplay{
		Surface: surface,
		screen:  screen,
		on:      tcellColor(cpu.ColorOn),
		off:     tcellColor(cpu.ColorOff),
		dirty:   true,
	}
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (t *termDisplay) Refresh() {
	t.Surface.Refresh()
	t.dirty = true
}

// Rows is the number of terminal rows the picture uses.
func (t *termDisplay) Rows() int {
	return (t.Height() + 1) / 2
}

// draw paints the picture at the top left if anything changed since the last
// call, and reports whether it did.
func (t *termDisplay) draw() bool {
	if !t.dirty {
		return false
	}
	t.dirty = false

	for row := 0; row < t.Rows(); row++ {
		for x := 0; x < t.Width(); x++ {
			top, bottom := t.off, t.off
			if t.Pixel(x, row*2) {
				top = t.on
			}
			if t.Pixel(x, row*2+1) {
				bottom = t.on
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(x, row, upperHalf, nil, style)
		}
	}
	return true
}

// drawStatus writes str on the line below the picture and blanks the rest
// of that line.
func (t *termDisplay) drawStatus(str string) {
	t.drawLine(t.Rows(), str, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}

// drawHelp lists the key bindings on the line under the status.
func (t *termDisplay) drawHelp() {
	t.drawLine(t.Rows()+1, helpText(), tcell.StyleDefault.Foreground(tcell.ColorGray))
}

func helpText() string {
	rows := keymap.Rows()
	return "keys " + strings.Join(rows[:], " ") + "  arrows  p pause  F2 reset  F5 save  F9 load  F12 shot  Esc quit"
}

func (t *termDisplay) drawLine(y int, str string, style tcell.Style) {
	x := 0
	for _, c := range str {
		t.screen.SetContent(x, y, c, nil, style)
		x++
	}
	w, _ := t.screen.Size()
	if w < t.Width() {
		w = t.Width()
	}
	for ; x < w; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
}
