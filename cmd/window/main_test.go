package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/pixel/v2"
	"go.uber.org/zap/zaptest"

	"gochip8/pkg/asm"
	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
	"gochip8/pkg/keymap"
	"gochip8/pkg/session"
)

type fakeButtons struct {
	pressed, released map[pixel.Button]bool
}

func (f fakeButtons) JustPressed(b pixel.Button) bool  { return f.pressed[b] }
func (f fakeButtons) JustReleased(b pixel.Button) bool { return f.released[b] }

func press(bs ...pixel.Button) fakeButtons {
	f := fakeButtons{pressed: map[pixel.Button]bool{}}
	for _, b := range bs {
		f.pressed[b] = true
	}
	return f
}

func release(bs ...pixel.Button) fakeButtons {
	f := fakeButtons{released: map[pixel.Button]bool{}}
	for _, b := range bs {
		f.released[b] = true
	}
	return f
}

const frameTime = time.Second / 60

func newTestHost(t *testing.T, src string) *host {
	t.Helper()
	rom, _, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	cfg := config.Default()
	cfg.StatePath = filepath.Join(t.TempDir(), "test.state")
	cfg.ScreenshotDir = t.TempDir()
	logger := zaptest.NewLogger(t)

	sess := session.New(cfg, logger)
	if err := sess.Load(rom); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return newHost(sess, 2, logger)
}

func TestKeypadCoversEveryKey(t *testing.T) {
	seen := map[cpu.Key]bool{}
	for _, b := range keypadButtons() {
		k, ok := keypadKey(b)
		if !ok {
			t.Errorf("button %v does not resolve", b)
		}
		seen[k] = true
	}
	if len(seen) != cpu.KeyCount {
		t.Errorf("expected all %d keys bound, got %d", cpu.KeyCount, len(seen))
	}
}

func TestFrameKeyWait(t *testing.T) {
	h := newTestHost(t, `
	LD V0, K
	LD V1, 1
halt:
	JP halt
`)

	if _, err := h.frame(press(pixel.KeyLeft), frameTime); err != nil {
		t.Fatal(err)
	}
	if h.sess.CPU.PC.Get() != cpu.ProgramStart {
		t.Fatal("wait should still be pending")
	}
	if _, err := h.frame(release(pixel.KeyLeft), frameTime); err != nil {
		t.Fatal(err)
	}
	if h.sess.CPU.V[0] != uint8(cpu.Key4) || h.sess.CPU.V[1] != 1 {
		t.Errorf("expected V0=4 V1=1, got V0=%X V1=%d", h.sess.CPU.V[0], h.sess.CPU.V[1])
	}
}

func TestButtonsGoThroughKeymap(t *testing.T) {
	saved := keymap.QWERTY['z']
	keymap.QWERTY['z'] = cpu.KeyF
	t.Cleanup(func() { keymap.QWERTY['z'] = saved })

	savedArrow := keymap.Arrows[keymap.Up]
	keymap.Arrows[keymap.Up] = cpu.Key9
	t.Cleanup(func() { keymap.Arrows[keymap.Up] = savedArrow })

	h := newTestHost(t, "loop: JP loop")
	if _, err := h.frame(press(pixel.KeyZ, pixel.KeyUp), frameTime); err != nil {
		t.Fatal(err)
	}
	kp := &h.sess.CPU.Keypad
	if !kp.IsDown(cpu.KeyF) || kp.IsDown(cpu.KeyA) {
		t.Errorf("Z should follow the remapped layout to key F")
	}
	if !kp.IsDown(cpu.Key9) || kp.IsDown(cpu.Key2) {
		t.Errorf("Up should follow the remapped arrows to key 9")
	}

	if _, err := h.frame(release(pixel.KeyZ), frameTime); err != nil {
		t.Fatal(err)
	}
	if kp.IsDown(cpu.KeyF) {
		t.Error("releasing Z should release key F")
	}
}

func TestFrameEscape(t *testing.T) {
	h := newTestHost(t, "loop: JP loop")
	quit, err := h.frame(press(pixel.KeyEscape), frameTime)
	if err != nil || !quit {
		t.Errorf("expected quit, got quit=%v err=%v", quit, err)
	}
}

func TestPauseShowsInTitle(t *testing.T) {
	h := newTestHost(t, "loop: JP loop")
	if _, err := h.frame(press(pixel.KeyP), frameTime); err != nil {
		t.Fatal(err)
	}
	if !h.sess.Paused() {
		t.Fatal("P should pause")
	}
	if got := h.status(); got[len(got)-len("paused"):] != "paused" {
		t.Errorf("title should end in paused, got %q", got)
	}
}

func TestPictureRebuildsOnNewFrame(t *testing.T) {
	h := newTestHost(t, `
	LD I, sprite
	DRW V0, V0, 1
halt:
	JP halt
sprite:
	.BYTE $80
`)
	first := h.picture()
	if got := first.Frame().W(); got != float64(cpu.DisplayWidth*2) {
		t.Errorf("sprite width: expected %d, got %v", cpu.DisplayWidth*2, got)
	}
	if h.picture() != first {
		t.Error("unchanged surface should reuse the sprite")
	}

	if _, err := h.frame(press(), frameTime); err != nil {
		t.Fatal(err)
	}
	if h.picture() == first {
		t.Error("draw should produce a new sprite")
	}
}
