// Command window runs a CHIP-8 ROM in an OpenGL window, with the machine
// status in the title bar.
//
// Keys: the 1234/QWER/ASDF/ZXCV block is the keypad, arrows map to 2/4/6/8.
// P pauses, F2 resets, F5 saves state, F9 restores it, F12 writes a
// screenshot. Esc quits.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gopxl/pixel/v2"
	"github.com/gopxl/pixel/v2/backends/opengl"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
	"gochip8/pkg/keymap"
	"gochip8/pkg/session"
)

func main() {
	cfg, err := config.Parse("window", os.Args[1:])
	if err != nil {
		var usage *config.UsageError
		if errors.As(err, &usage) {
			fmt.Fprintln(os.Stderr, usage.Err)
			fmt.Fprint(os.Stderr, usage.Usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	// opengl.Run owns the main thread, so the result comes back through a
	// variable.
	var runErr error
	opengl.Run(func() {
		runErr = run(cfg, logger)
	})
	if runErr != nil {
		logger.Error("window host stopped", zap.Error(runErr))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	sess := session.New(cfg, logger)
	if err := sess.LoadFile(cfg.ROM); err != nil {
		return err
	}

	scale := cfg.Scale
	if scale < 1 {
		scale = 1
	}
	w := float64(sess.Surface.Width() * scale)
	h := float64(sess.Surface.Height() * scale)

	win, err := opengl.NewWindow(opengl.WindowConfig{
		Title:  "gochip8",
		Bounds: pixel.R(0, 0, w, h),
		VSync:  true,
	})
	if err != nil {
		return errors.Wrap(err, "opening window")
	}
	defer win.Destroy()
	win.SetMatrix(pixel.IM.Scaled(pixel.ZV, 1))

	ui := newHost(sess, scale, logger)
	last := time.Now()
	for !win.Closed() {
		now := time.Now()
		quit, err := ui.frame(win, now.Sub(last))
		last = now
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		ui.draw(win)
		if title := ui.status(); title != ui.title {
			win.SetTitle(title)
			ui.title = title
		}
		win.Update()
	}
	return nil
}

// buttons is the part of the window the host reads input from.
type buttons interface {
	JustPressed(pixel.Button) bool
	JustReleased(pixel.Button) bool
}

// keypadRunes maps pixel buttons onto the runes keymap understands.
var keypadRunes = map[pixel.Button]rune{
	pixel.Key1: '1', pixel.Key2: '2', pixel.Key3: '3', pixel.Key4: '4',
	pixel.KeyQ: 'q', pixel.KeyW: 'w', pixel.KeyE: 'e', pixel.KeyR: 'r',
	pixel.KeyA: 'a', pixel.KeyS: 's', pixel.KeyD: 'd', pixel.KeyF: 'f',
	pixel.KeyZ: 'z', pixel.KeyX: 'x', pixel.KeyC: 'c', pixel.KeyV: 'v',
}

var arrowButtons = map[pixel.Button]keymap.Direction{
	pixel.KeyUp:    keymap.Up,
	pixel.KeyLeft:  keymap.Left,
	pixel.KeyRight: keymap.Right,
	pixel.KeyDown:  keymap.Down,
}

// keypadKey translates a button to a keypad key.
func keypadKey(b pixel.Button) (cpu.Key, bool) {
	if r, ok := keypadRunes[b]; ok {
		return keymap.Lookup(r)
	}
	if dir, ok := arrowButtons[b]; ok {
		k, ok := keymap.Arrows[dir]
		return k, ok
	}
	return 0, false
}

// keypadButtons lists every button that can reach the keypad.
func keypadButtons() []pixel.Button {
	buttons := make([]pixel.Button, 0, len(keypadRunes)+len(arrowButtons))
	for b := range keypadRunes {
		buttons = append(buttons, b)
	}
	for b := range arrowButtons {
		buttons = append(buttons, b)
	}
	return buttons
}

var hotkeys = []pixel.Button{pixel.KeyEscape, pixel.KeyP, pixel.KeyF2, pixel.KeyF5, pixel.KeyF9, pixel.KeyF12}

type host struct {
	sess   *session.Session
	scale  int
	logger *zap.Logger

	sprite  *pixel.Sprite
	drawn   uint64
	title   string
	message string
}

func newHost(sess *session.Session, scale int, logger *zap.Logger) *host {
	return &host{sess: sess, scale: scale, logger: logger, drawn: ^uint64(0)}
}

// frame applies this frame's key edges and runs dt of machine time. It
// reports whether Esc was pressed and returns any CPU fault.
func (h *host) frame(in buttons, dt time.Duration) (bool, error) {
	buttons := keypadButtons()
	for _, b := range buttons {
		if k, ok := keypadKey(b); ok && in.JustReleased(b) {
			h.sess.KeyUp(k)
		}
	}
	for _, b := range buttons {
		if k, ok := keypadKey(b); ok && in.JustPressed(b) {
			h.sess.KeyDown(k)
		}
	}
	for _, b := range hotkeys {
		if in.JustPressed(b) && h.hotkey(b) {
			return true, nil
		}
	}
	return false, h.sess.Advance(dt, nil)
}

func (h *host) hotkey(b pixel.Button) bool {
	switch b {
	case pixel.KeyEscape:
		return true
	case pixel.KeyP:
		h.sess.TogglePause()
		h.message = ""
	case pixel.KeyF2:
		h.report("reset", h.sess.Reset())
	case pixel.KeyF5:
		h.report("state saved", h.sess.SaveState())
	case pixel.KeyF9:
		h.report("state loaded", h.sess.LoadState())
	case pixel.KeyF12:
		path, err := h.sess.Screenshot()
		h.report(path, err)
	}
	return false
}

func (h *host) report(done string, err error) {
	if err != nil {
		h.logger.Warn("hotkey failed", zap.Error(err))
		h.message = err.Error()
		return
	}
	h.message = done
}

func (h *host) status() string {
	if h.message == "" {
		return "gochip8  " + h.sess.Status()
	}
	return "gochip8  " + h.sess.Status() + "  " + h.message
}

// picture rebuilds the sprite when the surface has a new frame.
func (h *host) picture() *pixel.Sprite {
	s := h.sess.Surface
	if frame := s.Frame(); h.sprite == nil || frame != h.drawn {
		pic := pixel.PictureDataFromImage(s.Scaled(h.scale, cpu.ColorOn, cpu.ColorOff))
		h.sprite = pixel.NewSprite(pic, pic.Bounds())
		h.drawn = frame
	}
	return h.sprite
}

func (h *host) draw(win *opengl.Window) {
	win.Clear(cpu.ColorOff)
	h.picture().Draw(win, pixel.IM.Moved(win.Bounds().Center()))
}
