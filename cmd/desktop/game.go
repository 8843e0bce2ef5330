package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"gochip8/pkg/cpu"
	"gochip8/pkg/keymap"
	"gochip8/pkg/session"
)

const (
	ticksPerSecond = 60
	statusHeight   = 16
)

// keypadKeys maps ebiten key codes onto the runes keymap understands.
var keypadKeys = map[ebiten.Key]rune{
	ebiten.KeyDigit1: '1', ebiten.KeyDigit2: '2', ebiten.KeyDigit3: '3', ebiten.KeyDigit4: '4',
	ebiten.KeyQ: 'q', ebiten.KeyW: 'w', ebiten.KeyE: 'e', ebiten.KeyR: 'r',
	ebiten.KeyA: 'a', ebiten.KeyS: 's', ebiten.KeyD: 'd', ebiten.KeyF: 'f',
	ebiten.KeyZ: 'z', ebiten.KeyX: 'x', ebiten.KeyC: 'c', ebiten.KeyV: 'v',
}

var arrowKeys = map[ebiten.Key]keymap.Direction{
	ebiten.KeyArrowUp:    keymap.Up,
	ebiten.KeyArrowDown:  keymap.Down,
	ebiten.KeyArrowLeft:  keymap.Left,
	ebiten.KeyArrowRight: keymap.Right,
}

// keypadKey translates a host key to a keypad key.
func keypadKey(k ebiten.Key) (cpu.Key, bool) {
	if r, ok := keypadKeys[k]; ok {
		return keymap.Lookup(r)
	}
	if dir, ok := arrowKeys[k]; ok {
		return keymap.Arrows[dir], true
	}
	return 0, false
}

// input is one frame's worth of key edges.
type input struct {
	pressed  []ebiten.Key
	released []ebiten.Key
}

type Game struct {
	sess   *session.Session
	logger *zap.Logger
	scale  int

	screen  *ebiten.Image // reused 64x32 canvas
	pix     []byte
	drawn   uint64
	message string
}

func NewGame(sess *session.Session, scale int, logger *zap.Logger) *Game {
	if scale < 1 {
		scale = 1
	}
	return &Game{
		sess:   sess,
		logger: logger,
		scale:  scale,
		pix:    make([]byte, sess.Surface.Width()*sess.Surface.Height()*4),
		drawn:  ^uint64(0),
	}
}

func (g *Game) Update() error {
	in := input{
		pressed:  inpututil.AppendJustPressedKeys(nil),
		released: inpututil.AppendJustReleasedKeys(nil),
	}
	return g.apply(in, time.Second/ticksPerSecond)
}

// apply feeds one frame of input to the session and runs dt of machine time.
// It returns ebiten.Termination when the user quits and the fault when the
// CPU stops.
func (g *Game) apply(in input, dt time.Duration) error {
	for _, k := range in.released {
		if key, ok := keypadKey(k); ok {
			g.sess.KeyUp(key)
		}
	}
	for _, k := range in.pressed {
		if key, ok := keypadKey(k); ok {
			g.sess.KeyDown(key)
			continue
		}
		if g.hotkey(k) {
			return ebiten.Termination
		}
	}

	return g.sess.Advance(dt, nil)
}

// hotkey runs the action bound to k and reports whether the game should end.
func (g *Game) hotkey(k ebiten.Key) bool {
	switch k {
	case ebiten.KeyEscape:
		return true
	case ebiten.KeyP:
		g.sess.TogglePause()
		g.message = ""
	case ebiten.KeyF2:
		g.report("reset", g.sess.Reset())
	case ebiten.KeyF5:
		g.report("state saved", g.sess.SaveState())
	case ebiten.KeyF9:
		g.report("state loaded", g.sess.LoadState())
	case ebiten.KeyF12:
		path, err := g.sess.Screenshot()
		g.report(path, err)
	}
	return false
}

func (g *Game) report(done string, err error) {
	if err != nil {
		g.logger.Warn("hotkey failed", zap.Error(err))
		g.message = err.Error()
		return
	}
	g.message = done
}

// status is the HUD line under the picture.
func (g *Game) status() string {
	if g.message == "" {
		return g.sess.Status()
	}
	return g.sess.Status() + "  " + g.message
}

func (g *Game) Draw(screen *ebiten.Image) {
	s := g.sess.Surface
	if g.screen == nil {
		g.screen = ebiten.NewImage(s.Width(), s.Height())
	}

	if frame := s.Frame(); frame != g.drawn {
		s.WriteRGBA(g.pix, cpu.ColorOn, cpu.ColorOff)
		g.screen.WritePixels(g.pix)
		g.drawn = frame
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.screen, op)

	ebitenutil.DebugPrintAt(screen, g.status(), 2, s.Height()*g.scale)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sess.Surface
	return s.Width() * g.scale, s.Height()*g.scale + statusHeight
}
