// Command terminal runs a CHIP-8 ROM inside a text terminal.
//
// Keys: the 1234/QWER/ASDF/ZXCV block is the keypad, arrows map to 2/4/6/8.
// P pauses, F2 resets, F5 saves state, F9 restores it, F12 writes a
// screenshot. Esc or Ctrl-C quits.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
	"gochip8/pkg/keymap"
	"gochip8/pkg/session"
)

const frameRate = 60

func main() {
	cfg, err := config.Parse("terminal", os.Args[1:])
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

	// the terminal belongs to the picture, so logs only go to a file
	logger := zap.NewNop()
	if cfg.LogFile != "" {
		if logger, err = cfg.Logger(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("terminal host stopped", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	sess := session.New(cfg, logger)
	if err := sess.LoadFile(cfg.ROM); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "opening terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "initialising terminal")
	}
	defer screen.Fini()
	screen.Clear()

	a := newApp(sess, screen, cfg.Hold, logger)

	done := make(chan struct{})
	defer close(done)
	events := pollEvents(screen, done)

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if a.handleKey(ev, time.Now()) {
					return nil
				}
			case *tcell.EventResize:
				a.display.dirty = true
				screen.Sync()
			}
		case now := <-ticker.C:
			err := a.tick(now, now.Sub(last))
			last = now
			screen.Show()
			if err != nil {
				return err
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalised or done
// is closed, then closes the returned channel.
func pollEvents(screen tcell.Screen, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 32)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

// app glues terminal events to a session.
type app struct {
	sess    *session.Session
	display *termDisplay
	keys    *holdTracker
	logger  *zap.Logger
	message string
}

func newApp(sess *session.Session, screen tcell.Screen, hold time.Duration, logger *zap.Logger) *app {
	return &app{
		sess:    sess,
		display: newTermDisplay(screen, sess.Surface),
		keys:    newHoldTracker(hold),
		logger:  logger,
	}
}

// handleKey applies one key event and reports whether the host should quit.
func (a *app) handleKey(ev *tcell.EventKey, now time.Time) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		a.press(keymap.Arrows[keymap.Up], now)
	case tcell.KeyDown:
		a.press(keymap.Arrows[keymap.Down], now)
	case tcell.KeyLeft:
		a.press(keymap.Arrows[keymap.Left], now)
	case tcell.KeyRight:
		a.press(keymap.Arrows[keymap.Right], now)
	case tcell.KeyF2:
		a.report("reset", a.sess.Reset())
	case tcell.KeyF5:
		a.report("state saved", a.sess.SaveState())
	case tcell.KeyF9:
		a.report("state loaded", a.sess.LoadState())
	case tcell.KeyF12:
		path, err := a.sess.Screenshot()
		a.report(path, err)
	case tcell.KeyRune:
		r := ev.Rune()
		if r == 'p' || r == 'P' {
			a.sess.TogglePause()
			a.message = ""
			return false
		}
		if k, ok := keymap.Lookup(r); ok {
			a.press(k, now)
		}
	}
	return false
}

func (a *app) press(k cpu.Key, now time.Time) {
	if a.keys.Press(k, now) {
		a.sess.KeyDown(k)
	}
}

func (a *app) report(done string, err error) {
	if err != nil {
		a.logger.Warn("hotkey failed", zap.Error(err))
		a.message = err.Error()
		return
	}
	a.message = done
}

// tick releases expired keys, runs dt worth of machine time and repaints.
// A CPU fault is returned after the final frame has been drawn.
func (a *app) tick(now time.Time, dt time.Duration) error {
	for _, k := range a.keys.Expire(now) {
		a.sess.KeyUp(k)
	}

	err := a.sess.Advance(dt, a.display)

	a.display.draw()
	status := a.sess.Status()
	if a.message != "" {
		status += "  " + a.message
	}
	a.display.drawStatus(status)
	a.display.drawHelp()
	return err
}
