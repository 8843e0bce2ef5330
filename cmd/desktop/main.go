// Command desktop runs a CHIP-8 ROM in a window.
//
// Keys: the 1234/QWER/ASDF/ZXCV block is the keypad, arrows map to 2/4/6/8.
// P pauses, F2 resets, F5 saves state, F9 restores it, F12 writes a
// screenshot. Esc quits.
package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gochip8/pkg/config"
	"gochip8/pkg/session"
)

func main() {
	cfg, err := config.Parse("desktop", os.Args[1:])
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

	if err := run(cfg, logger); err != nil {
		logger.Error("desktop host stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	sess := session.New(cfg, logger)
	if err := sess.LoadFile(cfg.ROM); err != nil {
		return err
	}

	game := NewGame(sess, cfg.Scale, logger)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("gochip8 - " + cfg.ROM)
	ebiten.SetTPS(ticksPerSecond)

	err := ebiten.RunGame(game)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
