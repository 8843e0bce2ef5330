// Package session runs a ROM for a host: it owns the CPU, the pixel surface
// and the scheduler, and turns host events (elapsed time, keys, hotkeys)
// into machine operations.
package session

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gochip8/pkg/clock"
	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
	"gochip8/pkg/utils"
)

type Session struct {
	CPU     *cpu.CPU
	Surface *cpu.Surface

	cfg    config.Config
	logger *zap.Logger
	sched  *clock.Scheduler
	now    func() time.Time

	rom     []byte
	romName string
	paused  bool
}

func New(cfg config.Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []cpu.Option{cpu.WithLogger(logger), cpu.WithTrace(cfg.Trace)}
	if cfg.Seed != 0 {
		opts = append(opts, cpu.WithRand(rand.New(rand.NewSource(cfg.Seed))))
	}

	return &Session{
		CPU:     cpu.New(opts...),
		Surface: cpu.NewSurface(cpu.DisplayWidth, cpu.DisplayHeight),
		cfg:     cfg,
		logger:  logger,
		sched:   clock.New(cfg.CPUHz, cfg.TimerHz),
		now:     time.Now,
		romName: "rom",
	}
}

// LoadFile reads a ROM from disk and starts it from a clean machine.
func (s *Session) LoadFile(path string) error {
	fullPath, _, err := utils.GetPathInfo(path)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", path)
	}
	rom, err := os.ReadFile(fullPath)
	if err != nil {
		return errors.Wrap(err, "reading rom")
	}
	if err := s.Load(rom); err != nil {
		return errors.Wrap(err, filepath.Base(fullPath))
	}
	s.romName = utils.ReplaceExt(filepath.Base(fullPath), "")
	s.logger.Info("rom loaded", zap.String("path", fullPath), zap.Int("bytes", len(rom)))
	return nil
}

// Load starts rom from a clean machine. The image is kept for Reset.
func (s *Session) Load(rom []byte) error {
	if len(rom) > cpu.MaxROMSize {
		return errors.Wrapf(cpu.ErrROMTooLarge, "%d bytes, limit is %d", len(rom), cpu.MaxROMSize)
	}
	s.rom = append([]byte(nil), rom...)
	return s.Reset()
}

// Reset restarts the loaded ROM.
func (s *Session) Reset() error {
	s.CPU.Reset()
	s.Surface.Clear()
	s.Surface.Refresh()
	s.sched.Reset()
	return s.CPU.Load(s.rom)
}

// Advance runs whatever instructions and timer ticks dt is worth, drawing on
// d. A nil d draws on the session surface directly. Paused sessions do
// nothing.
func (s *Session) Advance(dt time.Duration, d cpu.Display) error {
	if s.paused {
		return nil
	}
	if d == nil {
		d = s.Surface
	}

	steps, ticks := s.sched.Advance(dt)

	if s.cfg.Lockstep {
		for i := 0; i < ticks; i++ {
			if err := s.CPU.Cycle(d); err != nil {
				return err
			}
		}
		return nil
	}

	// spread the timer ticks evenly across the instructions
	for i := 0; i < steps; i++ {
		if err := s.CPU.Step(d); err != nil {
			return err
		}
		if (i+1)*ticks/steps > i*ticks/steps {
			s.CPU.TickTimers()
		}
	}
	if steps == 0 {
		for i := 0; i < ticks; i++ {
			s.CPU.TickTimers()
		}
	}
	return nil
}

func (s *Session) Pause() {
	s.paused = true
}

func (s *Session) Resume() {
	s.paused = false
	s.sched.Reset()
}

func (s *Session) TogglePause() {
	if s.paused {
		s.Resume()
	} else {
		s.Pause()
	}
}

func (s *Session) Paused() bool {
	return s.paused
}

func (s *Session) KeyDown(k cpu.Key) {
	s.CPU.KeyDown(k)
}

func (s *Session) KeyUp(k cpu.Key) {
	s.CPU.KeyUp(k)
}

// SaveState writes the machine and display to the configured state file.
func (s *Session) SaveState() error {
	path := s.statePath()
	if err := s.CPU.HibernateToFile(path, s.Surface); err != nil {
		return err
	}
	s.logger.Info("state saved", zap.String("path", path))
	return nil
}

// LoadState restores the configured state file.
func (s *Session) LoadState() error {
	path := s.statePath()
	if err := s.CPU.RestoreFromFile(path, s.Surface); err != nil {
		return err
	}
	s.sched.Reset()
	s.logger.Info("state loaded", zap.String("path", path))
	return nil
}

func (s *Session) statePath() string {
	if s.cfg.StatePath != "" {
		return s.cfg.StatePath
	}
	return s.romName + ".state"
}

// Screenshot writes a PNG of the display into the screenshot directory and
// returns its path.
func (s *Session) Screenshot() (string, error) {
	dir := s.cfg.ScreenshotDir
	if dir == "" {
		dir = "."
	}
	name := fmt.Sprintf("%s-%s.png", s.romName, s.now().Format("20060102-150405.000"))
	path := filepath.Join(dir, name)

	scale := s.cfg.Scale
	if scale < 1 {
		scale = 1
	}
	if err := s.Surface.SaveScreenshot(path, scale); err != nil {
		return "", err
	}
	s.logger.Info("screenshot saved", zap.String("path", path))
	return path, nil
}

// Status is a one-line summary for host status bars. BEEP marks a running
// sound timer, since no host plays audio.
func (s *Session) Status() string {
	state := "running"
	switch {
	case s.CPU.Halted():
		state = "halted"
	case s.paused:
		state = "paused"
	}
	status := fmt.Sprintf("%s  PC %03X  I %03X  DT %02X  ST %02X  %s",
		s.romName, s.CPU.PC.Get(), s.CPU.I, s.CPU.Delay.Get(), s.CPU.Sound.Get(), state)
	if s.CPU.SoundActive() {
		status += "  BEEP"
	}
	return status
}
