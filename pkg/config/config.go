// Package config holds the flag-driven settings shared by every host.
package config

import (
	"bytes"
	"flag"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"gochip8/pkg/utils"
)

// Config is the parsed command line of a host.
type Config struct {
	ROM string

	CPUHz    int
	TimerHz  int
	Lockstep bool
	Seed     int64
	Trace    bool

	Scale         int
	Hold          time.Duration
	StatePath     string
	ScreenshotDir string

	Debug   bool
	Quiet   bool
	LogFile string
}

// MaxRateHz caps -cpu-hz and -timer-hz.
const MaxRateHz = 1000000

func Default() Config {
	return Config{
		CPUHz:         600,
		TimerHz:       60,
		Scale:         10,
		Hold:          150 * time.Millisecond,
		ScreenshotDir: ".",
	}
}

// UsageError reports bad arguments together with the usage text.
type UsageError struct {
	Err   error
	Usage string
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Parse reads args (without the program name). The first positional argument
// is the ROM path.
func Parse(name string, args []string) (Config, error) {
	cfg := Default()

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	usage := new(bytes.Buffer)
	flags.SetOutput(usage)

	flags.IntVar(&cfg.CPUHz, "cpu-hz", cfg.CPUHz, "instructions executed per second")
	flags.IntVar(&cfg.TimerHz, "timer-hz", cfg.TimerHz, "delay and sound timer rate")
	flags.BoolVar(&cfg.Lockstep, "lockstep", cfg.Lockstep, "run one full cycle (instruction plus timer tick) per timer period")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for RND, 0 picks one from the clock")
	flags.BoolVar(&cfg.Trace, "trace", cfg.Trace, "log every executed instruction (needs -debug)")
	flags.IntVar(&cfg.Scale, "scale", cfg.Scale, "window pixels per CHIP-8 pixel")
	flags.DurationVar(&cfg.Hold, "hold", cfg.Hold, "terminal only: how long a key counts as held after a keypress")
	flags.StringVar(&cfg.StatePath, "state", "", "save state file, defaults to the ROM name with a .state extension")
	flags.StringVar(&cfg.ScreenshotDir, "screenshot-dir", cfg.ScreenshotDir, "directory for screenshots")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	flags.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "only log warnings and errors")
	flags.StringVar(&cfg.LogFile, "log", cfg.LogFile, "write the log to this file instead of stderr")

	fail := func(err error) (Config, error) {
		fmt.Fprintf(usage, "usage: %s [options] <rom file>\n\n", name)
		flags.PrintDefaults()
		return Config{}, &UsageError{Err: err, Usage: usage.String()}
	}

	if err := flags.Parse(args); err != nil {
		usage.Reset()
		return fail(err)
	}
	if flags.NArg() != 1 {
		return fail(errors.New("expected exactly one rom file"))
	}
	cfg.ROM = flags.Arg(0)

	switch {
	case cfg.CPUHz <= 0 || cfg.CPUHz > MaxRateHz:
		return fail(errors.Errorf("-cpu-hz must be between 1 and %d, got %d", MaxRateHz, cfg.CPUHz))
	case cfg.TimerHz <= 0 || cfg.TimerHz > MaxRateHz:
		return fail(errors.Errorf("-timer-hz must be between 1 and %d, got %d", MaxRateHz, cfg.TimerHz))
	case cfg.Scale < 1 || cfg.Scale > 64:
		return fail(errors.Errorf("-scale must be between 1 and 64, got %d", cfg.Scale))
	case cfg.Hold <= 0:
		return fail(errors.Errorf("-hold must be positive, got %v", cfg.Hold))
	}

	if cfg.StatePath == "" {
		cfg.StatePath = utils.ReplaceExt(cfg.ROM, ".state")
	}
	return cfg, nil
}
