// Command gochip8 is the toolchain front end: it assembles source into ROM
// images, disassembles ROMs and runs them headless.
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gochip8/pkg/asm"
	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
	"gochip8/pkg/grid"
	"gochip8/pkg/utils"
)

type options struct {
	in     string
	out    string
	disasm string
	run    string
	cycles int
	seed   int64
	screen bool
	debug  bool
	quiet  bool
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("gochip8", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var opts options
	flags.StringVar(&opts.in, "in", "", "input assembly file path")
	flags.StringVar(&opts.out, "out", "", "output ROM path (default: input with .ch8 extension)")
	flags.StringVar(&opts.disasm, "disasm", "", "print a listing of a ROM")
	flags.StringVar(&opts.run, "run", "", "run a ROM headless and print the final registers")
	flags.IntVar(&opts.cycles, "cycles", 1000, "number of cycles for -run")
	flags.Int64Var(&opts.seed, "seed", 1, "random seed for -run")
	flags.BoolVar(&opts.screen, "screen", false, "also print the display after -run")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.quiet, "q", false, "only log warnings and errors")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if opts.in == "" && opts.disasm == "" && opts.run == "" {
		fmt.Fprintln(stderr, "nothing to do: provide -in to assemble, -disasm <rom> for a listing or -run <rom> to run one")
		flags.Usage()
		return 2
	}

	logger, err := config.NewLogger(opts.debug, opts.quiet, "")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer logger.Sync()

	if err := execute(opts, logger, stdout); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func execute(opts options, logger *zap.Logger, stdout io.Writer) error {
	if opts.in != "" {
		output := opts.out
		if output == "" {
			output = utils.ReplaceExt(opts.in, ".ch8")
		}
		n, err := assembleFile(opts.in, output)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "assembled %d bytes -> %s\n", n, output)
	}

	if opts.disasm != "" {
		rom, err := os.ReadFile(opts.disasm)
		if err != nil {
			return errors.Wrap(err, "reading rom")
		}
		writeListing(stdout, rom)
	}

	if opts.run != "" {
		return runROM(opts, logger, stdout)
	}
	return nil
}

func assembleFile(in, out string) (int, error) {
	source, err := os.ReadFile(in)
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s", in)
	}
	code, _, err := asm.Assemble(string(source))
	if err != nil {
		return 0, errors.Wrap(err, "assembly failed")
	}
	if len(code) > cpu.MaxROMSize {
		return 0, errors.Wrapf(cpu.ErrROMTooLarge, "%d bytes", len(code))
	}
	if err := os.WriteFile(out, code, 0o644); err != nil {
		return 0, errors.Wrapf(err, "writing %s", out)
	}
	return len(code), nil
}

// writeListing prints one line per word: address, raw word, mnemonic.
func writeListing(w io.Writer, rom []byte) {
	for _, line := range cpu.DisassembleBytes(rom, cpu.ProgramStart) {
		fmt.Fprintf(w, "%03X  %04X  %s\n", line.Address, line.Word, line.Text)
	}
}

func runROM(opts options, logger *zap.Logger, stdout io.Writer) error {
	rom, err := os.ReadFile(opts.run)
	if err != nil {
		return errors.Wrap(err, "reading rom")
	}

	c := cpu.New(cpu.WithLogger(logger), cpu.WithRand(newRand(opts.seed)), cpu.WithTrace(opts.debug))
	if err := c.Load(rom); err != nil {
		return err
	}
	surface := cpu.NewSurface(cpu.DisplayWidth, cpu.DisplayHeight)

	for i := 0; i < opts.cycles; i++ {
		if err := c.Cycle(surface); err != nil {
			writeRegisters(stdout, opts.run, c)
			return err
		}
	}

	writeRegisters(stdout, opts.run, c)
	if opts.screen {
		writeScreen(stdout, surface)
	}
	return nil
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func writeRegisters(w io.Writer, path string, c *cpu.CPU) {
	fmt.Fprintf(w, "run complete (%s): PC=0x%03X I=0x%03X DT=0x%02X ST=0x%02X SP=%d steps=%d\n",
		path, c.PC.Get(), c.I, c.Delay.Get(), c.Sound.Get(), c.Stack.Depth(), c.Steps)
	regs := make([]string, len(c.V))
	for i, v := range c.V {
		regs[i] = fmt.Sprintf("V%X=%02X", i, v)
	}
	fmt.Fprintln(w, strings.Join(regs, " "))
}

func writeScreen(w io.Writer, s *cpu.Surface) {
	var b strings.Builder
	for i, v := range s.Pixels() {
		if v == 1 {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
		if x, _ := grid.GetGridCoords(i, s.Width()); x == s.Width()-1 {
			b.WriteByte('\n')
		}
	}
	io.WriteString(w, b.String())
}
