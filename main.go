// main.go - the dosrun CLI entry point: parses flags, loads a program,
// and drives the scheduler until it terminates.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's own main.go (flag parsing via a cli.App,
// one Action closure that wires the parsed flags into the runtime and
// calls into it) and on master-g-childhood/go/chr2png/main.go's exact
// urfave/cli v2 usage pattern (StringFlag/IntFlag literals in a single
// Flags slice, sort.Sort(cli.FlagsByName(...)) before app.Run). The
// teacher keeps its whole program in one package main with no cmd/
// split, so this follows suit instead of introducing a separate
// importable command package.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/urfave/cli.v2"

	"github.com/davidly/ntvdm-sub000/dlog"
	"github.com/davidly/ntvdm-sub000/hostterm"
)

func main() {
	app := &cli.App{
		Name:      "dosrun",
		Usage:     "run a DOS .COM/.EXE program against the 8086/BIOS/DOS runtime",
		ArgsUsage: "<program> [args...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "host directory DOS paths resolve against", Value: "."},
			&cli.IntFlag{Name: "rows", Usage: "text-mode rows (25, 43, or 50)", Value: 25},
			&cli.StringSliceFlag{Name: "env", Aliases: []string{"e"}, Usage: "KEY=VALUE environment entry, repeatable"},
			&cli.StringFlag{Name: "boot", Usage: "load this file as a flat 512-byte boot sector at 07C0:0000 instead of loading <program> as COM/EXE"},
			&cli.StringFlag{Name: "fold", Usage: "case-fold DOS paths before host lookup: none, upper, lower", Value: "none"},
			&cli.StringFlag{Name: "trace", Usage: "write diagnostic log output to this file"},
			&cli.BoolFlag{Name: "debug", Usage: "echo every log line to stderr, not just warnings/errors"},
			&cli.BoolFlag{Name: "raw-keyboard", Usage: "put the host terminal into raw mode and feed keystrokes live"},
		},
		Action: run,
	}
	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("a program to run is required")
	}
	hostPath := c.Args().Get(0)
	programArgs := c.Args().Slice()[1:]

	logger, closeLog, err := buildLogger(c)
	if err != nil {
		return err
	}
	defer closeLog()

	mc := NewMachine(logger, c.String("root"))
	mc.Paths.Fold = parseFold(c.String("fold"))
	if rows := c.Int("rows"); rows > 0 {
		mc.BDA.SetRowsMinusOne(byte(rows - 1))
	}

	var res LoadResult
	if boot := c.String("boot"); boot != "" {
		image, err := ReadExecutableFile(boot)
		if err != nil {
			return fmt.Errorf("reading boot image: %w", err)
		}
		res, err = mc.LoadBootSector(image)
		if err != nil {
			return fmt.Errorf("loading boot image: %w", err)
		}
	} else {
		image, err := ReadExecutableFile(hostPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", hostPath, err)
		}
		envSeg := mc.BuildEnvironment(c.StringSlice("env"), mc.Paths.ToDOS(hostPath))
		cmdTail := strings.Join(programArgs, " ")
		res, err = mc.LoadProgram(hostPath, image, cmdTail, 0, envSeg)
		if err != nil {
			return fmt.Errorf("loading %s: %w", hostPath, err)
		}
	}
	installEntryState(mc, res)
	mc.ActivePSP = res.PSPSegment

	sched := NewScheduler(mc)

	if c.Bool("raw-keyboard") {
		console, err := hostterm.Open()
		if err != nil {
			return fmt.Errorf("opening terminal: %w", err)
		}
		defer console.Restore()
		poller := hostterm.NewPoller(console)
		sched.InputFn = poller.Next
	}

	code := sched.Run()
	if code != 0 {
		os.Exit(int(code))
	}
	return nil
}

// installEntryState seeds the CPU's registers and segments from a
// loader's result, the one piece of wiring common to every load mode
// (COM, EXE, boot sector).
func installEntryState(mc *Machine, res LoadResult) {
	mc.CPU.Regs.CS = res.CS
	mc.CPU.Regs.IP = res.IP
	mc.CPU.Regs.SS = res.SS
	mc.CPU.Regs.SP = res.SP
	mc.CPU.Regs.DS = res.DS
	mc.CPU.Regs.ES = res.ES
}

func parseFold(v string) caseFold {
	switch strings.ToLower(v) {
	case "upper":
		return caseFoldUpper
	case "lower":
		return caseFoldLower
	default:
		return caseFoldNone
	}
}

// buildLogger wires -trace/-debug into the dlog handler the rest of
// the runtime logs through; with neither flag set, warnings and errors
// still reach stderr but info-level chatter is discarded.
func buildLogger(c *cli.Context) (*slog.Logger, func(), error) {
	debug := c.Bool("debug")

	var w io.Writer = io.Discard
	closeFn := func() {}
	if path := c.String("trace"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening trace file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	return dlog.New(w, debug), closeFn, nil
}
