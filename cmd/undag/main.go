package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/Omnikar/undag/dag"
	"github.com/Omnikar/undag/repo"
	"github.com/Omnikar/undag/vm"
)

var (
	debug     bool
	execStats bool
	timeout   time.Duration
	errLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	statLabel = color.New(color.FgCyan).SprintFunc()
)

// atExit reports err the way the teacher's cmd/retro does: a terse
// single-line message by default, the full cause chain and current
// commit under -debug. loadErr marks a pre-flight repository failure,
// which exits 2 instead of 1 (spec's exit-code contract, §A.3).
func atExit(pc dag.Commit, err error, loadErr bool) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "%s %v\n", errLabel("undag:"), err)
	} else {
		fmt.Fprintf(os.Stderr, "%s %+v\n", errLabel("undag:"), err)
		if pc != "" {
			fmt.Fprintf(os.Stderr, "at commit: %s\n", pc)
		}
	}
	if loadErr {
		os.Exit(2)
	}
	os.Exit(1)
}

func main() {
	flag.BoolVar(&execStats, "stats", false, "print instruction count and elapsed time on exit")
	flag.BoolVar(&debug, "debug", false, "enable debug diagnostics")
	flag.DurationVar(&timeout, "timeout", 0, "abort the run after this duration (0 disables the bound)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: undag [-stats] [-debug] [-timeout duration] <repo-path>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	r, err := repo.Open(path)
	if err != nil {
		atExit("", errors.Wrap(err, "open repository"), true)
		return
	}
	g, err := r.Snapshot()
	if err != nil {
		atExit("", errors.Wrap(err, "read commit graph"), true)
		return
	}

	stdout := bufio.NewWriter(os.Stdout)
	opts := []vm.Option{
		vm.WithInput(bufio.NewReader(os.Stdin)),
		vm.WithOutput(stdout),
	}
	ctx := context.Background()
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	opts = append(opts, vm.WithContext(ctx))

	ins, err := vm.New(g, opts...)
	if err != nil {
		atExit("", errors.Wrap(err, "initialize instance"), true)
		return
	}

	start := time.Now()
	runErr := ins.Run()
	stdout.Flush()

	if execStats {
		elapsed := time.Since(start)
		fmt.Fprintf(os.Stderr, "%s %d instructions in %v\n", statLabel("undag:"), ins.InstructionCount(), elapsed)
	}

	atExit(ins.PC(), runErr, false)
}
