// Command sapf is SAPF's CLI entry point: parse -r/-p/-h, load the
// config and optional prelude, then run the REPL over stdin/stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sapfsound/sapf/internal/config"
	"github.com/sapfsound/sapf/internal/pipeline"
	"github.com/sapfsound/sapf/internal/repl"
	"github.com/sapfsound/sapf/internal/vm"
)

// watchdogInterval is how often the audio driver sweeps done sinks out
// of its live set while the REPL runs.
const watchdogInterval = 500 * time.Millisecond

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("sapf", flag.ContinueOnError)
	rate := fs.Int("r", 0, "sample rate in Hz (default from config)")
	prelude := fs.String("p", "", "prelude source file to load at startup")
	help := fs.Bool("h", false, "print usage and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		fs.Usage()
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sapf: config error:", err)
		return 1
	}
	sampleRate := cfg.SampleRate
	if *rate != 0 {
		sampleRate = *rate
	}

	th := vm.New(vm.Rate{SampleRate: float64(sampleRate), BlockSize: cfg.BlockSize(sampleRate)})

	preludePath := *prelude
	if preludePath == "" {
		preludePath = cfg.Prelude
	}
	if preludePath != "" {
		if err := loadPrelude(th, preludePath); err != nil {
			fmt.Fprintln(os.Stderr, "sapf: prelude error:", err)
			return 1
		}
	}

	watchdogCtx, stopWatchdog := context.WithCancel(context.Background())
	watchdogDone := make(chan error, 1)
	go func() { watchdogDone <- th.Driver.RunWatchdog(watchdogCtx, watchdogInterval) }()

	r := repl.New(th, os.Stdin, os.Stdout, cfg.LogPath)
	r.Banner(config.Version)
	runErr := r.Run()

	stopWatchdog()
	if err := <-watchdogDone; err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "sapf: watchdog error:", err)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "sapf:", runErr)
		return 1
	}
	return 0
}

func loadPrelude(th *vm.Thread, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")
	for _, ctx := range pipeline.LoadSource(th, lines) {
		if ctx.Err != nil {
			fmt.Fprintf(os.Stderr, "sapf: prelude line %d: %v\n", ctx.Line, ctx.Err)
		}
	}
	return nil
}
