// Command pumpkin is the CLI front-end for the solver core: a cobra command
// tree (solve, optimize, dump) wired against config.Options, the same way
// the teacher's flag-based main.go wired its two profiling switches, but
// scaled up for spec.md §6's full option surface.
package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/itstherealjasper/pumpkin/config"
	"github.com/itstherealjasper/pumpkin/pkg/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := config.Default()

	root := &cobra.Command{
		Use:          "pumpkin",
		Short:        "CDCL SAT solver with pseudo-Boolean optimization",
		SilenceUsage: true,
	}
	root.PersistentFlags().AddFlagSet(opts.FlagSet("pumpkin"))

	root.AddCommand(newSolveCmd(opts))
	root.AddCommand(newOptimizeCmd(opts))
	root.AddCommand(newDumpCmd(opts))
	return root
}

// startProfiling mirrors the teacher's main.go: if requested, start a CPU
// profile and return a function the caller must defer to stop it and, if
// requested, write a heap profile.
func startProfiling(opts *config.Options) (func(), error) {
	var stopCPU func()
	if opts.CPUProfile != "" {
		f, err := os.Create(opts.CPUProfile)
		if err != nil {
			return nil, fmt.Errorf("pumpkin: could not create cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("pumpkin: could not start cpu profile: %w", err)
		}
		stopCPU = func() { pprof.StopCPUProfile(); f.Close() }
	}
	return func() {
		if stopCPU != nil {
			stopCPU()
		}
		if opts.MemProfile != "" {
			f, err := os.Create(opts.MemProfile)
			if err != nil {
				fmt.Fprintln(os.Stderr, fmt.Errorf("pumpkin: could not write mem profile: %w", err))
				return
			}
			pprof.WriteHeapProfile(f)
			f.Close()
		}
	}, nil
}

func newSink(opts *config.Options) telemetry.Sink {
	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	return telemetry.NewLogrus(os.Stderr, level)
}
