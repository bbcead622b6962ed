package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/itstherealjasper/pumpkin/config"
	"github.com/itstherealjasper/pumpkin/internal/dimacswcnf"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

func newSolveCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "solve <instance.cnf>",
		Short: "Decide satisfiability of a DIMACS CNF instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args[0])
		},
	}
}

func runSolve(opts *config.Options, path string) error {
	stop, err := startProfiling(opts)
	if err != nil {
		return err
	}
	defer stop()

	cnf, err := dimacswcnf.ReadCNF(path)
	if err != nil {
		return fmt.Errorf("pumpkin: could not parse instance: %w", err)
	}

	satOpts, err := opts.SATOptions()
	if err != nil {
		return err
	}
	s := sat.NewSolver(satOpts, newSink(opts))

	offset, err := dimacswcnf.LoadCNFInto(s, cnf)
	if err != nil {
		return fmt.Errorf("pumpkin: could not load instance: %w", err)
	}

	if opts.Timeout > 0 {
		s.SetDeadline(time.Now().Add(opts.Timeout))
	}

	fmt.Printf("c variables:  %d\n", cnf.NumVariables)
	fmt.Printf("c clauses:    %d\n", len(cnf.Clauses))

	start := time.Now()
	status, _ := s.Solve(nil)
	elapsed := time.Since(start)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d\n", s.TotalConflicts)
	fmt.Printf("c restarts:   %d\n", s.TotalRestarts)
	fmt.Printf("c status:     %s\n", status)

	if status == sat.StatusSAT {
		model := s.Model()
		fmt.Print("v")
		for dv := 1; dv <= cnf.NumVariables; dv++ {
			satVar := sat.Variable(dv) + offset
			val := model[int(satVar)-1]
			out := dv
			if !val {
				out = -dv
			}
			fmt.Printf(" %d", out)
		}
		fmt.Println(" 0")
	}
	return nil
}
