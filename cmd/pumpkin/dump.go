package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itstherealjasper/pumpkin/config"
	"github.com/itstherealjasper/pumpkin/internal/dimacswcnf"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

func newDumpCmd(opts *config.Options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dump <instance.cnf|instance.wcnf>",
		Short: "Read an instance and write its clause store back out",
		Long: `Loads the instance into a fresh solver and writes the clauses the
solver actually holds back out as DIMACS CNF. Only clauses stored in the
arena are written: unit clauses (kept as root assignments), clauses already
satisfied at the root and tautologies are left out, and root-falsified or
duplicate literals are dropped. On a .wcnf input only the hard clauses are
considered, since soft clauses are the optimization loops' concern, not
the clausal core's.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func runDump(opts *config.Options, path, output string) error {
	satOpts, err := opts.SATOptions()
	if err != nil {
		return err
	}
	s := sat.NewSolver(satOpts, newSink(opts))

	var offset sat.Variable
	if strings.HasSuffix(path, ".wcnf") {
		w, err := dimacswcnf.ReadWCNF(path)
		if err != nil {
			return fmt.Errorf("pumpkin: could not parse instance: %w", err)
		}
		offset, err = dimacswcnf.LoadWCNFHardInto(s, w)
		if err != nil {
			return fmt.Errorf("pumpkin: could not load instance: %w", err)
		}
	} else {
		cnf, err := dimacswcnf.ReadCNF(path)
		if err != nil {
			return fmt.Errorf("pumpkin: could not parse instance: %w", err)
		}
		offset, err = dimacswcnf.LoadCNFInto(s, cnf)
		if err != nil {
			return fmt.Errorf("pumpkin: could not load instance: %w", err)
		}
	}

	dumped := dimacswcnf.DumpPermanentClauses(s, offset)

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("pumpkin: could not create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return dimacswcnf.WriteCNF(out, dumped)
}
