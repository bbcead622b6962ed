package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/itstherealjasper/pumpkin/config"
	"github.com/itstherealjasper/pumpkin/internal/dimacswcnf"
	"github.com/itstherealjasper/pumpkin/internal/intdomain"
	"github.com/itstherealjasper/pumpkin/internal/optimize"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

func newOptimizeCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize <instance.wcnf>",
		Short: "Minimize a DIMACS WCNF instance's weighted objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(opts, args[0])
		},
	}
}

// relaxedSoft is one soft clause after relaxation: Lit is true exactly when
// the clause is left unsatisfied, at cost Weight.
type relaxedSoft struct {
	term   pbTerm
	intVar *intdomain.IntVar
}

// pbTerm is a local alias to keep this file independent of internal/pbenc's
// import name at call sites below.
type pbTerm = optimize.Term

func runOptimize(opts *config.Options, path string) error {
	stop, err := startProfiling(opts)
	if err != nil {
		return err
	}
	defer stop()

	wcnf, err := dimacswcnf.ReadWCNF(path)
	if err != nil {
		return fmt.Errorf("pumpkin: could not parse instance: %w", err)
	}

	satOpts, err := opts.SATOptions()
	if err != nil {
		return err
	}
	sink := newSink(opts)
	s := sat.NewSolver(satOpts, sink)

	offset, err := dimacswcnf.LoadWCNFHardInto(s, wcnf)
	if err != nil {
		return fmt.Errorf("pumpkin: could not load instance: %w", err)
	}

	valueSelection, err := opts.ValueSelectionPolicy()
	if err != nil {
		return err
	}
	stratMode, err := opts.StratificationMode()
	if err != nil {
		return err
	}
	if _, err := opts.CardinalityEncodingName(); err != nil {
		return err
	}
	if _, err := opts.VaryingResolutionMode(); err != nil {
		return err
	}

	relaxed := make([]relaxedSoft, 0, len(wcnf.Soft))
	trivialUB := 0
	for _, sc := range wcnf.Soft {
		r := s.AddVariable()
		lits := append(dimacswcnf.ToLiterals(sc.Literals, offset), sat.PositiveLiteral(r))
		if err := s.AddClause(lits); err != nil {
			return fmt.Errorf("pumpkin: could not install soft clause: %w", err)
		}
		weight := int(sc.Weight)
		relaxed = append(relaxed, relaxedSoft{
			term:   pbTerm{Weight: weight, Lit: sat.PositiveLiteral(r)},
			intVar: intdomain.CreateEquivalentVariable(s, sat.PositiveLiteral(r)),
		})
		trivialUB += weight
	}

	if opts.Timeout > 0 {
		s.SetDeadline(time.Now().Add(opts.Timeout))
	}

	reformVars := make([]*intdomain.IntVar, len(relaxed))
	weights := make([]int, len(relaxed))
	ubTerms := make([]pbTerm, len(relaxed))
	for i, rc := range relaxed {
		reformVars[i] = rc.intVar
		weights[i] = rc.term.Weight
		ubTerms[i] = rc.term
	}

	lb := 0
	if len(relaxed) > 0 {
		reformTerms := optimize.NewReformTerms(reformVars, weights)
		lbResult := optimize.CoreGuidedSearch(s, reformTerms, stratMode)
		sink.BoundImproved("lower-bound", int64(lbResult.LowerBound))
		lb = lbResult.LowerBound
	}

	ub := optimize.UpperBoundSearch(s, ubTerms, 0, trivialUB+1, valueSelection)
	if ub.Status == sat.StatusSAT {
		sink.BoundImproved("upper-bound", int64(ub.Cost))
	}

	fmt.Printf("c variables:  %d\n", wcnf.NumVariables)
	fmt.Printf("c hard:       %d\n", len(wcnf.Hard))
	fmt.Printf("c soft:       %d\n", len(wcnf.Soft))
	fmt.Printf("c lower bound:%d\n", lb)

	switch ub.Status {
	case sat.StatusUNSAT:
		fmt.Printf("c status:     OPTIMUM FOUND\n")
		fmt.Printf("o %d\n", ub.Cost)
	case sat.StatusSAT:
		fmt.Printf("c status:     SATISFIABLE (best found before timeout)\n")
		fmt.Printf("o %d\n", ub.Cost)
	default:
		fmt.Printf("c status:     UNKNOWN\n")
	}

	if ub.Model != nil {
		fmt.Print("v")
		for dv := 1; dv <= wcnf.NumVariables; dv++ {
			satVar := sat.Variable(dv) + offset
			val := ub.Model[int(satVar)-1]
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
