// Package optimize implements spec.md §4.7's two optimization loops
// (components M, N) on top of internal/pbenc's encoders and
// internal/sat.Solver's assumption/core interface.
package optimize

import (
	"github.com/itstherealjasper/pumpkin/internal/pbenc"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

// Term is one weighted literal of a pseudo-Boolean objective f(x) =
// constant + Σ wᵢ·xᵢ.
type Term = pbenc.Term

// ValueSelection is the upper-bound search's polarity-freezing policy
// (spec.md §4.7.1 step 3).
type ValueSelection int

const (
	// PhaseSaving leaves the driver's own phase-saving heap untouched.
	PhaseSaving ValueSelection = iota
	// SolutionGuided freezes every objective literal's polarity to the
	// incumbent's value.
	SolutionGuided
	// Optimistic freezes to the incumbent but forces every objective
	// literal false, biasing the next search toward a cheaper solution.
	Optimistic
	// OptimisticAux additionally forces every auxiliary (totalizer node)
	// literal false.
	OptimisticAux
)

// UBResult is the outcome of one UpperBoundSearch call.
type UBResult struct {
	Status sat.Status
	Cost   int
	Model  []bool
}

// UpperBoundSearch runs spec.md §4.7.1 steps 2 through 4: repeatedly
// tighten f(x) <= bestCost-1 via a generalized totalizer and re-solve,
// updating the incumbent on every improving SAT result, until the driver
// proves UNSAT (the incumbent is optimal) or times out.
//
// terms must already have fixed-at-root contributions removed by the
// caller (step 1's simplification): every literal in terms is assumed
// free when this function starts. constant carries whatever was folded
// out of the objective by that simplification, plus the objective's own
// constant c. initialUB is the cost of a solution the caller already
// knows is feasible (UB in spec.md's notation).
func UpperBoundSearch(s *sat.Solver, terms []Term, constant, initialUB int, policy ValueSelection) UBResult {
	best := UBResult{Status: sat.StatusUnknown, Cost: initialUB}
	var auxLits []sat.Literal

	for {
		rhs := best.Cost - constant - 1
		if rhs < 0 {
			best.Status = sat.StatusUNSAT
			return best
		}

		s.BacktrackToRoot()
		out := pbenc.GeneralizedTotalizer(s, terms, rhs)
		auxLits = auxLits[:0]
		for _, lit := range out {
			auxLits = append(auxLits, lit)
		}
		if lit, ok := out[rhs+1]; ok {
			if err := s.AddUnit(lit.Opposite()); err != nil {
				best.Status = sat.StatusUNSAT
				return best
			}
		}

		applyValueSelection(s, terms, auxLits, best.Model, policy)

		status, _ := s.Solve(nil)
		switch status {
		case sat.StatusUNSAT:
			best.Status = sat.StatusUNSAT
			return best
		case sat.StatusUnknown:
			best.Status = sat.StatusUnknown
			return best
		case sat.StatusSAT:
			best.Status = sat.StatusSAT
			best.Model = s.Model()
			best.Cost = constant + evalObjective(s, terms)
		}
	}
}

func evalObjective(s *sat.Solver, terms []Term) int {
	total := 0
	for _, t := range terms {
		if s.LitValue(t.Lit) == sat.True {
			total += t.Weight
		}
	}
	return total
}

// applyValueSelection freezes polarities per spec.md §4.7.1 step 3.
// PhaseSaving needs no action here — the driver's own phase-saving heap
// already does it between restarts. The other three policies explicitly
// override the heap's saved phase before the next Solve call.
func applyValueSelection(s *sat.Solver, terms []Term, auxLits []sat.Literal, incumbent []bool, policy ValueSelection) {
	if policy == PhaseSaving || incumbent == nil {
		return
	}
	freeze := func(v sat.Variable) {
		idx := int(v) - 1
		if idx < 0 || idx >= len(incumbent) {
			return
		}
		if incumbent[idx] {
			s.SetPolarity(sat.PositiveLiteral(v))
		} else {
			s.SetPolarity(sat.NegativeLiteral(v))
		}
	}
	for _, t := range terms {
		switch policy {
		case SolutionGuided:
			freeze(t.Lit.VarID())
		case Optimistic, OptimisticAux:
			s.SetPolarity(t.Lit.Opposite())
		}
	}
	if policy == OptimisticAux {
		for _, lit := range auxLits {
			s.SetPolarity(lit.Opposite())
		}
	}
}
