package optimize

import (
	"testing"

	"github.com/itstherealjasper/pumpkin/internal/intdomain"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

func TestCoreGuidedSearch_UnconstrainedTermSettlesAtZero(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	x, err := intdomain.CreateIntegerVariable(s, 0, 1)
	if err != nil {
		t.Fatalf("CreateIntegerVariable: %v", err)
	}

	terms := NewReformTerms([]*intdomain.IntVar{x}, []int{5})
	result := CoreGuidedSearch(s, terms, StratOff)

	if result.Status != sat.StatusSAT {
		t.Fatalf("expected StatusSAT for an unconstrained objective, got %v", result.Status)
	}
	if result.LowerBound != 0 {
		t.Errorf("LowerBound = %d, want 0 (x can stay at its lower bound)", result.LowerBound)
	}
}

// TestCoreGuidedSearch_ForcedViolationRaisesLowerBound mirrors spec.md
// §4.7.2's opening scenario with a hard clause forcing at least one of two
// terms above its threshold: the first round of the loop must extract a
// core and raise the lower bound by the cheaper term's weight before any
// model is accepted, and the bound can never decrease afterward.
func TestCoreGuidedSearch_ForcedViolationRaisesLowerBound(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	x, err := intdomain.CreateIntegerVariable(s, 0, 1)
	if err != nil {
		t.Fatalf("CreateIntegerVariable: %v", err)
	}
	y, err := intdomain.CreateIntegerVariable(s, 0, 1)
	if err != nil {
		t.Fatalf("CreateIntegerVariable: %v", err)
	}
	if err := s.AddClause([]sat.Literal{x.GeLiteral(1), y.GeLiteral(1)}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}

	terms := NewReformTerms([]*intdomain.IntVar{x, y}, []int{2, 3})
	result := CoreGuidedSearch(s, terms, StratOff)

	if result.Status == sat.StatusUnknown {
		t.Fatalf("search should not time out with no deadline set")
	}
	if result.LowerBound < 2 {
		t.Errorf("LowerBound = %d, want at least 2 (the cheaper term's weight)", result.LowerBound)
	}
}

// TestInstallCoreCardinality_SizeThreeCoreKeepsCounting guards against a
// core of size >= 3 collapsing onto a 0/1 view: the new reform term must
// expose a genuine [0, n-1] counter over the totalizer's out[2..n] chain, not
// just out[2] wrapped as a single bit, or a second threshold advance would
// silently stop counting further violations.
func TestInstallCoreCardinality_SizeThreeCoreKeepsCounting(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	a := sat.PositiveLiteral(s.AddVariable())
	b := sat.PositiveLiteral(s.AddVariable())
	c := sat.PositiveLiteral(s.AddVariable())

	var terms []*ReformTerm
	installCoreCardinality(s, &terms, []sat.Literal{a, b, c}, 5)

	if len(terms) != 1 {
		t.Fatalf("expected one new reform term, got %d", len(terms))
	}
	v := terms[0].Var
	if v.UpperBound() != 2 {
		t.Fatalf("UpperBound = %d, want 2 (a size-3 core counts 0..2 further violations)", v.UpperBound())
	}
	if lit := v.GeLiteral(2); lit == sat.TrueLiteral || lit == sat.FalseLiteral {
		t.Errorf("GeLiteral(2) = %v, want a real totalizer literal rather than a constant", lit)
	}
}
