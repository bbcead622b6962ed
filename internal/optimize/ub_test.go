package optimize

import (
	"testing"

	"github.com/itstherealjasper/pumpkin/internal/sat"
)

// TestUpperBoundSearch_ConvergesToOptimum sets up min 3a + 5b subject to
// a ∨ b, whose optimum is a=true, b=false at cost 3.
func TestUpperBoundSearch_ConvergesToOptimum(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	a := sat.PositiveLiteral(s.AddVariable())
	b := sat.PositiveLiteral(s.AddVariable())
	if err := s.AddClause([]sat.Literal{a, b}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}

	terms := []Term{{Weight: 3, Lit: a}, {Weight: 5, Lit: b}}
	result := UpperBoundSearch(s, terms, 0, 8, PhaseSaving)

	if result.Status != sat.StatusUNSAT {
		t.Fatalf("expected the search to terminate with UNSAT (proven optimal), got %v", result.Status)
	}
	if result.Cost != 3 {
		t.Errorf("Cost = %d, want 3", result.Cost)
	}
}

func TestUpperBoundSearch_AlreadyOptimal(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	a := sat.PositiveLiteral(s.AddVariable())
	if err := s.AddUnit(a.Opposite()); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}

	terms := []Term{{Weight: 4, Lit: a}}
	result := UpperBoundSearch(s, terms, 0, 0, PhaseSaving)

	if result.Status != sat.StatusUNSAT {
		t.Fatalf("expected UNSAT once cost 0 is already forced and cannot improve, got %v", result.Status)
	}
	if result.Cost != 0 {
		t.Errorf("Cost = %d, want 0", result.Cost)
	}
}
