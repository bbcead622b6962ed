package pbenc

import (
	"testing"

	"github.com/itstherealjasper/pumpkin/internal/sat"
)

func setAll(t *testing.T, s *sat.Solver, lits []sat.Literal) {
	t.Helper()
	for _, l := range lits {
		if err := s.AddUnit(l); err != nil {
			t.Fatalf("AddUnit: %v", err)
		}
	}
}

func TestTotalizer_PropagatesAtLeast(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	vars := make([]sat.Literal, 3)
	for i := range vars {
		vars[i] = sat.PositiveLiteral(s.AddVariable())
	}
	out := Totalizer(s, vars, 3)

	setAll(t, s, vars[:2])
	if conflict := s.Propagate(); conflict != sat.NoReason {
		t.Fatalf("unexpected conflict")
	}
	if s.LitValue(out[2]) != sat.True {
		t.Errorf("out[2] should be forced true once two of three literals are true")
	}
	if s.LitValue(out[3]) == sat.True {
		t.Errorf("out[3] should not yet be forced with only two literals true")
	}
}

func TestGeneralizedTotalizer_PrunesAboveRHS(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	a := sat.PositiveLiteral(s.AddVariable())
	b := sat.PositiveLiteral(s.AddVariable())

	out := GeneralizedTotalizer(s, []Term{{Weight: 3, Lit: a}, {Weight: 3, Lit: b}}, 4)
	if _, ok := out[6]; ok {
		t.Errorf("a combined sum of 6 exceeds rhs=4 and should have been pruned")
	}

	if err := s.AddUnit(a); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if err := s.AddUnit(b); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if conflict := s.Propagate(); conflict == sat.NoReason && !s.IsUnsat() {
		t.Errorf("a=true, b=true together exceed rhs=4 and should conflict")
	}
}

func TestAddAtMostK(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	vars := make([]sat.Literal, 4)
	for i := range vars {
		vars[i] = sat.PositiveLiteral(s.AddVariable())
	}
	out := Totalizer(s, vars, 4)
	if err := AddAtMostK(s, out, 2); err != nil {
		t.Fatalf("AddAtMostK: %v", err)
	}

	setAll(t, s, vars[:3])
	if conflict := s.Propagate(); conflict == sat.NoReason && !s.IsUnsat() {
		t.Errorf("three of four literals true should violate at-most-2")
	}
}
