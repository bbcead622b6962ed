package sat

import "testing"

func lit(v Variable, positive bool) Literal {
	if positive {
		return PositiveLiteral(v)
	}
	return NegativeLiteral(v)
}

func TestSolve_SatisfiableUnitPropagation(t *testing.T) {
	s := NewSolver(DefaultOptions, nil)
	x1 := s.AddVariable()
	x2 := s.AddVariable()

	must(t, s.AddClause([]Literal{lit(x1, false), lit(x2, true)})) // x1 -> x2
	must(t, s.AddUnit(lit(x1, true)))

	status, _ := s.Solve(nil)
	if status != StatusSAT {
		t.Fatalf("status = %v, want SAT", status)
	}
	if v := s.VarValue(x2); v != True {
		t.Errorf("x2 = %v, want true (forced by unit propagation)", v)
	}
}

func TestSolve_UnsatisfiableUnitConflict(t *testing.T) {
	s := NewSolver(DefaultOptions, nil)
	x1 := s.AddVariable()

	must(t, s.AddUnit(lit(x1, true)))
	must(t, s.AddUnit(lit(x1, false)))

	status, _ := s.Solve(nil)
	if status != StatusUNSAT {
		t.Fatalf("status = %v, want UNSAT", status)
	}
	if !s.IsUnsat() {
		t.Errorf("IsUnsat() = false, want true")
	}
}

// TestSolve_PigeonholeTwoIntoOne is unsatisfiable by construction: two
// pigeons, each forced into the single hole, but never into the same hole.
func TestSolve_PigeonholeTwoIntoOne(t *testing.T) {
	s := NewSolver(DefaultOptions, nil)
	p1 := s.AddVariable()
	p2 := s.AddVariable()

	must(t, s.AddUnit(lit(p1, true))) // pigeon 1 takes the hole
	must(t, s.AddUnit(lit(p2, true))) // pigeon 2 takes the hole
	must(t, s.AddClause([]Literal{lit(p1, false), lit(p2, false)})) // not both

	status, _ := s.Solve(nil)
	if status != StatusUNSAT {
		t.Fatalf("status = %v, want UNSAT", status)
	}
}

// TestSolve_ConflictDrivenLearning exercises a backjump: deciding a=true
// forces a conflict two propagation steps later, conflict analysis must
// learn a unit clause over a alone and backjump to the root, and the
// resulting forced assignments (b, then both polarities of c) collide again
// at decision level 0, proving unsatisfiability.
func TestSolve_ConflictDrivenLearning(t *testing.T) {
	s := NewSolver(DefaultOptions, nil)
	vars := make([]Variable, 4)
	for i := range vars {
		vars[i] = s.AddVariable()
	}
	a, b, c, d := vars[0], vars[1], vars[2], vars[3]

	clauses := [][]Literal{
		{lit(a, true), lit(b, true)},
		{lit(a, false), lit(c, true)},
		{lit(a, false), lit(d, true)},
		{lit(c, false), lit(d, false)},
		{lit(b, false), lit(c, true)},
		{lit(b, false), lit(c, false)},
	}
	for _, cl := range clauses {
		must(t, s.AddClause(cl))
	}

	status, _ := s.Solve(nil)
	if status != StatusUNSAT {
		t.Fatalf("status = %v, want UNSAT", status)
	}
	if s.TotalConflicts < 2 {
		t.Errorf("TotalConflicts = %d, want at least 2 (one mid-search, one at the root)", s.TotalConflicts)
	}
}

func TestSolve_FailedAssumptionReturnsCore(t *testing.T) {
	s := NewSolver(DefaultOptions, nil)
	x1 := s.AddVariable()
	x2 := s.AddVariable()

	must(t, s.AddClause([]Literal{lit(x1, false), lit(x2, true)})) // x1 -> x2
	must(t, s.AddUnit(lit(x2, false)))                             // x2 is forced false at the root

	status, core := s.Solve([]Literal{lit(x1, true)})
	if status != StatusUNSAT {
		t.Fatalf("status = %v, want UNSAT", status)
	}
	if len(core) == 0 {
		t.Fatalf("expected a non-empty failed-assumption core")
	}
	found := false
	for _, l := range core {
		if l == lit(x1, false) {
			found = true
		}
	}
	if !found {
		t.Errorf("core %v does not contain the negation of the failed assumption", core)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func clauseSatisfied(s *Solver, cl []Literal) bool {
	for _, l := range cl {
		if s.LitValue(l) == True {
			return true
		}
	}
	return false
}
