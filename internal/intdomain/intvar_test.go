package intdomain

import "testing"

import "github.com/itstherealjasper/pumpkin/internal/sat"

func TestCreateIntegerVariable_OrderEncodingChain(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	v, err := CreateIntegerVariable(s, 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ge[2] -> ge[1]: forcing ge[2] true must propagate ge[1] true.
	if err := s.AddUnit(v.GeLiteral(2)); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if conflict := s.Propagate(); conflict != sat.NoReason {
		t.Fatalf("unexpected conflict during propagation")
	}
	if s.LitValue(v.GeLiteral(1)) != sat.True {
		t.Errorf("ge[1] = %v, want true (implied by ge[2])", s.LitValue(v.GeLiteral(1)))
	}
}

func TestCreateIntegerVariable_EqImpliesGe(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	v, err := CreateIntegerVariable(s, 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// eq[2] <-> ge[2] & !ge[3]: forcing eq[2] must force ge[2] true and
	// ge[3] false.
	if err := s.AddUnit(v.EqLiteral(2)); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if conflict := s.Propagate(); conflict != sat.NoReason {
		t.Fatalf("unexpected conflict during propagation")
	}
	if s.LitValue(v.GeLiteral(2)) != sat.True {
		t.Errorf("ge[2] = %v, want true", s.LitValue(v.GeLiteral(2)))
	}
	if s.LitValue(v.GeLiteral(3)) != sat.False {
		t.Errorf("ge[3] = %v, want false", s.LitValue(v.GeLiteral(3)))
	}
}

func TestCreateIntegerVariable_ForcesInitialLowerBound(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	v, err := CreateIntegerVariable(s, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.LitValue(v.GeLiteral(1)) != sat.True || s.LitValue(v.GeLiteral(2)) != sat.True {
		t.Errorf("ge[1]/ge[2] should already be forced true by lb=2")
	}
}

func TestCreateEquivalentVariable(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	x := s.AddVariable()
	lit := sat.PositiveLiteral(x)

	v := CreateEquivalentVariable(s, lit)
	if v.GeLiteral(1) != lit {
		t.Errorf("GeLiteral(1) should alias the wrapped literal directly")
	}
}

func TestDomain_UpdateDomainNarrowsBounds(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	v, err := CreateIntegerVariable(s, 0, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := NewDomain(s, v)

	if err := s.AddUnit(v.GeLiteral(2)); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if err := s.AddUnit(v.GeLiteral(4).Opposite()); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if conflict := s.Propagate(); conflict != sat.NoReason {
		t.Fatalf("unexpected conflict")
	}
	d.UpdateDomain()

	if d.LowerBound() != 2 {
		t.Errorf("LowerBound() = %d, want 2", d.LowerBound())
	}
	if d.UpperBound() != 3 {
		t.Errorf("UpperBound() = %d, want 3", d.UpperBound())
	}
	if d.Contains(1) || d.Contains(4) {
		t.Errorf("domain should no longer contain 1 or 4")
	}
	if !d.Contains(2) || !d.Contains(3) {
		t.Errorf("domain should still contain 2 and 3")
	}
}
