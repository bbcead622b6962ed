package intdomain

import "github.com/itstherealjasper/pumpkin/internal/sat"

// Domain is the runtime half of spec.md §4.6's integer domain manager
// (component F): a cached lower/upper bound and a bitset over [0, ub],
// refreshed from the ge/eq literals' current truth values on demand. Per
// spec.md §3, the cache may legitimately lag behind the trail between
// propagation rounds; CP propagators call UpdateDomain to resynchronize it
// before reading bounds.
type Domain struct {
	v      *IntVar
	s      *sat.Solver
	bits   []bool
	lb, ub int
}

// NewDomain returns a Domain over v, initialized to v's full static range.
func NewDomain(s *sat.Solver, v *IntVar) *Domain {
	bits := make([]bool, v.UpperBound()+1)
	for i := range bits {
		bits[i] = true
	}
	return &Domain{v: v, s: s, bits: bits, lb: v.LowerBound(), ub: v.UpperBound()}
}

// UpdateDomain refreshes the cached bound/bitset from the current truth
// values of v's ge literals. It never itself triggers propagation; callers
// invoke it after NotifyDomainChange, or before reading Contains/bounds in
// a propagator's Propagate.
func (d *Domain) UpdateDomain() {
	d.lb, d.ub = d.v.LowerBound(), d.v.UpperBound()
	for k := d.lb + 1; k <= d.v.UpperBound(); k++ {
		if d.s.LitValue(d.v.GeLiteral(k)) != sat.True {
			break
		}
		d.lb = k
	}
	for k := d.ub; k >= 1; k-- {
		if d.s.LitValue(d.v.GeLiteral(k)) != sat.False {
			break
		}
		d.ub = k - 1
	}
	for k := range d.bits {
		d.bits[k] = k >= d.lb && k <= d.ub
	}
}

// LowerBound and UpperBound return the cached current bound (as of the
// last UpdateDomain call).
func (d *Domain) LowerBound() int { return d.lb }
func (d *Domain) UpperBound() int { return d.ub }

// Contains reports whether k is still a possible value of the variable,
// per the cached bitset.
func (d *Domain) Contains(k int) bool {
	if k < 0 || k > d.v.UpperBound() {
		return false
	}
	return d.bits[k]
}

// IntVar returns the underlying order-encoded variable this domain tracks.
func (d *Domain) IntVar() *IntVar { return d.v }
