package pbenc

import "github.com/itstherealjasper/pumpkin/internal/sat"

// andGate and orGate Tseitin-encode a fresh literal equal to a∧b / a∨b,
// the two gate shapes vendor/github.com/irifrance/gini/logic/card.go's
// CardSort builds its compare-and-swap cells from.
func andGate(s *sat.Solver, a, b sat.Literal) sat.Literal {
	o := sat.PositiveLiteral(s.AddVariable())
	s.AddImplication(o, a)
	s.AddImplication(o, b)
	s.AddClause([]sat.Literal{a.Opposite(), b.Opposite(), o})
	return o
}

func orGate(s *sat.Solver, a, b sat.Literal) sat.Literal {
	o := sat.PositiveLiteral(s.AddVariable())
	s.AddImplication(a, o)
	s.AddImplication(b, o)
	s.AddClause([]sat.Literal{a, b, o.Opposite()})
	return o
}

// sorter performs an odd-even merging-network sort over a padded-to-power-
// of-two wire array, mirroring CardSort's cas/merge/sort split. Padding
// wires are tied to FalseLiteral so they sink to the low (false) end of
// the sort without perturbing the relative order of the real inputs.
type sorter struct {
	s  *sat.Solver
	ms []sat.Literal
}

func (sr *sorter) cas(i, j int) (lo, hi sat.Literal) {
	a, b := sr.ms[i], sr.ms[j]
	return andGate(sr.s, a, b), orGate(sr.s, a, b)
}

func (sr *sorter) sortRange(l, h int) {
	if h-l <= 1 {
		return
	}
	m := l + (h-l)/2
	sr.sortRange(l, m)
	sr.sortRange(m, h)
	sr.mergeRange(l, h, 1)
}

// mergeRange merges two adjacent sorted runs of stride step starting at l,
// ending at h, via the odd-even merge recursion.
func (sr *sorter) mergeRange(l, h, step int) {
	if h <= l+step {
		return
	}
	stride2 := 2 * step
	if stride2 >= h-l {
		lo, hi := sr.cas(l, l+step)
		sr.ms[l], sr.ms[l+step] = lo, hi
		return
	}
	sr.mergeRange(l, h, stride2)
	sr.mergeRange(l+step, h, stride2)
	lim := h - step
	for i := l + step; i < lim; i += stride2 {
		lo, hi := sr.cas(i, i+step)
		sr.ms[i], sr.ms[i+step] = lo, hi
	}
}

// CardinalityNetwork builds an odd-even merging sort over lits and returns
// out[k] meaning "at least k of lits are true", for k in [1, len(lits)].
// It is the spec.md §6 "cardinality-network" alternative to Totalizer for
// the --cardinality-encoding option: same unweighted cardinality
// semantics, a different (and, for dense instances, smaller) clause
// footprint.
func CardinalityNetwork(s *sat.Solver, lits []sat.Literal) map[int]sat.Literal {
	n := len(lits)
	if n == 0 {
		return map[int]sat.Literal{}
	}
	p := 1
	for p < n {
		p *= 2
	}
	ms := make([]sat.Literal, p)
	copy(ms, lits)
	for i := n; i < p; i++ {
		ms[i] = sat.FalseLiteral
	}

	sr := &sorter{s: s, ms: ms}
	sr.sortRange(0, p)

	out := make(map[int]sat.Literal, n)
	for k := 1; k <= n; k++ {
		out[k] = sr.ms[p-k]
	}
	return out
}
