// Package pbenc implements spec.md §4.7's pseudo-Boolean encoders
// (component L): the generalized totalizer used directly by the
// upper-bound linear search's objective encoding, a plain (unweighted)
// totalizer built as its special case, and a cardinality-network
// alternative built from an odd-even merging sorting network, grounded on
// the compare-and-swap structure of
// vendor/github.com/irifrance/gini/logic/card.go's CardSort (the one
// cardinality-network implementation anywhere in the retrieval pack).
package pbenc

import (
	"sort"

	"github.com/itstherealjasper/pumpkin/internal/sat"
)

// Term is a single weighted Boolean literal of a pseudo-Boolean sum
// Σ wᵢ·xᵢ, matching spec.md §3's "Pseudo-Boolean term".
type Term struct {
	Weight int
	Lit    sat.Literal
}

// node is an internal generalized-totalizer node: weights holds every
// partial sum (≤ rhs) reachable within the subtree, and lit[w] is the
// auxiliary literal meaning "the subtree's weighted sum is ≥ w" (spec.md
// §4.7.1's "each internal node holds a set of (weight, auxiliary literal)
// pairs").
type node struct {
	weights []int
	lit     map[int]sat.Literal
}

func leafNode(t Term) *node {
	return &node{weights: []int{t.Weight}, lit: map[int]sat.Literal{t.Weight: t.Lit}}
}

// GeneralizedTotalizer builds the binary combination tree of spec.md
// §4.7.1 step 2 over terms, pruning any partial sum above rhs, and returns
// the order-encoded output literals of the root node: out[k] means "Σ
// wᵢ·xᵢ ≥ k" for every k in [1, rhs] that some combination of terms can
// reach. The three clause families are exactly the ones spec.md §4.7.1
// lists: child-to-parent propagation, combination propagation below rhs,
// and a hard conflict clause for any combination that would cross it.
func GeneralizedTotalizer(s *sat.Solver, terms []Term, rhs int) map[int]sat.Literal {
	if len(terms) == 0 {
		return map[int]sat.Literal{}
	}
	if len(terms) == 1 && terms[0].Weight > rhs {
		// No merge runs for a single term, so its weight crossing rhs is
		// forbidden here with a unit clause (a root conflict shows up via
		// s.IsUnsat()).
		_ = s.AddClause([]sat.Literal{terms[0].Lit.Opposite()})
		return map[int]sat.Literal{}
	}
	nodes := make([]*node, len(terms))
	for i, t := range terms {
		nodes[i] = leafNode(t)
	}
	for len(nodes) > 1 {
		next := make([]*node, 0, (len(nodes)+1)/2)
		i := 0
		for ; i+1 < len(nodes); i += 2 {
			next = append(next, merge(s, nodes[i], nodes[i+1], rhs))
		}
		if i < len(nodes) {
			next = append(next, nodes[i])
		}
		nodes = next
	}
	top := nodes[0]
	out := make(map[int]sat.Literal, len(top.weights))
	for _, w := range top.weights {
		out[w] = top.lit[w]
	}
	return out
}

// merge combines two sibling nodes into their parent, per spec.md
// §4.7.1's three clause forms. Each side's weight set is extended with an
// implicit 0 (the subtree contributing nothing, always true) so that a
// single child's weight crossing rhs on its own — not just a pairwise
// combination — is forbidden by the same loop: pairing a real weight
// against the other side's implicit 0 degrades the general combination
// clause into the child-to-parent propagation clause, or, when that lone
// weight already exceeds rhs, into a unit clause forbidding it outright.
func merge(s *sat.Solver, left, right *node, rhs int) *node {
	leftWeights := append([]int{0}, left.weights...)
	rightWeights := append([]int{0}, right.weights...)

	reach := map[int]bool{}
	for _, a := range leftWeights {
		for _, b := range rightWeights {
			if a == 0 && b == 0 {
				continue
			}
			if w := a + b; w <= rhs {
				reach[w] = true
			}
		}
	}

	weights := make([]int, 0, len(reach))
	for w := range reach {
		weights = append(weights, w)
	}
	sort.Ints(weights)

	parent := &node{weights: weights, lit: make(map[int]sat.Literal, len(weights))}
	for _, w := range weights {
		parent.lit[w] = sat.PositiveLiteral(s.AddVariable())
	}

	for _, a := range leftWeights {
		for _, b := range rightWeights {
			if a == 0 && b == 0 {
				continue
			}
			var lits []sat.Literal
			if a > 0 {
				lits = append(lits, left.lit[a].Opposite())
			}
			if b > 0 {
				lits = append(lits, right.lit[b].Opposite())
			}
			if w := a + b; w <= rhs {
				lits = append(lits, parent.lit[w])
			}
			if err := s.AddClause(lits); err != nil {
				// A conflicting clause at the root (e.g. a already-true
				// child exceeding rhs) is reported via s.IsUnsat(), not a
				// panic-worthy condition here.
				continue
			}
		}
	}
	return parent
}

// Totalizer is the unweighted special case of GeneralizedTotalizer: every
// literal contributes weight 1, and out[k] means "at least k of lits are
// true", for k in [1, min(len(lits), rhs)].
func Totalizer(s *sat.Solver, lits []sat.Literal, rhs int) map[int]sat.Literal {
	terms := make([]Term, len(lits))
	for i, l := range lits {
		terms[i] = Term{Weight: 1, Lit: l}
	}
	return GeneralizedTotalizer(s, terms, rhs)
}

// AddAtMostK installs a hard clause forbidding more than k of lits from
// being simultaneously true, via whichever cardinality out[k+1] encoder
// already exists. Callers that need the full order-encoded output (to
// strengthen a bound incrementally, as spec.md §4.7.1 step 4 does) should
// call Totalizer/CardinalityNetwork directly instead and add the unit
// clause themselves.
func AddAtMostK(s *sat.Solver, out map[int]sat.Literal, k int) error {
	lit, ok := out[k+1]
	if !ok {
		return nil // no combination can reach k+1 anyway: already satisfied
	}
	return s.AddUnit(lit.Opposite())
}
