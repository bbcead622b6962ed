package optimize

import (
	"github.com/itstherealjasper/pumpkin/internal/intdomain"
	"github.com/itstherealjasper/pumpkin/internal/pbenc"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

// Stratification selects the initial weight threshold τ for core-guided
// search (spec.md §4.7.2).
type Stratification int

const (
	// StratOff starts at τ=1: every term participates from the start.
	StratOff Stratification = iota
	// StratBasic starts at the maximum residual weight in play.
	StratBasic
	// StratRatio starts at the largest τ below 10·max such that the count
	// of terms with weight ≥ τ divided by the count of distinct such
	// weights reaches 1.25.
	StratRatio
)

// ReformTerm is one reformulated objective term (spec.md §4.7.2): no cost
// for values at or below Threshold, Residual for the next unit above it,
// then Full per unit thereafter. Residual and Full both start equal to the
// term's original weight, and Threshold starts at Var's lower bound.
type ReformTerm struct {
	Var       *intdomain.IntVar
	Residual  int
	Full      int
	Threshold int
}

// NewReformTerms builds the initial reformulation for a linear objective
// Σ weights[i]·vars[i].
func NewReformTerms(vars []*intdomain.IntVar, weights []int) []*ReformTerm {
	terms := make([]*ReformTerm, len(vars))
	for i, v := range vars {
		terms[i] = &ReformTerm{Var: v, Residual: weights[i], Full: weights[i], Threshold: v.LowerBound()}
	}
	return terms
}

// CoreGuidedResult is the outcome of one CoreGuidedSearch call.
type CoreGuidedResult struct {
	Status     sat.Status
	LowerBound int
	Model      []bool
}

// CoreGuidedSearch runs spec.md §4.7.2's stratified, weight-aware
// core-guided lower-bound loop: repeatedly assume every active term
// pinned at its current threshold, extract a core on UNSAT and fold its
// weight into the running lower bound, or record an improving model on
// SAT and move to the next stratification layer once the current one is
// exhausted.
//
// Hardening against a known upper bound (spec.md §4.7.2's "Hardening"
// paragraph) is exposed separately as Harden, since it needs an incumbent
// cost that in general comes from a paired UpperBoundSearch run rather
// than from this loop alone.
func CoreGuidedSearch(s *sat.Solver, terms []*ReformTerm, mode Stratification) CoreGuidedResult {
	all := append([]*ReformTerm(nil), terms...)
	constant := 0
	var model []bool

	tau := initialTau(all, mode)
	for {
		active := activeTerms(all, tau)
		for len(active) > 0 {
			assumptions := make([]sat.Literal, len(active))
			for i, t := range active {
				assumptions[i] = t.Var.GeLiteral(t.Threshold + 1).Opposite()
			}

			status, core := s.Solve(assumptions)
			switch status {
			case sat.StatusUnknown:
				return CoreGuidedResult{Status: sat.StatusUnknown, LowerBound: constant, Model: model}
			case sat.StatusSAT:
				model = s.Model()
				active = nil
			case sat.StatusUNSAT:
				if len(core) == 0 {
					return CoreGuidedResult{Status: sat.StatusUNSAT, LowerBound: constant, Model: model}
				}
				coreTerms := matchCore(active, core)
				if len(coreTerms) == 0 {
					active = nil
					continue
				}
				coreWeight := coreTerms[0].Residual
				for _, t := range coreTerms[1:] {
					if t.Residual < coreWeight {
						coreWeight = t.Residual
					}
				}
				// Capture the violation literals before any threshold
				// advances below: installCoreCardinality must describe the
				// core as it stood at extraction time, not after.
				violationLits := make([]sat.Literal, len(coreTerms))
				for i, t := range coreTerms {
					violationLits[i] = t.Var.GeLiteral(t.Threshold + 1)
				}
				constant += coreWeight
				for _, t := range coreTerms {
					t.Residual -= coreWeight
					if t.Residual == 0 {
						advanceThreshold(t)
					}
				}
				s.BacktrackToRoot()
				installCoreCardinality(s, &all, violationLits, coreWeight)
				active = activeTerms(all, tau)
			}
		}

		next := lowerTau(all, tau)
		if next >= tau {
			break
		}
		tau = next
	}
	return CoreGuidedResult{Status: sat.StatusSAT, LowerBound: constant, Model: model}
}

// Harden installs a hard bound derived from the best total cost ub found so
// far elsewhere: Σ Residual·[Var ≥ Threshold+1] <= ub - constant, encoded
// with one generalized totalizer. Each term counts its residual once, for
// reaching Threshold+1; values further above the threshold add nothing to
// the bounded sum, so the full reformulated cost is not bounded, and no
// per-variable unit upper bound is derived. Terms whose range is already
// fully consumed (threshold at the variable's upper bound) contribute
// nothing and are skipped.
func Harden(s *sat.Solver, terms []*ReformTerm, constant, ub int) error {
	rhs := ub - constant
	if rhs < 0 {
		return nil
	}
	s.BacktrackToRoot()
	var pbTerms []pbenc.Term
	for _, t := range terms {
		if t.Threshold >= t.Var.UpperBound() {
			continue
		}
		pbTerms = append(pbTerms, pbenc.Term{Weight: t.Residual, Lit: t.Var.GeLiteral(t.Threshold + 1)})
	}
	if len(pbTerms) == 0 {
		return nil
	}
	out := pbenc.GeneralizedTotalizer(s, pbTerms, rhs)
	if lit, ok := out[rhs+1]; ok {
		return s.AddUnit(lit.Opposite())
	}
	return nil
}

func initialTau(terms []*ReformTerm, mode Stratification) int {
	switch mode {
	case StratBasic:
		return maxResidual(terms)
	case StratRatio:
		return ratioTau(terms)
	default:
		return 1
	}
}

func maxResidual(terms []*ReformTerm) int {
	max := 0
	for _, t := range terms {
		if t.Residual > max {
			max = t.Residual
		}
	}
	if max == 0 {
		return 1
	}
	return max
}

func ratioTau(terms []*ReformTerm) int {
	limit := 10 * maxResidual(terms)
	for tau := limit; tau > 1; tau-- {
		count, distinct := 0, map[int]bool{}
		for _, t := range terms {
			if t.Residual >= tau {
				count++
				distinct[t.Residual] = true
			}
		}
		if len(distinct) == 0 {
			continue
		}
		if float64(count)/float64(len(distinct)) >= 1.25 {
			return tau
		}
	}
	return 1
}

// lowerTau returns the largest residual weight strictly below tau. When
// none remains it returns 1, or tau itself once tau is already 1 (the
// caller reads a result not below tau as "stop stratifying").
func lowerTau(terms []*ReformTerm, tau int) int {
	next := 0
	for _, t := range terms {
		if t.Residual < tau && t.Residual > next {
			next = t.Residual
		}
	}
	if next > 0 {
		return next
	}
	if tau > 1 {
		return 1
	}
	return tau
}

// activeTerms is every term whose residual weight has reached the current
// stratification layer and whose threshold hasn't already consumed its
// variable's whole range.
func activeTerms(terms []*ReformTerm, tau int) []*ReformTerm {
	var active []*ReformTerm
	for _, t := range terms {
		if t.Residual >= tau && t.Threshold < t.Var.UpperBound() {
			active = append(active, t)
		}
	}
	return active
}

// matchCore maps the literals Solve's failed-assumption core names back
// to the ReformTerms that produced them. A core literal is the negation
// of a falsified assumption; since the assumption was
// Var.GeLiteral(Threshold+1).Opposite(), its negation is
// Var.GeLiteral(Threshold+1) itself.
func matchCore(active []*ReformTerm, core []sat.Literal) []*ReformTerm {
	inCore := make(map[sat.Literal]bool, len(core))
	for _, l := range core {
		inCore[l] = true
	}
	var matched []*ReformTerm
	for _, t := range active {
		if inCore[t.Var.GeLiteral(t.Threshold+1)] {
			matched = append(matched, t)
		}
	}
	return matched
}

// advanceThreshold raises t's threshold to the next value above its
// current one and resets its residual to full weight.
func advanceThreshold(t *ReformTerm) {
	t.Threshold++
	t.Residual = t.Full
}

// installCoreCardinality converts one extracted core into a fresh
// reformulated term, per spec.md §4.7.2's final paragraph: build a
// totalizer over the core's violation literals and expose out[2..n] as a
// genuine [0, n-1] counting variable carrying the core's weight — how many
// further violations there are beyond the single one the core itself
// already guarantees and has been priced for. out[1] is that guaranteed
// violation and is deliberately left out of the new variable's chain; using
// only out[2] (a 0/1 view) would make every threshold past the first
// advance collapse onto a literal outside [0,1] and therefore permanently
// true, silently dropping any further violations of a core of size >= 3
// from the lower bound.
func installCoreCardinality(s *sat.Solver, terms *[]*ReformTerm, violationLits []sat.Literal, coreWeight int) {
	n := len(violationLits)
	if n < 2 {
		return
	}
	out := pbenc.Totalizer(s, violationLits, n)
	lits := make([]sat.Literal, 0, n-1)
	for k := 2; k <= n; k++ {
		lit, ok := out[k]
		if !ok {
			break
		}
		lits = append(lits, lit)
	}
	if len(lits) == 0 {
		return
	}
	v := intdomain.CreateSimpleBoundedSumVariable(s, lits, 0)
	*terms = append(*terms, &ReformTerm{Var: v, Residual: coreWeight, Full: coreWeight, Threshold: 0})
}
