package sat

import (
	"github.com/rhartert/yagh"
)

// VarHeap is the max-heap over variable activities described in spec.md §3
// ("Variable selector"): a binary heap keyed on doubles, with an increment
// that multiplies (decays) on each conflict, and a full rescale when an
// activity would overflow. Backed by github.com/rhartert/yagh's generic
// IntMap, which yass's teacher code already used for this purpose; yagh
// stores entries as a min-heap so scores are negated on insertion to turn
// it into the max-heap this component needs.
type VarHeap struct {
	order *yagh.IntMap[float64]

	activities []float64 // in [0, 1e100)
	inc        float64   // in (0, 1e100)
	decay      float64   // in (0, 1]

	phases      []LBool
	phaseSaving bool
}

// NewVarHeap returns an empty heap with the given VSIDS decay factor.
func NewVarHeap(decay float64, phaseSaving bool) *VarHeap {
	return &VarHeap{
		order:       yagh.New[float64](0),
		inc:         1,
		decay:       decay,
		phaseSaving: phaseSaving,
	}
}

// NewVariable registers a freshly created variable with zero activity.
func (h *VarHeap) NewVariable() {
	v := len(h.activities)
	h.activities = append(h.activities, 0)
	h.phases = append(h.phases, Unknown)
	h.order.GrowBy(1)
	h.order.Put(v, 0)
}

// Reinsert adds v back to the set of selectable variables. val is the value
// v was last assigned, recorded for phase saving if enabled. Must be called
// whenever the driver unassigns v (e.g. on backtrack).
func (h *VarHeap) Reinsert(v Variable, val LBool) {
	if h.phaseSaving {
		h.phases[v] = val
	}
	h.order.Put(int(v), -h.activities[v])
}

// Decay scales down the activity increment, giving relatively more weight
// to future bumps (spec.md §6 "decay-factor-variables").
func (h *VarHeap) Decay() {
	h.inc /= h.decay
	if h.inc > 1e100 {
		h.rescale()
	}
}

// Bump increases v's activity score, reinserting it into the heap at its
// new priority if it is still a candidate.
func (h *VarHeap) Bump(v Variable) {
	newScore := h.activities[v] + h.inc
	h.activities[v] = newScore
	if h.order.Contains(int(v)) {
		h.order.Put(int(v), -newScore)
	}
	if newScore > 1e100 {
		h.rescale()
	}
}

func (h *VarHeap) rescale() {
	h.inc *= 1e-100
	for v, s := range h.activities {
		newScore := s * 1e-100
		h.activities[v] = newScore
		if h.order.Contains(v) {
			h.order.Put(v, -newScore)
		}
	}
}

// SetPhase overrides v's saved phase directly, regardless of phaseSaving.
// Used by the optimization loops' value-selection policies (spec.md
// §4.7.1 step 3) to freeze polarities to an incumbent solution between
// restarts rather than rely on whatever phase-saving recorded last.
func (h *VarHeap) SetPhase(v Variable, val LBool) {
	h.phases[v] = val
}

// NextDecision pops variables off the heap, discarding any that valueOf
// reports as already assigned (they were never removed from the heap when
// propagation assigned them; they are properly reinserted on backtrack via
// Reinsert), until it finds an unassigned one or the heap is exhausted. It
// returns the literal that variable's saved phase prefers (positive by
// default when phase saving is off or has no recorded phase).
func (h *VarHeap) NextDecision(valueOf func(Variable) LBool) (Literal, bool) {
	for {
		next, ok := h.order.Pop()
		if !ok {
			return 0, false
		}
		v := Variable(next.Elem)
		if valueOf(v) != Unknown {
			continue
		}
		if h.phases[v] == False {
			return NegativeLiteral(v), true
		}
		return PositiveLiteral(v), true
	}
}
