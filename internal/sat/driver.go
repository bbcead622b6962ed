// Package sat implements the CDCL core of spec.md: the clause allocator,
// trail, watch lists, two-watched-literal propagation, 1-UIP conflict
// analysis with LBD scoring and self-subsumption minimization, the three
// restart strategies, learned-clause reduction and arena garbage
// collection, and the driver loop with assumption/core-extraction support
// (components A, B, C, D, E, H, I, J of spec.md §2).
//
// Integer-variable encoding (F, K), the CP propagator framework's
// domain-facing half and example propagators (G's subscription mechanics
// beyond the queue, O), pseudo-Boolean encoders (L), and the optimization
// loops (M, N) are layered on top in sibling packages; this package only
// knows about Boolean literals, clauses, and the generic Propagator
// interface (propagator.go).
package sat

import (
	"time"

	"github.com/itstherealjasper/pumpkin/pkg/telemetry"
)

// Status is the three-valued result of a bounded search call.
type Status int8

const (
	StatusUnknown Status = 0
	StatusSAT     Status = 1
	StatusUNSAT   Status = -1
)

func (s Status) String() string {
	switch s {
	case StatusSAT:
		return "SAT"
	case StatusUNSAT:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// RestartStrategy selects the restart policy of spec.md §4.5.
type RestartStrategy int

const (
	RestartGlucose RestartStrategy = iota
	RestartLuby
	RestartConstant
)

// Options configures a Solver. It mirrors the CLI/configuration surface of
// spec.md §6, grouped the same way.
type Options struct {
	// Restart group.
	RestartStrategy           RestartStrategy
	RestartMultCoefficient    int
	MinConflictsPerRestart    int64
	GlucoseQueueLBDLimit      int
	GlucoseQueueResetLimit    int

	// Clauses group.
	ClauseDecay              float64
	LBDThreshold              int
	LimitNumTemporaryClauses  int
	LBDSortingTemporary       bool
	GarbageToleranceFactor    float64

	// Variables group.
	VariableDecay float64
	PhaseSaving   bool

	// Analysis group.
	BumpDecisionVariables bool
	ClauseMinimisation    bool
}

// DefaultOptions mirrors the teacher's DefaultOptions, extended with the
// rest of spec.md §6's defaults.
var DefaultOptions = Options{
	RestartStrategy:          RestartGlucose,
	RestartMultCoefficient:   100,
	MinConflictsPerRestart:   100,
	GlucoseQueueLBDLimit:     50,
	GlucoseQueueResetLimit:   5000,
	ClauseDecay:              0.999,
	LBDThreshold:             6,
	LimitNumTemporaryClauses: 1000,
	LBDSortingTemporary:      true,
	GarbageToleranceFactor:   0.2,
	VariableDecay:            0.95,
	PhaseSaving:              true,
	BumpDecisionVariables:    false,
	ClauseMinimisation:       true,
}

// Solver is the CDCL engine described by spec.md §2's components A–E, H,
// I, J. Integer-domain and CP-propagator state is threaded through by
// higher packages calling RegisterPropagator and the exported hooks below;
// the Solver itself stores only the generic Propagator values.
type Solver struct {
	opts Options
	sink telemetry.Sink

	alloc      *ClauseAllocator
	assign     *Assignments
	watches    *WatchLists
	heap       *VarHeap
	propQueue  *Queue[Literal]
	seen       *ResetSet

	permanent []ClauseRef
	learnts   []ClauseRef

	clauseInc float64

	// CP propagator framework (component G's sat-side half).
	propagators []propagatorEntry
	propByID    map[PropagatorID]Propagator
	watchersCP  map[Literal][]PropagatorID
	pendingCP   *propagatorQueue
	nextPropID  PropagatorID
	scratchDue  map[PropagatorID]bool

	// Root-level conflict sticky flag.
	unsat bool

	// Assumptions currently being solved under.
	assumptions []Literal

	// Restart bookkeeping (component I). lbdFast is the recent-LBD window
	// compared against lbdGlobal's cumulative average to trigger a Glucose
	// restart; trailWindow is the recent trail-size window used to block a
	// triggered restart while the search is still making good progress.
	lbdFast       *WindowAverage
	lbdGlobal     EMA
	trailWindow   *WindowAverage
	lubySeq       *lubyGenerator
	lubyThreshold int64
	conflictsSinceRestart int64

	// Search statistics.
	TotalConflicts int64
	TotalRestarts  int64
	TotalDecisions int64

	startTime time.Time
	deadline  time.Time
	hasDeadline bool

	// Scratch buffers reused across calls to avoid repeated allocation.
	tmpLearnt []Literal
	tmpReason []Literal

	// Models recorded by callers that keep solving for all solutions (see
	// the teacher's yass_test.go pattern); the driver itself only ever
	// needs the latest one.
	lastModel []bool
}

// NewSolver returns a Solver configured with opts. Variable 1, the
// permanently-true root variable backing TrueLiteral/FalseLiteral, is
// created here so it is available before any caller-created variable.
func NewSolver(opts Options, sink telemetry.Sink) *Solver {
	if sink == nil {
		sink = telemetry.Noop
	}
	s := &Solver{
		opts:       opts,
		sink:       sink,
		alloc:      NewClauseAllocator(),
		assign:     NewAssignments(),
		watches:    NewWatchLists(),
		heap:       NewVarHeap(opts.VariableDecay, opts.PhaseSaving),
		propQueue:  NewQueue[Literal](128),
		seen:       &ResetSet{},
		clauseInc:  1,
		propByID:   make(map[PropagatorID]Propagator),
		watchersCP: make(map[Literal][]PropagatorID),
		pendingCP:  newPropagatorQueue(),
		nextPropID: FirstPropagatorID,
		scratchDue: make(map[PropagatorID]bool),
		lbdFast:     NewWindowAverage(maxInt(opts.GlucoseQueueLBDLimit, 1)),
		lbdGlobal:   NewEMA(0.999),
		trailWindow: NewWindowAverage(maxInt(opts.GlucoseQueueResetLimit, 1)),
		lubySeq:     newLubyGenerator(),
	}
	s.lubyThreshold = s.lubySeq.Next() * int64(maxInt(opts.RestartMultCoefficient, 1))

	// Root variable: NullVariable(0) is reserved, variable 1 is the
	// constant true/false literal pair used by the integer encoding layer.
	s.addVariableRaw() // index 0, unused padding so variable ids start at 1
	root := s.addVariableRaw()
	if root != 1 {
		panic("sat: root variable must be index 1")
	}
	s.assign.MakeAssignment(TrueLiteral, NoReason)

	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (s *Solver) addVariableRaw() Variable {
	v := s.assign.NewVariable()
	s.watches.NewVariable()
	s.heap.NewVariable()
	s.seen.Expand()
	return v
}

// AddVariable allocates a new Boolean variable. Per spec.md §3's lifecycle
// rule, variables may only be created at the root.
func (s *Solver) AddVariable() Variable {
	if s.DecisionLevel() != 0 {
		panic("sat: invalid operation: variables can only be created at the root")
	}
	return s.addVariableRaw()
}

// NumVariables returns the number of variables created so far (including
// the reserved root variable, but not the null variable).
func (s *Solver) NumVariables() int { return s.assign.NumVariables() - 1 }

// DecisionLevel returns the current decision level.
func (s *Solver) DecisionLevel() int { return s.assign.DecisionLevel() }

// LitValue returns the current truth value of a literal.
func (s *Solver) LitValue(l Literal) LBool { return s.assign.Value(l) }

// VarValue returns the current truth value of a variable.
func (s *Solver) VarValue(v Variable) LBool { return s.assign.VarValue(v) }

// Level returns the decision level at which v was assigned, or -1.
func (s *Solver) Level(v Variable) int { return s.assign.Level(v) }

// BacktrackToRoot undoes every decision, returning to decision level 0.
// Callers that add clauses between Solve calls (the optimization loops'
// per-iteration objective tightening) must call this first: AddClause
// requires decision level 0, but Solve leaves the trail wherever the
// search ended.
func (s *Solver) BacktrackToRoot() {
	s.backtrackTo(0)
}

// SetPolarity forces the decision heap's saved phase for l's variable to
// l's own polarity, so the next time the heap picks that variable as a
// free decision it tries l first. See VarHeap.SetPhase.
func (s *Solver) SetPolarity(l Literal) {
	if l.IsPositive() {
		s.heap.SetPhase(l.VarID(), True)
	} else {
		s.heap.SetPhase(l.VarID(), False)
	}
}

// Assignments exposes the trail/assignment table to sibling packages (the
// integer encoding layer and CP propagators need to inspect bound-literal
// truth values and levels directly).
func (s *Solver) Assignments() *Assignments { return s.assign }

// Allocator exposes the clause arena to sibling packages that need to read
// clause contents (e.g. when dumping a learned core back to DIMACS).
func (s *Solver) Allocator() *ClauseAllocator { return s.alloc }

// PermanentRefs returns the references of every currently-live permanent
// clause, for callers (the dimacswcnf dump helper) that need to read the
// clause set back out.
func (s *Solver) PermanentRefs() []ClauseRef {
	refs := make([]ClauseRef, 0, len(s.permanent))
	for _, ref := range s.permanent {
		if !s.alloc.View(ref).Deleted() {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Sink returns the telemetry sink the solver reports through.
func (s *Solver) Sink() telemetry.Sink { return s.sink }

// IsUnsat reports whether the solver has proven unsatisfiability at the
// root.
func (s *Solver) IsUnsat() bool { return s.unsat }

// SetDeadline bounds every future Solve call by an absolute wall-clock
// deadline, checked at each conflict/decision iteration (spec.md §5).
func (s *Solver) SetDeadline(d time.Time) {
	s.deadline = d
	s.hasDeadline = true
}

// ClearDeadline removes any previously set deadline.
func (s *Solver) ClearDeadline() {
	s.hasDeadline = false
}

func (s *Solver) deadlineExceeded() bool {
	return s.hasDeadline && !time.Now().Before(s.deadline)
}

// Model returns the most recently saved satisfying assignment (valid only
// immediately after a StatusSAT result).
func (s *Solver) Model() []bool { return s.lastModel }

func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for i := range model {
		v := Variable(i + 1)
		lb := s.VarValue(v)
		model[i] = lb == True
	}
	s.lastModel = model
}
