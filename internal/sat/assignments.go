package sat

// Assignments is the per-variable truth-value table together with the
// trail described in spec.md §3 ("Assignment entry", "Trail") and §4.2: an
// append-only record of assignments in order, with level-delimiter
// positions marking where each decision level begins.
type Assignments struct {
	value  []LBool // indexed by Literal
	level  []int   // indexed by Variable, -1 while unassigned
	reason []Reason

	trail    []Literal
	trailLim []int // trail index at the start of each decision level
}

// NewAssignments returns an empty assignment table.
func NewAssignments() *Assignments {
	return &Assignments{}
}

// NewVariable allocates a fresh, unassigned Boolean variable.
func (a *Assignments) NewVariable() Variable {
	v := Variable(len(a.level))
	a.value = append(a.value, Unknown, Unknown)
	a.level = append(a.level, -1)
	a.reason = append(a.reason, NoReason)
	return v
}

// NumVariables returns the number of variables created so far.
func (a *Assignments) NumVariables() int { return len(a.level) }

// NumAssigned returns the length of the trail.
func (a *Assignments) NumAssigned() int { return len(a.trail) }

// DecisionLevel returns the current decision level (0 at the root).
func (a *Assignments) DecisionLevel() int { return len(a.trailLim) }

// Value returns the current truth value of literal l.
func (a *Assignments) Value(l Literal) LBool { return a.value[l] }

// VarValue returns the current truth value of variable v, expressed as the
// value of its positive literal.
func (a *Assignments) VarValue(v Variable) LBool { return a.value[PositiveLiteral(v)] }

// Level returns the decision level at which v was assigned, or -1 if it is
// currently unassigned.
func (a *Assignments) Level(v Variable) int { return a.level[v] }

// Reason returns the reason code recorded for v's assignment. NoReason
// marks decisions and root-level unit propagations.
func (a *Assignments) Reason(v Variable) Reason { return a.reason[v] }

// IsDecision reports whether v's current assignment is a decision (as
// opposed to a propagation).
func (a *Assignments) IsDecision(v Variable) bool {
	return a.reason[v] == NoReason && a.level[v] > 0
}

// IsRootAssigned reports whether v is currently assigned at decision level
// 0.
func (a *Assignments) IsRootAssigned(v Variable) bool {
	return a.value[PositiveLiteral(v)] != Unknown && a.level[v] == 0
}

// SetReason overwrites the reason recorded for v's current assignment. Used
// only by clause-arena garbage collection to repoint a locked clause's
// reason at its post-compaction reference.
func (a *Assignments) SetReason(v Variable, r Reason) {
	a.reason[v] = r
}

// MakeAssignment records a new assignment for l's variable at the current
// decision level. It is invalid operation (spec.md §7) to assign an
// already-assigned variable.
func (a *Assignments) MakeAssignment(l Literal, reason Reason) {
	v := l.VarID()
	if a.value[PositiveLiteral(v)] != Unknown {
		panic("sat: invalid operation: variable already assigned")
	}
	a.value[l] = True
	a.value[l.Opposite()] = False
	a.level[v] = a.DecisionLevel()
	a.reason[v] = reason
	a.trail = append(a.trail, l)
}

// PushLevel opens a new decision level. The caller is responsible for then
// making the decision/assumption assignment itself via MakeAssignment.
func (a *Assignments) PushLevel() {
	a.trailLim = append(a.trailLim, len(a.trail))
}

// unassignTop undoes the most recent trail entry and returns the literal
// that was unassigned. Per spec.md §4.2, callers must only do this while
// popping the trail in LIFO order, i.e. as part of CancelUntil.
func (a *Assignments) unassignTop() Literal {
	l := a.trail[len(a.trail)-1]
	v := l.VarID()
	a.value[l] = Unknown
	a.value[l.Opposite()] = Unknown
	a.level[v] = -1
	a.reason[v] = NoReason
	a.trail = a.trail[:len(a.trail)-1]
	return l
}

// CancelUntil pops the trail back to the given decision level, invoking
// onUndo for every literal unassigned in the process (in trail order, i.e.
// most recent first) so callers can reinsert variables into the activity
// heap and clear cached CP propagation state.
func (a *Assignments) CancelUntil(level int, onUndo func(Literal)) {
	for a.DecisionLevel() > level {
		start := a.trailLim[len(a.trailLim)-1]
		for len(a.trail) > start {
			l := a.unassignTop()
			if onUndo != nil {
				onUndo(l)
			}
		}
		a.trailLim = a.trailLim[:len(a.trailLim)-1]
	}
}

// TrailLen returns the number of literals currently on the trail.
func (a *Assignments) TrailLen() int { return len(a.trail) }

// TrailAt returns the i-th literal pushed onto the trail.
func (a *Assignments) TrailAt(i int) Literal { return a.trail[i] }

// LevelStart returns the trail index at which the given decision level
// begins. A level above DecisionLevel() starts at TrailLen().
func (a *Assignments) LevelStart(level int) int {
	if level == 0 {
		return 0
	}
	if level > len(a.trailLim) {
		return len(a.trail)
	}
	return a.trailLim[level-1]
}
