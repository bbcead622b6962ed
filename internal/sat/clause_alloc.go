package sat

import (
	"fmt"
	"math"
)

// status holds the per-clause flag bits packed into the low byte of a
// clause's header word.
type status uint8

const (
	flagLearned status = 1 << iota
	flagDeleted
	flagRelocated
	flagProtected
)

// ErrCapacityExceeded is returned by ClauseAllocator.Create when a new
// clause would cross the allocator's limit, i.e. would collide with the id
// of a registered CP propagator. spec.md §7 classifies this as a fatal,
// non-recoverable "Capacity exceeded" error.
type ErrCapacityExceeded struct {
	Requested int
	Limit     uint32
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("clause allocator: requested %d words past limit %d", e.Requested, e.Limit)
}

// ClauseAllocator is the contiguous arena described in spec.md §4.1: clauses
// are stored inline (header, LBD, literals, optional trailing activity) in
// one growable []uint32 buffer, and are addressed by a stable ClauseRef
// (the header word's offset) rather than by pointer, so that garbage
// collection can relocate clauses freely.
//
// Word layout of a clause at reference ref:
//
//	data[ref+0] = header: size<<8 | flags
//	data[ref+1] = lbd
//	data[ref+2 .. ref+2+size-1] = literals
//	data[ref+2+size] = activity (float32 bits), present only if learned
type ClauseAllocator struct {
	data    []uint32
	wasted  int    // words occupied by deleted clauses, not yet reclaimed
	limit   uint32 // clause references must stay <= limit
	helper  []uint32
}

// NewClauseAllocator returns an empty allocator. Reference 0 is reserved as
// null, so the arena is seeded with a single dummy word.
func NewClauseAllocator() *ClauseAllocator {
	return &ClauseAllocator{
		data:  []uint32{0},
		limit: uint32(FirstPropagatorID) - 1,
	}
}

// SetLimit lowers the allocator's limit. Solver.RegisterPropagator calls
// this once per propagator registration so that
// propagator ids, assigned top-down from FirstPropagatorID, never collide
// with a clause reference.
func (a *ClauseAllocator) SetLimit(max uint32) {
	a.limit = max
}

// Limit returns the allocator's current limit.
func (a *ClauseAllocator) Limit() uint32 {
	return a.limit
}

func clauseWords(size int, learned bool) int {
	w := 2 + size
	if learned {
		w++
	}
	return w
}

// Create allocates a new clause with the given literals inline. size must
// be at least 2 (unit clauses are never stored in the arena; they are
// level-0 trail entries per spec.md §3).
func (a *ClauseAllocator) Create(literals []Literal, learned bool) (ClauseRef, error) {
	size := len(literals)
	if size < 2 {
		panic("sat: clause allocator requires at least two literals")
	}

	words := clauseWords(size, learned)
	ref := ClauseRef(len(a.data))
	if uint64(ref)+uint64(words) > uint64(a.limit) {
		return NullClauseRef, &ErrCapacityExceeded{Requested: words, Limit: a.limit}
	}

	header := uint32(size)<<8 | uint32(boolFlag(learned))
	a.data = append(a.data, header, 0)
	for _, l := range literals {
		a.data = append(a.data, uint32(l))
	}
	if learned {
		a.data = append(a.data, 0)
	}
	return ref, nil
}

func boolFlag(learned bool) status {
	if learned {
		return flagLearned
	}
	return 0
}

// CreateByCopy allocates a new clause that copies the literals and flags
// (except "deleted"/"relocated") of an existing clause view.
func (a *ClauseAllocator) CreateByCopy(c Clause) (ClauseRef, error) {
	lits := make([]Literal, c.Size())
	for i := range lits {
		lits[i] = c.Lit(i)
	}
	ref, err := a.Create(lits, c.Learned())
	if err != nil {
		return NullClauseRef, err
	}
	cp := a.View(ref)
	cp.SetLBD(c.LBD())
	if c.Learned() {
		cp.SetActivity(c.Activity())
		if c.Protected() {
			cp.SetProtected()
		}
	}
	return ref, nil
}

// Delete marks the clause as deleted and accounts its words against the
// wasted-byte counter used by the garbage-collection trigger (spec.md
// §4.5).
func (a *ClauseAllocator) Delete(ref ClauseRef) {
	c := a.View(ref)
	if c.Deleted() {
		return
	}
	a.wasted += clauseWords(c.Size(), c.Learned())
	a.data[ref] = (a.data[ref] &^ 0xFF) | uint32(flagDeleted)
}

// Wasted returns the number of words occupied by deleted clauses.
func (a *ClauseAllocator) Wasted() int {
	return a.wasted
}

// Capacity returns the number of live words currently in use (including
// wasted ones), used to compute the deleted-bytes ratio.
func (a *ClauseAllocator) Capacity() int {
	return len(a.data)
}

// View returns a lightweight, non-owning handle onto the clause at ref.
func (a *ClauseAllocator) View(ref ClauseRef) Clause {
	return Clause{a: a, ref: ref}
}

// SwapWithHelper exchanges the active and helper buffers, used by GC once
// the helper buffer holds the compacted arena (spec.md §4.5 step 4).
func (a *ClauseAllocator) SwapWithHelper() {
	a.data, a.helper = a.helper, a.data
}

// ResetHelper empties (but does not deallocate) the helper buffer, ready to
// receive a fresh compaction pass.
func (a *ClauseAllocator) ResetHelper() {
	if cap(a.helper) == 0 {
		a.helper = make([]uint32, 1, len(a.data))
	} else {
		a.helper = a.helper[:1]
	}
	a.helper[0] = 0
}

// CopyIntoHelper appends a compacted copy of the live clause at ref into the
// helper buffer and returns its new reference there. Used by GC (spec.md
// §4.5 step 2).
func (a *ClauseAllocator) CopyIntoHelper(ref ClauseRef, survivors []Literal) ClauseRef {
	c := a.View(ref)
	newRef := ClauseRef(len(a.helper))
	header := uint32(len(survivors))<<8 | uint32(boolFlag(c.Learned()))
	if c.Protected() {
		header |= uint32(flagProtected)
	}
	a.helper = append(a.helper, header, uint32(c.LBD()))
	for _, l := range survivors {
		a.helper = append(a.helper, uint32(l))
	}
	if c.Learned() {
		a.helper = append(a.helper, math.Float32bits(c.Activity()))
	}
	return newRef
}

// Clear empties the allocator entirely, including the helper buffer and the
// wasted-word count.
func (a *ClauseAllocator) Clear() {
	a.data = []uint32{0}
	a.helper = nil
	a.wasted = 0
}

// Clause is a lightweight view of a single clause stored in a
// ClauseAllocator's arena. It is valid only until the next GC, which may
// relocate the underlying storage; callers must re-derive views from fresh
// ClauseRefs after a GC pass.
type Clause struct {
	a   *ClauseAllocator
	ref ClauseRef
}

// Ref returns the clause's stable reference.
func (c Clause) Ref() ClauseRef { return c.ref }

// IsNull reports whether the view refers to the reserved null reference.
func (c Clause) IsNull() bool { return c.ref == NullClauseRef }

func (c Clause) header() uint32 { return c.a.data[c.ref] }

// Size returns the number of literals in the clause.
func (c Clause) Size() int { return int(c.header() >> 8) }

func (c Clause) flags() status { return status(c.header() & 0xFF) }

func (c Clause) setFlags(f status) {
	c.a.data[c.ref] = (c.a.data[c.ref] &^ 0xFF) | uint32(f)
}

// Learned reports whether the clause was learned by conflict analysis.
func (c Clause) Learned() bool { return c.flags()&flagLearned != 0 }

// Deleted reports whether the clause has been marked for deletion.
func (c Clause) Deleted() bool { return c.flags()&flagDeleted != 0 }

// Relocated reports whether the clause has already been visited by the
// current GC pass (spec.md §4.5 step 2's "sentinel recognizable on the
// second visit").
func (c Clause) Relocated() bool { return c.flags()&flagRelocated != 0 }

// Protected reports whether the clause survives one extra reduction round.
// Solve sets the flag when it learns a clause whose LBD is at most
// LBDThreshold; a clause's LBD is not recomputed later, so the flag does
// not follow LBD improvements.
func (c Clause) Protected() bool { return c.flags()&flagProtected != 0 }

func (c Clause) SetProtected()   { c.setFlags(c.flags() | flagProtected) }
func (c Clause) ClearProtected() { c.setFlags(c.flags() &^ flagProtected) }

// LBD returns the clause's literal block distance.
func (c Clause) LBD() int { return int(c.a.data[c.ref+1]) }

// SetLBD sets the clause's literal block distance.
func (c Clause) SetLBD(lbd int) { c.a.data[c.ref+1] = uint32(lbd) }

// Lit returns the i-th literal of the clause.
func (c Clause) Lit(i int) Literal {
	return Literal(c.a.data[int(c.ref)+2+i])
}

// SetLit overwrites the i-th literal of the clause.
func (c Clause) SetLit(i int, l Literal) {
	c.a.data[int(c.ref)+2+i] = uint32(l)
}

// Swap exchanges literals at positions i and j.
func (c Clause) Swap(i, j int) {
	li, lj := c.Lit(i), c.Lit(j)
	c.SetLit(i, lj)
	c.SetLit(j, li)
}

func (c Clause) activityOffset() int {
	return int(c.ref) + 2 + c.Size()
}

// Activity returns the clause's learned-clause activity score. Only
// meaningful if Learned() is true.
func (c Clause) Activity() float32 {
	return math.Float32frombits(c.a.data[c.activityOffset()])
}

// SetActivity overwrites the clause's activity score.
func (c Clause) SetActivity(v float32) {
	c.a.data[c.activityOffset()] = math.Float32bits(v)
}

// relocateTo overwrites this clause's first literal with a sentinel literal
// encoding newRef, and marks the clause as relocated. A clause that is
// visited twice during GC (once per watched literal) recovers newRef from
// the sentinel rather than being copied twice (spec.md §4.5 steps 2-3).
func (c Clause) relocateTo(newRef ClauseRef) {
	c.a.data[int(c.ref)+2] = uint32(newRef)
	c.setFlags(c.flags() | flagRelocated)
}

// relocatedRef recovers the new reference stashed by relocateTo.
func (c Clause) relocatedRef() ClauseRef {
	return ClauseRef(c.a.data[int(c.ref)+2])
}

func (c Clause) String() string {
	if c.Size() == 0 {
		return "Clause[]"
	}
	s := "Clause["
	for i := 0; i < c.Size(); i++ {
		if i > 0 {
			s += " "
		}
		s += c.Lit(i).String()
	}
	return s + "]"
}
