package sat

import "math"

// Reason discriminates between "no reason" (a decision or a root-level
// unit), a clause-arena reference, and a CP propagator id, matching the
// "Clause reference" entry of spec.md §3: a dense range of small values
// identifies clause arena offsets, a sparse range at the top of the uint32
// space identifies CP propagator ids assigned top-down from MaxUint32. The
// two ranges never overlap because ClauseAllocator.SetLimit is lowered by
// one on every propagator registration (spec.md §4.1).
type Reason uint32

// NoReason marks decisions and root-level unit assignments.
const NoReason Reason = 0

// ClauseRef is a Reason known (by construction) to identify a clause.
type ClauseRef = Reason

// NullClauseRef is the reserved null clause reference.
const NullClauseRef ClauseRef = 0

// FirstPropagatorID is the id handed to the first registered CP propagator.
// Subsequent registrations decrement from here, so ids grow downward from
// MaxUint32 while clause references grow upward from 1; SetLimit tracks the
// boundary between the two ranges.
const FirstPropagatorID Reason = math.MaxUint32

// PropagatorID identifies a registered CP propagator.
type PropagatorID = Reason

// IsClause reports whether r refers to a clause in the arena, given the
// allocator's current limit.
func (r Reason) IsClause(limit uint32) bool {
	return r != NoReason && uint32(r) <= limit
}

// IsPropagator reports whether r refers to a registered CP propagator,
// given the allocator's current limit.
func (r Reason) IsPropagator(limit uint32) bool {
	return uint32(r) > limit
}
