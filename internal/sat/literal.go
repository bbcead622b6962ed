package sat

import "fmt"

// Variable is the internal index of a Boolean variable. Index 0 is reserved
// as the undefined/null variable; variable 1 is the permanently-true root
// variable created by NewSolver.
type Variable int

// NullVariable is the reserved "undefined" variable index.
const NullVariable Variable = 0

// Literal represents a Boolean literal: a variable together with a polarity,
// packed so that code^1 yields the negation. Literal 2/3 are the positive
// and negative literal of the reserved root variable (see TrueLiteral).
type Literal int

// PositiveLiteral returns the positive literal of variable v.
func PositiveLiteral(v Variable) Literal {
	return Literal(v * 2)
}

// NegativeLiteral returns the negative literal of variable v.
func NegativeLiteral(v Variable) Literal {
	return Literal(v*2 + 1)
}

// VarID returns the variable the literal refers to.
func (l Literal) VarID() Variable {
	return Variable(int(l) / 2)
}

// IsPositive reports whether l is the positive literal of its variable.
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Opposite returns the negation of l.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

func (l Literal) String() string {
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.VarID())
	}
	return fmt.Sprintf("!%d", l.VarID())
}

// TrueLiteral and FalseLiteral are the literals of the root variable, bound
// to true/false at level 0 by NewSolver. They give the integer encoding
// layer and the pseudo-Boolean encoders a constant handle (e.g. ge[0]) with
// no special-casing of "no literal".
const (
	TrueLiteral  Literal = 2 // PositiveLiteral(1)
	FalseLiteral Literal = 3 // NegativeLiteral(1)
)
