package ot

import "fmt"

// ApplyLengthMismatchError is returned by Apply when the source buffer's
// length does not equal the operation sequence's base length.
type ApplyLengthMismatchError struct {
	SourceLen int
	BaseLen   int
}

func (e *ApplyLengthMismatchError) Error() string {
	return fmt.Sprintf("ot: apply: source length %d does not match base length %d", e.SourceLen, e.BaseLen)
}

// TargetBaseMismatchError is returned by Compose when the first operation's
// target length does not equal the second operation's base length.
type TargetBaseMismatchError struct {
	FirstTargetLen int
	SecondBaseLen  int
}

func (e *TargetBaseMismatchError) Error() string {
	return fmt.Sprintf("ot: compose: first operation's target length %d does not match second operation's base length %d", e.FirstTargetLen, e.SecondBaseLen)
}

// BaseMismatchError is returned by Transform when the two operation
// sequences do not share a base length, i.e. they were not built against
// the same document revision.
type BaseMismatchError struct {
	ABaseLen int
	BBaseLen int
}

func (e *BaseMismatchError) Error() string {
	return fmt.Sprintf("ot: transform: base length %d does not match base length %d", e.ABaseLen, e.BBaseLen)
}

// Sentinel errors for the compose and transform boundary cases that cannot
// be described by a pair of disagreeing measurements.
var (
	// ErrComposeFirstTooShort is returned when Compose exhausts the first
	// operation sequence while the second still has non-insert work left.
	// Unreachable when the TargetBaseMismatchError precondition holds;
	// retained as defense-in-depth against corrupted length counters.
	ErrComposeFirstTooShort = fmt.Errorf("ot: compose: first operation sequence is too short")

	// ErrComposeFirstTooLong is returned when Compose exhausts the second
	// operation sequence while the first still has non-delete work left.
	// Unreachable when the TargetBaseMismatchError precondition holds;
	// retained as defense-in-depth against corrupted length counters.
	ErrComposeFirstTooLong = fmt.Errorf("ot: compose: first operation sequence is too long")

	// ErrTransformInvariantViolation signals that Transform reached a state
	// that cannot occur when its BaseMismatchError precondition holds: one
	// input stream ran out while the other still had non-insert work. This
	// is deliberately a distinct sentinel from the Compose taxonomy (see
	// DESIGN.md) — reaching it means an internal invariant broke, not that
	// the caller handed Transform two incompatible sequences.
	ErrTransformInvariantViolation = fmt.Errorf("ot: transform: internal invariant violation")
)
