package ot

// Transform takes two concurrent operation sequences A and B, both built
// against the same base buffer, and produces A' and B' such that:
//
//	apply(compose(A, B'), s) == apply(compose(B, A'), s)   (TP1)
//
// for every buffer s of A's base length. This is the heart of Operational
// Transformation: it lets two peers who edited concurrently reconcile by
// applying the other's (transformed) edit, and converge to the same
// document.
//
// Returns a BaseMismatchError if A and B do not share a base length.
//
// Insert-vs-insert priority: when both sequences have an insert at the
// current position, A's insert is always emitted first into A', with B'
// retaining past it — never the reverse, and never decided by comparing
// the inserted text. This makes Transform asymmetric by design: the two
// peers must agree out of band on which one plays the role of A. (The
// teacher this package is grounded on instead breaks the tie by comparing
// insert text lexicographically; that makes convergence depend on what a
// user types, which is a stranger contract for an OT core to offer than a
// fixed peer-role priority — see DESIGN.md.)
//
// Grounded on shiv248/operational-transformation-go's Transform, itself a
// direct port from the Rust operational-transform crate:
// https://github.com/spebern/operational-transform-rs/blob/master/operational-transform/src/lib.rs#L335-L471
func (a *OperationSeq) Transform(b *OperationSeq) (*OperationSeq, *OperationSeq, error) {
	if a.baseLen != b.baseLen {
		return nil, nil, &BaseMismatchError{ABaseLen: a.baseLen, BBaseLen: b.baseLen}
	}

	aPrime := NewOperationSeq()
	bPrime := NewOperationSeq()

	ops1 := newOpIterator(a.ops)
	ops2 := newOpIterator(b.ops)

	op1 := ops1.next()
	op2 := ops2.next()

	for {
		// Both operations exhausted.
		if op1 == nil && op2 == nil {
			return aPrime, bPrime, nil
		}

		// A's insertions are preserved verbatim; B, re-based onto A's
		// output, must retain past them. A always wins ties against a
		// concurrent insert in B (see doc comment above).
		if ins, ok := op1.(Insert); ok {
			aPrime.InsertUnits(ins.Units)
			bPrime.Retain(uint64(len(ins.Units)))
			op1 = ops1.next()
			continue
		}

		if ins, ok := op2.(Insert); ok {
			aPrime.Retain(uint64(len(ins.Units)))
			bPrime.InsertUnits(ins.Units)
			op2 = ops2.next()
			continue
		}

		if op1 == nil || op2 == nil {
			return nil, nil, ErrTransformInvariantViolation
		}

		// Retain vs Retain.
		if ret1, ok1 := op1.(Retain); ok1 {
			if ret2, ok2 := op2.(Retain); ok2 {
				switch {
				case ret1.N < ret2.N:
					aPrime.Retain(ret1.N)
					bPrime.Retain(ret1.N)
					op2 = Retain{N: ret2.N - ret1.N}
					op1 = ops1.next()
				case ret1.N == ret2.N:
					aPrime.Retain(ret1.N)
					bPrime.Retain(ret1.N)
					op1 = ops1.next()
					op2 = ops2.next()
				default:
					aPrime.Retain(ret2.N)
					bPrime.Retain(ret2.N)
					op1 = Retain{N: ret1.N - ret2.N}
					op2 = ops2.next()
				}
				continue
			}
		}

		// Delete vs Delete: both sides already deleted those units, so
		// neither A' nor B' needs to emit anything for the overlap.
		if del1, ok1 := op1.(Delete); ok1 {
			if del2, ok2 := op2.(Delete); ok2 {
				switch {
				case del1.N < del2.N:
					op2 = Delete{N: del2.N - del1.N}
					op1 = ops1.next()
				case del1.N == del2.N:
					op1 = ops1.next()
					op2 = ops2.next()
				default:
					op1 = Delete{N: del1.N - del2.N}
					op2 = ops2.next()
				}
				continue
			}
		}

		// Delete (A) vs Retain (B): A's delete survives into A'.
		if del, ok1 := op1.(Delete); ok1 {
			if ret, ok2 := op2.(Retain); ok2 {
				switch {
				case del.N < ret.N:
					aPrime.Delete(del.N)
					op2 = Retain{N: ret.N - del.N}
					op1 = ops1.next()
				case del.N == ret.N:
					aPrime.Delete(del.N)
					op1 = ops1.next()
					op2 = ops2.next()
				default:
					aPrime.Delete(ret.N)
					op1 = Delete{N: del.N - ret.N}
					op2 = ops2.next()
				}
				continue
			}
		}

		// Retain (A) vs Delete (B): B's delete survives into B'.
		if ret, ok1 := op1.(Retain); ok1 {
			if del, ok2 := op2.(Delete); ok2 {
				switch {
				case ret.N < del.N:
					bPrime.Delete(ret.N)
					op2 = Delete{N: del.N - ret.N}
					op1 = ops1.next()
				case ret.N == del.N:
					bPrime.Delete(ret.N)
					op1 = ops1.next()
					op2 = ops2.next()
				default:
					bPrime.Delete(del.N)
					op1 = Retain{N: ret.N - del.N}
					op2 = ops2.next()
				}
				continue
			}
		}

		return nil, nil, ErrTransformInvariantViolation
	}
}

// opIterator walks an Operation slice one element at a time, returning nil
// once exhausted. Transform and Compose keep the "current head" as this
// cursor rather than reconstructing variant values each step.
type opIterator struct {
	ops []Operation
	idx int
}

func newOpIterator(ops []Operation) *opIterator {
	return &opIterator{ops: ops}
}

func (it *opIterator) next() Operation {
	if it.idx >= len(it.ops) {
		return nil
	}
	op := it.ops[it.idx]
	it.idx++
	return op
}
