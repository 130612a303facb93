package ot

// Compose merges two consecutive operation sequences into one while
// preserving the changes of both. For each buffer S and consecutive
// sequences A and B:
//
//	apply(apply(S, A), B) == apply(S, compose(A, B))
//
// Returns a TargetBaseMismatchError if A's target length does not equal
// B's base length.
//
// Grounded on shiv248/operational-transformation-go's Compose, itself a
// direct port from the Rust operational-transform crate:
// https://github.com/spebern/operational-transform-rs/blob/master/operational-transform/src/lib.rs#L162-L273
func (a *OperationSeq) Compose(b *OperationSeq) (*OperationSeq, error) {
	if a.targetLen != b.baseLen {
		return nil, &TargetBaseMismatchError{FirstTargetLen: a.targetLen, SecondBaseLen: b.baseLen}
	}

	result := NewOperationSeq()
	ops1 := newOpIterator(a.ops)
	ops2 := newOpIterator(b.ops)

	op1 := ops1.next()
	op2 := ops2.next()

	for {
		// Both operations exhausted.
		if op1 == nil && op2 == nil {
			return result, nil
		}

		// Deletes from A are unaffected by B.
		if del, ok := op1.(Delete); ok {
			result.Delete(del.N)
			op1 = ops1.next()
			continue
		}

		// Inserts from B appear verbatim.
		if ins, ok := op2.(Insert); ok {
			result.InsertUnits(ins.Units)
			op2 = ops2.next()
			continue
		}

		if op1 == nil {
			return nil, ErrComposeFirstTooShort
		}
		if op2 == nil {
			return nil, ErrComposeFirstTooLong
		}

		// Retain vs Retain.
		if ret1, ok1 := op1.(Retain); ok1 {
			if ret2, ok2 := op2.(Retain); ok2 {
				switch {
				case ret1.N < ret2.N:
					result.Retain(ret1.N)
					op2 = Retain{N: ret2.N - ret1.N}
					op1 = ops1.next()
				case ret1.N == ret2.N:
					result.Retain(ret1.N)
					op1 = ops1.next()
					op2 = ops2.next()
				default:
					result.Retain(ret2.N)
					op1 = Retain{N: ret1.N - ret2.N}
					op2 = ops2.next()
				}
				continue
			}
		}

		// Insert vs Delete: the delete cancels the matching prefix of the
		// insert; neither side emits anything for that prefix.
		if ins, ok1 := op1.(Insert); ok1 {
			if del, ok2 := op2.(Delete); ok2 {
				insLen := uint64(len(ins.Units))
				switch {
				case insLen < del.N:
					op2 = Delete{N: del.N - insLen}
					op1 = ops1.next()
				case insLen == del.N:
					op1 = ops1.next()
					op2 = ops2.next()
				default:
					op1 = Insert{Units: ins.Units[del.N:]}
					op2 = ops2.next()
				}
				continue
			}
		}

		// Insert vs Retain: the prefix retained by B survives into the
		// composed result as an insert.
		if ins, ok1 := op1.(Insert); ok1 {
			if ret, ok2 := op2.(Retain); ok2 {
				insLen := uint64(len(ins.Units))
				switch {
				case insLen < ret.N:
					result.InsertUnits(ins.Units)
					op2 = Retain{N: ret.N - insLen}
					op1 = ops1.next()
				case insLen == ret.N:
					result.InsertUnits(ins.Units)
					op1 = ops1.next()
					op2 = ops2.next()
				default:
					result.InsertUnits(ins.Units[:ret.N])
					op1 = Insert{Units: ins.Units[ret.N:]}
					op2 = ops2.next()
				}
				continue
			}
		}

		// Retain vs Delete.
		if ret, ok1 := op1.(Retain); ok1 {
			if del, ok2 := op2.(Delete); ok2 {
				switch {
				case ret.N < del.N:
					result.Delete(ret.N)
					op2 = Delete{N: del.N - ret.N}
					op1 = ops1.next()
				case ret.N == del.N:
					result.Delete(del.N)
					op1 = ops1.next()
					op2 = ops2.next()
				default:
					result.Delete(del.N)
					op1 = Retain{N: ret.N - del.N}
					op2 = ops2.next()
				}
				continue
			}
		}

		return nil, ErrComposeFirstTooShort
	}
}
