package ot

// Apply runs an operation sequence against source, a code-unit buffer,
// producing the rewritten buffer.
//
// Returns an ApplyLengthMismatchError if source's length does not equal
// the sequence's base length.
//
// Grounded on shiv248/operational-transformation-go's Apply, which is
// itself a direct port from the Rust operational-transform crate:
// https://github.com/spebern/operational-transform-rs/blob/master/operational-transform/src/lib.rs#L473-L503
func (o *OperationSeq) Apply(source CodeUnits) (CodeUnits, error) {
	if len(source) != o.baseLen {
		return nil, &ApplyLengthMismatchError{SourceLen: len(source), BaseLen: o.baseLen}
	}

	result := make(CodeUnits, 0, o.targetLen)
	idx := 0

	for _, op := range o.ops {
		switch v := op.(type) {
		case Retain:
			result = append(result, source[idx:idx+int(v.N)]...)
			idx += int(v.N)
		case Delete:
			idx += int(v.N)
		case Insert:
			result = append(result, v.Units...)
		}
	}

	return result, nil
}

// ApplyString is a convenience wrapper around Apply for callers working in
// Go strings rather than CodeUnits.
func (o *OperationSeq) ApplyString(source string) (string, error) {
	result, err := o.Apply(EncodeString(source))
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// Invert computes the inverse of a sequence against its pre-image buffer.
// The inverse reverts the sequence's effects:
//   - Insert(s)  -> Delete(len(s))
//   - Delete(n)  -> Insert(the n deleted code units)
//   - Retain(n)  -> Retain(n)
//
// The inverse is total: it never fails. It is useful for implementing undo.
//
// Grounded on shiv248/operational-transformation-go's Invert, itself a
// direct port from the Rust operational-transform crate:
// https://github.com/spebern/operational-transform-rs/blob/master/operational-transform/src/lib.rs#L505-L530
func (o *OperationSeq) Invert(source CodeUnits) *OperationSeq {
	inverse := NewOperationSeq()
	idx := 0

	for _, op := range o.ops {
		switch v := op.(type) {
		case Retain:
			inverse.Retain(v.N)
			idx += int(v.N)
		case Insert:
			inverse.Delete(uint64(len(v.Units)))
		case Delete:
			inverse.InsertUnits(source[idx : idx+int(v.N)])
			idx += int(v.N)
		}
	}

	return inverse
}

// InvertString is a convenience wrapper around Invert for callers working
// in Go strings rather than CodeUnits.
func (o *OperationSeq) InvertString(source string) *OperationSeq {
	return o.Invert(EncodeString(source))
}
