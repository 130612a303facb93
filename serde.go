package ot

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSON serialization format (matching Rust operational-transform):
//   - Retain(n) → positive integer n
//   - Delete(n) → negative integer -n
//   - Insert(s) → string "s"
//
// Example: [5, "hello", -3, 10]
//   = Retain(5), Insert("hello"), Delete(3), Retain(10)
//
// Insert's string is written and read through wtf8Units (wtf8.go), not
// encoding/json's generic string encoder: that encoder silently rewrites
// any lone UTF-16 surrogate to U+FFFD, both via CodeUnits.String()'s own
// unicode/utf16.Decode call and, independently, via its own replacement of
// invalid UTF-8 bytes. wtf8Units escapes every non-ASCII code unit as its
// own \uXXXX and implements json.Marshaler/Unmarshaler directly, so
// encoding/json copies the escapes through untouched instead of
// reinterpreting them. A lone surrogate therefore survives the round trip.
// A decoder that doesn't know this scheme still reads the bytes fine —
// they're ordinary (if verbose) JSON string escapes.

// wtf8Units adapts CodeUnits to json.Marshaler/json.Unmarshaler so an
// Insert's text is escaped/parsed code-unit-by-code-unit instead of being
// routed through a Go string.
type wtf8Units CodeUnits

func (w wtf8Units) MarshalJSON() ([]byte, error) {
	return []byte(wtf8JSONString(CodeUnits(w))), nil
}

func (w *wtf8Units) UnmarshalJSON(data []byte) error {
	units, err := parseWTF8JSONString(bytes.TrimSpace(data))
	if err != nil {
		return err
	}
	*w = wtf8Units(units)
	return nil
}

// MarshalJSON implements json.Marshaler for OperationSeq.
func (o *OperationSeq) MarshalJSON() ([]byte, error) {
	if o == nil {
		return json.Marshal([]interface{}{})
	}

	result := make([]interface{}, len(o.ops))
	for i, op := range o.ops {
		switch v := op.(type) {
		case Retain:
			result[i] = v.N
		case Delete:
			result[i] = -int64(v.N)
		case Insert:
			result[i] = wtf8Units(v.Units)
		}
	}
	return json.Marshal(result)
}

// UnmarshalJSON implements json.Unmarshaler for OperationSeq.
func (o *OperationSeq) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*o = OperationSeq{
		ops:       make([]Operation, 0, len(raw)),
		baseLen:   0,
		targetLen: 0,
	}

	for _, item := range raw {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 {
			return fmt.Errorf("invalid operation: empty element")
		}

		if trimmed[0] == '"' {
			var w wtf8Units
			if err := w.UnmarshalJSON(trimmed); err != nil {
				return err
			}
			o.InsertUnits(CodeUnits(w))
			continue
		}

		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("invalid operation type: %s", trimmed)
		}
		if n >= 0 {
			o.Retain(uint64(n))
		} else {
			o.Delete(uint64(-n))
		}
	}

	return nil
}

// String returns a JSON representation of the operation sequence.
func (o *OperationSeq) String() string {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}
