package ot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests ported from Rust operational-transform:
// https://github.com/spebern/operational-transform-rs/blob/master/operational-transform/src/lib.rs#L558-L741

func TestWithCapacity(t *testing.T) {
	o := WithCapacity(10)

	assert.Equal(t, 0, o.baseLen)
	assert.Equal(t, 0, o.targetLen)
	assert.Len(t, o.ops, 0)

	o.Retain(5)
	o.Insert("test")
	o.Delete(2)

	assert.Equal(t, 7, o.baseLen)
	assert.Equal(t, 9, o.targetLen)
	assert.Len(t, o.ops, 3)
}

func TestLengths(t *testing.T) {
	o := NewOperationSeq()
	assert.Equal(t, 0, o.baseLen)
	assert.Equal(t, 0, o.targetLen)

	o.Retain(5)
	assert.Equal(t, 5, o.baseLen)
	assert.Equal(t, 5, o.targetLen)

	o.Insert("abc")
	assert.Equal(t, 5, o.baseLen)
	assert.Equal(t, 8, o.targetLen)

	o.Retain(2)
	assert.Equal(t, 7, o.baseLen)
	assert.Equal(t, 10, o.targetLen)

	o.Delete(2)
	assert.Equal(t, 9, o.baseLen)
	assert.Equal(t, 10, o.targetLen)
}

func TestSequence(t *testing.T) {
	o := NewOperationSeq()
	o.Retain(5)
	o.Retain(0) // ignored
	o.Insert("lorem")
	o.Insert("") // ignored
	o.Delete(3)
	o.Delete(0) // ignored

	assert.Len(t, o.ops, 3)
}

func TestEmptyOps(t *testing.T) {
	o := NewOperationSeq()
	o.Retain(0)
	o.Insert("")
	o.Delete(0)

	assert.Len(t, o.ops, 0)
}

func TestEq(t *testing.T) {
	o1 := NewOperationSeq()
	o1.Delete(1)
	o1.Insert("lo")
	o1.Retain(2)
	o1.Retain(3)

	o2 := NewOperationSeq()
	o2.Delete(1)
	o2.Insert("l")
	o2.Insert("o")
	o2.Retain(5)

	// Equal in canonical form: operations merge regardless of how the
	// caller grouped them.
	assert.Equal(t, o1, o2)
}

func TestOpsMerging(t *testing.T) {
	o := NewOperationSeq()
	require.Len(t, o.ops, 0)

	o.Retain(2)
	require.Len(t, o.ops, 1)
	ret, ok := o.ops[0].(Retain)
	require.True(t, ok)
	assert.EqualValues(t, 2, ret.N)

	o.Retain(3)
	require.Len(t, o.ops, 1)
	ret, ok = o.ops[0].(Retain)
	require.True(t, ok)
	assert.EqualValues(t, 5, ret.N)

	o.Insert("abc")
	require.Len(t, o.ops, 2)
	ins, ok := o.ops[1].(Insert)
	require.True(t, ok)
	assert.Equal(t, "abc", ins.Units.String())

	o.Insert("xyz")
	require.Len(t, o.ops, 2)
	ins, ok = o.ops[1].(Insert)
	require.True(t, ok)
	assert.Equal(t, "abcxyz", ins.Units.String())

	o.Delete(1)
	require.Len(t, o.ops, 3)
	del, ok := o.ops[2].(Delete)
	require.True(t, ok)
	assert.EqualValues(t, 1, del.N)

	o.Delete(1)
	require.Len(t, o.ops, 3)
	del, ok = o.ops[2].(Delete)
	require.True(t, ok)
	assert.EqualValues(t, 2, del.N)
}

func TestIsNoop(t *testing.T) {
	o := NewOperationSeq()
	assert.True(t, o.IsNoop())

	o.Retain(5)
	assert.True(t, o.IsNoop())

	o.Retain(3)
	assert.True(t, o.IsNoop())

	o.Insert("lorem")
	assert.False(t, o.IsNoop())
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		ops    func() *OperationSeq
		expect string
	}{
		{
			name: "simple insert",
			s:    "",
			ops: func() *OperationSeq {
				o := NewOperationSeq()
				o.Insert("hello")
				return o
			},
			expect: "hello",
		},
		{
			name: "retain and insert",
			s:    "world",
			ops: func() *OperationSeq {
				o := NewOperationSeq()
				o.Retain(5)
				o.Insert("!")
				return o
			},
			expect: "world!",
		},
		{
			name: "delete",
			s:    "hello world",
			ops: func() *OperationSeq {
				o := NewOperationSeq()
				o.Delete(6)
				o.Retain(5)
				return o
			},
			expect: "world",
		},
		{
			name: "complex",
			s:    "hello",
			ops: func() *OperationSeq {
				o := NewOperationSeq()
				o.Retain(2)
				o.Delete(1)
				o.Insert("n")
				o.Retain(2)
				return o
			},
			expect: "henlo",
		},
		{
			name: "non-BMP insert",
			s:    "a",
			ops: func() *OperationSeq {
				o := NewOperationSeq()
				o.Retain(1)
				o.Insert("\U0001F600") // U+1F600, two UTF-16 code units
				return o
			},
			expect: "a\U0001F600",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.ops().ApplyString(tt.s)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, result)
		})
	}
}

func TestApplyLengthMismatch(t *testing.T) {
	o := NewOperationSeq()
	o.Retain(5)

	_, err := o.ApplyString("abc")
	require.Error(t, err)

	var mismatch *ApplyLengthMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.SourceLen)
	assert.Equal(t, 5, mismatch.BaseLen)
}

func TestInvert(t *testing.T) {
	tests := []struct {
		name string
		s    string
		ops  func() *OperationSeq
	}{
		{
			name: "simple insert",
			s:    "abc",
			ops: func() *OperationSeq {
				o := NewOperationSeq()
				o.Retain(3)
				o.Insert("def")
				return o
			},
		},
		{
			name: "delete",
			s:    "abcdef",
			ops: func() *OperationSeq {
				o := NewOperationSeq()
				o.Delete(3)
				o.Retain(3)
				return o
			},
		},
		{
			name: "complex",
			s:    "hello world",
			ops: func() *OperationSeq {
				o := NewOperationSeq()
				o.Retain(5)
				o.Insert(" beautiful")
				o.Retain(6)
				return o
			},
		},
		{
			name: "non-BMP delete",
			s:    "a\U0001F600b",
			ops: func() *OperationSeq {
				o := NewOperationSeq()
				o.Retain(1)
				o.Delete(2)
				o.Retain(1)
				return o
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.ops()
			inverted := o.InvertString(tt.s)

			after, err := o.ApplyString(tt.s)
			require.NoError(t, err)

			restored, err := inverted.ApplyString(after)
			require.NoError(t, err)

			assert.Equal(t, tt.s, restored)
			assert.Equal(t, o.baseLen, inverted.targetLen)
			assert.Equal(t, o.targetLen, inverted.baseLen)
		})
	}
}

func TestSerde(t *testing.T) {
	jsonStr := `[1,-1,"abc"]`
	var o OperationSeq
	require.NoError(t, json.Unmarshal([]byte(jsonStr), &o))

	expected := NewOperationSeq()
	expected.Retain(1)
	expected.Delete(1)
	expected.Insert("abc")

	assert.Equal(t, len(expected.ops), len(o.ops))

	data, err := json.Marshal(&o)
	require.NoError(t, err)

	var o2 OperationSeq
	require.NoError(t, json.Unmarshal(data, &o2))
	assert.Equal(t, len(o.ops), len(o2.ops))
}

// TestSerdeLoneSurrogate guards against the JSON codec silently corrupting
// an unpaired UTF-16 surrogate in an Insert's text into U+FFFD.
func TestSerdeLoneSurrogate(t *testing.T) {
	o := NewOperationSeq()
	o.InsertUnits(CodeUnits{'A', 0xD800, 'B'})

	data, err := json.Marshal(o)
	require.NoError(t, err)

	var round OperationSeq
	require.NoError(t, json.Unmarshal(data, &round))

	require.Len(t, round.ops, 1)
	ins, ok := round.ops[0].(Insert)
	require.True(t, ok)
	assert.Equal(t, CodeUnits{'A', 0xD800, 'B'}, ins.Units)
}

// TestSerdeSurrogatePair checks a genuine (paired) surrogate, encoding a
// non-BMP character, survives the same round trip.
func TestSerdeSurrogatePair(t *testing.T) {
	o := NewOperationSeq()
	o.Insert("\U0001F600")

	data, err := json.Marshal(o)
	require.NoError(t, err)

	var round OperationSeq
	require.NoError(t, json.Unmarshal(data, &round))

	require.Len(t, round.ops, 1)
	ins, ok := round.ops[0].(Insert)
	require.True(t, ok)
	assert.Equal(t, EncodeString("\U0001F600"), ins.Units)
}
