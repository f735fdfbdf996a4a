package gltf

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

// Index refers to a position in the document list that holds values of type T.
//
// The zero Index is undefined. T only tags the index: an Index[Image] cannot
// be passed where an Index[BufferView] is expected, but two indices compare
// equal whenever their positions do.
//
// In JSON an undefined index is an absent member. Fields holding an Index
// must be tagged omitzero so that this holds on output too.
type Index[T any] struct {
	// pos is the position plus one so that the zero value is undefined.
	pos uint
}

// IndexOf returns the index of position pos. The range is not checked;
// see [Index.ResolveWithin]. It panics if pos is negative.
func IndexOf[T any](pos int) Index[T] {
	if pos < 0 {
		panic("gltf: negative index")
	}
	return Index[T]{pos: uint(pos) + 1}
}

// Undefined returns the undefined index.
func Undefined[T any]() Index[T] {
	return Index[T]{}
}

// Reinterpret converts an index over one list into an index over another
// list with the same cardinality, such as the resolved bytes of each buffer.
func Reinterpret[U, T any](i Index[T]) Index[U] {
	return Index[U](i)
}

// IsDefined reports whether the index refers to a position.
func (i Index[T]) IsDefined() bool {
	return i.pos != 0
}

// IsUndefined reports whether the index is unset.
func (i Index[T]) IsUndefined() bool {
	return i.pos == 0
}

// IsZero reports whether the index is unset. It lets omitzero drop
// undefined indices from encoded JSON.
func (i Index[T]) IsZero() bool {
	return i.pos == 0
}

// Raw returns the position. ok is false when the index is undefined.
func (i Index[T]) Raw() (pos int, ok bool) {
	if i.pos == 0 {
		return 0, false
	}
	return int(i.pos - 1), true
}

// ResolveWithin checks the index against a list of n entries named list.
//
// ok is false, with a nil error, when the index is undefined. An index at or
// beyond n fails with an [*IndexError] wrapping [ErrIndexOutOfBounds].
func (i Index[T]) ResolveWithin(list string, n int) (pos int, ok bool, err error) {
	pos, ok = i.Raw()
	if !ok {
		return 0, false, nil
	}
	if pos >= n {
		return 0, false, &IndexError{List: list, Index: pos, Len: n, Err: ErrIndexOutOfBounds}
	}
	return pos, true, nil
}

// String returns the position as a decimal, or "undefined".
func (i Index[T]) String() string {
	pos, ok := i.Raw()
	if !ok {
		return "undefined"
	}
	return strconv.Itoa(pos)
}

// MarshalJSON encodes the position, or null when undefined.
func (i Index[T]) MarshalJSON() ([]byte, error) {
	pos, ok := i.Raw()
	if !ok {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(pos), 10), nil
}

// UnmarshalJSON decodes a non-negative integer. null decodes to undefined.
func (i *Index[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = Index[T]{}
		return nil
	}
	pos, err := strconv.ParseUint(string(data), 10, strconv.IntSize-1)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "number " + string(data), Type: indexType}
	}
	*i = Index[T]{pos: uint(pos) + 1}
	return nil
}

var indexType = reflect.TypeFor[uint]()
