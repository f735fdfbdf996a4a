package gltf

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexResolveWithin(t *testing.T) {
	t.Parallel()

	t.Run("in range", func(t *testing.T) {
		t.Parallel()
		for n := 1; n <= 8; n++ {
			for p := range n {
				pos, ok, err := IndexOf[Buffer](p).ResolveWithin(ListBuffers, n)
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, p, pos)
			}
		}
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()
		for n := range 4 {
			for p := n; p < n+3; p++ {
				_, ok, err := IndexOf[Buffer](p).ResolveWithin(ListBuffers, n)
				assert.False(t, ok)
				require.ErrorIs(t, err, ErrIndexOutOfBounds)

				var ie *IndexError
				require.True(t, errors.As(err, &ie))
				assert.Equal(t, ListBuffers, ie.List)
				assert.Equal(t, p, ie.Index)
				assert.Equal(t, n, ie.Len)
			}
		}
	})

	t.Run("undefined", func(t *testing.T) {
		t.Parallel()
		for _, n := range []int{0, 1, 100} {
			_, ok, err := Undefined[Image]().ResolveWithin(ListImages, n)
			require.NoError(t, err)
			assert.False(t, ok)
		}
	})
}

func TestIndexDefined(t *testing.T) {
	t.Parallel()

	var zero Index[Texture]
	assert.True(t, zero.IsUndefined())
	assert.False(t, zero.IsDefined())
	assert.Equal(t, Undefined[Texture](), zero)

	idx := IndexOf[Texture](0)
	assert.True(t, idx.IsDefined())
	pos, ok := idx.Raw()
	assert.True(t, ok)
	assert.Equal(t, 0, pos)

	assert.Equal(t, IndexOf[Texture](3), IndexOf[Texture](3))
	assert.NotEqual(t, IndexOf[Texture](3), IndexOf[Texture](4))

	assert.Panics(t, func() { IndexOf[Texture](-1) })
}

func TestIndexReinterpret(t *testing.T) {
	t.Parallel()

	idx := Reinterpret[[]byte](IndexOf[Buffer](2))
	pos, ok := idx.Raw()
	require.True(t, ok)
	assert.Equal(t, 2, pos)

	assert.True(t, Reinterpret[[]byte](Undefined[Buffer]()).IsUndefined())
}

func TestIndexMapKey(t *testing.T) {
	t.Parallel()

	seen := map[Index[Image]]int{}
	seen[IndexOf[Image](1)]++
	seen[IndexOf[Image](1)]++
	seen[IndexOf[Image](2)]++
	assert.Equal(t, 2, seen[IndexOf[Image](1)])
	assert.Len(t, seen, 2)
}

func TestIndexJSON(t *testing.T) {
	t.Parallel()

	type holder struct {
		Source Index[Image] `json:"source,omitzero"`
	}

	t.Run("absent field decodes undefined", func(t *testing.T) {
		t.Parallel()
		var h holder
		require.NoError(t, json.Unmarshal([]byte(`{}`), &h))
		assert.True(t, h.Source.IsUndefined())
	})

	t.Run("null decodes undefined", func(t *testing.T) {
		t.Parallel()
		var h holder
		require.NoError(t, json.Unmarshal([]byte(`{"source":null}`), &h))
		assert.True(t, h.Source.IsUndefined())
	})

	t.Run("zero is defined", func(t *testing.T) {
		t.Parallel()
		var h holder
		require.NoError(t, json.Unmarshal([]byte(`{"source":0}`), &h))
		assert.Equal(t, IndexOf[Image](0), h.Source)
	})

	t.Run("undefined encodes absent", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(holder{})
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(data))
	})

	t.Run("defined round trips", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(holder{Source: IndexOf[Image](7)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"source":7}`, string(data))
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Parallel()
		for _, in := range []string{`-1`, `1.5`, `"3"`, `true`} {
			var h holder
			err := json.Unmarshal([]byte(`{"source":`+in+`}`), &h)
			assert.Error(t, err, "input %s", in)
		}
	})
}

func TestListGet(t *testing.T) {
	t.Parallel()

	list := List[Buffer]{{ByteLength: 1}, {ByteLength: 2}}

	t.Run("defined", func(t *testing.T) {
		t.Parallel()
		b, err := list.Get(IndexOf[Buffer](1), ListBuffers)
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.Equal(t, 2, b.ByteLength)
	})

	t.Run("undefined", func(t *testing.T) {
		t.Parallel()
		b, err := list.Get(Undefined[Buffer](), ListBuffers)
		require.NoError(t, err)
		assert.Nil(t, b)
	})

	t.Run("out of bounds", func(t *testing.T) {
		t.Parallel()
		_, err := list.Get(IndexOf[Buffer](2), ListBuffers)
		require.ErrorIs(t, err, ErrIndexOutOfBounds)
		assert.EqualError(t, err, "gltf: index out of bounds: buffers[2] of 2")
	})

	t.Run("required undefined", func(t *testing.T) {
		t.Parallel()
		_, err := list.GetRequired(Undefined[Buffer](), ListBuffers)
		require.ErrorIs(t, err, ErrIndexNotSet)
		assert.EqualError(t, err, "gltf: index not set: buffers")
	})

	t.Run("required out of bounds", func(t *testing.T) {
		t.Parallel()
		_, err := list.GetRequired(IndexOf[Buffer](5), ListBuffers)
		assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	})

	t.Run("aliases the list", func(t *testing.T) {
		t.Parallel()
		l := List[Buffer]{{ByteLength: 1}}
		b, err := l.GetRequired(IndexOf[Buffer](0), ListBuffers)
		require.NoError(t, err)
		b.ByteLength = 9
		assert.Equal(t, 9, l[0].ByteLength)
	})
}
