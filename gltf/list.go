package gltf

// Names of the top-level document lists.
const (
	ListBuffers     = "buffers"
	ListBufferViews = "bufferViews"
	ListImages      = "images"
	ListTextures    = "textures"
	ListMaterials   = "materials"
	ListSamplers    = "samplers"
)

// List is a document list addressed by Index[T].
type List[T any] []T

// Get returns the entry idx refers to, or nil when idx is undefined.
//
// The returned pointer aliases the list. An index beyond the end of the list
// fails with an [*IndexError] naming list.
func (l List[T]) Get(idx Index[T], list string) (*T, error) {
	pos, ok, err := idx.ResolveWithin(list, len(l))
	if err != nil || !ok {
		return nil, err
	}
	return &l[pos], nil
}

// GetRequired is like Get but fails with [ErrIndexNotSet] when idx is undefined.
func (l List[T]) GetRequired(idx Index[T], list string) (*T, error) {
	v, err := l.Get(idx, list)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &IndexError{List: list, Index: -1, Len: len(l), Err: ErrIndexNotSet}
	}
	return v, nil
}
