package gltf

import (
	"fmt"
	"iter"
	"slices"

	"github.com/meigma/gltfpack/gltf/internal/datauri"
)

var imageMediaTypes = slices.Concat(datauri.BufferTypes, datauri.ImageTypes)

// ResolveBuffer returns the bytes of b, the buffer at document position pos.
//
// A buffer without a uri takes the embedded payload; only the first buffer
// may do so. A data URI is decoded in place. Any other uri is looked up in
// blobs. The result is cut to b.ByteLength and aliases blobs where it can;
// data shorter than b.ByteLength fails with [ErrBufferTooShort].
func ResolveBuffer(b *Buffer, pos int, blobs Blobs) ([]byte, error) {
	source := fmt.Sprintf("%s[%d]", ListBuffers, pos)
	if b.ByteLength < 0 {
		return nil, &BufferError{Source: source, Expected: b.ByteLength, Err: ErrNegativeSize}
	}

	var data []byte
	if b.URI == nil {
		if pos != 0 {
			return nil, &BufferError{Source: source, Err: ErrBufferNoURI}
		}
		embedded, ok := blobs[EmbeddedKey()]
		if !ok {
			return nil, &BufferError{Source: source, Key: EmbeddedKey(), Err: ErrMissingData}
		}
		data = embedded
	} else {
		var err error
		data, err = lookupURI(source, *b.URI, blobs, datauri.BufferTypes)
		if err != nil {
			return nil, err
		}
	}

	if len(data) < b.ByteLength {
		return nil, &BufferError{Source: source, Expected: b.ByteLength, Got: len(data), Err: ErrBufferTooShort}
	}
	return data[:b.ByteLength:b.ByteLength], nil
}

// lookupURI decodes uri when it is a data URI of one of mediaTypes and looks
// it up in blobs otherwise.
func lookupURI(source, uri string, blobs Blobs, mediaTypes []string) ([]byte, error) {
	data, ok, err := datauri.Decode(uri, mediaTypes...)
	if err != nil {
		return nil, &BufferError{Source: source, Err: fmt.Errorf("%w: %w", ErrBadBase64, err)}
	}
	if ok {
		return data, nil
	}
	key := ExternalKey(uri)
	data, ok = blobs[key]
	if !ok {
		return nil, &BufferError{Source: source, Key: key, Err: ErrMissingData}
	}
	return data, nil
}

// SliceRange returns buf[offset:offset+length], failing with a
// [*BufferViewError] when the range does not fit.
func SliceRange(buf []byte, offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset > len(buf) || length > len(buf)-offset {
		return nil, &BufferViewError{BufferLen: len(buf), Offset: offset, Length: length}
	}
	end := offset + length
	return buf[offset:end:end], nil
}

// Resolver resolves the binary sources of one document.
//
// NewResolver resolves every buffer up front; views and images are sliced
// from those bytes on request. A Resolver does not modify the document and
// stays valid after the document's lists are replaced.
type Resolver struct {
	Buffers     List[Buffer]
	BufferViews List[BufferView]

	// Data holds the resolved bytes of each buffer, index for index.
	Data List[[]byte]

	blobs Blobs
}

// NewResolver decodes the buffers and bufferViews of doc and resolves every
// buffer against blobs. The first failing buffer aborts resolution.
func NewResolver(doc Document, blobs Blobs) (*Resolver, error) {
	buffers, err := GetList[Buffer](doc, ListBuffers)
	if err != nil {
		return nil, err
	}
	views, err := GetList[BufferView](doc, ListBufferViews)
	if err != nil {
		return nil, err
	}

	data := make(List[[]byte], len(buffers))
	for i := range buffers {
		data[i], err = ResolveBuffer(&buffers[i], i, blobs)
		if err != nil {
			return nil, err
		}
	}

	return &Resolver{
		Buffers:     buffers,
		BufferViews: views,
		Data:        data,
		blobs:       blobs,
	}, nil
}

// Slice returns the bytes v denotes within its buffer.
func (r *Resolver) Slice(v *BufferView) ([]byte, error) {
	buf, err := r.Data.GetRequired(Reinterpret[[]byte](v.Buffer), ListBuffers)
	if err != nil {
		return nil, err
	}
	return SliceRange(*buf, v.ByteOffset, v.ByteLength)
}

// BufferView returns the bytes of the buffer view idx refers to.
func (r *Resolver) BufferView(idx Index[BufferView]) ([]byte, error) {
	v, err := r.BufferViews.GetRequired(idx, ListBufferViews)
	if err != nil {
		return nil, err
	}
	return r.Slice(v)
}

// Image returns the bytes of img, the image at document position pos.
//
// Exactly one of img.URI and img.BufferView must be set. A uri is resolved
// like a buffer uri, also accepting image media types in data URIs, and is
// used whole. A buffer view is sliced from the resolved buffers.
func (r *Resolver) Image(img *Image, pos int) ([]byte, error) {
	switch {
	case img.URI != nil && img.BufferView.IsUndefined():
		return lookupURI(fmt.Sprintf("%s[%d]", ListImages, pos), *img.URI, r.blobs, imageMediaTypes)
	case img.URI == nil && img.BufferView.IsDefined():
		return r.BufferView(img.BufferView)
	default:
		return nil, &ImageSourceError{URI: img.URI, BufferView: img.BufferView}
	}
}

// ViewBytes yields every buffer view in document order with the bytes it
// denotes. It stops after yielding the first error.
func (r *Resolver) ViewBytes() iter.Seq2[ViewBytes, error] {
	return func(yield func(ViewBytes, error) bool) {
		for i := range r.BufferViews {
			v := &r.BufferViews[i]
			data, err := r.Slice(v)
			if err != nil {
				yield(ViewBytes{}, fmt.Errorf("%s[%d]: %w", ListBufferViews, i, err))
				return
			}
			if !yield(ViewBytes{View: *v, Data: data}, nil) {
				return
			}
		}
	}
}
