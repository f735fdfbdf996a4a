package gltf

import (
	"errors"
	"fmt"
)

// Sentinel errors. The structured error types below unwrap to one of these.
var (
	// ErrIndexNotSet is returned when a required index is undefined.
	ErrIndexNotSet = errors.New("gltf: index not set")

	// ErrIndexOutOfBounds is returned when an index is beyond the end of its list.
	ErrIndexOutOfBounds = errors.New("gltf: index out of bounds")

	// ErrBufferNoURI is returned when a buffer other than the first has no uri.
	ErrBufferNoURI = errors.New("gltf: buffer has no uri")

	// ErrMissingData is returned when a referenced payload is not in the blob map.
	ErrMissingData = errors.New("gltf: no data for uri")

	// ErrBadBase64 is returned when a base64 data URI payload is malformed.
	ErrBadBase64 = errors.New("gltf: malformed base64 in data uri")

	// ErrBufferTooShort is returned when resolved data is shorter than byteLength.
	ErrBufferTooShort = errors.New("gltf: buffer data shorter than byteLength")

	// ErrNegativeSize is returned when a declared byte length is negative.
	ErrNegativeSize = errors.New("gltf: negative byte length")

	// ErrBufferViewOutOfBounds is returned when a buffer view exceeds its buffer.
	ErrBufferViewOutOfBounds = errors.New("gltf: buffer view exceeds buffer")

	// ErrImageSource is returned when an image sets both or neither of uri and bufferView.
	ErrImageSource = errors.New("gltf: image needs exactly one of uri and bufferView")

	// ErrExpectedList is returned when a document member that must be a list is not.
	ErrExpectedList = errors.New("gltf: expected a list")
)

// IndexError reports an index that could not be resolved within a list.
type IndexError struct {
	List  string // name of the list, e.g. "bufferViews"
	Index int    // offending position, -1 when the index was not set
	Len   int    // length of the list
	Err   error  // ErrIndexNotSet or ErrIndexOutOfBounds
}

func (e *IndexError) Error() string {
	if errors.Is(e.Err, ErrIndexNotSet) {
		return fmt.Sprintf("%v: %s", e.Err, e.List)
	}
	return fmt.Sprintf("%v: %s[%d] of %d", e.Err, e.List, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return e.Err }

// BufferError reports a buffer or image whose bytes could not be resolved.
type BufferError struct {
	Source   string  // location in the document, e.g. "buffers[2]"
	Key      BlobKey // payload looked up, set with ErrMissingData
	Expected int     // declared byteLength, set with ErrBufferTooShort
	Got      int     // resolved length, set with ErrBufferTooShort
	Err      error
}

func (e *BufferError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingData):
		return fmt.Sprintf("%s: %v %s", e.Source, e.Err, e.Key)
	case errors.Is(e.Err, ErrBufferTooShort):
		return fmt.Sprintf("%s: %v: declared %d bytes, got %d", e.Source, e.Err, e.Expected, e.Got)
	case errors.Is(e.Err, ErrNegativeSize):
		return fmt.Sprintf("%s: %v %d", e.Source, e.Err, e.Expected)
	default:
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
}

func (e *BufferError) Unwrap() error { return e.Err }

// BufferViewError reports a buffer view range outside its buffer.
type BufferViewError struct {
	BufferLen int
	Offset    int
	Length    int
}

func (e *BufferViewError) Error() string {
	return fmt.Sprintf("%v: offset %d + length %d, buffer length %d",
		ErrBufferViewOutOfBounds, e.Offset, e.Length, e.BufferLen)
}

func (e *BufferViewError) Unwrap() error { return ErrBufferViewOutOfBounds }

// ImageSourceError reports an image that does not set exactly one source.
type ImageSourceError struct {
	URI        *string
	BufferView Index[BufferView]
}

func (e *ImageSourceError) Error() string {
	uri := "unset"
	if e.URI != nil {
		uri = fmt.Sprintf("%q", *e.URI)
	}
	return fmt.Sprintf("%v: uri %s, bufferView %s", ErrImageSource, uri, e.BufferView)
}

func (e *ImageSourceError) Unwrap() error { return ErrImageSource }

// ListError reports a document member that is not a list.
type ListError struct {
	Key string
}

func (e *ListError) Error() string {
	return fmt.Sprintf("%v: %q", ErrExpectedList, e.Key)
}

func (e *ListError) Unwrap() error { return ErrExpectedList }
