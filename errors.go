package gltfpack

import (
	"github.com/meigma/gltfpack/gltf"
	"github.com/meigma/gltfpack/reencode"
)

// Errors re-exported from gltf.
var (
	// ErrIndexNotSet is returned when a required index is undefined.
	ErrIndexNotSet = gltf.ErrIndexNotSet

	// ErrIndexOutOfBounds is returned when an index is not below its list length.
	ErrIndexOutOfBounds = gltf.ErrIndexOutOfBounds

	// ErrBufferNoURI is returned when a buffer other than the first has no uri.
	ErrBufferNoURI = gltf.ErrBufferNoURI

	// ErrMissingData is returned when a uri has no entry in the blobs.
	ErrMissingData = gltf.ErrMissingData

	// ErrBadBase64 is returned when a data uri payload is not valid base64.
	ErrBadBase64 = gltf.ErrBadBase64

	// ErrBufferTooShort is returned when buffer data is shorter than its byteLength.
	ErrBufferTooShort = gltf.ErrBufferTooShort

	// ErrBufferViewOutOfBounds is returned when a view does not fit its buffer.
	ErrBufferViewOutOfBounds = gltf.ErrBufferViewOutOfBounds

	// ErrImageSource is returned when an image does not have exactly one source.
	ErrImageSource = gltf.ErrImageSource
)

// Errors re-exported from reencode.
var (
	// ErrNoImageSource is returned when a texture refers to no image.
	ErrNoImageSource = reencode.ErrNoImageSource

	// ErrNotKTX2 is returned when an image claimed as KTX2 is not.
	ErrNotKTX2 = reencode.ErrNotKTX2

	// ErrUnsupportedFormat is returned when an image cannot be re-encoded.
	ErrUnsupportedFormat = reencode.ErrUnsupportedFormat
)
