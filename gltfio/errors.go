package gltfio

import "errors"

var (
	// ErrNotGLB is returned when data lacks the GLB magic or has an
	// unsupported container version.
	ErrNotGLB = errors.New("gltfio: not a GLB v2 container")

	// ErrBadChunk is returned when a GLB chunk header is malformed or its
	// length exceeds the container.
	ErrBadChunk = errors.New("gltfio: invalid GLB chunk")

	// ErrLengthOverflow is returned when a GLB container would exceed the
	// 32-bit length limit.
	ErrLengthOverflow = errors.New("gltfio: GLB length overflow")
)
