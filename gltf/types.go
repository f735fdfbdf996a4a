package gltf

import "encoding/json"

// Buffer points to binary geometry, animation, skins or images.
type Buffer struct {
	// URI locates the data. It may be a data URI. When nil the buffer must be
	// the first one and its data is the embedded payload.
	URI *string `json:"uri,omitempty"`

	// ByteLength is the declared length in bytes. Any data past it is padding.
	ByteLength int `json:"byteLength"`

	Name       json.RawMessage `json:"name,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// BufferView is a contiguous range of a buffer.
type BufferView struct {
	Buffer     Index[Buffer]   `json:"buffer,omitzero"`
	ByteOffset int             `json:"byteOffset,omitempty"`
	ByteLength int             `json:"byteLength"`
	ByteStride *int            `json:"byteStride,omitempty"`
	Target     *int            `json:"target,omitempty"`
	Name       json.RawMessage `json:"name,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// Image holds pixel data either behind a uri or in a buffer view, never both.
// MimeType must be set when BufferView is.
type Image struct {
	URI        *string           `json:"uri,omitempty"`
	MimeType   *string           `json:"mimeType,omitempty"`
	BufferView Index[BufferView] `json:"bufferView,omitzero"`
	Name       json.RawMessage   `json:"name,omitempty"`
	Extensions json.RawMessage   `json:"extensions,omitempty"`
	Extras     json.RawMessage   `json:"extras,omitempty"`
}

// Texture pairs an image with a sampler. A compressed alternative image may
// be attached through the KHR_texture_basisu extension.
type Texture struct {
	Sampler    Index[Sampler]  `json:"sampler,omitzero"`
	Source     Index[Image]    `json:"source,omitzero"`
	Name       json.RawMessage `json:"name,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// Sampler only tags texture sampler indices; samplers pass through untouched.
type Sampler struct{}
