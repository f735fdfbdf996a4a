package reencode

import "errors"

var (
	// ErrNoImageSource is returned when a texture refers to no image at all.
	ErrNoImageSource = errors.New("reencode: texture has no image source")

	// ErrNotKTX2 is returned when an image referenced through
	// KHR_texture_basisu does not start with the KTX2 signature.
	ErrNotKTX2 = errors.New("reencode: image claimed as ktx2 is not ktx2")

	// ErrTextureExtensions is returned when a texture's extensions member
	// is present but not a JSON object.
	ErrTextureExtensions = errors.New("reencode: texture extensions is not an object")

	// ErrTargetConflict is returned when one image is used as a plain
	// source by one texture and as a KTX2 source by another.
	ErrTargetConflict = errors.New("reencode: image used as both plain and ktx2 source")

	// ErrUnsupportedFormat is returned when image content cannot be
	// identified, decoded, or encoded to the requested target.
	ErrUnsupportedFormat = errors.New("reencode: unsupported image format")
)
