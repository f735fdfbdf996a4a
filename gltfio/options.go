package gltfio

import (
	"log/slog"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Default limits.
const (
	// DefaultMaxDecompressedBytes caps the size of a decompressed input.
	DefaultMaxDecompressedBytes uint64 = 1 << 30 // 1 GiB
)

// ReadOption configures Load and Decode.
type ReadOption func(*reader)

// WithJSONC accepts comments and trailing commas in the JSON document.
func WithJSONC(enabled bool) ReadOption {
	return func(r *reader) {
		r.jsonc = enabled
	}
}

// WithMaxDecompressedBytes limits the decompressed size of zstd inputs.
// Use 0 for the default.
func WithMaxDecompressedBytes(n uint64) ReadOption {
	return func(r *reader) {
		r.maxDecompressed = n
	}
}

// WithReadLogger sets the logger for asset loading.
// If not set, logging is disabled.
func WithReadLogger(logger *slog.Logger) ReadOption {
	return func(r *reader) {
		r.logger = logger
	}
}

// WriteOption configures Save.
type WriteOption func(*writer)

// WithZstdLevel sets the compression level used for ".zst" outputs.
// Defaults to [zstd.SpeedDefault].
func WithZstdLevel(level zstd.EncoderLevel) WriteOption {
	return func(w *writer) {
		w.level = level
	}
}

// WithFileMode sets the permissions of the saved file. Defaults to 0o644.
func WithFileMode(mode os.FileMode) WriteOption {
	return func(w *writer) {
		w.mode = mode
	}
}
