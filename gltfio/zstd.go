package gltfio

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the frame magic number of zstd data.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// IsZstd reports whether data starts with a zstd frame.
func IsZstd(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

func decompress(data []byte, maxBytes uint64) ([]byte, error) {
	opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
	if maxBytes > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(maxBytes))
	}
	dec, err := zstd.NewReader(nil, opts...)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("gltfio: zstd: %w", err)
	}
	return out, nil
}

func compress(data []byte, level zstd.EncoderLevel) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}
