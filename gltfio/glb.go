package gltfio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/meigma/gltfpack/gltf"
)

const (
	glbMagic   = 0x46546C67 // "glTF"
	glbVersion = 2

	chunkJSON = 0x4E4F534A // "JSON"
	chunkBIN  = 0x004E4942 // "BIN\0"

	headerSize      = 12
	chunkHeaderSize = 8
)

// GLB holds the chunks of a binary container.
type GLB struct {
	// JSON is the document, including any trailing space padding.
	JSON []byte
	// BIN is the binary chunk. It is nil when the container has none and
	// non-nil, possibly empty, when it does.
	BIN []byte
}

// IsGLB reports whether data starts with a GLB header.
func IsGLB(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic
}

// DecodeGLB splits data into its chunks. The returned slices alias data.
//
// The first chunk must be JSON. A BIN chunk directly after it becomes
// [GLB.BIN]; chunks of other types are skipped.
func DecodeGLB(data []byte) (*GLB, error) {
	if len(data) < headerSize || !IsGLB(data) {
		return nil, ErrNotGLB
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != glbVersion {
		return nil, fmt.Errorf("%w: version %d", ErrNotGLB, v)
	}
	total := binary.LittleEndian.Uint32(data[8:])
	if uint64(total) > uint64(len(data)) || total < headerSize {
		return nil, fmt.Errorf("%w: header length %d, have %d bytes", ErrBadChunk, total, len(data))
	}
	data = data[:total]

	var glb GLB
	off := headerSize
	for i := 0; off < len(data); i++ {
		if len(data)-off < chunkHeaderSize {
			return nil, fmt.Errorf("%w: truncated header at %d", ErrBadChunk, off)
		}
		n := int(binary.LittleEndian.Uint32(data[off:]))
		typ := binary.LittleEndian.Uint32(data[off+4:])
		off += chunkHeaderSize
		if n > len(data)-off {
			return nil, fmt.Errorf("%w: chunk %d length %d exceeds container", ErrBadChunk, i, n)
		}
		payload := data[off : off+n : off+n]
		off += n

		switch {
		case i == 0 && typ != chunkJSON:
			return nil, fmt.Errorf("%w: first chunk is not JSON", ErrBadChunk)
		case i == 0:
			glb.JSON = payload
		case i == 1 && typ == chunkBIN:
			glb.BIN = payload
		}
	}
	if glb.JSON == nil {
		return nil, fmt.Errorf("%w: missing JSON chunk", ErrBadChunk)
	}
	return &glb, nil
}

// EncodeGLB writes a GLB container with doc as the JSON chunk, padded with
// spaces, and bin as the BIN chunk, padded with zeros. The BIN chunk is
// omitted when bin is nil.
func EncodeGLB(w io.Writer, doc, bin []byte) error {
	jsonPad := gltf.Padding(len(doc))
	total := uint64(headerSize + chunkHeaderSize + len(doc) + jsonPad)
	binPad := 0
	if bin != nil {
		binPad = gltf.Padding(len(bin))
		total += uint64(chunkHeaderSize + len(bin) + binPad)
	}
	if total > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrLengthOverflow, total)
	}

	buf := make([]byte, 0, total)
	buf = binary.LittleEndian.AppendUint32(buf, glbMagic)
	buf = binary.LittleEndian.AppendUint32(buf, glbVersion)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(total))

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(doc)+jsonPad))
	buf = binary.LittleEndian.AppendUint32(buf, chunkJSON)
	buf = append(buf, doc...)
	buf = append(buf, bytes.Repeat([]byte{' '}, jsonPad)...)

	if bin != nil {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(bin)+binPad))
		buf = binary.LittleEndian.AppendUint32(buf, chunkBIN)
		buf = append(buf, bin...)
		buf = append(buf, make([]byte, binPad)...)
	}

	_, err := w.Write(buf)
	return err
}
