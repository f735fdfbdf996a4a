package gltfio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/meigma/gltfpack/gltf"
)

// ZstdExt is the path suffix that selects zstd-compressed output.
const ZstdExt = ".zst"

type writer struct {
	level zstd.EncoderLevel
	mode  os.FileMode
}

// Encode writes doc and bin to w as a GLB container. The BIN chunk is
// omitted when bin is nil.
func Encode(w io.Writer, doc gltf.Document, bin []byte) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	return EncodeGLB(w, data, bin)
}

// Save writes doc and bin to path as a GLB container, compressed with zstd
// when path ends in [ZstdExt]. The file is written to a temporary name and
// renamed into place.
func Save(path string, doc gltf.Document, bin []byte, opts ...WriteOption) error {
	w := &writer{level: zstd.SpeedDefault, mode: 0o644}
	for _, opt := range opts {
		opt(w)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, doc, bin); err != nil {
		return err
	}
	data := buf.Bytes()
	if strings.HasSuffix(path, ZstdExt) {
		var err error
		if data, err = compress(data, w.level); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".gltfpack-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(w.mode); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
