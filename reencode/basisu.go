package reencode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/meigma/gltfpack/gltf"
)

// ExtTextureBasisu is the texture extension carrying a KTX2 image.
const ExtTextureBasisu = "KHR_texture_basisu"

// KTX2Signature is the identifier every KTX2 file starts with.
var KTX2Signature = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x32, 0x30, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

// IsKTX2 reports whether data starts with the KTX2 signature.
func IsKTX2(data []byte) bool {
	return bytes.HasPrefix(data, KTX2Signature)
}

type basisu struct {
	Source gltf.Index[gltf.Image] `json:"source"`
}

// KTXSource returns the image t refers to through KHR_texture_basisu. The
// index is undefined when the extension is absent or malformed.
func KTXSource(t *gltf.Texture) gltf.Index[gltf.Image] {
	var ext map[string]json.RawMessage
	if err := json.Unmarshal(t.Extensions, &ext); err != nil {
		return gltf.Undefined[gltf.Image]()
	}
	raw, ok := ext[ExtTextureBasisu]
	if !ok {
		return gltf.Undefined[gltf.Image]()
	}
	var b basisu
	if err := json.Unmarshal(raw, &b); err != nil {
		return gltf.Undefined[gltf.Image]()
	}
	return b.Source
}

// SetKTXSource points the KHR_texture_basisu extension of t at idx,
// replacing any previous extension value. An undefined idx removes the
// extension. Other extensions are kept; the extensions object is created
// when t has none.
func SetKTXSource(t *gltf.Texture, idx gltf.Index[gltf.Image]) error {
	ext := make(map[string]json.RawMessage)
	if len(t.Extensions) > 0 && !bytes.Equal(bytes.TrimSpace(t.Extensions), []byte("null")) {
		if err := json.Unmarshal(t.Extensions, &ext); err != nil || ext == nil {
			return ErrTextureExtensions
		}
	}

	if idx.IsUndefined() {
		if _, ok := ext[ExtTextureBasisu]; !ok {
			return nil
		}
		delete(ext, ExtTextureBasisu)
	} else {
		raw, err := json.Marshal(basisu{Source: idx})
		if err != nil {
			return fmt.Errorf("reencode: encode %s: %w", ExtTextureBasisu, err)
		}
		ext[ExtTextureBasisu] = raw
	}

	if len(ext) == 0 {
		t.Extensions = nil
		return nil
	}
	raw, err := json.Marshal(ext)
	if err != nil {
		return fmt.Errorf("reencode: encode extensions: %w", err)
	}
	t.Extensions = raw
	return nil
}
