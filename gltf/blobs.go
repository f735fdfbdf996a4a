package gltf

import "strconv"

// BlobKey names a binary payload supplied alongside a document.
//
// The zero key is the embedded payload, the BIN chunk of a GLB file. Other
// payloads are keyed by the verbatim uri that references them.
type BlobKey struct {
	URI      string
	External bool
}

// EmbeddedKey returns the key of the embedded payload.
func EmbeddedKey() BlobKey {
	return BlobKey{}
}

// ExternalKey returns the key of the payload referenced by uri.
func ExternalKey(uri string) BlobKey {
	return BlobKey{URI: uri, External: true}
}

// String returns the quoted uri, or "embedded".
func (k BlobKey) String() string {
	if !k.External {
		return "embedded"
	}
	return strconv.Quote(k.URI)
}

// Blobs maps payload keys to their bytes. Resolution only reads from it;
// resolved buffers may alias the stored slices.
type Blobs map[BlobKey][]byte
