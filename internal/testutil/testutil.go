package testutil

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/opencontainers/go-digest"
)

// KTX2Signature is the 12-byte identifier every KTX2 file starts with.
var KTX2Signature = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x32, 0x30, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

// Pattern returns n bytes where byte i is seed+i, wrapping at 256.
func Pattern(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = seed + byte(i)
	}
	return b
}

// DataURI returns data as a base64 application/octet-stream data URI.
func DataURI(data []byte) string {
	return MediaDataURI("application/octet-stream", data)
}

// MediaDataURI returns data as a base64 data URI with the given media type.
func MediaDataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// PNG encodes a w by h image filled with c.
func PNG(tb testing.TB, w, h int, c color.Color) []byte {
	tb.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		tb.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// KTX2 returns a fake KTX2 file: the signature followed by payload.
func KTX2(payload []byte) []byte {
	out := make([]byte, 0, len(KTX2Signature)+len(payload))
	out = append(out, KTX2Signature...)
	return append(out, payload...)
}

// MockCache implements a basic concurrency-safe cache for tests.
type MockCache struct {
	mu   sync.RWMutex
	data map[digest.Digest][]byte
	hits int
	puts int
}

// NewMockCache constructs an empty in-memory cache.
func NewMockCache() *MockCache {
	return &MockCache{data: make(map[digest.Digest][]byte)}
}

// Get retrieves data by key.
func (c *MockCache) Get(key digest.Digest) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	if ok {
		c.hits++
	}
	return data, ok
}

// Put stores data by key.
func (c *MockCache) Put(key digest.Digest, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = bytes.Clone(data)
	c.puts++
	return nil
}

// Delete removes data by key.
func (c *MockCache) Delete(key digest.Digest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Hits returns the number of successful Get calls.
func (c *MockCache) Hits() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits
}

// Puts returns the number of Put calls.
func (c *MockCache) Puts() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.puts
}

// Len returns the number of cached entries.
func (c *MockCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
