// Package datauri recognizes the RFC 2397 data URIs a glTF document may use
// to embed binary payloads, and decodes them.
//
// Only the restricted form is accepted:
//
//	data:<mediatype>[;base64],<data>
//
// where mediatype is one of a fixed set of literal strings and no other
// parameters are present. Without the base64 marker the payload is taken
// as-is, with no percent-decoding.
package datauri

import (
	"encoding/base64"
	"strings"
)

const (
	scheme       = "data:"
	base64Marker = ";base64"
)

// BufferTypes are the media types a buffer data URI may declare.
var BufferTypes = []string{
	"application/octet-stream",
	"application/gltf-buffer",
}

// ImageTypes are the media types an image data URI may declare in addition
// to BufferTypes.
var ImageTypes = []string{
	"image/png",
	"image/jpeg",
	"image/ktx2",
	"image/webp",
}

// URI is a parsed data URI.
type URI struct {
	MediaType string
	Base64    bool
	Payload   string
}

// Parse splits uri into its parts. ok is false when uri is not a data URI
// declaring one of mediaTypes.
func Parse(uri string, mediaTypes ...string) (u URI, ok bool) {
	rest, ok := strings.CutPrefix(uri, scheme)
	if !ok {
		return URI{}, false
	}
	for _, mt := range mediaTypes {
		after, found := strings.CutPrefix(rest, mt)
		if !found {
			continue
		}
		if payload, found := strings.CutPrefix(after, base64Marker+","); found {
			return URI{MediaType: mt, Base64: true, Payload: payload}, true
		}
		if payload, found := strings.CutPrefix(after, ","); found {
			return URI{MediaType: mt, Payload: payload}, true
		}
	}
	return URI{}, false
}

// Bytes returns the decoded payload.
func (u URI) Bytes() ([]byte, error) {
	if !u.Base64 {
		return []byte(u.Payload), nil
	}
	return base64.StdEncoding.DecodeString(u.Payload)
}

// Decode parses uri and decodes its payload. ok is false, with a nil error,
// when uri is not a data URI declaring one of mediaTypes.
func Decode(uri string, mediaTypes ...string) (data []byte, ok bool, err error) {
	u, ok := Parse(uri, mediaTypes...)
	if !ok {
		return nil, false, nil
	}
	data, err = u.Bytes()
	if err != nil {
		return nil, true, err
	}
	return data, true, nil
}
