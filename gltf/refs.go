package gltf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// MemberExtensionsUsed is the top-level member listing the extensions a
// document uses.
const MemberExtensionsUsed = "extensionsUsed"

var bufferViewKey = []byte(`"bufferView"`)

// BufferViewRefs returns the positions of every bufferView referenced in
// doc, skipping the top-level members named in skip. A reference is any
// object member named "bufferView" holding a nonnegative integer, at any
// depth, so references from accessors, sparse accessors and extensions all
// count.
func BufferViewRefs(doc Document, skip ...string) (map[int]bool, error) {
	refs := make(map[int]bool)
	for key, raw := range doc {
		if slices.Contains(skip, key) || !bytes.Contains(raw, bufferViewKey) {
			continue
		}
		v, err := decodeMember(key, raw)
		if err != nil {
			return nil, err
		}
		walkBufferViews(v, func(pos int) int {
			refs[pos] = true
			return pos
		})
	}
	return refs, nil
}

// RemapBufferViews rewrites every bufferView reference in doc from old to
// remap[old]. References missing from remap are left as they are. Only
// members holding a changed reference are re-encoded.
func RemapBufferViews(doc Document, remap map[int]int) error {
	for key, raw := range doc {
		if !bytes.Contains(raw, bufferViewKey) {
			continue
		}
		v, err := decodeMember(key, raw)
		if err != nil {
			return err
		}
		changed := walkBufferViews(v, func(pos int) int {
			if n, ok := remap[pos]; ok {
				return n
			}
			return pos
		})
		if !changed {
			continue
		}
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("gltf: encode %s: %w", key, err)
		}
		doc[key] = out
	}
	return nil
}

// AddExtensionUsed adds name to the extensionsUsed list of doc if it is
// not already there.
func AddExtensionUsed(doc Document, name string) error {
	used, err := GetList[string](doc, MemberExtensionsUsed)
	if err != nil {
		return err
	}
	if slices.Contains(used, name) {
		return nil
	}
	return SetList(doc, MemberExtensionsUsed, append(used, name))
}

func decodeMember(key string, raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("gltf: decode %s: %w", key, err)
	}
	return v, nil
}

// walkBufferViews calls fn for every bufferView reference in v and stores
// the position fn returns. It reports whether any reference changed.
func walkBufferViews(v any, fn func(int) int) bool {
	changed := false
	switch v := v.(type) {
	case map[string]any:
		for k, child := range v {
			if k == "bufferView" {
				if n, ok := child.(json.Number); ok {
					if pos, err := strconv.Atoi(n.String()); err == nil && pos >= 0 {
						if next := fn(pos); next != pos {
							v[k] = json.Number(strconv.Itoa(next))
							changed = true
						}
						continue
					}
				}
			}
			if walkBufferViews(child, fn) {
				changed = true
			}
		}
	case []any:
		for _, child := range v {
			if walkBufferViews(child, fn) {
				changed = true
			}
		}
	}
	return changed
}
