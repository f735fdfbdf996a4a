package testutil

import (
	"encoding/json"
	"testing"
)

// Object is a JSON object literal used to build test documents.
type Object = map[string]any

// Document marshals each member of members and returns the raw document
// map. Convert the result with gltf.Document(...).
func Document(tb testing.TB, members Object) map[string]json.RawMessage {
	tb.Helper()
	doc := make(map[string]json.RawMessage, len(members))
	for k, v := range members {
		raw, err := json.Marshal(v)
		if err != nil {
			tb.Fatalf("marshal %s: %v", k, err)
		}
		doc[k] = raw
	}
	return doc
}

// Member decodes the member key of doc into a generic JSON value.
func Member(tb testing.TB, doc map[string]json.RawMessage, key string) any {
	tb.Helper()
	raw, ok := doc[key]
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		tb.Fatalf("unmarshal %s: %v", key, err)
	}
	return v
}

// Views builds a bufferViews list over buffer 0 from (offset, length) pairs.
func Views(ranges ...[2]int) []Object {
	views := make([]Object, 0, len(ranges))
	for _, r := range ranges {
		views = append(views, Object{"buffer": 0, "byteOffset": r[0], "byteLength": r[1]})
	}
	return views
}
