package gltf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Document is a glTF JSON document keyed by top-level member.
//
// Members are kept as raw JSON; lists are decoded on demand with [GetList]
// and written back with [SetList].
type Document map[string]json.RawMessage

// ParseDocument decodes a JSON document. The top-level value must be an object.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("gltf: parse document: %w", err)
	}
	if doc == nil {
		return nil, errors.New("gltf: parse document: top-level value is null")
	}
	return doc, nil
}

// Marshal encodes the document as compact JSON.
func (d Document) Marshal() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("gltf: encode document: %w", err)
	}
	return data, nil
}

// GetList decodes the list stored under key. An absent or null member is an
// empty list; any other non-array value fails with [ErrExpectedList].
func GetList[T any](d Document, key string) (List[T], error) {
	raw := bytes.TrimSpace(d[key])
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '[' {
		return nil, &ListError{Key: key}
	}
	var list List[T]
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("gltf: decode %s: %w", key, err)
	}
	return list, nil
}

// SetList encodes list and stores it under key, replacing any previous value.
// An empty list removes the member.
func SetList[T any](d Document, key string, list List[T]) error {
	if len(list) == 0 {
		delete(d, key)
		return nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("gltf: encode %s: %w", key, err)
	}
	d[key] = raw
	return nil
}
