package conf

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseJSON decodes JSON bytes into a Value. Numbers are kept as their
// source literals via json.Number (no float64 round-trip).
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}
	// Reject trailing garbage after the document.
	if dec.More() {
		return nil, fmt.Errorf("parse config JSON: unexpected trailing data")
	}

	return FromGo(raw)
}

// ParseYAML decodes YAML bytes into a Value.
func ParseYAML(data []byte) (Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	return FromGo(raw)
}

// ParseDocument decodes JSON bytes and verifies the result has a document
// shape (an object, or an array of objects).
func ParseDocument(data []byte) (Value, error) {
	v, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	if !IsDocument(v) {
		return nil, fmt.Errorf("config must be an object or an array of objects")
	}
	return v, nil
}
