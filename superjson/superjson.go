// Package superjson converts rich Go values to and from plain JSON trees
// paired with a side-channel type manifest.
//
// Serialize walks a value and replaces constructs plain JSON cannot represent
// (times, durations, big integers, byte slices, regular expressions, URLs,
// errors, non-finite floats, sets, non-string-keyed maps) with JSON-compatible
// stand-ins, recording a type tag for each replaced subtree in the manifest.
// Deserialize is the exact inverse: given the tree and the manifest it
// restores every tagged subtree to its original type. A nil manifest means the
// value was fully plain-JSON-representable and the tree is returned unchanged.
//
// The manifest maps JSON-Pointer-style paths (RFC 6901 token escaping, ""
// addressing the root) to type tags. Its shape is this package's own wire
// contract; callers should treat it as opaque and only round-trip it through
// Meta's JSON encoding.
package superjson

import (
	json "github.com/goccy/go-json"
)

// Meta is the type manifest produced alongside a serialized tree. Values maps
// body paths to type tags. Empty manifests are represented as nil, never as a
// Meta with no entries.
type Meta struct {
	Values map[string]string `json:"values"`
}

// Type tags recorded in the manifest.
const (
	tagDatetime = "datetime"
	tagDuration = "duration"
	tagBigInt   = "bigint"
	tagBytes    = "bytes"
	tagRegexp   = "regexp"
	tagURL      = "url"
	tagError    = "error"
	tagNumber   = "number"
	tagSet      = "set"
	tagMap      = "map"
)

// Stringify serializes a value and encodes the tree as JSON text in one step.
func Stringify(v any) ([]byte, *Meta, error) {
	tree, meta, err := Serialize(v)
	if err != nil {
		return nil, nil, err
	}
	data, err := json.Marshal(tree)
	if err != nil {
		return nil, nil, err
	}
	return data, meta, nil
}

// Parse decodes JSON text and restores types from the manifest in one step.
// A nil meta returns the parsed tree as-is.
func Parse(data []byte, meta *Meta) (any, error) {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return Deserialize(tree, meta)
}
