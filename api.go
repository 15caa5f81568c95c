// Package fidelity provides type-preserving payload conversion for workflow
// orchestration runtimes.
//
// A plain JSON encoding loses dates, sets, arbitrary-precision integers,
// regular expressions, binary buffers, and similar constructs. Fidelity keeps
// them: values are serialized to a plain JSON body plus a side-channel type
// manifest stored in payload metadata, so any reader that ignores the manifest
// still gets a usable plain-JSON value while manifest-aware readers recover
// the original types exactly.
//
// Converters compose into ordered chains: encoding tries each converter in
// declared order and uses the first that accepts the value; decoding routes by
// the payload's encoding metadata. Payload codecs (compression, encryption)
// layer on top of conversion without touching converter logic.
package fidelity

import (
	"context"
	"errors"
	"strings"
)

// Metadata keys and encoding identifiers, bit-exact on the wire.
const (
	// MetadataEncoding is the metadata key naming which converter produced
	// a payload and which converter should consume it.
	MetadataEncoding = "encoding"

	// MetadataSuperJSON is the reserved metadata key holding the JSON-encoded
	// type manifest. Present only when the value contained at least one
	// construct plain JSON cannot represent losslessly. Exported so custom
	// dispatcher chains can recognize payloads produced by SuperJSONConverter.
	MetadataSuperJSON = "superjson-meta"

	// EncodingNil identifies payloads produced for the nil value.
	EncodingNil = "binary/null"

	// EncodingBinary identifies payloads carrying raw byte slices.
	EncodingBinary = "binary/plain"

	// EncodingJSON identifies payloads produced by SuperJSONConverter:
	// a plain JSON body, optionally paired with a superjson-meta manifest.
	EncodingJSON = "json/plain"
)

// Sentinel errors for conversion failures.
var (
	// ErrMissingData is returned when FromPayload receives a payload with no
	// data. The payload is malformed; retrying without repair fails identically.
	ErrMissingData = errors.New("fidelity: payload has no data")

	// ErrNotHandled is returned by a converter's ToPayload to decline a value
	// so the next converter in the chain gets a chance. Composite dispatch
	// matches it with errors.Is; any other error aborts the chain.
	ErrNotHandled = errors.New("fidelity: converter does not handle value")

	// ErrUnknownEncoding is returned when a payload's encoding metadata names
	// no converter in the chain.
	ErrUnknownEncoding = errors.New("fidelity: no converter for payload encoding")

	// ErrDuplicateEncoding is returned when a chain is constructed with two
	// converters declaring the same encoding.
	ErrDuplicateEncoding = errors.New("fidelity: duplicate converter encoding")

	// ErrNoConverters is returned when a chain is constructed empty.
	ErrNoConverters = errors.New("fidelity: at least one converter is required")
)

// Metadata maps short string keys to raw byte values. Keys are unique,
// ordering is not significant.
type Metadata map[string][]byte

// EncodeText converts a string to its UTF-8 byte encoding.
// Total and deterministic; the inverse of DecodeText for well-formed input.
func EncodeText(s string) []byte {
	return []byte(s)
}

// DecodeText converts UTF-8 bytes back to a string. Malformed sequences are
// replaced with U+FFFD, matching standard decoder substitution behavior.
func DecodeText(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

// copyMetadata returns a shallow copy of the metadata, or a new map if nil.
func copyMetadata(m Metadata) Metadata {
	if m == nil {
		return make(Metadata)
	}
	copied := make(Metadata, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}

// metadataContextKey is the context key for per-call payload metadata.
type metadataContextKey struct{}

// ContextWithMetadata attaches metadata to a context for codec stages.
// Codecs (encryption key IDs, tenant routing hints) read it with
// MetadataFromContext during chain processing.
func ContextWithMetadata(ctx context.Context, m Metadata) context.Context {
	return context.WithValue(ctx, metadataContextKey{}, m)
}

// MetadataFromContext returns metadata previously attached with
// ContextWithMetadata, or nil if none was set.
func MetadataFromContext(ctx context.Context) Metadata {
	m, _ := ctx.Value(metadataContextKey{}).(Metadata)
	return m
}
