package fidelity

import (
	"sort"
	"strings"
)

// Payload is the unit exchanged with the orchestration runtime: an encoded
// value body plus metadata describing how to reverse the encoding.
type Payload struct {
	// Metadata maps short keys to raw bytes. Always carries the encoding
	// identifier under MetadataEncoding; may carry a type manifest under
	// MetadataSuperJSON.
	Metadata Metadata

	// Data holds the encoded value body. Nil only for encodings that emit
	// no body (EncodingNil).
	Data []byte
}

// Payloads is an ordered list of payloads, as exchanged for workflow and
// activity argument lists.
type Payloads []*Payload

// Encoding returns the payload's encoding identifier, or "" if unset.
func (p *Payload) Encoding() string {
	if p == nil || p.Metadata == nil {
		return ""
	}
	return DecodeText(p.Metadata[MetadataEncoding])
}

// String renders the payload for debugging and history display. Metadata
// values are shown as text; the body is shown verbatim for JSON encodings and
// summarized for binary ones.
func (p *Payload) String() string {
	if p == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("{")
	keys := make([]string, 0, len(p.Metadata))
	for k := range p.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(DecodeText(p.Metadata[k]))
	}
	b.WriteString("}")
	if p.Data == nil {
		return b.String()
	}
	b.WriteString(" ")
	if strings.HasPrefix(p.Encoding(), "json/") {
		b.WriteString(DecodeText(p.Data))
	} else {
		b.WriteString("<binary>")
	}
	return b.String()
}
