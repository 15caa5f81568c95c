package fidelity

import (
	json "github.com/goccy/go-json"

	"github.com/loomworks/fidelity/superjson"
)

// SuperJSONConverter converts values to payloads whose body is always a
// plain, independently parseable JSON document. Type information plain JSON
// cannot carry (dates, sets, big integers, ...) travels as a superjson
// manifest under the MetadataSuperJSON key, so readers unaware of the
// manifest still decode a usable degraded value and manifest-aware readers
// recover the original types exactly.
type SuperJSONConverter struct{}

// NewSuperJSONConverter creates a SuperJSONConverter.
func NewSuperJSONConverter() *SuperJSONConverter {
	return &SuperJSONConverter{}
}

// ToPayload serializes a value through superjson. The nil value is declined
// with ErrNotHandled so NilConverter owns it; serialization failures for
// unsupported values propagate unchanged.
func (c *SuperJSONConverter) ToPayload(value any) (*Payload, error) {
	if value == nil {
		return nil, ErrNotHandled
	}
	tree, meta, err := superjson.Serialize(value)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	md := Metadata{MetadataEncoding: EncodeText(EncodingJSON)}
	if meta != nil {
		metaBytes, err := json.Marshal(meta)
		if err != nil {
			return nil, err
		}
		md[MetadataSuperJSON] = metaBytes
	}
	return &Payload{Metadata: md, Data: data}, nil
}

// FromPayload parses the payload body as JSON and, when the payload carries a
// manifest, restores the original types through superjson. Payloads without a
// manifest decode to the plain parsed tree; this is the compatibility path for
// payloads written before manifests existed.
func (c *SuperJSONConverter) FromPayload(p *Payload) (any, error) {
	if p == nil || p.Data == nil {
		return nil, ErrMissingData
	}
	var tree any
	if err := json.Unmarshal(p.Data, &tree); err != nil {
		return nil, err
	}
	metaBytes, ok := p.Metadata[MetadataSuperJSON]
	if !ok {
		return tree, nil
	}
	var meta superjson.Meta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, err
	}
	return superjson.Deserialize(tree, &meta)
}

// Encoding returns the json/plain encoding identifier.
func (c *SuperJSONConverter) Encoding() string {
	return EncodingJSON
}

var _ PayloadConverter = (*SuperJSONConverter)(nil)
