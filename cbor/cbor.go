// Package cbor provides a payload converter with a CBOR body, for hosts that
// prefer a compact binary encoding over json/plain. The encoder uses Core
// Deterministic Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items, so the same value always produces
// identical payload bytes.
//
// CBOR natively represents binary strings and timestamps, so no side-channel
// manifest is needed; the trade-off is that the body is not independently
// readable as plain JSON.
package cbor

import (
	"fmt"
	"reflect"

	cborlib "github.com/fxamacker/cbor/v2"

	"github.com/loomworks/fidelity"
)

// Encoding identifies payloads produced by this converter.
const Encoding = "binary/cbor"

// Converter converts values to payloads with a deterministic CBOR body.
// Immutable after construction and safe for concurrent use.
type Converter struct {
	enc cborlib.EncMode
	dec cborlib.DecMode
}

// New creates a CBOR payload converter.
func New() (*Converter, error) {
	enc, err := cborlib.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor: encoder: %w", err)
	}
	dec, err := cborlib.DecOptions{
		// When the decode target is any, the CBOR default map type is
		// map[interface{}]interface{}. String-keyed maps are the common
		// case and map[string]any is what the rest of the converter
		// surface produces, so match it.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor: decoder: %w", err)
	}
	return &Converter{enc: enc, dec: dec}, nil
}

// ToPayload encodes any non-nil value as deterministic CBOR. The nil value is
// declined so a nil handler earlier in the chain owns it.
func (c *Converter) ToPayload(value any) (*fidelity.Payload, error) {
	if value == nil {
		return nil, fidelity.ErrNotHandled
	}
	data, err := c.enc.Marshal(value)
	if err != nil {
		return nil, err
	}
	return &fidelity.Payload{
		Metadata: fidelity.Metadata{
			fidelity.MetadataEncoding: fidelity.EncodeText(Encoding),
		},
		Data: data,
	}, nil
}

// FromPayload decodes the CBOR body to a generic value.
func (c *Converter) FromPayload(p *fidelity.Payload) (any, error) {
	if p == nil || p.Data == nil {
		return nil, fidelity.ErrMissingData
	}
	var value any
	if err := c.dec.Unmarshal(p.Data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// Encoding returns the binary/cbor encoding identifier.
func (c *Converter) Encoding() string {
	return Encoding
}

var _ fidelity.PayloadConverter = (*Converter)(nil)
