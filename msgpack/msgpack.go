// Package msgpack provides a payload converter with a MessagePack body, for
// hosts that want a compact binary encoding with wide cross-language support.
// Like binary/cbor, the body is not independently readable as plain JSON;
// unlike json/plain there is no degraded-read path for manifest-unaware
// readers.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/loomworks/fidelity"
)

// Encoding identifies payloads produced by this converter.
const Encoding = "binary/msgpack"

// Converter converts values to payloads with a MessagePack body.
// Stateless and safe for concurrent use.
type Converter struct{}

// New creates a MessagePack payload converter.
func New() *Converter {
	return &Converter{}
}

// ToPayload encodes any non-nil value as MessagePack. The nil value is
// declined so a nil handler earlier in the chain owns it.
func (c *Converter) ToPayload(value any) (*fidelity.Payload, error) {
	if value == nil {
		return nil, fidelity.ErrNotHandled
	}
	data, err := msgpack.Marshal(value)
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

// FromPayload decodes the MessagePack body to a generic value.
func (c *Converter) FromPayload(p *fidelity.Payload) (any, error) {
	if p == nil || p.Data == nil {
		return nil, fidelity.ErrMissingData
	}
	var value any
	if err := msgpack.Unmarshal(p.Data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// Encoding returns the binary/msgpack encoding identifier.
func (c *Converter) Encoding() string {
	return Encoding
}

var _ fidelity.PayloadConverter = (*Converter)(nil)
