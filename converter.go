package fidelity

// PayloadConverter converts a single value to and from a payload.
// Implementations are immutable after construction and safe for concurrent
// use; every call operates solely on its own input.
type PayloadConverter interface {
	// ToPayload converts a value to a payload, or returns ErrNotHandled to
	// decline the value so the next converter in the chain gets a chance.
	ToPayload(value any) (*Payload, error)

	// FromPayload reconstructs the value a payload was produced from.
	FromPayload(p *Payload) (any, error)

	// Encoding returns the identifier stored under MetadataEncoding for
	// payloads this converter produces. Unique within a chain.
	Encoding() string
}

// NilConverter handles exactly the nil value, producing a payload with no
// body. Composed ahead of SuperJSONConverter so nil round-trips as nil rather
// than as a JSON null tree.
type NilConverter struct{}

// ToPayload produces a bodiless payload for nil and declines everything else.
func (NilConverter) ToPayload(value any) (*Payload, error) {
	if value != nil {
		return nil, ErrNotHandled
	}
	return &Payload{
		Metadata: Metadata{MetadataEncoding: EncodeText(EncodingNil)},
	}, nil
}

// FromPayload returns nil for any payload routed here.
func (NilConverter) FromPayload(_ *Payload) (any, error) {
	return nil, nil
}

// Encoding returns the nil encoding identifier.
func (NilConverter) Encoding() string {
	return EncodingNil
}

// ByteSliceConverter passes []byte values through as the payload body
// untouched. Composed ahead of SuperJSONConverter so raw binary buffers are
// not base64-wrapped into JSON.
type ByteSliceConverter struct{}

// ToPayload accepts []byte values and declines everything else. A nil byte
// slice is normalized to an empty body so the payload stays decodable.
func (ByteSliceConverter) ToPayload(value any) (*Payload, error) {
	b, ok := value.([]byte)
	if !ok {
		return nil, ErrNotHandled
	}
	if b == nil {
		b = []byte{}
	}
	return &Payload{
		Metadata: Metadata{MetadataEncoding: EncodeText(EncodingBinary)},
		Data:     b,
	}, nil
}

// FromPayload returns the payload body verbatim.
func (ByteSliceConverter) FromPayload(p *Payload) (any, error) {
	if p == nil || p.Data == nil {
		return nil, ErrMissingData
	}
	return p.Data, nil
}

// Encoding returns the raw binary encoding identifier.
func (ByteSliceConverter) Encoding() string {
	return EncodingBinary
}

// Ensure the trivial converters implement PayloadConverter.
var (
	_ PayloadConverter = NilConverter{}
	_ PayloadConverter = ByteSliceConverter{}
)
