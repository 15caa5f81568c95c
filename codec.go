package fidelity

import (
	"context"

	"github.com/zoobzio/pipz"
)

// Internal identities for codec chain pipelines.
var (
	encodeSeqID   = pipz.NewIdentity("fidelity:encode", "Applies payload codecs after conversion")
	decodeSeqID   = pipz.NewIdentity("fidelity:decode", "Reverses payload codecs before conversion")
	encodeChainID = pipz.NewIdentity("fidelity:encoder", "Encoder pipeline")
	decodeChainID = pipz.NewIdentity("fidelity:decoder", "Decoder pipeline")
)

// PayloadCodec transforms payloads after conversion and reverses the
// transformation before deconversion. Codecs handle concerns orthogonal to
// type conversion: compression, encryption, claim-checking large payloads.
type PayloadCodec interface {
	// Name identifies the codec in pipeline traces and errors.
	Name() string

	// Encode transforms a converted payload for the wire.
	Encode(ctx context.Context, p *Payload) (*Payload, error)

	// Decode reverses Encode. Codecs must pass through payloads they did not
	// produce, so chains stay compatible with payloads written before the
	// codec was introduced.
	Decode(ctx context.Context, p *Payload) (*Payload, error)
}

// CodecChain applies an ordered list of payload codecs. Encode runs codecs in
// declared order; Decode runs them in reverse, so the last codec applied is
// the first reversed. Reliability options (retry, timeout) wrap both
// directions.
type CodecChain struct {
	encode *pipz.Pipeline[*Payload]
	decode *pipz.Pipeline[*Payload]
}

// NewCodecChain builds a codec chain. The codec order is fixed for the life
// of the chain.
func NewCodecChain(codecs []PayloadCodec, opts ...Option) *CodecChain {
	encSteps := make([]pipz.Chainable[*Payload], 0, len(codecs))
	decSteps := make([]pipz.Chainable[*Payload], 0, len(codecs))
	for _, c := range codecs {
		codec := c
		id := pipz.NewIdentity("fidelity:codec:"+codec.Name()+":encode", "Codec encode stage")
		encSteps = append(encSteps, pipz.Apply(id,
			func(ctx context.Context, p *Payload) (*Payload, error) {
				return codec.Encode(ctx, p)
			}))
	}
	for i := len(codecs) - 1; i >= 0; i-- {
		codec := codecs[i]
		id := pipz.NewIdentity("fidelity:codec:"+codec.Name()+":decode", "Codec decode stage")
		decSteps = append(decSteps, pipz.Apply(id,
			func(ctx context.Context, p *Payload) (*Payload, error) {
				return codec.Decode(ctx, p)
			}))
	}

	var encChain pipz.Chainable[*Payload] = pipz.NewSequence(encodeSeqID, encSteps...)
	var decChain pipz.Chainable[*Payload] = pipz.NewSequence(decodeSeqID, decSteps...)
	for _, opt := range opts {
		encChain = opt(encChain)
		decChain = opt(decChain)
	}

	return &CodecChain{
		encode: pipz.NewPipeline(encodeChainID, encChain),
		decode: pipz.NewPipeline(decodeChainID, decChain),
	}
}

// Encode runs the payload through every codec in declared order.
func (cc *CodecChain) Encode(ctx context.Context, p *Payload) (*Payload, error) {
	return cc.encode.Process(ctx, p)
}

// Decode runs the payload through every codec in reverse order.
func (cc *CodecChain) Decode(ctx context.Context, p *Payload) (*Payload, error) {
	return cc.decode.Process(ctx, p)
}

// EncodeAll encodes a payload list in order, failing on the first error.
func (cc *CodecChain) EncodeAll(ctx context.Context, payloads Payloads) (Payloads, error) {
	out := make(Payloads, 0, len(payloads))
	for _, p := range payloads {
		encoded, err := cc.Encode(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded)
	}
	return out, nil
}

// DecodeAll decodes a payload list in order, failing on the first error.
func (cc *CodecChain) DecodeAll(ctx context.Context, payloads Payloads) (Payloads, error) {
	out := make(Payloads, 0, len(payloads))
	for _, p := range payloads {
		decoded, err := cc.Decode(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

// Close releases pipeline resources.
func (cc *CodecChain) Close() error {
	if err := cc.encode.Close(); err != nil {
		return err
	}
	return cc.decode.Close()
}

// CodecConverter composes a converter chain with a codec chain into a single
// surface: values convert to payloads and then pass through the codecs, and
// the reverse on the way back. Conversion itself stays pure; the context only
// reaches codec stages.
type CodecConverter struct {
	converter *CompositeConverter
	chain     *CodecChain
}

// NewCodecConverter composes a converter with a codec chain.
func NewCodecConverter(converter *CompositeConverter, chain *CodecChain) *CodecConverter {
	return &CodecConverter{converter: converter, chain: chain}
}

// ToPayload converts a value and encodes the result through the codec chain.
func (c *CodecConverter) ToPayload(ctx context.Context, value any) (*Payload, error) {
	p, err := c.converter.ToPayload(value)
	if err != nil {
		return nil, err
	}
	return c.chain.Encode(ctx, p)
}

// FromPayload decodes a payload through the codec chain and converts it back
// to a value.
func (c *CodecConverter) FromPayload(ctx context.Context, p *Payload) (any, error) {
	decoded, err := c.chain.Decode(ctx, p)
	if err != nil {
		return nil, err
	}
	return c.converter.FromPayload(decoded)
}

// ToPayloads converts and encodes a list of values.
func (c *CodecConverter) ToPayloads(ctx context.Context, values ...any) (Payloads, error) {
	payloads, err := c.converter.ToPayloads(values...)
	if err != nil {
		return nil, err
	}
	return c.chain.EncodeAll(ctx, payloads)
}

// FromPayloads decodes and converts a list of payloads.
func (c *CodecConverter) FromPayloads(ctx context.Context, payloads Payloads) ([]any, error) {
	decoded, err := c.chain.DecodeAll(ctx, payloads)
	if err != nil {
		return nil, err
	}
	return c.converter.FromPayloads(decoded)
}
