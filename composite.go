package fidelity

import (
	"errors"
	"fmt"
)

// CompositeConverter dispatches across an ordered chain of payload
// converters. Encoding tries converters in declared order and uses the first
// that accepts the value; decoding routes by the payload's encoding metadata,
// where order is not significant.
//
// The chain is fixed at construction and never mutated, so a single instance
// is safe to share across all conversions.
type CompositeConverter struct {
	ordered    []PayloadConverter
	byEncoding map[string]PayloadConverter
}

// NewCompositeConverter builds a converter chain in the given priority order.
// Fails if no converters are given or two converters declare the same
// encoding.
func NewCompositeConverter(converters ...PayloadConverter) (*CompositeConverter, error) {
	if len(converters) == 0 {
		return nil, ErrNoConverters
	}
	byEncoding := make(map[string]PayloadConverter, len(converters))
	for _, c := range converters {
		enc := c.Encoding()
		if _, exists := byEncoding[enc]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEncoding, enc)
		}
		byEncoding[enc] = c
	}
	return &CompositeConverter{
		ordered:    converters,
		byEncoding: byEncoding,
	}, nil
}

// NewDefaultConverter builds the standard chain: nil values, then raw byte
// slices, then the type-preserving JSON converter. The ordering is
// load-bearing: SuperJSONConverter accepts any non-nil value, so it must
// come last.
func NewDefaultConverter() *CompositeConverter {
	c, err := NewCompositeConverter(
		NilConverter{},
		ByteSliceConverter{},
		NewSuperJSONConverter(),
	)
	if err != nil {
		// The default chain has three distinct encodings; construction
		// cannot fail.
		panic(err)
	}
	return c
}

// ToPayload converts a value using the first converter in the chain that
// accepts it.
func (cc *CompositeConverter) ToPayload(value any) (*Payload, error) {
	for _, c := range cc.ordered {
		p, err := c.ToPayload(value)
		if errors.Is(err, ErrNotHandled) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotHandled, value)
}

// FromPayload reconstructs a value by routing to the converter whose encoding
// matches the payload's encoding metadata exactly.
func (cc *CompositeConverter) FromPayload(p *Payload) (any, error) {
	if p == nil {
		return nil, ErrMissingData
	}
	enc := p.Encoding()
	c, ok := cc.byEncoding[enc]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
	}
	return c.FromPayload(p)
}

// ToPayloads converts a list of values, as used for workflow and activity
// argument lists. Fails on the first value no converter accepts.
func (cc *CompositeConverter) ToPayloads(values ...any) (Payloads, error) {
	payloads := make(Payloads, 0, len(values))
	for i, v := range values {
		p, err := cc.ToPayload(v)
		if err != nil {
			return nil, fmt.Errorf("fidelity: value %d: %w", i, err)
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}

// FromPayloads reconstructs a list of values in order.
func (cc *CompositeConverter) FromPayloads(payloads Payloads) ([]any, error) {
	values := make([]any, 0, len(payloads))
	for i, p := range payloads {
		v, err := cc.FromPayload(p)
		if err != nil {
			return nil, fmt.Errorf("fidelity: payload %d: %w", i, err)
		}
		values = append(values, v)
	}
	return values, nil
}
