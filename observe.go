package fidelity

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Error signals and types for observability. The converters themselves emit
// nothing; hosts that want visibility wrap their chain in an
// ObservedConverter and hook ConvertErrorSignal.
var (
	// ConvertErrorSignal is emitted when an observed conversion fails.
	ConvertErrorSignal = capitan.NewSignal("fidelity.convert.error", "Payload conversion error")

	// ConvertErrorKey extracts ConvertError from events on ConvertErrorSignal.
	ConvertErrorKey = capitan.NewKey[ConvertError]("error", "fidelity.ConvertError")
)

// ConvertError describes a failed conversion.
type ConvertError struct {
	// Operation is the operation that failed: "to-payload" or "from-payload".
	Operation string `json:"operation"`

	// Encoding is the payload encoding involved, if known.
	Encoding string `json:"encoding"`

	// Err is the error message.
	Err string `json:"error"`
}

// ObservedConverter wraps a composite converter and emits capitan events on
// failure. Successful conversions emit nothing. Declines (ErrNotHandled from
// individual converters) are part of normal dispatch and are not failures;
// only errors surfaced to the caller are emitted.
type ObservedConverter struct {
	converter *CompositeConverter
	capitan   *capitan.Capitan
}

// ObserverOption configures an ObservedConverter.
type ObserverOption func(*ObservedConverter)

// WithCapitan sets a custom Capitan instance for the observer.
// If not specified, events emit through the global instance.
func WithCapitan(c *capitan.Capitan) ObserverOption {
	return func(o *ObservedConverter) {
		o.capitan = c
	}
}

// NewObservedConverter wraps a converter chain with error observability.
func NewObservedConverter(converter *CompositeConverter, opts ...ObserverOption) *ObservedConverter {
	o := &ObservedConverter{converter: converter}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ToPayload converts a value, emitting a ConvertError event if conversion
// fails.
func (o *ObservedConverter) ToPayload(ctx context.Context, value any) (*Payload, error) {
	p, err := o.converter.ToPayload(value)
	if err != nil {
		o.emitError(ctx, "to-payload", "", err)
		return nil, err
	}
	return p, nil
}

// FromPayload reconstructs a value, emitting a ConvertError event if
// conversion fails.
func (o *ObservedConverter) FromPayload(ctx context.Context, p *Payload) (any, error) {
	v, err := o.converter.FromPayload(p)
	if err != nil {
		o.emitError(ctx, "from-payload", p.Encoding(), err)
		return nil, err
	}
	return v, nil
}

// emitError emits a conversion error event to ConvertErrorSignal.
func (o *ObservedConverter) emitError(ctx context.Context, operation, encoding string, err error) {
	e := ConvertError{
		Operation: operation,
		Encoding:  encoding,
		Err:       err.Error(),
	}
	if o.capitan != nil {
		o.capitan.Emit(ctx, ConvertErrorSignal, ConvertErrorKey.Field(e))
	} else {
		capitan.Emit(ctx, ConvertErrorSignal, ConvertErrorKey.Field(e))
	}
}
