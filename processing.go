package fidelity

import (
	"context"

	"github.com/zoobzio/pipz"
)

// WithApply wraps a function that transforms payloads and may fail.
// Use for validation, metadata enrichment, or any stage that can error.
// Return an error to abort processing.
func WithApply(name string, fn func(context.Context, *Payload) (*Payload, error)) Option {
	return func(chain pipz.Chainable[*Payload]) pipz.Chainable[*Payload] {
		id := pipz.NewIdentity(name, "User-defined apply stage")
		return pipz.NewSequence(id, pipz.Apply(id, fn), chain)
	}
}

// WithEffect wraps a function that observes payloads without modifying them.
// Use for logging, metrics, or size accounting.
// Return an error to abort processing.
func WithEffect(name string, fn func(context.Context, *Payload) error) Option {
	return func(chain pipz.Chainable[*Payload]) pipz.Chainable[*Payload] {
		id := pipz.NewIdentity(name, "User-defined effect stage")
		return pipz.NewSequence(id, pipz.Effect(id, fn), chain)
	}
}

// WithTransform wraps a pure payload transformation that cannot fail.
// Use for metadata stamping or header mapping.
func WithTransform(name string, fn func(context.Context, *Payload) *Payload) Option {
	return func(chain pipz.Chainable[*Payload]) pipz.Chainable[*Payload] {
		id := pipz.NewIdentity(name, "User-defined transform stage")
		return pipz.NewSequence(id, pipz.Transform(id, fn), chain)
	}
}
