package fidelity

import (
	"time"

	"github.com/zoobzio/pipz"
)

// Internal identities for reliability options.
var (
	retryID    = pipz.NewIdentity("fidelity:retry", "Retries failed codec stages")
	backoffID  = pipz.NewIdentity("fidelity:backoff", "Retries with exponential backoff")
	timeoutID  = pipz.NewIdentity("fidelity:timeout", "Enforces codec stage timeout")
	fallbackID = pipz.NewIdentity("fidelity:fallback", "Fallback alternatives")
)

// Option wraps a codec chain pipeline with additional behavior. Options apply
// to both the encode and decode directions of a chain.
type Option func(pipz.Chainable[*Payload]) pipz.Chainable[*Payload]

// WithRetry adds retry logic to the chain. Failed codec stages are retried up
// to maxAttempts times immediately. Useful for codecs backed by remote key
// services; pure local codecs fail identically on retry and gain nothing.
func WithRetry(maxAttempts int) Option {
	return func(chain pipz.Chainable[*Payload]) pipz.Chainable[*Payload] {
		return pipz.NewRetry(retryID, chain, maxAttempts)
	}
}

// WithBackoff adds retry logic with exponential backoff to the chain.
// The delay starts at baseDelay and doubles after each failure.
func WithBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(chain pipz.Chainable[*Payload]) pipz.Chainable[*Payload] {
		return pipz.NewBackoff(backoffID, chain, maxAttempts, baseDelay)
	}
}

// WithTimeout adds timeout protection to the chain. Stages exceeding the
// duration are canceled through their context.
func WithTimeout(duration time.Duration) Option {
	return func(chain pipz.Chainable[*Payload]) pipz.Chainable[*Payload] {
		return pipz.NewTimeout(timeoutID, chain, duration)
	}
}

// WithFallback wraps the chain with fallback alternatives. If the primary
// chain fails, each fallback is tried in order.
func WithFallback(fallbacks ...pipz.Chainable[*Payload]) Option {
	return func(chain pipz.Chainable[*Payload]) pipz.Chainable[*Payload] {
		all := append([]pipz.Chainable[*Payload]{chain}, fallbacks...)
		return pipz.NewFallback(fallbackID, all...)
	}
}
