// Package testing provides test utilities and helpers for fidelity users.
// These utilities help users test their own converter chains and codecs.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/loomworks/fidelity"
)

// MockConverter is a test converter with configurable behavior and call
// tracking. Thread-safe for concurrent use in tests.
type MockConverter struct {
	mu        sync.Mutex
	encoding  string
	toCalls   int
	fromCalls int
	toFunc    func(value any) (*fidelity.Payload, error)
	fromFunc  func(p *fidelity.Payload) (any, error)
}

// NewMockConverter creates a MockConverter declaring the given encoding.
func NewMockConverter(encoding string) *MockConverter {
	return &MockConverter{encoding: encoding}
}

// WithToPayload sets the ToPayload behavior. If unset, every value is
// declined with fidelity.ErrNotHandled.
func (m *MockConverter) WithToPayload(fn func(value any) (*fidelity.Payload, error)) *MockConverter {
	m.toFunc = fn
	return m
}

// WithFromPayload sets the FromPayload behavior. If unset, FromPayload
// returns the payload data verbatim.
func (m *MockConverter) WithFromPayload(fn func(p *fidelity.Payload) (any, error)) *MockConverter {
	m.fromFunc = fn
	return m
}

// ToPayload records the call and applies the configured behavior.
func (m *MockConverter) ToPayload(value any) (*fidelity.Payload, error) {
	m.mu.Lock()
	m.toCalls++
	fn := m.toFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(value)
	}
	return nil, fidelity.ErrNotHandled
}

// FromPayload records the call and applies the configured behavior.
func (m *MockConverter) FromPayload(p *fidelity.Payload) (any, error) {
	m.mu.Lock()
	m.fromCalls++
	fn := m.fromFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(p)
	}
	if p == nil || p.Data == nil {
		return nil, fidelity.ErrMissingData
	}
	return p.Data, nil
}

// Encoding returns the declared encoding.
func (m *MockConverter) Encoding() string {
	return m.encoding
}

// ToPayloadCount returns the number of ToPayload calls.
func (m *MockConverter) ToPayloadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.toCalls
}

// FromPayloadCount returns the number of FromPayload calls.
func (m *MockConverter) FromPayloadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fromCalls
}

// NewTestPayload builds a payload with the given encoding identifier and
// body, the way converters build them.
func NewTestPayload(encoding string, data []byte) *fidelity.Payload {
	return &fidelity.Payload{
		Metadata: fidelity.Metadata{
			fidelity.MetadataEncoding: fidelity.EncodeText(encoding),
		},
		Data: data,
	}
}

// CaptureCodec is a pass-through payload codec that records every payload it
// sees, for verifying chain ordering and content. Thread-safe.
type CaptureCodec struct {
	mu      sync.Mutex
	name    string
	encoded []*fidelity.Payload
	decoded []*fidelity.Payload
}

// NewCaptureCodec creates a CaptureCodec with the given name.
func NewCaptureCodec(name string) *CaptureCodec {
	return &CaptureCodec{name: name}
}

// Name returns the codec name.
func (c *CaptureCodec) Name() string { return c.name }

// Encode records the payload and passes it through unchanged.
func (c *CaptureCodec) Encode(_ context.Context, p *fidelity.Payload) (*fidelity.Payload, error) {
	c.mu.Lock()
	c.encoded = append(c.encoded, p)
	c.mu.Unlock()
	return p, nil
}

// Decode records the payload and passes it through unchanged.
func (c *CaptureCodec) Decode(_ context.Context, p *fidelity.Payload) (*fidelity.Payload, error) {
	c.mu.Lock()
	c.decoded = append(c.decoded, p)
	c.mu.Unlock()
	return p, nil
}

// Encoded returns a copy of all payloads seen on the encode path.
func (c *CaptureCodec) Encoded() []*fidelity.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*fidelity.Payload, len(c.encoded))
	copy(out, c.encoded)
	return out
}

// Decoded returns a copy of all payloads seen on the decode path.
func (c *CaptureCodec) Decoded() []*fidelity.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*fidelity.Payload, len(c.decoded))
	copy(out, c.decoded)
	return out
}

// Reset clears all captured payloads.
func (c *CaptureCodec) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.encoded = c.encoded[:0]
	c.decoded = c.decoded[:0]
}

// ErrorCapture captures conversion errors for testing. Hook it to
// fidelity.ConvertErrorSignal through Capture.
type ErrorCapture struct {
	errors []fidelity.ConvertError
	mu     sync.Mutex
}

// NewErrorCapture creates a new ErrorCapture instance.
func NewErrorCapture() *ErrorCapture {
	return &ErrorCapture{errors: make([]fidelity.ConvertError, 0)}
}

// Capture adds an error to the capture.
func (ec *ErrorCapture) Capture(err fidelity.ConvertError) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.errors = append(ec.errors, err)
}

// Errors returns a copy of all captured errors.
func (ec *ErrorCapture) Errors() []fidelity.ConvertError {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	out := make([]fidelity.ConvertError, len(ec.errors))
	copy(out, ec.errors)
	return out
}

// Count returns the number of captured errors.
func (ec *ErrorCapture) Count() int {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return len(ec.errors)
}

// Reset clears all captured errors.
func (ec *ErrorCapture) Reset() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.errors = ec.errors[:0]
}

// WaitForCount blocks until the capture has at least n errors or timeout
// occurs. Returns true if the count was reached, false on timeout. Capitan
// hooks run asynchronously; use this to wait for emitted events.
func (ec *ErrorCapture) WaitForCount(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		// Count first so an already-satisfied wait succeeds even with a
		// zero timeout.
		if ec.Count() >= n {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}
