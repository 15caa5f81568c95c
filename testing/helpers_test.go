package testing

import (
	"context"
	"errors"
	"testing"

	"github.com/loomworks/fidelity"
)

func TestMockConverter_DefaultsDecline(t *testing.T) {
	m := NewMockConverter("test/mock")

	_, err := m.ToPayload("anything")
	if !errors.Is(err, fidelity.ErrNotHandled) {
		t.Errorf("expected ErrNotHandled by default, got %v", err)
	}
	if m.ToPayloadCount() != 1 {
		t.Errorf("expected 1 ToPayload call, got %d", m.ToPayloadCount())
	}
}

func TestMockConverter_ConfiguredBehavior(t *testing.T) {
	m := NewMockConverter("test/mock").
		WithToPayload(func(_ any) (*fidelity.Payload, error) {
			return NewTestPayload("test/mock", []byte("ok")), nil
		}).
		WithFromPayload(func(_ *fidelity.Payload) (any, error) {
			return "decoded", nil
		})

	p, err := m.ToPayload("x")
	if err != nil {
		t.Fatalf("ToPayload failed: %v", err)
	}
	if p.Encoding() != "test/mock" {
		t.Errorf("expected encoding 'test/mock', got %q", p.Encoding())
	}

	v, err := m.FromPayload(p)
	if err != nil {
		t.Fatalf("FromPayload failed: %v", err)
	}
	if v != "decoded" {
		t.Errorf("expected 'decoded', got %v", v)
	}
	if m.FromPayloadCount() != 1 {
		t.Errorf("expected 1 FromPayload call, got %d", m.FromPayloadCount())
	}
}

func TestMockConverter_InComposite(t *testing.T) {
	m := NewMockConverter("test/mock").
		WithToPayload(func(v any) (*fidelity.Payload, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fidelity.ErrNotHandled
			}
			return NewTestPayload("test/mock", []byte(s)), nil
		})

	cc, err := fidelity.NewCompositeConverter(m, fidelity.NewSuperJSONConverter())
	if err != nil {
		t.Fatalf("NewCompositeConverter failed: %v", err)
	}

	p, err := cc.ToPayload("hello")
	if err != nil {
		t.Fatalf("ToPayload failed: %v", err)
	}
	if p.Encoding() != "test/mock" {
		t.Errorf("expected mock to win for strings, got %q", p.Encoding())
	}

	p, err = cc.ToPayload(42)
	if err != nil {
		t.Fatalf("ToPayload failed: %v", err)
	}
	if p.Encoding() != fidelity.EncodingJSON {
		t.Errorf("expected fallthrough to json converter, got %q", p.Encoding())
	}
}

func TestCaptureCodec_RecordsBothDirections(t *testing.T) {
	capture := NewCaptureCodec("capture")
	chain := fidelity.NewCodecChain([]fidelity.PayloadCodec{capture})
	defer chain.Close()

	ctx := context.Background()
	p := NewTestPayload(fidelity.EncodingJSON, []byte(`"x"`))

	if _, err := chain.Encode(ctx, p); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := chain.Decode(ctx, p); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(capture.Encoded()) != 1 {
		t.Errorf("expected 1 encoded payload, got %d", len(capture.Encoded()))
	}
	if len(capture.Decoded()) != 1 {
		t.Errorf("expected 1 decoded payload, got %d", len(capture.Decoded()))
	}

	capture.Reset()
	if len(capture.Encoded()) != 0 || len(capture.Decoded()) != 0 {
		t.Error("expected captures cleared after Reset")
	}
}

func TestErrorCapture(t *testing.T) {
	ec := NewErrorCapture()
	ec.Capture(fidelity.ConvertError{Operation: "to-payload", Err: "boom"})

	if ec.Count() != 1 {
		t.Fatalf("expected 1 error, got %d", ec.Count())
	}
	if ec.Errors()[0].Err != "boom" {
		t.Errorf("expected message 'boom', got %q", ec.Errors()[0].Err)
	}
	if !ec.WaitForCount(1, 0) {
		t.Error("expected WaitForCount to succeed immediately")
	}

	ec.Reset()
	if ec.Count() != 0 {
		t.Errorf("expected 0 errors after Reset, got %d", ec.Count())
	}
}

func TestNewTestPayload(t *testing.T) {
	p := NewTestPayload(fidelity.EncodingJSON, []byte(`{"a":1}`))
	if p.Encoding() != fidelity.EncodingJSON {
		t.Errorf("expected encoding %q, got %q", fidelity.EncodingJSON, p.Encoding())
	}
	if string(p.Data) != `{"a":1}` {
		t.Errorf("unexpected data %q", p.Data)
	}
}
