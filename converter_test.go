package fidelity

import (
	"bytes"
	"errors"
	"testing"
)

func TestNilConverter_HandlesOnlyNil(t *testing.T) {
	c := NilConverter{}

	p, err := c.ToPayload(nil)
	if err != nil {
		t.Fatalf("ToPayload(nil) failed: %v", err)
	}
	if p.Data != nil {
		t.Error("expected no data for nil payload")
	}
	if string(p.Metadata[MetadataEncoding]) != EncodingNil {
		t.Errorf("expected encoding %q, got %q", EncodingNil, p.Metadata[MetadataEncoding])
	}

	if _, err := c.ToPayload("not nil"); !errors.Is(err, ErrNotHandled) {
		t.Errorf("expected ErrNotHandled for non-nil value, got %v", err)
	}
}

func TestNilConverter_FromPayload(t *testing.T) {
	c := NilConverter{}
	p, _ := c.ToPayload(nil)

	v, err := c.FromPayload(p)
	if err != nil {
		t.Fatalf("FromPayload failed: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil, got %v", v)
	}
}

func TestByteSliceConverter_RoundTrip(t *testing.T) {
	c := ByteSliceConverter{}
	raw := []byte{0x00, 0x01, 0xff, 0xfe}

	p, err := c.ToPayload(raw)
	if err != nil {
		t.Fatalf("ToPayload failed: %v", err)
	}
	if string(p.Metadata[MetadataEncoding]) != EncodingBinary {
		t.Errorf("expected encoding %q, got %q", EncodingBinary, p.Metadata[MetadataEncoding])
	}
	if !bytes.Equal(p.Data, raw) {
		t.Errorf("expected data passed through untouched, got %v", p.Data)
	}

	v, err := c.FromPayload(p)
	if err != nil {
		t.Fatalf("FromPayload failed: %v", err)
	}
	if !bytes.Equal(v.([]byte), raw) {
		t.Errorf("expected %v, got %v", raw, v)
	}
}

func TestByteSliceConverter_NilSliceRoundTrips(t *testing.T) {
	c := ByteSliceConverter{}

	p, err := c.ToPayload([]byte(nil))
	if err != nil {
		t.Fatalf("ToPayload failed: %v", err)
	}
	if p.Data == nil {
		t.Fatal("expected nil slice normalized to an empty body")
	}

	v, err := c.FromPayload(p)
	if err != nil {
		t.Fatalf("FromPayload failed: %v", err)
	}
	if len(v.([]byte)) != 0 {
		t.Errorf("expected empty slice, got %v", v)
	}
}

func TestByteSliceConverter_DeclinesNonBytes(t *testing.T) {
	c := ByteSliceConverter{}

	if _, err := c.ToPayload("string"); !errors.Is(err, ErrNotHandled) {
		t.Errorf("expected ErrNotHandled for string, got %v", err)
	}
	if _, err := c.ToPayload(nil); !errors.Is(err, ErrNotHandled) {
		t.Errorf("expected ErrNotHandled for nil, got %v", err)
	}
}

func TestByteSliceConverter_MissingData(t *testing.T) {
	c := ByteSliceConverter{}
	p := &Payload{Metadata: Metadata{MetadataEncoding: EncodeText(EncodingBinary)}}

	if _, err := c.FromPayload(p); !errors.Is(err, ErrMissingData) {
		t.Errorf("expected ErrMissingData, got %v", err)
	}
}
