package fidelity

import (
	"errors"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/loomworks/fidelity/superjson"
)

func bigIntFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("invalid big integer literal %q", s)
	}
	return i
}

func TestCompositeConverter_EncodeOrder(t *testing.T) {
	cc := NewDefaultConverter()

	// nil goes to the nil handler, not the JSON converter.
	p, err := cc.ToPayload(nil)
	if err != nil {
		t.Fatalf("ToPayload(nil) failed: %v", err)
	}
	if p.Encoding() != EncodingNil {
		t.Errorf("expected %q for nil, got %q", EncodingNil, p.Encoding())
	}

	// Raw bytes go to the byte slice handler.
	p, err = cc.ToPayload([]byte{0x01})
	if err != nil {
		t.Fatalf("ToPayload([]byte) failed: %v", err)
	}
	if p.Encoding() != EncodingBinary {
		t.Errorf("expected %q for bytes, got %q", EncodingBinary, p.Encoding())
	}

	// Everything else falls through to the type-preserving converter.
	p, err = cc.ToPayload("hello")
	if err != nil {
		t.Fatalf("ToPayload(string) failed: %v", err)
	}
	if p.Encoding() != EncodingJSON {
		t.Errorf("expected %q for string, got %q", EncodingJSON, p.Encoding())
	}
}

func TestCompositeConverter_DecodeByEncoding(t *testing.T) {
	cc := NewDefaultConverter()

	for _, v := range []any{nil, []byte{0xaa, 0xbb}, map[string]any{"k": "v"}} {
		p, err := cc.ToPayload(v)
		if err != nil {
			t.Fatalf("ToPayload(%v) failed: %v", v, err)
		}
		got, err := cc.FromPayload(p)
		if err != nil {
			t.Fatalf("FromPayload failed: %v", err)
		}
		if !reflect.DeepEqual(got, v) {
			t.Errorf("round trip mismatch: want %#v, got %#v", v, got)
		}
	}
}

func TestCompositeConverter_UnknownEncoding(t *testing.T) {
	cc := NewDefaultConverter()
	p := &Payload{
		Metadata: Metadata{MetadataEncoding: EncodeText("proto/unknown")},
		Data:     []byte("x"),
	}
	if _, err := cc.FromPayload(p); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("expected ErrUnknownEncoding, got %v", err)
	}
}

func TestCompositeConverter_NilPayload(t *testing.T) {
	cc := NewDefaultConverter()
	if _, err := cc.FromPayload(nil); !errors.Is(err, ErrMissingData) {
		t.Errorf("expected ErrMissingData, got %v", err)
	}
}

func TestNewCompositeConverter_DuplicateEncoding(t *testing.T) {
	_, err := NewCompositeConverter(NilConverter{}, NilConverter{})
	if !errors.Is(err, ErrDuplicateEncoding) {
		t.Errorf("expected ErrDuplicateEncoding, got %v", err)
	}
}

func TestNewCompositeConverter_Empty(t *testing.T) {
	_, err := NewCompositeConverter()
	if !errors.Is(err, ErrNoConverters) {
		t.Errorf("expected ErrNoConverters, got %v", err)
	}
}

func TestCompositeConverter_Payloads(t *testing.T) {
	cc := NewDefaultConverter()
	values := []any{nil, []byte{0x01}, "text", float64(3.5)}

	payloads, err := cc.ToPayloads(values...)
	if err != nil {
		t.Fatalf("ToPayloads failed: %v", err)
	}
	if len(payloads) != len(values) {
		t.Fatalf("expected %d payloads, got %d", len(values), len(payloads))
	}

	got, err := cc.FromPayloads(payloads)
	if err != nil {
		t.Fatalf("FromPayloads failed: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("batch round trip mismatch: want %#v, got %#v", values, got)
	}
}

func TestCompositeConverter_WorkflowInputScenario(t *testing.T) {
	cc := NewDefaultConverter()
	input := map[string]any{
		"id":        "test-123",
		"createdAt": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"tags":      superjson.NewSet("important", "urgent"),
	}

	p, err := cc.ToPayload(input)
	if err != nil {
		t.Fatalf("ToPayload failed: %v", err)
	}
	decoded, err := cc.FromPayload(p)
	if err != nil {
		t.Fatalf("FromPayload failed: %v", err)
	}

	out, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", decoded)
	}
	if out["id"] != "test-123" {
		t.Errorf("expected id 'test-123', got %v", out["id"])
	}
	created, ok := out["createdAt"].(time.Time)
	if !ok {
		t.Fatalf("expected createdAt as time.Time, got %T", out["createdAt"])
	}
	if created.Format(time.RFC3339Nano) != "2024-01-01T00:00:00Z" {
		t.Errorf("expected 2024-01-01T00:00:00Z, got %v", created)
	}
	tags, ok := out["tags"].(*superjson.Set)
	if !ok {
		t.Fatalf("expected tags as *superjson.Set, got %T", out["tags"])
	}
	if !tags.Has("important") || !tags.Has("urgent") {
		t.Errorf("expected both tags present, got %v", tags.Values())
	}
}

func TestCompositeConverter_NestedCollections(t *testing.T) {
	cc := NewDefaultConverter()

	// A map whose values are sets whose members are dates.
	original := map[string]any{
		"windows": superjson.NewSet(
			time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC),
		),
		"budget": bigIntFromString(t, "98765432109876543210"),
	}

	p, err := cc.ToPayload(original)
	if err != nil {
		t.Fatalf("ToPayload failed: %v", err)
	}
	got, err := cc.FromPayload(p)
	if err != nil {
		t.Fatalf("FromPayload failed: %v", err)
	}
	if !reflect.DeepEqual(got, original) {
		t.Errorf("nested round trip mismatch:\n  want %#v\n  got  %#v", original, got)
	}
}
