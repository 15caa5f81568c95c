package fidelity

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/capitan"
)

func TestObservedConverter_EmitsOnFailure(t *testing.T) {
	c := capitan.New(capitan.WithSyncMode())
	defer c.Shutdown()

	var received atomic.Bool
	var got ConvertError
	var mu sync.Mutex

	c.Hook(ConvertErrorSignal, func(_ context.Context, e *capitan.Event) {
		ce, ok := ConvertErrorKey.From(e)
		if ok {
			mu.Lock()
			got = ce
			mu.Unlock()
			received.Store(true)
		}
	})

	oc := NewObservedConverter(NewDefaultConverter(), WithCapitan(c))

	p := &Payload{
		Metadata: Metadata{MetadataEncoding: EncodeText("proto/unknown")},
		Data:     []byte("x"),
	}
	if _, err := oc.FromPayload(context.Background(), p); err == nil {
		t.Fatal("expected conversion failure")
	}

	deadline := time.Now().Add(time.Second)
	for !received.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !received.Load() {
		t.Fatal("expected ConvertError event")
	}

	mu.Lock()
	defer mu.Unlock()
	if got.Operation != "from-payload" {
		t.Errorf("expected operation 'from-payload', got %q", got.Operation)
	}
	if got.Encoding != "proto/unknown" {
		t.Errorf("expected encoding 'proto/unknown', got %q", got.Encoding)
	}
	if got.Err == "" {
		t.Error("expected non-empty error message")
	}
}

func TestObservedConverter_SilentOnSuccess(t *testing.T) {
	c := capitan.New(capitan.WithSyncMode())
	defer c.Shutdown()

	var emitted atomic.Bool
	c.Hook(ConvertErrorSignal, func(_ context.Context, _ *capitan.Event) {
		emitted.Store(true)
	})

	oc := NewObservedConverter(NewDefaultConverter(), WithCapitan(c))
	ctx := context.Background()

	p, err := oc.ToPayload(ctx, map[string]any{"ok": true})
	if err != nil {
		t.Fatalf("ToPayload failed: %v", err)
	}
	if _, err := oc.FromPayload(ctx, p); err != nil {
		t.Fatalf("FromPayload failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if emitted.Load() {
		t.Error("expected no events for successful conversions")
	}
}

func TestObservedConverter_EmitsOnEncodeFailure(t *testing.T) {
	c := capitan.New(capitan.WithSyncMode())
	defer c.Shutdown()

	var received atomic.Bool
	c.Hook(ConvertErrorSignal, func(_ context.Context, e *capitan.Event) {
		if _, ok := ConvertErrorKey.From(e); ok {
			received.Store(true)
		}
	})

	oc := NewObservedConverter(NewDefaultConverter(), WithCapitan(c))
	if _, err := oc.ToPayload(context.Background(), func() {}); err == nil {
		t.Fatal("expected conversion failure for unsupported value")
	}

	deadline := time.Now().Add(time.Second)
	for !received.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !received.Load() {
		t.Error("expected ConvertError event on encode failure")
	}
}
