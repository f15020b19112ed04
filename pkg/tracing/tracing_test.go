package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestInitDisabled(t *testing.T) {
	tp, err := Init(Config{Enabled: false})
	if err != nil {
		t.Fatalf("Init with tracing disabled returned error: %v", err)
	}
	if tp == nil {
		t.Fatal("expected non-nil provider")
	}
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown of no-op provider returned error: %v", err)
	}
}

func TestStartSpanWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "tip.process")
	if span == nil {
		t.Fatal("expected non-nil span")
	}
	span.SetAttributes(attribute.String("tx_hash", "0xabc"))
	RecordError(ctx, errors.New("boom"))
	span.End()
}
