package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsUnknownKeys(t *testing.T) {
	filtered := FilterAttributes(
		attribute.String("restaurant_id", "42"),
		attribute.String("customer_phone", "393896382394"),
		attribute.String("status", "accepted"),
	)

	if len(filtered) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(filtered))
	}
	for _, attr := range filtered {
		if attr.Key == "customer_phone" {
			t.Fatal("high-cardinality key leaked through filter")
		}
	}
}

func TestFilterAttributesEmpty(t *testing.T) {
	if got := FilterAttributes(); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}
