package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("drawing_type", "PDF"),
		attribute.String("user_email", "someone@example.com"),
		attribute.String("reason", "user_limit_reached"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "drawing_type" && attrs[1].Key != "drawing_type" {
		t.Fatalf("expected drawing_type to be retained")
	}
	if attrs[0].Key != "reason" && attrs[1].Key != "reason" {
		t.Fatalf("expected reason to be retained")
	}
}
