package planner

import (
	"errors"
	"testing"
)

func TestExtractJSONStripsFenceWithLanguageTag(t *testing.T) {
	raw := "```json\n{\"title\":\"x\"}\n```"
	got := ExtractJSON(raw)
	if got != `{"title":"x"}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONStripsBareFence(t *testing.T) {
	raw := "```\n{\"title\":\"x\"}\n```"
	got := ExtractJSON(raw)
	if got != `{"title":"x"}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONIdempotentOnPlainJSON(t *testing.T) {
	plain := `{"title":"x"}`
	if got := ExtractJSON(plain); got != plain {
		t.Fatalf("expected no-op on plain JSON, got %q", got)
	}
	if got := ExtractJSON(ExtractJSON(plain)); got != plain {
		t.Fatalf("expected idempotence, got %q", got)
	}
}

func TestParseDraftCoercesNumericStrings(t *testing.T) {
	text := `{
		"title": "Replace sensor",
		"total_estimated_duration_minutes": "90",
		"tasks": [{"sequence": 1, "title": "t", "estimated_duration_minutes": "45"}],
		"parts_used": [{"part_number": "TC-SENSOR-04", "quantity": "2"}]
	}`
	d, err := ParseDraft(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.TotalMinutes != 90 {
		t.Fatalf("expected total 90, got %d", d.TotalMinutes)
	}
	if d.Tasks[0].DurationMinutes != 45 {
		t.Fatalf("expected duration 45, got %d", d.Tasks[0].DurationMinutes)
	}
	if d.PartsUsed[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", d.PartsUsed[0].Quantity)
	}
}

func TestParseDraftRejectsNonNumericString(t *testing.T) {
	text := `{"total_estimated_duration_minutes": "about an hour"}`
	_, err := ParseDraft(text)
	if err == nil {
		t.Fatalf("expected parse failure")
	}
	var invalid *InvalidPlanError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidPlanError, got %T", err)
	}
	if invalid.Raw != text {
		t.Fatalf("expected raw text carried on the error")
	}
}

func TestParseDraftRejectsWrongTypes(t *testing.T) {
	_, err := ParseDraft(`{"tasks": "not a list"}`)
	var invalid *InvalidPlanError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidPlanError, got %v", err)
	}
}

func TestParseDraftFenceAndSchemaErrorsDistinguishable(t *testing.T) {
	// Fence stripping is a separate pure step: a fenced payload parsed
	// without extraction fails, with extraction succeeds.
	raw := "```json\n{\"title\":\"x\"}\n```"
	if _, err := ParseDraft(raw); err == nil {
		t.Fatalf("expected failure without fence stripping")
	}
	if _, err := ParseDraft(ExtractJSON(raw)); err != nil {
		t.Fatalf("expected success after fence stripping: %v", err)
	}
}
