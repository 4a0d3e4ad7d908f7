package planner

import (
	"reflect"
	"testing"
)

func TestMapRequirementsKnownFault(t *testing.T) {
	skills, parts := MapRequirements("curing_temperature_excessive")
	if !reflect.DeepEqual(skills, []string{"thermal_controls", "plc_programming"}) {
		t.Fatalf("unexpected skills: %v", skills)
	}
	if len(parts) == 0 {
		t.Fatalf("expected part numbers for known fault")
	}
}

func TestMapRequirementsUnknownFaultDefaults(t *testing.T) {
	skills, parts := MapRequirements("never_seen_before")
	if !reflect.DeepEqual(skills, []string{"general_maintenance"}) {
		t.Fatalf("expected general_maintenance default, got %v", skills)
	}
	if len(parts) != 0 {
		t.Fatalf("expected no parts for unknown fault, got %v", parts)
	}
}

func TestMapRequirementsStable(t *testing.T) {
	s1, p1 := MapRequirements("hydraulic_pressure_loss")
	s2, p2 := MapRequirements("hydraulic_pressure_loss")
	if !reflect.DeepEqual(s1, s2) || !reflect.DeepEqual(p1, p2) {
		t.Fatalf("expected stable output for the same input")
	}
}

func TestMapRequirementsDoesNotShareTable(t *testing.T) {
	skills, _ := MapRequirements("hydraulic_pressure_loss")
	skills[0] = "mutated"
	again, _ := MapRequirements("hydraulic_pressure_loss")
	if again[0] != "hydraulics" {
		t.Fatalf("caller mutation leaked into the table: %v", again)
	}
}
