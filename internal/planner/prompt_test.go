package planner

import (
	"strings"
	"testing"

	"github.com/plantworks/backend/internal/models"
)

func TestBuildPromptDeterministic(t *testing.T) {
	fault := models.DiagnosedFault{MachineID: "TCP-001", FaultType: "curing_temperature_excessive", Severity: "high", EstimatedDowntime: 120}
	techs := []models.Technician{{ID: "T-001", Name: "A. Smith", Skills: []string{"thermal_controls"}, YearsExperience: 5}}
	parts := []models.Part{{ID: "p1", Name: "Thermocouple", PartNumber: "TC-SENSOR-04", Quantity: 3}}

	p1 := BuildPrompt(fault, []string{"thermal_controls"}, []string{"TC-SENSOR-04"}, techs, parts)
	p2 := BuildPrompt(fault, []string{"thermal_controls"}, []string{"TC-SENSOR-04"}, techs, parts)
	if p1 != p2 {
		t.Fatalf("prompt assembly not deterministic")
	}

	for _, want := range []string{"TCP-001", "curing_temperature_excessive", "thermal_controls", "TC-SENSOR-04", "A. Smith", "5 years"} {
		if !strings.Contains(p1, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p1)
		}
	}
}

func TestBuildPromptExplicitNoneFound(t *testing.T) {
	fault := models.DiagnosedFault{MachineID: "M-1", FaultType: "unknown_fault", Severity: "low"}
	p := BuildPrompt(fault, []string{"general_maintenance"}, nil, nil, nil)

	if strings.Count(p, "none found") != 2 {
		t.Fatalf("expected explicit none found lines for technicians and parts:\n%s", p)
	}
}
