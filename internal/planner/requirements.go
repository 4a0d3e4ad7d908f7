package planner

import "strings"

type faultRequirements struct {
	Skills      []string
	PartNumbers []string
}

// requirementTable maps fault type codes to the skills and spare parts a
// repair is expected to need. Order is stable so prompts stay reproducible.
var requirementTable = map[string]faultRequirements{
	"curing_temperature_excessive": {
		Skills:      []string{"thermal_controls", "plc_programming"},
		PartNumbers: []string{"TC-SENSOR-04", "PLC-RELAY-11"},
	},
	"curing_pressure_low": {
		Skills:      []string{"hydraulics", "thermal_controls"},
		PartNumbers: []string{"HYD-SEAL-23", "PRESS-VALVE-07"},
	},
	"hydraulic_pressure_loss": {
		Skills:      []string{"hydraulics"},
		PartNumbers: []string{"HYD-SEAL-23", "HYD-PUMP-02"},
	},
	"conveyor_belt_misalignment": {
		Skills:      []string{"mechanical_alignment", "conveyor_systems"},
		PartNumbers: []string{"BELT-ROLLER-15"},
	},
	"extruder_motor_overload": {
		Skills:      []string{"electrical_systems", "motor_drives"},
		PartNumbers: []string{"MOTOR-BRUSH-31", "DRIVE-FUSE-09"},
	},
	"bead_wire_tension_fault": {
		Skills:      []string{"tension_calibration", "mechanical_alignment"},
		PartNumbers: nil,
	},
	"vibration_abnormal": {
		Skills:      []string{"vibration_analysis", "bearing_replacement"},
		PartNumbers: []string{"BRG-6204-ZZ"},
	},
}

// defaultSkills keeps unknown fault types plannable: the pipeline degrades
// to a generic plan instead of failing.
var defaultSkills = []string{"general_maintenance"}

// MapRequirements resolves a fault type code into required skill tags and
// part numbers. Total over all inputs; unknown codes get the default.
func MapRequirements(faultType string) (skills []string, partNumbers []string) {
	req, ok := requirementTable[strings.ToLower(strings.TrimSpace(faultType))]
	if !ok {
		return append([]string(nil), defaultSkills...), nil
	}
	return append([]string(nil), req.Skills...), append([]string(nil), req.PartNumbers...)
}
