package planner

import (
	"fmt"
	"strings"

	"github.com/plantworks/backend/internal/models"
)

// BuildPrompt assembles the completion request. Same inputs always produce
// the same text; empty candidate sections render an explicit "none found"
// line so the model cannot assume availability that does not exist.
func BuildPrompt(fault models.DiagnosedFault, requiredSkills, partNumbers []string, techs []models.Technician, parts []models.Part) string {
	var b strings.Builder

	b.WriteString("You are a maintenance planner for industrial equipment.\n")
	b.WriteString("Draft a repair work order for the diagnosed fault below.\n\n")

	b.WriteString("Fault:\n")
	fmt.Fprintf(&b, "- machine: %s\n", fault.MachineID)
	fmt.Fprintf(&b, "- fault type: %s\n", fault.FaultType)
	fmt.Fprintf(&b, "- severity: %s\n", fault.Severity)
	if fault.Description != "" {
		fmt.Fprintf(&b, "- description: %s\n", fault.Description)
	}
	fmt.Fprintf(&b, "- estimated downtime: %d minutes\n", fault.EstimatedDowntime)
	for _, a := range fault.RecommendedActions {
		fmt.Fprintf(&b, "- recommended action: %s\n", a)
	}

	b.WriteString("\nRequired skills:\n")
	if len(requiredSkills) == 0 {
		b.WriteString("- none\n")
	}
	for _, s := range requiredSkills {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	b.WriteString("\nRequired parts:\n")
	if len(partNumbers) == 0 {
		b.WriteString("- none\n")
	}
	for _, n := range partNumbers {
		fmt.Fprintf(&b, "- %s\n", n)
	}

	b.WriteString("\nAvailable technicians (ranked best match first):\n")
	if len(techs) == 0 {
		b.WriteString("- none found\n")
	}
	for _, t := range techs {
		fmt.Fprintf(&b, "- %s (id %s): skills %s, %d years experience\n",
			t.Name, t.ID, strings.Join(t.Skills, "/"), t.YearsExperience)
	}

	b.WriteString("\nParts in inventory:\n")
	if len(parts) == 0 {
		b.WriteString("- none found\n")
	}
	for _, p := range parts {
		fmt.Fprintf(&b, "- %s (id %s, part number %s): %d available\n",
			p.Name, p.ID, p.PartNumber, p.Quantity)
	}

	b.WriteString("\nRespond with a single JSON object, no prose, using these fields:\n")
	b.WriteString(`{"work_order_number":"","machine_id":"","title":"","description":"",` +
		`"type":"corrective|preventive|emergency","priority":"critical|high|medium|low",` +
		`"assigned_to":"<technician id from the list above or empty>",` +
		`"total_estimated_duration_minutes":0,` +
		`"tasks":[{"sequence":1,"title":"","description":"","estimated_duration_minutes":0,"required_skills":[],"safety_note":""}],` +
		`"parts_used":[{"part_id":"","part_number":"","quantity":1}],"notes":""}`)
	b.WriteString("\nOnly reference technicians and parts listed above.\n")

	return b.String()
}
