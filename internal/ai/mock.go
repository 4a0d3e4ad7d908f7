package ai

import (
	"context"
	"fmt"

	"github.com/plantworks/backend/internal/utils"
)

// MockAssistant stands in for the completion service in dev and tests. It
// answers with a fenced JSON repair plan, varied deterministically by the
// prompt hash so repeated runs stay reproducible.
type MockAssistant struct {
	ModelVersion string
}

func (m MockAssistant) Complete(ctx context.Context, prompt string) (string, error) {
	h := utils.HashStringToUint64(prompt)

	priorities := []string{"critical", "high", "medium", "low"}
	durations := []int{30, 45, 60, 90, 120}

	priority := priorities[int(h)%len(priorities)]
	inspect := durations[int(h/7)%len(durations)]
	repair := durations[int(h/13)%len(durations)]

	// Durations are quoted on purpose: real models do this, and the parser
	// must cope.
	plan := fmt.Sprintf("```json\n"+`{
  "title": "Generated repair plan",
  "description": "Plan drafted by %s",
  "type": "corrective",
  "priority": "%s",
  "tasks": [
    {
      "sequence": 0,
      "title": "Inspect and isolate fault",
      "description": "Confirm the diagnosed fault and isolate the machine",
      "estimated_duration_minutes": "%d",
      "required_skills": ["general_maintenance"],
      "safety_note": "Lock out and tag out before starting"
    },
    {
      "sequence": 0,
      "title": "Execute repair",
      "description": "Carry out the corrective work and verify operation",
      "estimated_duration_minutes": "%d",
      "required_skills": ["general_maintenance"]
    }
  ],
  "parts_used": [],
  "total_estimated_duration_minutes": %d,
  "notes": "Drafted by mock assistant"
}`+"\n```", m.ModelVersion, priority, inspect, repair, inspect+repair)

	return plan, nil
}
