package planner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// InvalidPlanError marks a generation response that could not be parsed as
// the expected schema. It carries the raw text for postmortems and is a
// distinct kind from a transport failure calling the assistant.
type InvalidPlanError struct {
	Raw string
	Err error
}

func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("invalid generated plan: %v", e.Err)
}

func (e *InvalidPlanError) Unwrap() error {
	return e.Err
}

// flexInt accepts a JSON number or a numeric string. Models regularly quote
// durations and quantities; anything else is still a parse failure. The
// coercion stays on these fields only.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("expected a number, got %q", s)
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// Draft is the work order as the assistant returned it, before the
// normalization pass fills in whatever is missing.
type Draft struct {
	ID              string           `json:"id"`
	WorkOrderNumber string           `json:"work_order_number"`
	MachineID       string           `json:"machine_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Type            string           `json:"type"`
	Priority        string           `json:"priority"`
	Status          string           `json:"status"`
	AssignedTo      string           `json:"assigned_to"`
	TotalMinutes    flexInt          `json:"total_estimated_duration_minutes"`
	Tasks           []DraftTask      `json:"tasks"`
	PartsUsed       []DraftPartUsage `json:"parts_used"`
	Notes           string           `json:"notes"`
}

type DraftTask struct {
	Sequence        int      `json:"sequence"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DurationMinutes flexInt  `json:"estimated_duration_minutes"`
	RequiredSkills  []string `json:"required_skills"`
	SafetyNote      string   `json:"safety_note"`
}

type DraftPartUsage struct {
	PartID     string  `json:"part_id"`
	PartNumber string  `json:"part_number"`
	Quantity   flexInt `json:"quantity"`
}

// ExtractJSON strips a single leading code fence (with or without a language
// tag) and its closing fence, then trims. Plain JSON passes through
// unchanged, so the function is idempotent.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = s[len("```"):]
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// fence line may carry a language tag such as ```json
		s = s[i+1:]
	}
	if j := strings.LastIndex(s, "```"); j >= 0 {
		s = s[:j]
	}
	return strings.TrimSpace(s)
}

// ParseDraft decodes extracted JSON into a Draft. Fence and schema problems
// stay distinguishable: run ExtractJSON first, then this.
func ParseDraft(jsonText string) (Draft, error) {
	var d Draft
	if err := json.Unmarshal([]byte(jsonText), &d); err != nil {
		return Draft{}, &InvalidPlanError{Raw: jsonText, Err: err}
	}
	return d, nil
}
