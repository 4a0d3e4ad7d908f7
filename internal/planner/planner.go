// Package planner turns a diagnosed equipment fault into a persisted work
// order: requirement mapping, resource resolution, plan generation, tolerant
// parsing, normalization, persistence. Strictly forward, no retries.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/plantworks/backend/internal/ai"
	"github.com/plantworks/backend/internal/models"
)

// PlanStore is the slice of the record store the pipeline needs.
type PlanStore interface {
	ListTechniciansByStatus(ctx context.Context, status string) ([]models.Technician, error)
	ListPartsByNumbers(ctx context.Context, numbers []string) ([]models.Part, error)
	CreateWorkOrder(ctx context.Context, wo models.WorkOrder) error
}

type Planner struct {
	Store     PlanStore
	Assistant ai.Assistant
	Logger    zerolog.Logger
}

// Plan runs the full pipeline for one fault. Errors are wrapped with the
// failing stage and re-raised, never downgraded. On a persistence conflict
// the normalized work order is returned alongside the error so the caller
// can regenerate the id and retry persistence once.
func (p *Planner) Plan(ctx context.Context, fault models.DiagnosedFault) (models.WorkOrder, error) {
	log := p.Logger.With().
		Str("machine_id", fault.MachineID).
		Str("fault_type", fault.FaultType).
		Logger()

	skills, partNumbers := MapRequirements(fault.FaultType)
	log.Debug().Strs("skills", skills).Strs("part_numbers", partNumbers).Msg("requirements mapped")

	resources, err := p.resolve(ctx, skills, partNumbers)
	if err != nil {
		return models.WorkOrder{}, fmt.Errorf("resolving resources: %w", err)
	}
	log.Debug().
		Int("technicians", len(resources.Technicians)).
		Int("parts", len(resources.Parts)).
		Msg("resources resolved")

	prompt := BuildPrompt(fault, skills, partNumbers, resources.Technicians, resources.Parts)
	raw, err := p.Assistant.Complete(ctx, prompt)
	if err != nil {
		return models.WorkOrder{}, fmt.Errorf("requesting plan: %w", err)
	}

	draft, err := ParseDraft(ExtractJSON(raw))
	if err != nil {
		return models.WorkOrder{}, fmt.Errorf("parsing plan: %w", err)
	}

	wo := Normalize(draft, fault, resources.Technicians, log)
	return p.Persist(ctx, wo)
}

// Persist writes the work order, overwriting CreatedAt at the boundary.
// Exposed so the caller can re-persist with a fresh id after a conflict.
func (p *Planner) Persist(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error) {
	wo.CreatedAt = time.Now().UTC()
	if err := p.Store.CreateWorkOrder(ctx, wo); err != nil {
		return wo, fmt.Errorf("persisting work order: %w", err)
	}
	p.Logger.Info().
		Str("work_order_id", wo.ID).
		Str("work_order_number", wo.WorkOrderNumber).
		Str("machine_id", wo.MachineID).
		Msg("work order persisted")
	return wo, nil
}
