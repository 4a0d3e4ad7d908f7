package planner

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/plantworks/backend/internal/models"
)

const workOrderSuffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Normalize turns a parsed draft into a structurally complete work order.
// Pure apart from id/number generation; diagnostics for the tolerated cases
// go to the logger, never to an error.
func Normalize(d Draft, fault models.DiagnosedFault, candidates []models.Technician, logger zerolog.Logger) models.WorkOrder {
	wo := models.WorkOrder{
		ID:              strings.TrimSpace(d.ID),
		WorkOrderNumber: strings.TrimSpace(d.WorkOrderNumber),
		MachineID:       strings.TrimSpace(d.MachineID),
		Title:           d.Title,
		Description:     d.Description,
		Type:            strings.TrimSpace(d.Type),
		Priority:        strings.TrimSpace(d.Priority),
		Status:          strings.TrimSpace(d.Status),
		AssignedTo:      strings.TrimSpace(d.AssignedTo),
		TotalMinutes:    int(d.TotalMinutes),
		Notes:           d.Notes,
	}

	if wo.ID == "" {
		wo.ID = uuid.NewString()
	}
	if wo.Status == "" {
		wo.Status = models.OrderStatusPending
	}
	if wo.Priority == "" {
		wo.Priority = models.SeverityMedium
	}
	if wo.Type == "" {
		wo.Type = models.OrderTypeCorrective
	}
	if wo.WorkOrderNumber == "" {
		wo.WorkOrderNumber = NewWorkOrderNumber(time.Now().UTC())
	}
	if wo.MachineID == "" {
		wo.MachineID = fault.MachineID
	}

	if wo.AssignedTo != "" && !containsTechnician(candidates, wo.AssignedTo) {
		logger.Warn().
			Str("assigned_to", wo.AssignedTo).
			Str("machine_id", fault.MachineID).
			Msg("generated plan assigned an unknown technician, clearing assignment")
		wo.AssignedTo = ""
	}

	wo.Tasks = make([]models.RepairTask, 0, len(d.Tasks))
	for i, t := range d.Tasks {
		seq := t.Sequence
		if seq == 0 {
			seq = i + 1
		}
		wo.Tasks = append(wo.Tasks, models.RepairTask{
			Sequence:        seq,
			Title:           t.Title,
			Description:     t.Description,
			DurationMinutes: int(t.DurationMinutes),
			RequiredSkills:  t.RequiredSkills,
			SafetyNote:      t.SafetyNote,
		})
	}

	wo.PartsUsed = make([]models.WorkOrderPartUsage, 0, len(d.PartsUsed))
	for _, p := range d.PartsUsed {
		wo.PartsUsed = append(wo.PartsUsed, models.WorkOrderPartUsage{
			PartID:     p.PartID,
			PartNumber: p.PartNumber,
			Quantity:   int(p.Quantity),
		})
	}

	return wo
}

// NewWorkOrderNumber synthesizes WO-YYYYMMDD-XXXX with a random four
// character uppercase suffix.
func NewWorkOrderNumber(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = workOrderSuffixAlphabet[rand.Intn(len(workOrderSuffixAlphabet))]
	}
	return fmt.Sprintf("WO-%s-%s", now.UTC().Format("20060102"), suffix)
}

func containsTechnician(techs []models.Technician, id string) bool {
	for _, t := range techs {
		if t.ID == id {
			return true
		}
	}
	return false
}
