package models

import "time"

const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

const (
	TechAvailable = "available"
	TechBusy      = "busy"
	TechOffShift  = "off-shift"
)

const (
	OrderTypeCorrective = "corrective"
	OrderTypePreventive = "preventive"
	OrderTypeEmergency  = "emergency"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
)

type DiagnosedFault struct {
	MachineID          string    `json:"machine_id" binding:"required"`
	FaultType          string    `json:"fault_type" binding:"required"`
	Severity           string    `json:"severity" binding:"required,oneof=critical high medium low"`
	Description        string    `json:"description"`
	DetectedAt         time.Time `json:"detected_at"`
	RecommendedActions []string  `json:"recommended_actions"`
	EstimatedDowntime  int       `json:"estimated_downtime_minutes" binding:"gte=0"`
}

type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Technician struct {
	ID              string    `json:"id" validate:"required"`
	Name            string    `json:"name" validate:"required"`
	Department      string    `json:"department"`
	Skills          []string  `json:"skills"`
	Certifications  []string  `json:"certifications"`
	YearsExperience int       `json:"years_experience" validate:"gte=0"`
	Status          string    `json:"status"`
	Shift           string    `json:"shift"`
	Contact         Contact   `json:"contact"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Part struct {
	ID           string  `json:"id" validate:"required"`
	PartNumber   string  `json:"part_number" validate:"required"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Quantity     int     `json:"quantity" validate:"gte=0"`
	ReorderPoint int     `json:"reorder_point"`
	UnitCost     float64 `json:"unit_cost" validate:"gte=0"`
	Location     string  `json:"location"`
	Supplier     string  `json:"supplier"`
	LeadTimeDays int     `json:"lead_time_days"`
}

type RepairTask struct {
	Sequence        int      `json:"sequence"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"estimated_duration_minutes"`
	RequiredSkills  []string `json:"required_skills"`
	SafetyNote      string   `json:"safety_note,omitempty"`
}

type WorkOrderPartUsage struct {
	PartID     string `json:"part_id"`
	PartNumber string `json:"part_number"`
	Quantity   int    `json:"quantity"`
}

// WorkOrder is the persisted repair plan. Status doubles as the store's
// partition field.
type WorkOrder struct {
	ID              string               `json:"id"`
	WorkOrderNumber string               `json:"work_order_number"`
	MachineID       string               `json:"machine_id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Type            string               `json:"type"`
	Priority        string               `json:"priority"`
	Status          string               `json:"status"`
	AssignedTo      string               `json:"assigned_to,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	TotalMinutes    int                  `json:"total_estimated_duration_minutes"`
	Tasks           []RepairTask         `json:"tasks"`
	PartsUsed       []WorkOrderPartUsage `json:"parts_used"`
	Notes           string               `json:"notes"`
}
