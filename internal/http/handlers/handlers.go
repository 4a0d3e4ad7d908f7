package handlers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/plantworks/backend/internal/ai"
	"github.com/plantworks/backend/internal/db"
	"github.com/plantworks/backend/internal/models"
	"github.com/plantworks/backend/internal/planner"
)

type Handler struct {
	Store     *db.Store
	Assistant ai.Assistant
	Validator *validator.Validate
	Logger    zerolog.Logger
	AdminKey  string
}

type ImportSummary struct {
	Technicians struct {
		Parsed   int `json:"parsed"`
		Inserted int `json:"inserted"`
		Errors   int `json:"errors"`
	} `json:"technicians"`
	Parts struct {
		Parsed   int `json:"parsed"`
		Inserted int `json:"inserted"`
		Errors   int `json:"errors"`
	} `json:"parts"`
	Errors []string `json:"errors"`
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Plan a work order for a diagnosed fault
// @Description Runs the fault-to-work-order pipeline and persists the result
// @Tags plan
// @Accept json
// @Produce json
// @Param fault body models.DiagnosedFault true "diagnosed fault"
// @Success 201 {object} models.WorkOrder
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/plan [post]
func (h *Handler) PlanWorkOrder(c *gin.Context) {
	var fault models.DiagnosedFault
	if err := c.ShouldBindJSON(&fault); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid fault payload", err.Error())
		return
	}
	if fault.DetectedAt.IsZero() {
		fault.DetectedAt = time.Now().UTC()
	}

	p := &planner.Planner{Store: h.Store, Assistant: h.Assistant, Logger: h.Logger}
	wo, err := p.Plan(c.Request.Context(), fault)
	if errors.Is(err, db.ErrWorkOrderExists) {
		// Retry persistence exactly once with a fresh id. Not a loop.
		h.Logger.Warn().Str("work_order_id", wo.ID).Msg("work order id collision, regenerating")
		wo.ID = uuid.NewString()
		wo, err = p.Persist(c.Request.Context(), wo)
	}
	if err != nil {
		h.writePlanError(c, fault, err)
		return
	}
	c.JSON(http.StatusCreated, wo)
}

func (h *Handler) writePlanError(c *gin.Context, fault models.DiagnosedFault, err error) {
	h.Logger.Error().Err(err).
		Str("machine_id", fault.MachineID).
		Str("fault_type", fault.FaultType).
		Msg("planning failed")

	var invalid *planner.InvalidPlanError
	if errors.As(err, &invalid) {
		writeError(c, http.StatusBadGateway, "INVALID_PLAN", "Generated plan not parseable", invalid.Err.Error())
		return
	}
	var rate ai.RateLimitError
	if errors.As(err, &rate) {
		writeError(c, http.StatusTooManyRequests, "RATE_LIMITED", "Generation service rate limited", rate.Error())
		return
	}
	if errors.Is(err, db.ErrWorkOrderExists) {
		writeError(c, http.StatusConflict, "CONFLICT", "Work order id collision persisted twice", err.Error())
		return
	}
	writeError(c, http.StatusInternalServerError, "PLANNING_ERROR", "Planning failed", err.Error())
}

// @Summary List technicians
// @Tags resources
// @Produce json
// @Param status query string false "filter by status"
// @Success 200 {array} models.Technician
// @Router /api/technicians [get]
func (h *Handler) TechniciansList(c *gin.Context) {
	techs, err := h.Store.ListTechniciansByStatus(c.Request.Context(), c.Query("status"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list technicians", err.Error())
		return
	}
	if techs == nil {
		techs = []models.Technician{}
	}
	c.JSON(http.StatusOK, techs)
}

// @Summary List parts
// @Tags resources
// @Produce json
// @Param numbers query string false "comma separated part numbers"
// @Success 200 {array} models.Part
// @Router /api/parts [get]
func (h *Handler) PartsList(c *gin.Context) {
	var (
		parts []models.Part
		err   error
	)
	if raw := strings.TrimSpace(c.Query("numbers")); raw != "" {
		parts, err = h.Store.ListPartsByNumbers(c.Request.Context(), splitList(raw))
	} else {
		parts, err = h.Store.ListParts(c.Request.Context())
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list parts", err.Error())
		return
	}
	if parts == nil {
		parts = []models.Part{}
	}
	c.JSON(http.StatusOK, parts)
}

// @Summary List work orders
// @Tags work-orders
// @Produce json
// @Param status query string false "filter by status"
// @Param machine_id query string false "filter by machine"
// @Success 200 {array} models.WorkOrder
// @Router /api/work-orders [get]
func (h *Handler) WorkOrdersList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	orders, err := h.Store.ListWorkOrders(c.Request.Context(), c.Query("status"), c.Query("machine_id"), limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list work orders", err.Error())
		return
	}
	if orders == nil {
		orders = []models.WorkOrder{}
	}
	c.JSON(http.StatusOK, orders)
}

// @Summary Work order details
// @Tags work-orders
// @Produce json
// @Param id path string true "work order id"
// @Success 200 {object} models.WorkOrder
// @Failure 404 {object} map[string]any
// @Router /api/work-orders/{id} [get]
func (h *Handler) WorkOrderDetails(c *gin.Context) {
	wo, err := h.Store.GetWorkOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Work order not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load work order", err.Error())
		return
	}
	c.JSON(http.StatusOK, wo)
}

// @Summary Import CSV data
// @Description Upload technicians and parts CSV files
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param technicians formData file true "technicians.csv"
// @Param parts formData file true "parts.csv"
// @Success 200 {object} ImportSummary
// @Failure 400 {object} map[string]any
// @Router /api/import [post]
func (h *Handler) Import(c *gin.Context) {
	techFile, err := c.FormFile("technicians")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "technicians file required", nil)
		return
	}
	partsFile, err := c.FormFile("parts")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "parts file required", nil)
		return
	}
	if !validateExt(techFile.Filename) || !validateExt(partsFile.Filename) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "all files must be .csv", nil)
		return
	}

	summary := ImportSummary{Errors: []string{}}

	techs, errs := h.parseTechniciansCSV(techFile)
	summary.Technicians.Parsed = len(techs)
	summary.Technicians.Errors = len(errs)
	summary.Errors = append(summary.Errors, errs...)

	parts, errs := h.parsePartsCSV(partsFile)
	summary.Parts.Parsed = len(parts)
	summary.Parts.Errors = len(errs)
	summary.Errors = append(summary.Errors, errs...)

	if len(summary.Errors) > 0 {
		writeError(c, http.StatusBadRequest, "CSV_PARSE_ERROR", "CSV validation errors", summary.Errors)
		return
	}

	ctx := c.Request.Context()
	err = h.Store.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `TRUNCATE technicians, parts`)
		return err
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to reset tables", err.Error())
		return
	}

	inserted, err := h.Store.InsertTechnicians(ctx, techs)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to insert technicians", err.Error())
		return
	}
	summary.Technicians.Inserted = int(inserted)

	inserted, err = h.Store.InsertParts(ctx, parts)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to insert parts", err.Error())
		return
	}
	summary.Parts.Inserted = int(inserted)

	c.JSON(http.StatusOK, summary)
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func (h *Handler) parseTechniciansCSV(file *multipart.FileHeader) ([]models.Technician, []string) {
	f, err := file.Open()
	if err != nil {
		return nil, []string{err.Error()}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, []string{"failed to read header"}
	}
	index := headerIndex(headers)
	var errs []string
	var out []models.Technician

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}

		years, _ := strconv.Atoi(getFieldAny(rec, index, "years_experience", "experience"))
		status := strings.ToLower(getFieldAny(rec, index, "status"))
		if status == "" {
			status = models.TechAvailable
		}

		t := models.Technician{
			ID:              getFieldAny(rec, index, "id", "technician_id"),
			Name:            getFieldAny(rec, index, "name"),
			Department:      getFieldAny(rec, index, "department"),
			Skills:          splitList(getFieldAny(rec, index, "skills")),
			Certifications:  splitList(getFieldAny(rec, index, "certifications")),
			YearsExperience: years,
			Status:          status,
			Shift:           getFieldAny(rec, index, "shift"),
			Contact: models.Contact{
				Email: getFieldAny(rec, index, "email"),
				Phone: getFieldAny(rec, index, "phone"),
			},
			UpdatedAt: time.Now().UTC(),
		}
		if t.ID == "" {
			t.ID = fmt.Sprintf("TECH-%03d", len(out)+1)
		}
		if err := h.Validator.Struct(t); err != nil {
			errs = append(errs, fmt.Sprintf("technician %s: %v", t.ID, err))
			continue
		}
		out = append(out, t)
	}
	return out, errs
}

func (h *Handler) parsePartsCSV(file *multipart.FileHeader) ([]models.Part, []string) {
	f, err := file.Open()
	if err != nil {
		return nil, []string{err.Error()}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, []string{"failed to read header"}
	}
	index := headerIndex(headers)
	var errs []string
	var out []models.Part

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}

		qty, _ := strconv.Atoi(getFieldAny(rec, index, "quantity", "quantity_available"))
		reorder, _ := strconv.Atoi(getFieldAny(rec, index, "reorder_point"))
		leadTime, _ := strconv.Atoi(getFieldAny(rec, index, "lead_time_days", "lead_time"))
		cost, _ := strconv.ParseFloat(getFieldAny(rec, index, "unit_cost", "cost"), 64)

		p := models.Part{
			ID:           getFieldAny(rec, index, "id", "part_id"),
			PartNumber:   getFieldAny(rec, index, "part_number", "number"),
			Name:         getFieldAny(rec, index, "name"),
			Description:  getFieldAny(rec, index, "description"),
			Category:     getFieldAny(rec, index, "category"),
			Quantity:     qty,
			ReorderPoint: reorder,
			UnitCost:     cost,
			Location:     getFieldAny(rec, index, "location", "storage_location"),
			Supplier:     getFieldAny(rec, index, "supplier"),
			LeadTimeDays: leadTime,
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("PART-%03d", len(out)+1)
		}
		if err := h.Validator.Struct(p); err != nil {
			errs = append(errs, fmt.Sprintf("part %s: %v", p.ID, err))
			continue
		}
		out = append(out, p)
	}
	return out, errs
}

func headerIndex(headers []string) map[string]int {
	idx := map[string]int{}
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func getFieldAny(rec []string, idx map[string]int, names ...string) string {
	for _, name := range names {
		if i, ok := idx[name]; ok && i < len(rec) {
			if v := strings.TrimSpace(rec[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

func splitList(raw string) []string {
	raw = strings.ReplaceAll(raw, ";", ",")
	parts := strings.Split(raw, ",")
	seen := map[string]struct{}{}
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func validateExt(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".csv"
}
