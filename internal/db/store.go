package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plantworks/backend/internal/models"
)

// ErrWorkOrderExists is returned when a work order id collides with an
// already persisted record.
var ErrWorkOrderExists = errors.New("work order already exists")

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) InsertTechnicians(ctx context.Context, techs []models.Technician) (int64, error) {
	rows := make([][]any, 0, len(techs))
	for _, t := range techs {
		rows = append(rows, []any{t.ID, t.Name, t.Department, t.Skills, t.Certifications, t.YearsExperience, t.Status, t.Shift, t.Contact.Email, t.Contact.Phone, t.UpdatedAt})
	}
	copyCount, err := s.Pool.CopyFrom(ctx, pgx.Identifier{"technicians"}, []string{"id", "name", "department", "skills", "certifications", "years_experience", "status", "shift", "email", "phone", "updated_at"}, pgx.CopyFromRows(rows))
	return copyCount, err
}

func (s *Store) InsertParts(ctx context.Context, parts []models.Part) (int64, error) {
	rows := make([][]any, 0, len(parts))
	for _, p := range parts {
		rows = append(rows, []any{p.ID, p.PartNumber, p.Name, p.Description, p.Category, p.Quantity, p.ReorderPoint, p.UnitCost, p.Location, p.Supplier, p.LeadTimeDays})
	}
	copyCount, err := s.Pool.CopyFrom(ctx, pgx.Identifier{"parts"}, []string{"id", "part_number", "name", "description", "category", "quantity", "reorder_point", "unit_cost", "location", "supplier", "lead_time_days"}, pgx.CopyFromRows(rows))
	return copyCount, err
}

func (s *Store) ListTechniciansByStatus(ctx context.Context, status string) ([]models.Technician, error) {
	query := `SELECT id, name, department, skills, certifications, years_experience, status, shift, email, phone, updated_at FROM technicians`
	var args []any
	if status != "" {
		args = append(args, status)
		query += " WHERE status = $1"
	}
	query += " ORDER BY id ASC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Technician
	for rows.Next() {
		var t models.Technician
		if err := rows.Scan(&t.ID, &t.Name, &t.Department, &t.Skills, &t.Certifications, &t.YearsExperience, &t.Status, &t.Shift, &t.Contact.Email, &t.Contact.Phone, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) ListPartsByNumbers(ctx context.Context, numbers []string) ([]models.Part, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, part_number, name, description, category, quantity, reorder_point, unit_cost, location, supplier, lead_time_days FROM parts WHERE part_number = ANY($1) ORDER BY part_number ASC`, numbers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParts(rows)
}

func (s *Store) ListParts(ctx context.Context) ([]models.Part, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, part_number, name, description, category, quantity, reorder_point, unit_cost, location, supplier, lead_time_days FROM parts ORDER BY part_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParts(rows)
}

func scanParts(rows pgx.Rows) ([]models.Part, error) {
	var out []models.Part
	for rows.Next() {
		var p models.Part
		if err := rows.Scan(&p.ID, &p.PartNumber, &p.Name, &p.Description, &p.Category, &p.Quantity, &p.ReorderPoint, &p.UnitCost, &p.Location, &p.Supplier, &p.LeadTimeDays); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateWorkOrder(ctx context.Context, wo models.WorkOrder) error {
	tasksJSON, err := json.Marshal(wo.Tasks)
	if err != nil {
		return err
	}
	partsJSON, err := json.Marshal(wo.PartsUsed)
	if err != nil {
		return err
	}

	_, err = s.Pool.Exec(ctx, `
		INSERT INTO work_orders (id, work_order_number, machine_id, title, description, type, priority, status, assigned_to, created_at, total_minutes, tasks, parts_used, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULLIF($9,''),$10,$11,$12,$13,$14)
	`, wo.ID, wo.WorkOrderNumber, wo.MachineID, wo.Title, wo.Description, wo.Type, wo.Priority, wo.Status, wo.AssignedTo, wo.CreatedAt, wo.TotalMinutes, tasksJSON, partsJSON, wo.Notes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", ErrWorkOrderExists, wo.ID)
		}
		return err
	}
	return nil
}

func (s *Store) GetWorkOrder(ctx context.Context, id string) (models.WorkOrder, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, work_order_number, machine_id, title, description, type, priority, status, COALESCE(assigned_to, ''), created_at, total_minutes, tasks, parts_used, notes
		FROM work_orders WHERE id = $1
	`, id)
	return scanWorkOrder(row)
}

func (s *Store) ListWorkOrders(ctx context.Context, status, machineID string, limit, offset int) ([]models.WorkOrder, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, work_order_number, machine_id, title, description, type, priority, status, COALESCE(assigned_to, ''), created_at, total_minutes, tasks, parts_used, notes FROM work_orders`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if machineID != "" {
		args = append(args, machineID)
		wheres = append(wheres, fmt.Sprintf("machine_id = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wo)
	}
	return out, rows.Err()
}

func scanWorkOrder(row pgx.Row) (models.WorkOrder, error) {
	var (
		wo        models.WorkOrder
		tasksJSON []byte
		partsJSON []byte
	)
	if err := row.Scan(&wo.ID, &wo.WorkOrderNumber, &wo.MachineID, &wo.Title, &wo.Description, &wo.Type, &wo.Priority, &wo.Status, &wo.AssignedTo, &wo.CreatedAt, &wo.TotalMinutes, &tasksJSON, &partsJSON, &wo.Notes); err != nil {
		return models.WorkOrder{}, err
	}
	if len(tasksJSON) > 0 {
		if err := json.Unmarshal(tasksJSON, &wo.Tasks); err != nil {
			return models.WorkOrder{}, err
		}
	}
	if len(partsJSON) > 0 {
		if err := json.Unmarshal(partsJSON, &wo.PartsUsed); err != nil {
			return models.WorkOrder{}, err
		}
	}
	if wo.Tasks == nil {
		wo.Tasks = []models.RepairTask{}
	}
	if wo.PartsUsed == nil {
		wo.PartsUsed = []models.WorkOrderPartUsage{}
	}
	return wo, nil
}
