package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
)

const maintenanceColumns = `m.id, m.asset_id, m.requested_by, m.title, m.description, m.status, m.admin_remark, m.created_at, m.updated_at, a.asset_no, a.asset_name, p.full_name AS requester_name`

const maintenanceJoins = `FROM maintenance_requests m LEFT JOIN assets a ON a.id = m.asset_id LEFT JOIN profiles p ON p.id = m.requested_by`

// MaintenanceRepository handles persistence for maintenance requests.
type MaintenanceRepository struct {
	db *sqlx.DB
}

// NewMaintenanceRepository creates a new repository instance.
func NewMaintenanceRepository(db *sqlx.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// List returns requests with asset and requester context joined in.
func (r *MaintenanceRepository) List(ctx context.Context, filter models.MaintenanceFilter) ([]models.MaintenanceRequest, int, error) {
	base := maintenanceJoins + " WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("m.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.AssetID != "" {
		conditions = append(conditions, fmt.Sprintf("m.asset_id = $%d", len(args)+1))
		args = append(args, filter.AssetID)
	}
	if filter.RequestedBy != "" {
		conditions = append(conditions, fmt.Sprintf("m.requested_by = $%d", len(args)+1))
		args = append(args, filter.RequestedBy)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"created_at": "m.created_at",
		"updated_at": "m.updated_at",
		"status":     "m.status",
	}
	sortColumn, ok := allowedSorts[sortBy]
	if !ok {
		sortColumn = "m.created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", maintenanceColumns, base, sortColumn, order, size, offset)
	var requests []models.MaintenanceRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list maintenance requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count maintenance requests: %w", err)
	}

	return requests, total, nil
}

// FindByID returns a request by id with joined context.
func (r *MaintenanceRepository) FindByID(ctx context.Context, id string) (*models.MaintenanceRequest, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE m.id = $1 LIMIT 1", maintenanceColumns, maintenanceJoins)
	var request models.MaintenanceRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find maintenance request by id: %w", err)
	}
	return &request, nil
}

// Create persists a new maintenance request.
func (r *MaintenanceRepository) Create(ctx context.Context, request *models.MaintenanceRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now

	const query = `INSERT INTO maintenance_requests (id, asset_id, requested_by, title, description, status, admin_remark, created_at, updated_at) VALUES (:id, :asset_id, :requested_by, :title, :description, :status, :admin_remark, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create maintenance request: %w", err)
	}
	return nil
}

// UpdateStatus persists a status transition with its remark.
func (r *MaintenanceRepository) UpdateStatus(ctx context.Context, id string, status models.MaintenanceStatus, adminRemark string, updatedAt time.Time) error {
	const query = `UPDATE maintenance_requests SET status = $2, admin_remark = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, adminRemark, updatedAt); err != nil {
		return fmt.Errorf("update maintenance status: %w", err)
	}
	return nil
}

// MaintenanceStatusCount is one GROUP BY row for the status aggregate.
type MaintenanceStatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

// CountPerStatus aggregates requests per workflow status.
func (r *MaintenanceRepository) CountPerStatus(ctx context.Context) ([]MaintenanceStatusCount, error) {
	const query = `SELECT status, COUNT(*) AS count FROM maintenance_requests GROUP BY status`
	var counts []MaintenanceStatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count maintenance per status: %w", err)
	}
	return counts, nil
}

// MaintenanceMonthlyRow is one request's creation date and status, used
// for monthly histogram bucketing.
type MaintenanceMonthlyRow struct {
	CreatedAt string `db:"created_at"`
	Status    string `db:"status"`
}

// ListCreatedAtWithStatus returns every request's creation date and
// status. Dates come back as ISO strings so bucketing owns the parse.
func (r *MaintenanceRepository) ListCreatedAtWithStatus(ctx context.Context) ([]MaintenanceMonthlyRow, error) {
	const query = `SELECT to_char(created_at, 'YYYY-MM-DD') AS created_at, status FROM maintenance_requests`
	var rows []MaintenanceMonthlyRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list maintenance creation dates: %w", err)
	}
	return rows, nil
}

// CountAll returns the total number of maintenance requests.
func (r *MaintenanceRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM maintenance_requests`); err != nil {
		return 0, fmt.Errorf("count maintenance requests: %w", err)
	}
	return count, nil
}

// CountByRequesterAndStatus counts a user's requests in one status.
func (r *MaintenanceRepository) CountByRequesterAndStatus(ctx context.Context, userID string, status models.MaintenanceStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM maintenance_requests WHERE requested_by = $1 AND status = $2`, userID, status); err != nil {
		return 0, fmt.Errorf("count maintenance by requester: %w", err)
	}
	return count, nil
}
