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

const feedbackColumns = `f.id, f.created_by, f.role, f.email, f.message, f.status, f.created_at, p.full_name AS author_name`

// FeedbackRepository handles persistence for feedback entries.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository creates a new repository instance.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// List returns feedback entries with author names joined in.
func (r *FeedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	base := "FROM feedback f LEFT JOIN profiles p ON p.id = f.created_by WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("f.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.CreatedBy != "" {
		conditions = append(conditions, fmt.Sprintf("f.created_by = $%d", len(args)+1))
		args = append(args, filter.CreatedBy)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY f.created_at %s LIMIT %d OFFSET %d", feedbackColumns, base, order, size, offset)
	var entries []models.Feedback
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}

	return entries, total, nil
}

// FindByID returns a feedback entry by id.
func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*models.Feedback, error) {
	query := fmt.Sprintf("SELECT %s FROM feedback f LEFT JOIN profiles p ON p.id = f.created_by WHERE f.id = $1 LIMIT 1", feedbackColumns)
	var entry models.Feedback
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find feedback by id: %w", err)
	}
	return &entry, nil
}

// Create persists a new feedback entry.
func (r *FeedbackRepository) Create(ctx context.Context, entry *models.Feedback) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = models.FeedbackOpen
	}
	const query = `INSERT INTO feedback (id, created_by, role, email, message, status, created_at) VALUES (:id, :created_by, :role, :email, :message, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// UpdateStatus moves a feedback entry to a new review state.
func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE feedback SET status = $2 WHERE id = $1`, id, status); err != nil {
		return fmt.Errorf("update feedback status: %w", err)
	}
	return nil
}

// CountByStatus counts feedback entries in one review state.
func (r *FeedbackRepository) CountByStatus(ctx context.Context, status models.FeedbackStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM feedback WHERE status = $1`, status); err != nil {
		return 0, fmt.Errorf("count feedback by status: %w", err)
	}
	return count, nil
}
