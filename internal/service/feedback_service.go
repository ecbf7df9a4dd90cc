package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
	"github.com/hazrinhakim/project-psm-figma/pkg/optimistic"
)

type feedbackRepository interface {
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error)
	FindByID(ctx context.Context, id string) (*models.Feedback, error)
	Create(ctx context.Context, entry *models.Feedback) error
	UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus) error
}

// CreateFeedbackInput captures a feedback submission.
type CreateFeedbackInput struct {
	Message string `json:"message" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// FeedbackService handles feedback submission and review.
type FeedbackService struct {
	repo      feedbackRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(repo feedbackRepository, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated feedback entries.
func (s *FeedbackService) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, *models.Pagination, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return entries, pagination, nil
}

// Create records a feedback entry. The submitter's role is captured at
// submission time.
func (s *FeedbackService) Create(ctx context.Context, userID string, role models.UserRole, email string, input CreateFeedbackInput) (*models.Feedback, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	if input.Email == "" {
		input.Email = email
	}

	entry := &models.Feedback{
		CreatedBy: userID,
		Role:      role,
		Email:     input.Email,
		Message:   input.Message,
		Status:    models.FeedbackOpen,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create feedback")
	}
	return entry, nil
}

// MarkReviewed moves an open feedback entry to reviewed through the
// snapshot/rollback helper.
func (s *FeedbackService) MarkReviewed(ctx context.Context, id string) (*models.Feedback, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}

	err = optimistic.Update(entry,
		func(f models.Feedback) models.Feedback { return f },
		func(f *models.Feedback) { f.Status = models.FeedbackReviewed },
		func(f models.Feedback) error { return s.repo.UpdateStatus(ctx, f.ID, f.Status) },
	)
	if err != nil {
		return entry, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update feedback")
	}
	return entry, nil
}
