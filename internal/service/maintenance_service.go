package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
	"github.com/hazrinhakim/project-psm-figma/pkg/optimistic"
)

type maintenanceRepository interface {
	List(ctx context.Context, filter models.MaintenanceFilter) ([]models.MaintenanceRequest, int, error)
	FindByID(ctx context.Context, id string) (*models.MaintenanceRequest, error)
	Create(ctx context.Context, request *models.MaintenanceRequest) error
	UpdateStatus(ctx context.Context, id string, status models.MaintenanceStatus, adminRemark string, updatedAt time.Time) error
}

type maintenanceAssetReader interface {
	FindByID(ctx context.Context, id string) (*models.Asset, error)
}

type maintenanceProfileReader interface {
	ListByRoles(ctx context.Context, roles ...models.UserRole) ([]models.Profile, error)
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

type notificationWriter interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// CreateMaintenanceRequestInput captures a staff submission.
type CreateMaintenanceRequestInput struct {
	AssetID     string `json:"assetId" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// UpdateMaintenanceStatusInput captures an admin transition.
type UpdateMaintenanceStatusInput struct {
	Status      models.MaintenanceStatus `json:"status" validate:"required"`
	AdminRemark string                   `json:"adminRemark"`
}

// MaintenanceService handles the maintenance workflow and its
// notification side effects.
type MaintenanceService struct {
	repo          maintenanceRepository
	assets        maintenanceAssetReader
	profiles      maintenanceProfileReader
	notifications notificationWriter
	cache         assetCacheInvalidator
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewMaintenanceService creates a new maintenance service.
func NewMaintenanceService(repo maintenanceRepository, assets maintenanceAssetReader, profiles maintenanceProfileReader, notifications notificationWriter, cache assetCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *MaintenanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceService{
		repo:          repo,
		assets:        assets,
		profiles:      profiles,
		notifications: notifications,
		cache:         cache,
		validator:     validate,
		logger:        logger,
	}
}

// List returns paginated maintenance requests.
func (s *MaintenanceService) List(ctx context.Context, filter models.MaintenanceFilter) ([]models.MaintenanceRequest, *models.Pagination, error) {
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list maintenance requests")
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
	return requests, pagination, nil
}

// Get returns a maintenance request by identifier.
func (s *MaintenanceService) Get(ctx context.Context, id string) (*models.MaintenanceRequest, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "maintenance request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load maintenance request")
	}
	return request, nil
}

// Create persists a Pending request, then fans out one notification per
// administrator. Fan-out failures are logged and swallowed; zero admins
// means zero notifications and still a successful submission.
func (s *MaintenanceService) Create(ctx context.Context, requesterID string, input CreateMaintenanceRequestInput) (*models.MaintenanceRequest, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid maintenance payload")
	}

	asset, err := s.assets.FindByID(ctx, input.AssetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}

	request := &models.MaintenanceRequest{
		AssetID:     asset.ID,
		RequestedBy: requesterID,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.MaintenancePending,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create maintenance request")
	}

	s.notifyAdmins(ctx, asset, s.requesterName(ctx, requesterID))
	s.invalidate(ctx)
	return request, nil
}

// UpdateStatus enforces the forward-only workflow, persists the
// transition and emits exactly one notification to the requester. The
// notification interpolates the asset label and the new status; its
// failure never rolls back the committed update.
func (s *MaintenanceService) UpdateStatus(ctx context.Context, id string, input UpdateMaintenanceStatusInput) (*models.MaintenanceRequest, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !input.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown maintenance status")
	}

	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !request.Status.CanTransitionTo(input.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move from %s to %s", request.Status, input.Status))
	}

	now := time.Now().UTC()
	err = optimistic.Update(request,
		func(r models.MaintenanceRequest) models.MaintenanceRequest { return r },
		func(r *models.MaintenanceRequest) {
			r.Status = input.Status
			r.AdminRemark = input.AdminRemark
			r.UpdatedAt = now
		},
		func(r models.MaintenanceRequest) error {
			return s.repo.UpdateStatus(ctx, r.ID, r.Status, r.AdminRemark, r.UpdatedAt)
		},
	)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update maintenance status")
	}

	message := fmt.Sprintf("Your maintenance request for %s has been updated to: %s", request.AssetLabel(), request.Status)
	if err := s.notifications.Create(ctx, &models.Notification{
		UserID:  request.RequestedBy,
		Message: message,
		Type:    models.NotificationMaintenance,
	}); err != nil {
		s.logger.Warn("failed to notify requester of status change",
			zap.String("request_id", request.ID),
			zap.Error(err),
		)
	}

	s.invalidate(ctx)
	return request, nil
}

// requesterName resolves the submitter's display name for the fan-out
// message. A missing profile falls back to a generic label rather than
// blocking the submission.
func (s *MaintenanceService) requesterName(ctx context.Context, requesterID string) string {
	profile, err := s.profiles.FindByID(ctx, requesterID)
	if err != nil || profile.FullName == "" {
		if err != nil {
			s.logger.Warn("failed to resolve requester profile for fan-out",
				zap.String("requester_id", requesterID),
				zap.Error(err),
			)
		}
		return "a staff member"
	}
	return profile.FullName
}

func (s *MaintenanceService) notifyAdmins(ctx context.Context, asset *models.Asset, requesterName string) {
	admins, err := s.profiles.ListByRoles(ctx, models.RoleAdmin, models.RoleAdminAssistant)
	if err != nil {
		s.logger.Warn("failed to list administrators for fan-out", zap.Error(err))
		return
	}

	message := fmt.Sprintf("New maintenance request from %s for %s", requesterName, asset.Label())
	for _, admin := range admins {
		if err := s.notifications.Create(ctx, &models.Notification{
			UserID:  admin.ID,
			Message: message,
			Type:    models.NotificationMaintenance,
		}); err != nil {
			s.logger.Warn("failed to notify administrator",
				zap.String("admin_id", admin.ID),
				zap.Error(err),
			)
		}
	}
}

func (s *MaintenanceService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateReports(ctx)
	}
}
