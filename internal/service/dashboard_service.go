package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/dto"
	"github.com/hazrinhakim/project-psm-figma/internal/models"
	"github.com/hazrinhakim/project-psm-figma/internal/repository"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
)

type dashboardAssetReader interface {
	CountAll(ctx context.Context) (int, error)
	ListAll(ctx context.Context) ([]models.Asset, error)
}

type dashboardCategoryReader interface {
	CountAll(ctx context.Context) (int, error)
}

type dashboardMaintenanceReader interface {
	CountPerStatus(ctx context.Context) ([]repository.MaintenanceStatusCount, error)
	CountByRequesterAndStatus(ctx context.Context, userID string, status models.MaintenanceStatus) (int, error)
}

type dashboardFeedbackReader interface {
	CountByStatus(ctx context.Context, status models.FeedbackStatus) (int, error)
}

type dashboardUserReader interface {
	CountAll(ctx context.Context) (int, error)
}

type dashboardNotificationReader interface {
	CountUnread(ctx context.Context, userID string) (int, error)
}

// DashboardService assembles role-scoped overview payloads.
type DashboardService struct {
	assets        dashboardAssetReader
	categories    dashboardCategoryReader
	maintenance   dashboardMaintenanceReader
	feedback      dashboardFeedbackReader
	users         dashboardUserReader
	notifications dashboardNotificationReader
	cache         *CacheService
	cacheTTL      time.Duration
	logger        *zap.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(assets dashboardAssetReader, categories dashboardCategoryReader, maintenance dashboardMaintenanceReader, feedback dashboardFeedbackReader, users dashboardUserReader, notifications dashboardNotificationReader, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{
		assets:        assets,
		categories:    categories,
		maintenance:   maintenance,
		feedback:      feedback,
		users:         users,
		notifications: notifications,
		cache:         cache,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

// AdminOverview returns system-wide totals for admin dashboards.
func (s *DashboardService) AdminOverview(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	const key = "dashboard:admin"
	var cached dto.AdminDashboardResponse
	if s.cache != nil {
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	totalAssets, err := s.assets.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assets")
	}

	totalCategories, err := s.categories.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count categories")
	}

	totalUsers, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count users")
	}

	perStatus, err := s.maintenance.CountPerStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate maintenance")
	}

	openFeedback, err := s.feedback.CountByStatus(ctx, models.FeedbackOpen)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count feedback")
	}

	overview := &dto.AdminDashboardResponse{
		TotalAssets:     totalAssets,
		TotalCategories: totalCategories,
		TotalUsers:      totalUsers,
		OpenFeedback:    openFeedback,
	}
	for _, row := range perStatus {
		switch models.MaintenanceStatus(row.Status) {
		case models.MaintenancePending:
			overview.PendingRequests = row.Count
		case models.MaintenanceInProgress:
			overview.InProgressRequests = row.Count
		case models.MaintenanceResolved:
			overview.ResolvedRequests = row.Count
		}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, overview, s.cacheTTL)
	}
	return overview, nil
}

// StaffOverview returns a staff member's personalised summary.
func (s *DashboardService) StaffOverview(ctx context.Context, userID, fullName string) (*dto.StaffDashboardResponse, error) {
	key := fmt.Sprintf("dashboard:staff:%s", userID)
	var cached dto.StaffDashboardResponse
	if s.cache != nil {
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	assets, err := s.assets.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets")
	}
	assigned := 0
	for _, asset := range assets {
		if MatchesAssignedUser(asset.UserName, fullName) {
			assigned++
		}
	}

	pending, err := s.maintenance.CountByRequesterAndStatus(ctx, userID, models.MaintenancePending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending requests")
	}

	resolved, err := s.maintenance.CountByRequesterAndStatus(ctx, userID, models.MaintenanceResolved)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count resolved requests")
	}

	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread notifications")
	}

	overview := &dto.StaffDashboardResponse{
		AssignedAssets:      assigned,
		MyPendingRequests:   pending,
		MyResolvedRequests:  resolved,
		UnreadNotifications: unread,
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, overview, s.cacheTTL)
	}
	return overview, nil
}
