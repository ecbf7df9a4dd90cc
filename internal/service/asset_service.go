package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
)

type assetRepository interface {
	List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, int, error)
	ListAll(ctx context.Context) ([]models.Asset, error)
	FindByID(ctx context.Context, id string) (*models.Asset, error)
	FindByAssetNo(ctx context.Context, assetNo string) (*models.Asset, error)
	Create(ctx context.Context, asset *models.Asset) error
	Update(ctx context.Context, id string, patch models.AssetPatch) error
	Delete(ctx context.Context, id string) (bool, error)
}

type assetCategoryChecker interface {
	FindByID(ctx context.Context, id string) (*models.AssetCategory, error)
}

type assetCacheInvalidator interface {
	InvalidateReports(ctx context.Context)
}

// CreateAssetRequest captures fields for registering an asset.
type CreateAssetRequest struct {
	AssetNo      string  `json:"assetNo" validate:"required"`
	AssetName    string  `json:"assetName" validate:"required"`
	Year         int     `json:"year"`
	Department   string  `json:"department"`
	Unit         string  `json:"unit"`
	UserName     string  `json:"userName"`
	Price        float64 `json:"price"`
	Supplier     string  `json:"supplier"`
	Source       string  `json:"source"`
	SerialNo     string  `json:"serialNo"`
	PurchaseDate string  `json:"purchaseDate"`

	MonitorModel    string `json:"monitorModel"`
	MonitorSerialNo string `json:"monitorSerialNo"`
	MonitorAssetNo  string `json:"monitorAssetNo"`

	KeyboardModel    string `json:"keyboardModel"`
	KeyboardSerialNo string `json:"keyboardSerialNo"`
	KeyboardAssetNo  string `json:"keyboardAssetNo"`

	MouseModel    string `json:"mouseModel"`
	MouseSerialNo string `json:"mouseSerialNo"`
	MouseAssetNo  string `json:"mouseAssetNo"`

	CategoryID string `json:"categoryId"`
}

// AssetService handles asset domain workflows.
type AssetService struct {
	repo       assetRepository
	categories assetCategoryChecker
	cache      assetCacheInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAssetService creates a new asset service.
func NewAssetService(repo assetRepository, categories assetCategoryChecker, cache assetCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AssetService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetService{repo: repo, categories: categories, cache: cache, validator: validate, logger: logger}
}

// List returns paginated assets.
func (s *AssetService) List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, *models.Pagination, error) {
	assets, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets")
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
	return assets, pagination, nil
}

// Get returns an asset by identifier.
func (s *AssetService) Get(ctx context.Context, id string) (*models.Asset, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}
	return asset, nil
}

// ListAssignedTo returns the assets whose free-text assignment matches
// the given person's name.
func (s *AssetService) ListAssignedTo(ctx context.Context, fullName string) ([]models.Asset, error) {
	assets, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets")
	}

	matched := make([]models.Asset, 0)
	for _, asset := range assets {
		if MatchesAssignedUser(asset.UserName, fullName) {
			matched = append(matched, asset)
		}
	}
	return matched, nil
}

// Create registers a new asset, checking the category reference first.
func (s *AssetService) Create(ctx context.Context, req CreateAssetRequest) (*models.Asset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid asset payload")
	}

	req.AssetNo = strings.TrimSpace(req.AssetNo)

	var categoryID *string
	if req.CategoryID != "" {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		categoryID = &req.CategoryID
	}

	asset := &models.Asset{
		AssetNo:          req.AssetNo,
		AssetName:        req.AssetName,
		Year:             req.Year,
		Department:       req.Department,
		Unit:             req.Unit,
		UserName:         req.UserName,
		Price:            req.Price,
		Supplier:         req.Supplier,
		Source:           req.Source,
		SerialNo:         req.SerialNo,
		PurchaseDate:     req.PurchaseDate,
		MonitorModel:     req.MonitorModel,
		MonitorSerialNo:  req.MonitorSerialNo,
		MonitorAssetNo:   req.MonitorAssetNo,
		KeyboardModel:    req.KeyboardModel,
		KeyboardSerialNo: req.KeyboardSerialNo,
		KeyboardAssetNo:  req.KeyboardAssetNo,
		MouseModel:       req.MouseModel,
		MouseSerialNo:    req.MouseSerialNo,
		MouseAssetNo:     req.MouseAssetNo,
		CategoryID:       categoryID,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create asset")
	}

	s.invalidate(ctx)
	return asset, nil
}

// Update applies a presence-based partial patch to an asset.
func (s *AssetService) Update(ctx context.Context, id string, patch models.AssetPatch) (*models.Asset, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if patch.CategoryID != nil && *patch.CategoryID != "" {
		if err := s.checkCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update asset")
	}

	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete removes an asset. A missing id surfaces as not-found.
func (s *AssetService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete asset")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "asset not found")
	}

	s.invalidate(ctx)
	return nil
}

func (s *AssetService) checkCategory(ctx context.Context, categoryID string) error {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "category does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category")
	}
	return nil
}

func (s *AssetService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateReports(ctx)
	}
}
