package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
)

type fakeAssetRepo struct {
	assets  map[string]*models.Asset
	nextID  int
	patched map[string]models.AssetPatch
}

func (f *fakeAssetRepo) List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, int, error) {
	all, _ := f.ListAll(ctx)
	return all, len(all), nil
}

func (f *fakeAssetRepo) ListAll(ctx context.Context) ([]models.Asset, error) {
	out := make([]models.Asset, 0, len(f.assets))
	for _, a := range f.assets {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAssetRepo) FindByID(ctx context.Context, id string) (*models.Asset, error) {
	a, ok := f.assets[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *a
	return &clone, nil
}

func (f *fakeAssetRepo) FindByAssetNo(ctx context.Context, assetNo string) (*models.Asset, error) {
	for _, a := range f.assets {
		if a.AssetNo == assetNo {
			clone := *a
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAssetRepo) Create(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		f.nextID++
		asset.ID = "a-created"
	}
	if f.assets == nil {
		f.assets = make(map[string]*models.Asset)
	}
	f.assets[asset.ID] = asset
	return nil
}

func (f *fakeAssetRepo) Update(ctx context.Context, id string, patch models.AssetPatch) error {
	if f.patched == nil {
		f.patched = make(map[string]models.AssetPatch)
	}
	f.patched[id] = patch
	if a, ok := f.assets[id]; ok {
		if patch.AssetName != nil {
			a.AssetName = *patch.AssetName
		}
		if patch.UserName != nil {
			a.UserName = *patch.UserName
		}
	}
	return nil
}

func (f *fakeAssetRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.assets[id]; !ok {
		return false, nil
	}
	delete(f.assets, id)
	return true, nil
}

type fakeCategoryChecker struct {
	categories map[string]*models.AssetCategory
}

func (f *fakeCategoryChecker) FindByID(ctx context.Context, id string) (*models.AssetCategory, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

type fakeCacheInvalidator struct {
	calls int
}

func (f *fakeCacheInvalidator) InvalidateReports(ctx context.Context) { f.calls++ }

func newAssetFixture() (*AssetService, *fakeAssetRepo, *fakeCacheInvalidator) {
	repo := &fakeAssetRepo{assets: map[string]*models.Asset{
		"a1": {ID: "a1", AssetNo: "ICT/001", AssetName: "Dell OptiPlex", UserName: "Nur Aisyah Binti Hamid"},
		"a2": {ID: "a2", AssetNo: "ICT/002", AssetName: "HP LaserJet", UserName: "Ahmad Faizal"},
	}}
	categories := &fakeCategoryChecker{categories: map[string]*models.AssetCategory{
		"cat-1": {ID: "cat-1", Name: "Laptop"},
	}}
	cache := &fakeCacheInvalidator{}
	return NewAssetService(repo, categories, cache, validator.New(), zap.NewNop()), repo, cache
}

func TestAssetCreateRejectsUnknownCategory(t *testing.T) {
	svc, _, _ := newAssetFixture()

	_, err := svc.Create(context.Background(), CreateAssetRequest{
		AssetNo:    "ICT/003",
		AssetName:  "Lenovo ThinkPad",
		CategoryID: "cat-missing",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssetCreateWithValidCategory(t *testing.T) {
	svc, repo, cache := newAssetFixture()

	asset, err := svc.Create(context.Background(), CreateAssetRequest{
		AssetNo:    "ICT/003",
		AssetName:  "Lenovo ThinkPad",
		CategoryID: "cat-1",
	})
	require.NoError(t, err)
	require.NotNil(t, asset.CategoryID)
	assert.Equal(t, "cat-1", *asset.CategoryID)
	assert.Contains(t, repo.assets, asset.ID)
	assert.Equal(t, 1, cache.calls)
}

func TestAssetCreateRequiresAssetNo(t *testing.T) {
	svc, _, _ := newAssetFixture()

	_, err := svc.Create(context.Background(), CreateAssetRequest{AssetName: "Lenovo ThinkPad"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssetUpdateChecksCategory(t *testing.T) {
	svc, _, _ := newAssetFixture()
	missing := "cat-missing"

	_, err := svc.Update(context.Background(), "a1", models.AssetPatch{CategoryID: &missing})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssetListAssignedToMatchesLoosely(t *testing.T) {
	svc, _, _ := newAssetFixture()

	matched, err := svc.ListAssignedTo(context.Background(), "aisyah binti hamid")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "a1", matched[0].ID)

	matched, err = svc.ListAssignedTo(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestAssetDeleteMissingIsNotFound(t *testing.T) {
	svc, _, cache := newAssetFixture()

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Zero(t, cache.calls)
}

func TestAssetDelete(t *testing.T) {
	svc, repo, cache := newAssetFixture()

	require.NoError(t, svc.Delete(context.Background(), "a1"))
	assert.NotContains(t, repo.assets, "a1")
	assert.Equal(t, 1, cache.calls)
}
