package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
)

type fakeQRAssetRepo struct {
	byID      map[string]*models.Asset
	byAssetNo map[string]*models.Asset
	updateErr error
	patched   map[string]models.AssetPatch
}

func (f *fakeQRAssetRepo) FindByID(ctx context.Context, id string) (*models.Asset, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (f *fakeQRAssetRepo) FindByAssetNo(ctx context.Context, assetNo string) (*models.Asset, error) {
	a, ok := f.byAssetNo[assetNo]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (f *fakeQRAssetRepo) Update(ctx context.Context, id string, patch models.AssetPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.patched == nil {
		f.patched = make(map[string]models.AssetPatch)
	}
	f.patched[id] = patch
	return nil
}

func newQRFixture() (*QRService, *fakeQRAssetRepo) {
	asset := &models.Asset{ID: "a1", AssetNo: "ICT/001", AssetName: "Dell OptiPlex", Department: "ICT", Unit: "Infrastructure"}
	repo := &fakeQRAssetRepo{
		byID:      map[string]*models.Asset{"a1": asset},
		byAssetNo: map[string]*models.Asset{"ICT/001": asset},
	}
	return NewQRService(repo, 256, zap.NewNop()), repo
}

func TestQRGeneratePersistsDataURL(t *testing.T) {
	svc, repo := newQRFixture()

	result, err := svc.Generate(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.DataURL, "data:image/png;base64,"))
	assert.Empty(t, result.PersistWarning)

	patch, ok := repo.patched["a1"]
	require.True(t, ok)
	require.NotNil(t, patch.QRCode)
	assert.Equal(t, result.DataURL, *patch.QRCode)
}

func TestQRGenerateReturnsImageWhenPersistFails(t *testing.T) {
	svc, repo := newQRFixture()
	repo.updateErr = errors.New("disk full")

	result, err := svc.Generate(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.DataURL, "data:image/png;base64,"))
	assert.NotEmpty(t, result.PersistWarning)
}

func TestQRGenerateUnknownAsset(t *testing.T) {
	svc, _ := newQRFixture()

	_, err := svc.Generate(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestQRResolvePayloadID(t *testing.T) {
	svc, _ := newQRFixture()

	raw, err := json.Marshal(models.QRPayload{ID: "a1", AssetNo: "ICT/001"})
	require.NoError(t, err)

	asset, err := svc.Resolve(context.Background(), string(raw))
	require.NoError(t, err)
	assert.Equal(t, "a1", asset.ID)
}

func TestQRResolveFallsBackToAssetNo(t *testing.T) {
	svc, _ := newQRFixture()

	raw, err := json.Marshal(models.QRPayload{ID: "stale-id", AssetNo: "ICT/001"})
	require.NoError(t, err)

	asset, err := svc.Resolve(context.Background(), string(raw))
	require.NoError(t, err)
	assert.Equal(t, "a1", asset.ID)
}

func TestQRResolveBareAssetNo(t *testing.T) {
	svc, _ := newQRFixture()

	asset, err := svc.Resolve(context.Background(), "ICT/001")
	require.NoError(t, err)
	assert.Equal(t, "a1", asset.ID)
}

func TestQRResolveBareID(t *testing.T) {
	svc, _ := newQRFixture()

	asset, err := svc.Resolve(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "ICT/001", asset.AssetNo)
}

func TestQRResolveAllMissIsNotFound(t *testing.T) {
	svc, _ := newQRFixture()

	_, err := svc.Resolve(context.Background(), "nothing-matches")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestQRResolveEmptyContent(t *testing.T) {
	svc, _ := newQRFixture()

	_, err := svc.Resolve(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
