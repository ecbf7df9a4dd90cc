package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
)

type qrAssetRepository interface {
	FindByID(ctx context.Context, id string) (*models.Asset, error)
	FindByAssetNo(ctx context.Context, assetNo string) (*models.Asset, error)
	Update(ctx context.Context, id string, patch models.AssetPatch) error
}

// QRGenerateResult carries the encoded image. PersistWarning is set when
// the image rendered fine but could not be stored on the asset row.
type QRGenerateResult struct {
	Asset          *models.Asset `json:"asset"`
	DataURL        string        `json:"dataUrl"`
	PersistWarning string        `json:"persistWarning,omitempty"`
}

// QRService renders asset QR codes and resolves scanned payloads.
type QRService struct {
	assets    qrAssetRepository
	imageSize int
	logger    *zap.Logger
}

// NewQRService creates a new QR service.
func NewQRService(assets qrAssetRepository, imageSize int, logger *zap.Logger) *QRService {
	if imageSize <= 0 {
		imageSize = 512
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QRService{assets: assets, imageSize: imageSize, logger: logger}
}

// Generate renders a QR code for the asset and persists the data URL on
// the asset row. Regeneration overwrites the stored code. When the
// persist fails after a successful render, the image is still returned
// with a warning so the caller can retry the save.
func (s *QRService) Generate(ctx context.Context, assetID string) (*QRGenerateResult, error) {
	asset, err := s.assets.FindByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}

	payload := models.QRPayload{
		ID:         asset.ID,
		AssetNo:    asset.AssetNo,
		AssetName:  asset.AssetName,
		Department: asset.Department,
		Unit:       asset.Unit,
	}
	if asset.CategoryName != nil {
		payload.Category = *asset.CategoryName
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode payload")
	}

	png, err := qrcode.Encode(string(raw), qrcode.Medium, s.imageSize)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render qr code")
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	result := &QRGenerateResult{Asset: asset, DataURL: dataURL}
	if err := s.assets.Update(ctx, asset.ID, models.AssetPatch{QRCode: &dataURL}); err != nil {
		s.logger.Warn("qr code rendered but could not be stored",
			zap.String("asset_id", asset.ID),
			zap.Error(err),
		)
		result.PersistWarning = "qr code rendered but could not be stored on the asset"
	} else {
		asset.QRCode = &dataURL
	}

	return result, nil
}

// Resolve maps scanned content to an asset. The content may be the JSON
// payload embedded in a generated code or a bare string. Lookup order:
// payload id, then asset number, then the raw candidate as an id. An
// all-miss is a not-found outcome, not a transport error.
func (s *QRService) Resolve(ctx context.Context, content string) (*models.Asset, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scan content is empty")
	}

	candidate := content
	var payload models.QRPayload
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		if payload.ID != "" {
			asset, err := s.assets.FindByID(ctx, payload.ID)
			if err == nil {
				return asset, nil
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up asset")
			}
		}
		if payload.AssetNo != "" {
			candidate = payload.AssetNo
		}
	}

	asset, err := s.assets.FindByAssetNo(ctx, candidate)
	if err == nil {
		return asset, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up asset")
	}

	asset, err = s.assets.FindByID(ctx, candidate)
	if err == nil {
		return asset, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up asset")
	}

	return nil, appErrors.Clone(appErrors.ErrNotFound, "no asset matches the scanned code")
}
