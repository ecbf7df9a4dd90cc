package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/dto"
	"github.com/hazrinhakim/project-psm-figma/internal/models"
	"github.com/hazrinhakim/project-psm-figma/internal/repository"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
	"github.com/hazrinhakim/project-psm-figma/pkg/export"
	"github.com/hazrinhakim/project-psm-figma/pkg/storage"
)

const (
	reportCacheKey     = "reports:summary"
	monthLabelLayout   = "Jan 2006"
	ExportFormatJSON   = "json"
	ExportFormatCSV    = "csv"
	ExportFormatPDF    = "pdf"
	exportReportTitle = "ICT Asset Management Report"
	exportFilePattern = "reports/%s.%s"
	createdDateLayout = "2006-01-02"
)

var createdDateLayouts = []string{
	createdDateLayout,
	"02/01/2006",
	"2/1/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
}

type reportAssetReader interface {
	CountAll(ctx context.Context) (int, error)
	CountPerCategory(ctx context.Context) ([]repository.AssetCategoryCount, error)
}

type reportMaintenanceReader interface {
	CountAll(ctx context.Context) (int, error)
	CountPerStatus(ctx context.Context) ([]repository.MaintenanceStatusCount, error)
	ListCreatedAtWithStatus(ctx context.Context) ([]repository.MaintenanceMonthlyRow, error)
}

// ReportService derives aggregates from current rows and renders
// downloadable exports.
type ReportService struct {
	assets      reportAssetReader
	maintenance reportMaintenanceReader
	cache       *CacheService
	cacheTTL    time.Duration
	store       *storage.LocalStorage
	signer      *storage.SignedURLSigner
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewReportService creates a new report service.
func NewReportService(assets reportAssetReader, maintenance reportMaintenanceReader, cache *CacheService, cacheTTL time.Duration, store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ReportService{
		assets:      assets,
		maintenance: maintenance,
		cache:       cache,
		cacheTTL:    cacheTTL,
		store:       store,
		signer:      signer,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// Generate recomputes the report aggregates, serving a cached copy when
// one is fresh.
func (s *ReportService) Generate(ctx context.Context) (*dto.ReportResponse, error) {
	var cached dto.ReportResponse
	if s.cache != nil {
		if hit, _ := s.cache.Get(ctx, reportCacheKey, &cached); hit {
			return &cached, nil
		}
	}

	report, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, reportCacheKey, report, s.cacheTTL)
	}
	return report, nil
}

// Export renders the current report snapshot in the requested format,
// stores it and returns a signed download URL.
func (s *ReportService) Export(ctx context.Context, format string) (*dto.ExportResponse, error) {
	switch format {
	case ExportFormatJSON, ExportFormatCSV, ExportFormatPDF:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	report, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch format {
	case ExportFormatJSON:
		payload, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			err = fmt.Errorf("marshal report: %w", err)
		}
	case ExportFormatCSV:
		payload, err = s.csv.Render(snapshotDataset(report))
	case ExportFormatPDF:
		payload, err = s.pdf.Render(snapshotDataset(report), exportReportTitle)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	exportID := uuid.NewString()
	relPath := fmt.Sprintf(exportFilePattern, exportID, format)
	if _, err := s.store.Save(relPath, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}

	return &dto.ExportResponse{
		ID:          exportID,
		Format:      format,
		DownloadURL: "/api/v1/reports/download/" + token,
		ExpiresAt:   expiresAt,
		GeneratedAt: report.GeneratedAt,
	}, nil
}

// OpenExport validates a signed download token and opens the stored file.
func (s *ReportService) OpenExport(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export no longer available")
	}
	return file, nil
}

// InvalidateReports drops cached report and dashboard payloads after an
// asset or maintenance mutation.
func (s *ReportService) InvalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "reports:*"); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func (s *ReportService) compute(ctx context.Context) (*dto.ReportResponse, error) {
	totalAssets, err := s.assets.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assets")
	}

	totalMaintenance, err := s.maintenance.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count maintenance requests")
	}

	perCategory, err := s.assets.CountPerCategory(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate categories")
	}

	perStatus, err := s.maintenance.CountPerStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate statuses")
	}

	monthlyRows, err := s.maintenance.ListCreatedAtWithStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list maintenance creation dates")
	}

	report := &dto.ReportResponse{
		GeneratedAt:       time.Now().UTC(),
		TotalAssets:       totalAssets,
		TotalMaintenance:  totalMaintenance,
		AssetsPerCategory: make([]dto.CategoryCount, 0, len(perCategory)),
		PerStatus:         make([]dto.StatusCount, 0, len(perStatus)),
		Monthly:           MonthlyHistogram(monthlyRows),
	}

	for _, row := range perCategory {
		report.AssetsPerCategory = append(report.AssetsPerCategory, dto.CategoryCount{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Count:        row.Count,
		})
	}
	for _, row := range perStatus {
		report.PerStatus = append(report.PerStatus, dto.StatusCount{
			Status: row.Status,
			Count:  row.Count,
		})
	}

	return report, nil
}

// MonthlyHistogram buckets maintenance requests by creation month with
// "Jan 2006" labels, counted per workflow status and sorted
// chronologically. Rows whose date does not parse under any known
// layout are skipped silently.
func MonthlyHistogram(rows []repository.MaintenanceMonthlyRow) []dto.MonthlyBucket {
	type statusTally struct {
		pending    int
		inProgress int
		resolved   int
		total      int
	}

	tallies := make(map[time.Time]*statusTally)
	for _, row := range rows {
		parsed, ok := parseCreatedDate(row.CreatedAt)
		if !ok {
			continue
		}
		month := time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC)
		tally, ok := tallies[month]
		if !ok {
			tally = &statusTally{}
			tallies[month] = tally
		}
		switch models.MaintenanceStatus(row.Status) {
		case models.MaintenancePending:
			tally.pending++
		case models.MaintenanceInProgress:
			tally.inProgress++
		case models.MaintenanceResolved:
			tally.resolved++
		}
		tally.total++
	}

	months := make([]time.Time, 0, len(tallies))
	for month := range tallies {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	buckets := make([]dto.MonthlyBucket, 0, len(months))
	for _, month := range months {
		tally := tallies[month]
		buckets = append(buckets, dto.MonthlyBucket{
			Label:      month.Format(monthLabelLayout),
			Pending:    tally.pending,
			InProgress: tally.inProgress,
			Resolved:   tally.resolved,
			Total:      tally.total,
		})
	}
	return buckets
}

func parseCreatedDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range createdDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func snapshotDataset(report *dto.ReportResponse) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Section", "Label", "Count"},
	}

	data.Rows = append(data.Rows, map[string]string{
		"Section": "Totals", "Label": "Assets", "Count": strconv.Itoa(report.TotalAssets),
	})
	data.Rows = append(data.Rows, map[string]string{
		"Section": "Totals", "Label": "Maintenance requests", "Count": strconv.Itoa(report.TotalMaintenance),
	})
	for _, row := range report.AssetsPerCategory {
		data.Rows = append(data.Rows, map[string]string{
			"Section": "Assets per category", "Label": row.CategoryName, "Count": strconv.Itoa(row.Count),
		})
	}
	for _, row := range report.PerStatus {
		data.Rows = append(data.Rows, map[string]string{
			"Section": "Maintenance per status", "Label": row.Status, "Count": strconv.Itoa(row.Count),
		})
	}
	for _, row := range report.Monthly {
		data.Rows = append(data.Rows, map[string]string{
			"Section": "Monthly", "Label": row.Label + " " + string(models.MaintenancePending), "Count": strconv.Itoa(row.Pending),
		})
		data.Rows = append(data.Rows, map[string]string{
			"Section": "Monthly", "Label": row.Label + " " + string(models.MaintenanceInProgress), "Count": strconv.Itoa(row.InProgress),
		})
		data.Rows = append(data.Rows, map[string]string{
			"Section": "Monthly", "Label": row.Label + " " + string(models.MaintenanceResolved), "Count": strconv.Itoa(row.Resolved),
		})
	}

	return data
}
