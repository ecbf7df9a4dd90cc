package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/repository"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
	"github.com/hazrinhakim/project-psm-figma/pkg/storage"
)

type fakeReportAssetReader struct {
	total       int
	perCategory []repository.AssetCategoryCount
}

func (f *fakeReportAssetReader) CountAll(ctx context.Context) (int, error) { return f.total, nil }

func (f *fakeReportAssetReader) CountPerCategory(ctx context.Context) ([]repository.AssetCategoryCount, error) {
	return f.perCategory, nil
}

type fakeReportMaintenanceReader struct {
	total     int
	perStatus []repository.MaintenanceStatusCount
	monthly   []repository.MaintenanceMonthlyRow
}

func (f *fakeReportMaintenanceReader) CountAll(ctx context.Context) (int, error) { return f.total, nil }

func (f *fakeReportMaintenanceReader) CountPerStatus(ctx context.Context) ([]repository.MaintenanceStatusCount, error) {
	return f.perStatus, nil
}

func (f *fakeReportMaintenanceReader) ListCreatedAtWithStatus(ctx context.Context) ([]repository.MaintenanceMonthlyRow, error) {
	return f.monthly, nil
}

func newReportFixture(t *testing.T) *ReportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("report-test-secret", time.Hour)

	assets := &fakeReportAssetReader{
		total: 3,
		perCategory: []repository.AssetCategoryCount{
			{CategoryName: "Laptop", Count: 2},
			{CategoryName: "Printer", Count: 1},
		},
	}
	maintenance := &fakeReportMaintenanceReader{
		total: 2,
		perStatus: []repository.MaintenanceStatusCount{
			{Status: "Pending", Count: 1},
			{Status: "Resolved", Count: 1},
		},
		monthly: []repository.MaintenanceMonthlyRow{
			{CreatedAt: "2024-01-15", Status: "Pending"},
			{CreatedAt: "2024-01-20", Status: "Resolved"},
			{CreatedAt: "2024-03-01", Status: "In Progress"},
			{CreatedAt: "not a date", Status: "Pending"},
		},
	}
	return NewReportService(assets, maintenance, nil, time.Minute, store, signer, zap.NewNop())
}

func TestMonthlyHistogramBucketsPerStatusAndSkips(t *testing.T) {
	buckets := MonthlyHistogram([]repository.MaintenanceMonthlyRow{
		{CreatedAt: "2024-01-15", Status: "Pending"},
		{CreatedAt: "15/01/2024", Status: "Resolved"},
		{CreatedAt: "2024-02-10", Status: "In Progress"},
		{CreatedAt: "garbage", Status: "Pending"},
		{CreatedAt: "", Status: "Resolved"},
	})

	require.Len(t, buckets, 2)
	assert.Equal(t, "Jan 2024", buckets[0].Label)
	assert.Equal(t, 1, buckets[0].Pending)
	assert.Equal(t, 1, buckets[0].Resolved)
	assert.Equal(t, 0, buckets[0].InProgress)
	assert.Equal(t, 2, buckets[0].Total)
	assert.Equal(t, "Feb 2024", buckets[1].Label)
	assert.Equal(t, 1, buckets[1].InProgress)
	assert.Equal(t, 1, buckets[1].Total)
}

func TestMonthlyHistogramEmptyInput(t *testing.T) {
	assert.Empty(t, MonthlyHistogram(nil))
	assert.Empty(t, MonthlyHistogram([]repository.MaintenanceMonthlyRow{{CreatedAt: "unparseable", Status: "Pending"}}))
}

func TestReportMonthlyCountsMaintenanceNotAssets(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("report-test-secret", time.Hour)

	assets := &fakeReportAssetReader{total: 0}
	maintenance := &fakeReportMaintenanceReader{
		total: 3,
		monthly: []repository.MaintenanceMonthlyRow{
			{CreatedAt: "2024-01-10", Status: "Pending"},
			{CreatedAt: "2024-01-25", Status: "Resolved"},
			{CreatedAt: "2024-02-05", Status: "In Progress"},
		},
	}
	svc := NewReportService(assets, maintenance, nil, time.Minute, store, signer, zap.NewNop())

	report, err := svc.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Monthly, 2)
	assert.Equal(t, "Jan 2024", report.Monthly[0].Label)
	assert.Equal(t, 1, report.Monthly[0].Pending)
	assert.Equal(t, 1, report.Monthly[0].Resolved)
	assert.Equal(t, "Feb 2024", report.Monthly[1].Label)
	assert.Equal(t, 1, report.Monthly[1].InProgress)
}

func TestReportGenerate(t *testing.T) {
	svc := newReportFixture(t)

	report, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalAssets)
	assert.Equal(t, 2, report.TotalMaintenance)
	require.Len(t, report.AssetsPerCategory, 2)
	assert.Equal(t, "Laptop", report.AssetsPerCategory[0].CategoryName)
	require.Len(t, report.Monthly, 2)
	assert.Equal(t, "Jan 2024", report.Monthly[0].Label)
	assert.Equal(t, 1, report.Monthly[0].Pending)
	assert.Equal(t, 1, report.Monthly[0].Resolved)
	assert.Equal(t, 2, report.Monthly[0].Total)
}

func TestReportExportRejectsUnknownFormat(t *testing.T) {
	svc := newReportFixture(t)

	_, err := svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportExportRoundTrip(t *testing.T) {
	svc := newReportFixture(t)

	result, err := svc.Export(context.Background(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, result.Format)
	require.True(t, strings.HasPrefix(result.DownloadURL, "/api/v1/reports/download/"))

	token := strings.TrimPrefix(result.DownloadURL, "/api/v1/reports/download/")
	file, err := svc.OpenExport(token)
	require.NoError(t, err)
	defer file.Close()

	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Laptop")
	assert.Contains(t, string(body), "Jan 2024")
}

func TestReportOpenExportRejectsTamperedToken(t *testing.T) {
	svc := newReportFixture(t)

	result, err := svc.Export(context.Background(), ExportFormatJSON)
	require.NoError(t, err)

	token := strings.TrimPrefix(result.DownloadURL, "/api/v1/reports/download/")
	_, err = svc.OpenExport(token + "0")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
