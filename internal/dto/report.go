package dto

import "time"

// CategoryCount is one assets-per-category aggregate row.
type CategoryCount struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Count        int    `json:"count"`
}

// StatusCount is one maintenance-per-status aggregate row.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// MonthlyBucket is one bar group of the monthly histogram, labelled
// "Jan 2006", with maintenance requests counted per workflow status.
type MonthlyBucket struct {
	Label      string `json:"label"`
	Pending    int    `json:"pending"`
	InProgress int    `json:"inProgress"`
	Resolved   int    `json:"resolved"`
	Total      int    `json:"total"`
}

// ReportResponse is the full derived-report payload. Everything is
// recomputed from current rows; nothing here is stored.
type ReportResponse struct {
	GeneratedAt       time.Time       `json:"generatedAt"`
	TotalAssets       int             `json:"totalAssets"`
	TotalMaintenance  int             `json:"totalMaintenance"`
	AssetsPerCategory []CategoryCount `json:"assetsPerCategory"`
	PerStatus         []StatusCount   `json:"maintenancePerStatus"`
	Monthly           []MonthlyBucket `json:"monthly"`
}

// ExportRequest captures POST /reports/export payload.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=json csv pdf"`
}

// ExportResponse points at the rendered export file.
type ExportResponse struct {
	ID          string    `json:"id"`
	Format      string    `json:"format"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
	GeneratedAt time.Time `json:"generatedAt"`
}
