package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
)

func TestMaintenanceListJoinsAssetAndRequester(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMaintenanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "asset_id", "requested_by", "title", "description", "status",
		"admin_remark", "created_at", "updated_at", "asset_no", "asset_name", "requester_name",
	}).AddRow("m1", "a1", "u1", "Screen flicker", "Flickers on boot", string(models.MaintenancePending), "", now, now, "ICT/001", "Dell OptiPlex", "Siti Aminah")
	mock.ExpectQuery("SELECT .+ FROM maintenance_requests m LEFT JOIN assets a ON a.id = m.asset_id LEFT JOIN profiles p ON p.id = m.requested_by WHERE 1=1 AND m.status = \\$1").
		WithArgs(string(models.MaintenancePending)).
		WillReturnRows(rows)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM maintenance_requests m").
		WithArgs(string(models.MaintenancePending)).
		WillReturnRows(countRows)

	status := models.MaintenancePending
	requests, total, err := repo.List(context.Background(), models.MaintenanceFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, 1, total)
	require.NotNil(t, requests[0].AssetName)
	assert.Equal(t, "Dell OptiPlex", *requests[0].AssetName)
	require.NotNil(t, requests[0].RequesterName)
	assert.Equal(t, "Siti Aminah", *requests[0].RequesterName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaintenanceUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMaintenanceRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE maintenance_requests SET status = $2, admin_remark = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("m1", string(models.MaintenanceInProgress), "Technician assigned", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "m1", models.MaintenanceInProgress, "Technician assigned", now)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaintenanceListCreatedAtWithStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMaintenanceRepository(db)

	rows := sqlmock.NewRows([]string{"created_at", "status"}).
		AddRow("2024-01-15", string(models.MaintenancePending)).
		AddRow("2024-02-03", string(models.MaintenanceResolved))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT to_char(created_at, 'YYYY-MM-DD') AS created_at, status FROM maintenance_requests")).
		WillReturnRows(rows)

	monthly, err := repo.ListCreatedAtWithStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2024-01-15", monthly[0].CreatedAt)
	assert.Equal(t, string(models.MaintenanceResolved), monthly[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaintenanceCountPerStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMaintenanceRepository(db)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow(string(models.MaintenancePending), 4).
		AddRow(string(models.MaintenanceResolved), 9)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS count FROM maintenance_requests GROUP BY status")).
		WillReturnRows(rows)

	counts, err := repo.CountPerStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 4, counts[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
