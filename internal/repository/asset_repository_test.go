package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func assetRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "asset_no", "asset_name", "year", "department", "unit", "user_name",
		"price", "supplier", "source", "serial_no", "purchase_date",
		"monitor_model", "monitor_serial_no", "monitor_asset_no",
		"keyboard_model", "keyboard_serial_no", "keyboard_asset_no",
		"mouse_model", "mouse_serial_no", "mouse_asset_no",
		"category_id", "category_name", "qr_code", "created_at", "updated_at",
	}).AddRow(
		"a1", "ICT/001", "Dell OptiPlex", 2023, "ICT", "Operations", "Siti Aminah",
		3200.0, "Dell", "Grant", "SN123", "12/01/2023",
		"Dell P2422H", "MSN1", "ICT/001/M",
		"Dell KB216", "KSN1", "ICT/001/K",
		"Dell MS116", "MOSN1", "ICT/001/MO",
		"c1", "Desktop", nil, now, now,
	)
}

func TestAssetFindByAssetNo(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	mock.ExpectQuery("SELECT .+ FROM assets a LEFT JOIN asset_categories c ON c.id = a.category_id WHERE a.asset_no = \\$1 LIMIT 1").
		WithArgs("ICT/001").
		WillReturnRows(assetRows(time.Now()))

	asset, err := repo.FindByAssetNo(context.Background(), "ICT/001")
	require.NoError(t, err)
	assert.Equal(t, "Dell OptiPlex", asset.AssetName)
	require.NotNil(t, asset.CategoryName)
	assert.Equal(t, "Desktop", *asset.CategoryName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetUpdateBuildsPartialSetClause(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	name := "Renamed"
	empty := ""
	mock.ExpectExec(regexp.QuoteMeta("UPDATE assets SET asset_name = $1, user_name = $2, updated_at = $3 WHERE id = $4")).
		WithArgs(name, empty, sqlmock.AnyArg(), "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "a1", models.AssetPatch{
		AssetName: &name,
		UserName:  &empty,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetUpdateEmptyPatchIsNoop(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	err := repo.Update(context.Background(), "a1", models.AssetPatch{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetUpdateClearsCategoryWithNull(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	empty := ""
	mock.ExpectExec(regexp.QuoteMeta("UPDATE assets SET category_id = NULL, updated_at = $1 WHERE id = $2")).
		WithArgs(sqlmock.AnyArg(), "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "a1", models.AssetPatch{CategoryID: &empty})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetDeleteReportsMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assets WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetCountPerCategory(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	rows := sqlmock.NewRows([]string{"category_id", "category_name", "count"}).
		AddRow("c1", "Desktop", 12).
		AddRow("", "Uncategorised", 3)
	mock.ExpectQuery("SELECT COALESCE\\(a.category_id::text, ''\\) AS category_id").
		WillReturnRows(rows)

	counts, err := repo.CountPerCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 12, counts[0].Count)
	assert.Equal(t, "Uncategorised", counts[1].CategoryName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
