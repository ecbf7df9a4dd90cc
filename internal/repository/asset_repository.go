package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
)

const assetColumns = `a.id, a.asset_no, a.asset_name, a.year, a.department, a.unit, a.user_name, a.price, a.supplier, a.source, a.serial_no, a.purchase_date, a.monitor_model, a.monitor_serial_no, a.monitor_asset_no, a.keyboard_model, a.keyboard_serial_no, a.keyboard_asset_no, a.mouse_model, a.mouse_serial_no, a.mouse_asset_no, a.category_id, c.name AS category_name, a.qr_code, a.created_at, a.updated_at`

// AssetRepository handles persistence for ICT assets.
type AssetRepository struct {
	db *sqlx.DB
}

// NewAssetRepository creates a new repository instance.
func NewAssetRepository(db *sqlx.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// List returns assets with category names joined in, plus a total count.
func (r *AssetRepository) List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, int, error) {
	base := "FROM assets a LEFT JOIN asset_categories c ON c.id = a.category_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("a.category_id = $%d", len(args)+1))
		args = append(args, filter.CategoryID)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("a.department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Unit != "" {
		conditions = append(conditions, fmt.Sprintf("a.unit = $%d", len(args)+1))
		args = append(args, filter.Unit)
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("a.year = $%d", len(args)+1))
		args = append(args, *filter.Year)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(a.asset_no) LIKE $%d OR LOWER(a.asset_name) LIKE $%d OR LOWER(a.user_name) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"asset_no":   "a.asset_no",
		"asset_name": "a.asset_name",
		"year":       "a.year",
		"department": "a.department",
		"created_at": "a.created_at",
		"updated_at": "a.updated_at",
	}
	sortColumn, ok := allowedSorts[sortBy]
	if !ok {
		sortColumn = "a.created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", assetColumns, base, sortColumn, order, size, offset)
	var assets []models.Asset
	if err := r.db.SelectContext(ctx, &assets, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assets: %w", err)
	}

	return assets, total, nil
}

// ListAll returns every asset without pagination, for matching and reports.
func (r *AssetRepository) ListAll(ctx context.Context) ([]models.Asset, error) {
	query := fmt.Sprintf("SELECT %s FROM assets a LEFT JOIN asset_categories c ON c.id = a.category_id ORDER BY a.created_at DESC", assetColumns)
	var assets []models.Asset
	if err := r.db.SelectContext(ctx, &assets, query); err != nil {
		return nil, fmt.Errorf("list all assets: %w", err)
	}
	return assets, nil
}

// FindByID returns an asset by id with its category name.
func (r *AssetRepository) FindByID(ctx context.Context, id string) (*models.Asset, error) {
	query := fmt.Sprintf("SELECT %s FROM assets a LEFT JOIN asset_categories c ON c.id = a.category_id WHERE a.id = $1 LIMIT 1", assetColumns)
	var asset models.Asset
	if err := r.db.GetContext(ctx, &asset, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find asset by id: %w", err)
	}
	return &asset, nil
}

// FindByAssetNo returns an asset by its asset number.
func (r *AssetRepository) FindByAssetNo(ctx context.Context, assetNo string) (*models.Asset, error) {
	query := fmt.Sprintf("SELECT %s FROM assets a LEFT JOIN asset_categories c ON c.id = a.category_id WHERE a.asset_no = $1 LIMIT 1", assetColumns)
	var asset models.Asset
	if err := r.db.GetContext(ctx, &asset, query, assetNo); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find asset by asset no: %w", err)
	}
	return &asset, nil
}

// Create persists a new asset.
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = now
	}
	asset.UpdatedAt = now

	const query = `INSERT INTO assets (id, asset_no, asset_name, year, department, unit, user_name, price, supplier, source, serial_no, purchase_date, monitor_model, monitor_serial_no, monitor_asset_no, keyboard_model, keyboard_serial_no, keyboard_asset_no, mouse_model, mouse_serial_no, mouse_asset_no, category_id, qr_code, created_at, updated_at) VALUES (:id, :asset_no, :asset_name, :year, :department, :unit, :user_name, :price, :supplier, :source, :serial_no, :purchase_date, :monitor_model, :monitor_serial_no, :monitor_asset_no, :keyboard_model, :keyboard_serial_no, :keyboard_asset_no, :mouse_model, :mouse_serial_no, :mouse_asset_no, :category_id, :qr_code, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, asset); err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

// Update applies a presence-based partial patch. Nil pointers leave the
// column untouched; non-nil pointers overwrite, empty values included.
func (r *AssetRepository) Update(ctx context.Context, id string, patch models.AssetPatch) error {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.AssetNo != nil {
		add("asset_no", *patch.AssetNo)
	}
	if patch.AssetName != nil {
		add("asset_name", *patch.AssetName)
	}
	if patch.Year != nil {
		add("year", *patch.Year)
	}
	if patch.Department != nil {
		add("department", *patch.Department)
	}
	if patch.Unit != nil {
		add("unit", *patch.Unit)
	}
	if patch.UserName != nil {
		add("user_name", *patch.UserName)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Supplier != nil {
		add("supplier", *patch.Supplier)
	}
	if patch.Source != nil {
		add("source", *patch.Source)
	}
	if patch.SerialNo != nil {
		add("serial_no", *patch.SerialNo)
	}
	if patch.PurchaseDate != nil {
		add("purchase_date", *patch.PurchaseDate)
	}
	if patch.MonitorModel != nil {
		add("monitor_model", *patch.MonitorModel)
	}
	if patch.MonitorSerialNo != nil {
		add("monitor_serial_no", *patch.MonitorSerialNo)
	}
	if patch.MonitorAssetNo != nil {
		add("monitor_asset_no", *patch.MonitorAssetNo)
	}
	if patch.KeyboardModel != nil {
		add("keyboard_model", *patch.KeyboardModel)
	}
	if patch.KeyboardSerialNo != nil {
		add("keyboard_serial_no", *patch.KeyboardSerialNo)
	}
	if patch.KeyboardAssetNo != nil {
		add("keyboard_asset_no", *patch.KeyboardAssetNo)
	}
	if patch.MouseModel != nil {
		add("mouse_model", *patch.MouseModel)
	}
	if patch.MouseSerialNo != nil {
		add("mouse_serial_no", *patch.MouseSerialNo)
	}
	if patch.MouseAssetNo != nil {
		add("mouse_asset_no", *patch.MouseAssetNo)
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID == "" {
			sets = append(sets, "category_id = NULL")
		} else {
			add("category_id", *patch.CategoryID)
		}
	}
	if patch.QRCode != nil {
		add("qr_code", *patch.QRCode)
	}

	if len(sets) == 0 {
		return nil
	}

	add("updated_at", time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE assets SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	return nil
}

// Delete removes an asset and reports whether a row was affected.
// Deleting an absent id is a store-level no-op.
func (r *AssetRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete asset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete asset rows affected: %w", err)
	}
	return affected > 0, nil
}

// CountAll returns the total number of assets.
func (r *AssetRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM assets`); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return count, nil
}

// AssetCategoryCount is one GROUP BY row for the category aggregate.
type AssetCategoryCount struct {
	CategoryID   string `db:"category_id"`
	CategoryName string `db:"category_name"`
	Count        int    `db:"count"`
}

// CountPerCategory aggregates assets per category. Uncategorised assets
// are grouped under an empty id.
func (r *AssetRepository) CountPerCategory(ctx context.Context) ([]AssetCategoryCount, error) {
	const query = `SELECT COALESCE(a.category_id::text, '') AS category_id, COALESCE(c.name, 'Uncategorised') AS category_name, COUNT(*) AS count FROM assets a LEFT JOIN asset_categories c ON c.id = a.category_id GROUP BY a.category_id, c.name ORDER BY count DESC`
	var counts []AssetCategoryCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count assets per category: %w", err)
	}
	return counts, nil
}
