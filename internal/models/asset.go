package models

import "time"

// Asset represents an ICT asset and its peripheral set.
// PurchaseDate is stored as free text because source records carry
// inconsistent formats; report bucketing parses it leniently and skips
// values it cannot read.
type Asset struct {
	ID           string  `db:"id" json:"id"`
	AssetNo      string  `db:"asset_no" json:"assetNo"`
	AssetName    string  `db:"asset_name" json:"assetName"`
	Year         int     `db:"year" json:"year"`
	Department   string  `db:"department" json:"department"`
	Unit         string  `db:"unit" json:"unit"`
	UserName     string  `db:"user_name" json:"userName"`
	Price        float64 `db:"price" json:"price"`
	Supplier     string  `db:"supplier" json:"supplier"`
	Source       string  `db:"source" json:"source"`
	SerialNo     string  `db:"serial_no" json:"serialNo"`
	PurchaseDate string  `db:"purchase_date" json:"purchaseDate"`

	MonitorModel    string `db:"monitor_model" json:"monitorModel"`
	MonitorSerialNo string `db:"monitor_serial_no" json:"monitorSerialNo"`
	MonitorAssetNo  string `db:"monitor_asset_no" json:"monitorAssetNo"`

	KeyboardModel    string `db:"keyboard_model" json:"keyboardModel"`
	KeyboardSerialNo string `db:"keyboard_serial_no" json:"keyboardSerialNo"`
	KeyboardAssetNo  string `db:"keyboard_asset_no" json:"keyboardAssetNo"`

	MouseModel    string `db:"mouse_model" json:"mouseModel"`
	MouseSerialNo string `db:"mouse_serial_no" json:"mouseSerialNo"`
	MouseAssetNo  string `db:"mouse_asset_no" json:"mouseAssetNo"`

	CategoryID   *string `db:"category_id" json:"categoryId,omitempty"`
	CategoryName *string `db:"category_name" json:"categoryName,omitempty"`

	QRCode *string `db:"qr_code" json:"qrCode,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Label returns the asset's human readable name, falling back to the
// asset number for notification messages.
func (a Asset) Label() string {
	if a.AssetName != "" {
		return a.AssetName
	}
	return a.AssetNo
}

// AssetCategory is reference data classifying assets.
type AssetCategory struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// AssetFilter captures supported filters for listing assets.
type AssetFilter struct {
	CategoryID string
	Department string
	Unit       string
	Year       *int
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// AssetPatch holds presence-based partial updates. A nil pointer leaves
// the column untouched; a non-nil pointer overwrites it, including with
// an empty value.
type AssetPatch struct {
	AssetNo      *string  `json:"assetNo,omitempty"`
	AssetName    *string  `json:"assetName,omitempty"`
	Year         *int     `json:"year,omitempty"`
	Department   *string  `json:"department,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	UserName     *string  `json:"userName,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Supplier     *string  `json:"supplier,omitempty"`
	Source       *string  `json:"source,omitempty"`
	SerialNo     *string  `json:"serialNo,omitempty"`
	PurchaseDate *string  `json:"purchaseDate,omitempty"`

	MonitorModel    *string `json:"monitorModel,omitempty"`
	MonitorSerialNo *string `json:"monitorSerialNo,omitempty"`
	MonitorAssetNo  *string `json:"monitorAssetNo,omitempty"`

	KeyboardModel    *string `json:"keyboardModel,omitempty"`
	KeyboardSerialNo *string `json:"keyboardSerialNo,omitempty"`
	KeyboardAssetNo  *string `json:"keyboardAssetNo,omitempty"`

	MouseModel    *string `json:"mouseModel,omitempty"`
	MouseSerialNo *string `json:"mouseSerialNo,omitempty"`
	MouseAssetNo  *string `json:"mouseAssetNo,omitempty"`

	CategoryID *string `json:"categoryId,omitempty"`
	QRCode     *string `json:"qrCode,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p AssetPatch) Empty() bool {
	return p.AssetNo == nil && p.AssetName == nil && p.Year == nil &&
		p.Department == nil && p.Unit == nil && p.UserName == nil &&
		p.Price == nil && p.Supplier == nil && p.Source == nil &&
		p.SerialNo == nil && p.PurchaseDate == nil &&
		p.MonitorModel == nil && p.MonitorSerialNo == nil && p.MonitorAssetNo == nil &&
		p.KeyboardModel == nil && p.KeyboardSerialNo == nil && p.KeyboardAssetNo == nil &&
		p.MouseModel == nil && p.MouseSerialNo == nil && p.MouseAssetNo == nil &&
		p.CategoryID == nil && p.QRCode == nil
}

// QRPayload is the JSON document embedded in an asset QR code.
type QRPayload struct {
	ID         string `json:"id"`
	AssetNo    string `json:"assetNo"`
	AssetName  string `json:"assetName"`
	Category   string `json:"category"`
	Department string `json:"department"`
	Unit       string `json:"unit"`
}
