package models

import "time"

// MaintenanceStatus enumerates the workflow states for a request.
type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "Pending"
	MaintenanceInProgress MaintenanceStatus = "In Progress"
	MaintenanceResolved   MaintenanceStatus = "Resolved"
)

var maintenanceStatusRank = map[MaintenanceStatus]int{
	MaintenancePending:    0,
	MaintenanceInProgress: 1,
	MaintenanceResolved:   2,
}

// Valid reports whether the status is a known workflow state.
func (s MaintenanceStatus) Valid() bool {
	_, ok := maintenanceStatusRank[s]
	return ok
}

// CanTransitionTo reports whether moving to next is allowed. The
// workflow only moves forward; reopening a resolved request is not
// supported.
func (s MaintenanceStatus) CanTransitionTo(next MaintenanceStatus) bool {
	from, okFrom := maintenanceStatusRank[s]
	to, okTo := maintenanceStatusRank[next]
	if !okFrom || !okTo {
		return false
	}
	return to > from
}

// MaintenanceRequest represents a staff-submitted maintenance ticket.
type MaintenanceRequest struct {
	ID          string            `db:"id" json:"id"`
	AssetID     string            `db:"asset_id" json:"assetId"`
	RequestedBy string            `db:"requested_by" json:"requestedBy"`
	Title       string            `db:"title" json:"title"`
	Description string            `db:"description" json:"description"`
	Status      MaintenanceStatus `db:"status" json:"status"`
	AdminRemark string            `db:"admin_remark" json:"adminRemark"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updatedAt"`

	// Joined columns for list views.
	AssetNo       *string `db:"asset_no" json:"assetNo,omitempty"`
	AssetName     *string `db:"asset_name" json:"assetName,omitempty"`
	RequesterName *string `db:"requester_name" json:"requesterName,omitempty"`
}

// AssetLabel returns the joined asset display name for notifications.
func (m MaintenanceRequest) AssetLabel() string {
	if m.AssetName != nil && *m.AssetName != "" {
		return *m.AssetName
	}
	if m.AssetNo != nil {
		return *m.AssetNo
	}
	return m.AssetID
}

// MaintenanceFilter captures supported filters for listing requests.
type MaintenanceFilter struct {
	Status      *MaintenanceStatus
	AssetID     string
	RequestedBy string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
