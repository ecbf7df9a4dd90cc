package dto

// AdminDashboardResponse captures the aggregated admin overview.
type AdminDashboardResponse struct {
	TotalAssets        int `json:"totalAssets"`
	TotalCategories    int `json:"totalCategories"`
	TotalUsers         int `json:"totalUsers"`
	PendingRequests    int `json:"pendingRequests"`
	InProgressRequests int `json:"inProgressRequests"`
	ResolvedRequests   int `json:"resolvedRequests"`
	OpenFeedback       int `json:"openFeedback"`
}

// StaffDashboardResponse captures the personalised staff overview.
type StaffDashboardResponse struct {
	AssignedAssets      int `json:"assignedAssets"`
	MyPendingRequests   int `json:"myPendingRequests"`
	MyResolvedRequests  int `json:"myResolvedRequests"`
	UnreadNotifications int `json:"unreadNotifications"`
}
