package dto

// DashboardStatsResponse aggregates account and activity counters for the
// admin dashboard.
type DashboardStatsResponse struct {
	TotalUsers     int                `json:"total_users"`
	TotalSubAdmins int                `json:"total_sub_admins"`
	ActiveUsers    int                `json:"active_users"`
	TodayLogins    int                `json:"today_logins"`
	RecentActions  []AuditLogResponse `json:"recent_actions"`
	StorageMode    string             `json:"storage_mode"`
	CacheHit       bool               `json:"cache_hit,omitempty"`
}
