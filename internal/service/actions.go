package service

import "github.com/noah-isme/aegis-admin-api/internal/models"

// Action names recorded in the audit log and matched against the
// notification rule table.
const (
	ActionLogin                   = "login"
	ActionLogout                  = "logout"
	ActionSystemStartup           = "system_startup"
	ActionCreateSubAdmin          = "create_sub_admin"
	ActionUpdateSubAdmin          = "update_sub_admin"
	ActionDeleteSubAdmin          = "delete_sub_admin"
	ActionSystemMaintenance       = "system_maintenance"
	ActionPolicyUpdate            = "policy_update"
	ActionCreateUser              = "create_user"
	ActionUpdateUser              = "update_user"
	ActionDeleteUser              = "delete_user"
	ActionBulkAction              = "bulk_action"
	ActionSecurityAlert           = "security_alert"
	ActionBroadcastMessage        = "broadcast_message"
	ActionUploadWallpaper         = "upload_wallpaper"
	ActionDeleteWallpaper         = "delete_wallpaper"
	ActionCreateWallpaperCategory = "create_wallpaper_category"
)

// Actor identifies who performed an operation, as resolved by the
// authorization middleware.
type Actor struct {
	ID   uint
	Name string
	Role models.Role
}

// SystemActor stamps entries produced by the service itself.
var SystemActor = Actor{ID: models.SystemActorID, Name: "System", Role: models.RoleMainAdmin}
