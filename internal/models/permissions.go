package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role classifies an account into one of three fixed identity classes.
type Role string

// Roles recognised by the dashboard.
const (
	RoleMainAdmin Role = "main-admin"
	RoleSubAdmin  Role = "sub-admin"
	RoleUser      Role = "user"
)

// AllRoles lists every role in the catalog.
var AllRoles = []Role{RoleMainAdmin, RoleSubAdmin, RoleUser}

// Valid reports whether the role is part of the fixed catalog.
func (r Role) Valid() bool {
	switch r {
	case RoleMainAdmin, RoleSubAdmin, RoleUser:
		return true
	}
	return false
}

// Permission is a fine-grained capability string. The catalog is fixed:
// permissions are never created or destroyed at runtime.
type Permission string

const (
	PermCreateSubAdmin      Permission = "create_sub_admin"
	PermEditSubAdmin        Permission = "edit_sub_admin"
	PermDeleteSubAdmin      Permission = "delete_sub_admin"
	PermViewAllUsers        Permission = "view_all_users"
	PermEditUser            Permission = "edit_user"
	PermDeleteUser          Permission = "delete_user"
	PermViewAnalytics       Permission = "view_analytics"
	PermViewAuditLogs       Permission = "view_audit_logs"
	PermManageNotifications Permission = "manage_notifications"
	PermViewDashboard       Permission = "view_dashboard"
	PermEditProfile         Permission = "edit_profile"
)

// RolePermissions is the static role → permission table. Changing a
// sub-admin's rights means storing a different subset of the sub-admin
// entry, never inventing new permissions.
var RolePermissions = map[Role]PermissionList{
	RoleMainAdmin: {
		PermCreateSubAdmin,
		PermEditSubAdmin,
		PermDeleteSubAdmin,
		PermViewAllUsers,
		PermEditUser,
		PermDeleteUser,
		PermViewAnalytics,
		PermViewAuditLogs,
		PermManageNotifications,
		PermViewDashboard,
		PermEditProfile,
	},
	RoleSubAdmin: {
		PermViewAllUsers,
		PermEditUser,
		PermViewAnalytics,
		PermViewDashboard,
		PermEditProfile,
	},
	RoleUser: {
		PermViewDashboard,
		PermEditProfile,
	},
}

// PermissionsForRole returns a copy of the fixed permission set for a role.
func PermissionsForRole(role Role) PermissionList {
	perms, ok := RolePermissions[role]
	if !ok {
		return nil
	}
	return append(PermissionList(nil), perms...)
}

// PermissionList is a set of permissions stored as a JSON column.
type PermissionList []Permission

// Has reports whether p is a member of the set.
func (l PermissionList) Has(p Permission) bool {
	for _, candidate := range l {
		if candidate == p {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one of the given permissions is present.
func (l PermissionList) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if l.Has(p) {
			return true
		}
	}
	return false
}

// HasAll reports whether every given permission is present.
func (l PermissionList) HasAll(perms ...Permission) bool {
	for _, p := range perms {
		if !l.Has(p) {
			return false
		}
	}
	return true
}

// InvalidForRole returns the permissions that fall outside the fixed catalog
// for the given role, preserving request order.
func InvalidForRole(role Role, perms PermissionList) []Permission {
	catalog := RolePermissions[role]
	var invalid []Permission
	for _, p := range perms {
		if !catalog.Has(p) {
			invalid = append(invalid, p)
		}
	}
	return invalid
}

// Value implements driver.Valuer so the set persists as JSON.
func (l PermissionList) Value() (driver.Value, error) {
	if l == nil {
		l = PermissionList{}
	}
	payload, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan implements sql.Scanner.
func (l *PermissionList) Scan(value interface{}) error {
	if value == nil {
		*l = PermissionList{}
		return nil
	}

	var payload []byte
	switch v := value.(type) {
	case []byte:
		payload = v
	case string:
		payload = []byte(v)
	default:
		return fmt.Errorf("unsupported permission list column type %T", value)
	}

	return json.Unmarshal(payload, l)
}
