package service

import (
	"fmt"

	"github.com/noah-isme/aegis-admin-api/internal/models"
)

// RuleKey addresses a notification rule by who acted and what they did.
type RuleKey struct {
	Role   models.Role
	Action string
}

// TargetDetails carries the optional context a template may interpolate.
type TargetDetails struct {
	Name    string
	ID      string
	Count   int
	Details string
}

// RuleContent is the rendered output of a rule template.
type RuleContent struct {
	Title   string
	Message string
	Type    models.NotificationType
}

// Rule describes the fan-out for one (role, action) pair. Template is a pure
// function so adding rules never adds control flow to the engine.
type Rule struct {
	Recipients []models.Role
	Priority   models.NotificationPriority
	Template   func(actorName string, target TargetDetails) RuleContent
}

// notificationRules is the fixed rule table. Only main-admin and sub-admin
// actions fan out; user actions never match.
var notificationRules = map[RuleKey]Rule{
	{models.RoleMainAdmin, ActionCreateSubAdmin}: {
		Recipients: []models.Role{models.RoleSubAdmin, models.RoleUser},
		Priority:   models.PriorityHigh,
		Template: func(actorName string, target TargetDetails) RuleContent {
			return RuleContent{
				Title:   "New Sub-Admin Created",
				Message: fmt.Sprintf("%s has created a new sub-admin: %s", actorName, target.Name),
				Type:    models.NotificationInfo,
			}
		},
	},
	{models.RoleMainAdmin, ActionDeleteSubAdmin}: {
		Recipients: []models.Role{models.RoleSubAdmin, models.RoleUser},
		Priority:   models.PriorityHigh,
		Template: func(actorName string, target TargetDetails) RuleContent {
			return RuleContent{
				Title:   "Sub-Admin Removed",
				Message: fmt.Sprintf("%s has removed sub-admin: %s", actorName, target.Name),
				Type:    models.NotificationWarning,
			}
		},
	},
	{models.RoleMainAdmin, ActionSystemMaintenance}: {
		Recipients: []models.Role{models.RoleSubAdmin, models.RoleUser},
		Priority:   models.PriorityUrgent,
		Template: func(actorName string, target TargetDetails) RuleContent {
			return RuleContent{
				Title:   "System Maintenance Scheduled",
				Message: fmt.Sprintf("%s has scheduled system maintenance", actorName),
				Type:    models.NotificationWarning,
			}
		},
	},
	{models.RoleMainAdmin, ActionPolicyUpdate}: {
		Recipients: []models.Role{models.RoleSubAdmin, models.RoleUser},
		Priority:   models.PriorityMedium,
		Template: func(actorName string, target TargetDetails) RuleContent {
			return RuleContent{
				Title:   "Policy Update",
				Message: fmt.Sprintf("%s has updated system policies", actorName),
				Type:    models.NotificationInfo,
			}
		},
	},
	{models.RoleSubAdmin, ActionCreateUser}: {
		Recipients: []models.Role{models.RoleMainAdmin},
		Priority:   models.PriorityMedium,
		Template: func(actorName string, target TargetDetails) RuleContent {
			return RuleContent{
				Title:   "New User Created",
				Message: fmt.Sprintf("Sub-admin %s has created a new user: %s", actorName, target.Name),
				Type:    models.NotificationInfo,
			}
		},
	},
	{models.RoleSubAdmin, ActionDeleteUser}: {
		Recipients: []models.Role{models.RoleMainAdmin},
		Priority:   models.PriorityHigh,
		Template: func(actorName string, target TargetDetails) RuleContent {
			return RuleContent{
				Title:   "User Deleted",
				Message: fmt.Sprintf("Sub-admin %s has deleted user: %s", actorName, target.Name),
				Type:    models.NotificationWarning,
			}
		},
	},
	{models.RoleSubAdmin, ActionBulkAction}: {
		Recipients: []models.Role{models.RoleMainAdmin},
		Priority:   models.PriorityHigh,
		Template: func(actorName string, target TargetDetails) RuleContent {
			return RuleContent{
				Title:   "Bulk Action Performed",
				Message: fmt.Sprintf("Sub-admin %s performed bulk action on %d users", actorName, target.Count),
				Type:    models.NotificationWarning,
			}
		},
	},
	{models.RoleSubAdmin, ActionSecurityAlert}: {
		Recipients: []models.Role{models.RoleMainAdmin},
		Priority:   models.PriorityUrgent,
		Template: func(actorName string, target TargetDetails) RuleContent {
			return RuleContent{
				Title:   "Security Alert",
				Message: fmt.Sprintf("Sub-admin %s reported: %s", actorName, target.Details),
				Type:    models.NotificationError,
			}
		},
	},
}

// LookupRule returns the rule for an actor role and action, if any.
func LookupRule(role models.Role, action string) (Rule, bool) {
	rule, ok := notificationRules[RuleKey{Role: role, Action: action}]
	return rule, ok
}
