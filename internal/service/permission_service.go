package service

import (
	"backend/internal/model"
)

// RolePermissions is the static role → allowed-actions map. It is the single
// source of truth for workflow authorization: handlers and the workflow
// engine both consult it through PermissionService, never inline.
var RolePermissions = map[model.UserRole][]model.ActionType{
	model.RoleArchiveTeam:     {model.ActionView},
	model.RoleOperationsTeam:  {model.ActionApprove, model.ActionReject, model.ActionView},
	model.RoleCoreBankingTeam: {model.ActionDisburse, model.ActionView},
	model.RoleLoanAdmin:       {model.ActionView},
	model.RoleAdmin:           {model.ActionApprove, model.ActionReject, model.ActionDisburse, model.ActionView},
	model.RoleObserver:        {model.ActionView},
}

// PermissionCheck is the allow/deny decision returned to callers
type PermissionCheck struct {
	CanPerform bool   `json:"can_perform"`
	Reason     string `json:"reason,omitempty"`
}

// PermissionService is the stateless permission authority. Decisions are a
// pure function of (role, action); the request argument is accepted for
// interface stability but not consulted — permissions are role-only, not
// stage- or ownership-dependent.
type PermissionService interface {
	CanPerformAction(user *model.User, action model.ActionType, request *model.WithdrawalRequest) PermissionCheck
	CanCreateRequest(user *model.User) PermissionCheck
	RequiredRoleForAction(action model.ActionType) string
}

type permissionService struct{}

// NewPermissionService returns a new PermissionService instance
func NewPermissionService() PermissionService {
	return permissionService{}
}

func (permissionService) CanPerformAction(user *model.User, action model.ActionType, request *model.WithdrawalRequest) PermissionCheck {
	if user == nil {
		return PermissionCheck{CanPerform: false, Reason: "Not authenticated"}
	}

	for _, allowed := range RolePermissions[user.Role] {
		if allowed == action {
			return PermissionCheck{CanPerform: true}
		}
	}

	return PermissionCheck{
		CanPerform: false,
		Reason:     "This action requires the " + requiredRoleForAction(action) + " role",
	}
}

// CanCreateRequest gates request intake by the can_create_requests capability
// flag rather than the role-action map — intake is orthogonal to the four
// workflow roles.
func (permissionService) CanCreateRequest(user *model.User) PermissionCheck {
	if user == nil {
		return PermissionCheck{CanPerform: false, Reason: "Not authenticated"}
	}
	if user.Role == model.RoleAdmin || user.CanCreateRequests {
		return PermissionCheck{CanPerform: true}
	}
	return PermissionCheck{
		CanPerform: false,
		Reason:     "Your account is not enabled for creating withdrawal requests",
	}
}

func (permissionService) RequiredRoleForAction(action model.ActionType) string {
	return requiredRoleForAction(action)
}

func requiredRoleForAction(action model.ActionType) string {
	switch action {
	case model.ActionApprove, model.ActionReject:
		return "Operations Team"
	case model.ActionDisburse:
		return "Core Banking Team"
	default:
		return "Administrator"
	}
}
