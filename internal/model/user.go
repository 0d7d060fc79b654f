package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is the fixed category describing which workflow actions a user may invoke
type UserRole string

const (
	RoleArchiveTeam     UserRole = "archive_team"
	RoleOperationsTeam  UserRole = "operations_team"
	RoleCoreBankingTeam UserRole = "core_banking_team"
	RoleLoanAdmin       UserRole = "loan_admin"
	RoleAdmin           UserRole = "admin"
	RoleObserver        UserRole = "observer"
)

// ActionType enumerates the workflow actions subject to permission checks
type ActionType string

const (
	ActionApprove  ActionType = "approve"
	ActionReject   ActionType = "reject"
	ActionDisburse ActionType = "disburse"
	ActionView     ActionType = "view"
)

// User represents an ADFD staff member. The capability flags supplement the
// role: request intake is gated by CanCreateRequests, not by the role map.
type User struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string         `gorm:"type:varchar(255);not null" json:"name"`
	Email             string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password          string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	Role              UserRole       `gorm:"type:varchar(30);not null" json:"role"`
	Department        string         `gorm:"type:varchar(100)" json:"department,omitempty"`
	CanCreateRequests bool           `gorm:"not null;default:false" json:"can_create_requests"`
	CanApproveReject  bool           `gorm:"not null;default:false" json:"can_approve_reject"`
	CanDisburse       bool           `gorm:"not null;default:false" json:"can_disburse"`
	ViewOnlyAccess    bool           `gorm:"not null;default:false" json:"view_only_access"`
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsValidRole reports whether r is one of the six ADFD roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleArchiveTeam, RoleOperationsTeam, RoleCoreBankingTeam, RoleLoanAdmin, RoleAdmin, RoleObserver:
		return true
	}
	return false
}
