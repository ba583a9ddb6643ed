package models

import "time"

// UserRole separates designers from the admin console.
type UserRole string

const (
	RoleDesigner   UserRole = "designer"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superadmin"
)

// UserModel represents a marketplace account (designer or admin).
type UserModel struct {
	Base
	Username         string     `json:"username"          gorm:"uniqueIndex;not null"`
	Name             string     `json:"name"`
	Password         string     `json:"-"                 gorm:"not null"`
	Mail             string     `json:"mail"`
	Avatar           string     `json:"avatar"`
	Role             UserRole   `json:"role"              gorm:"index;default:designer"`
	SubscriptionTier string     `json:"subscription_tier"`
	RankOrder        int        `json:"rank_order"        gorm:"default:0"`
	LastLoginTime    *time.Time `json:"last_login_time"`
	LastLoginIP      string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// IsAdmin reports whether the account may use admin console operations.
func (u *UserModel) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// APIToken is a long-lived service token for CLI and integration access.
type APIToken struct {
	Base
	UserID    string     `json:"user_id"    gorm:"index;not null"`
	Name      string     `json:"name"`
	Token     string     `json:"token"      gorm:"uniqueIndex;not null"`
	ExpiredAt *time.Time `json:"expired_at" gorm:"index"`
}

func (APIToken) TableName() string { return "api_tokens" }
