package models

import "time"

// Roles a user account can carry. Monitoring features are restricted to
// RoleParent and RoleAdmin.
const (
	RoleChild  = "child"
	RoleParent = "parent"
	RoleAdmin  = "admin"
)

// User represents an account row. Credential issuance lives in a separate
// service; this service only reads identities and maintains presence flags.
type User struct {
	ID       int        `db:"id" json:"id"`
	Username string     `db:"username" json:"username"`
	Email    string     `db:"email" json:"email"`
	Avatar   string     `db:"avatar" json:"avatar,omitempty"`
	Role     string     `db:"role" json:"role"`
	IsOnline bool       `db:"is_online" json:"is_online"`
	LastSeen *time.Time `db:"last_seen" json:"last_seen,omitempty"`
}

// IsMonitor reports whether the role may join the monitoring room and review
// alerts.
func (u User) IsMonitor() bool {
	return u.Role == RoleParent || u.Role == RoleAdmin
}
