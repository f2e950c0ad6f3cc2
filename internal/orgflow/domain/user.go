package domain

import "time"

// Application roles a user can hold.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID           string
	Username     string
	Email        string // stored lowercased, unique
	PasswordHash string // bcrypt
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole reports whether role is one users may hold.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}
