package model

import "strings"

// Role is the single role tag on a user account. The three roles are fixed;
// per-role alert read flags are keyed by them.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleStaff   Role = "Staff"
)

// ParseRole normalizes a client-supplied role name. Matching is
// case-insensitive; anything outside the three fixed roles is rejected.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "manager", "inventory manager":
		return RoleManager, true
	case "staff":
		return RoleStaff, true
	default:
		return "", false
	}
}
