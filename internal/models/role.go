package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. Stored role values from older
// imports may carry legacy spellings; ParseRole normalizes them.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleArtisan  Role = "artisan"
	RoleAdmin    Role = "admin"
)

// legacyRoles maps role spellings seen in imported data to canonical roles.
var legacyRoles = map[string]Role{
	"shopowner":  RoleArtisan,
	"seller":     RoleArtisan,
	"vendor":     RoleArtisan,
	"superadmin": RoleAdmin,
	"site_admin": RoleAdmin,
	"siteadmin":  RoleAdmin,
}

// ParseRole normalizes a raw role string (case and whitespace insensitive)
// into a canonical Role. It fails on anything outside the closed set.
func ParseRole(raw string) (Role, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	switch Role(cleaned) {
	case RoleCustomer, RoleArtisan, RoleAdmin:
		return Role(cleaned), nil
	}
	if r, ok := legacyRoles[cleaned]; ok {
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// RequiresApproval reports whether accounts with this role must be approved
// by an admin before they can log in.
func (r Role) RequiresApproval() bool {
	return r == RoleArtisan || r == RoleAdmin
}

// In reports whether the role belongs to the given set.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
