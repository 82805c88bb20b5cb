package domain

import "time"

// Permission bits. Checked with bitwise AND-equality, never truthiness.
const (
	PermissionVisit    = 1
	PermissionMember   = 2
	PermissionModerate = 4
	PermissionAdmin    = 8
)

// Canonical role names. Callers address roles through these constants
// rather than free-form strings.
const (
	RoleMember        = "Member"
	RoleModerator     = "Moderator"
	RoleAdministrator = "Administrator"
)

type Role struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions int       `json:"permissions"`
	Default     bool      `json:"default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasPermission reports whether every bit of p is set.
func (r *Role) HasPermission(p int) bool {
	return r.Permissions&p == p
}

// AddPermission sets the bits of p. No-op if already present.
func (r *Role) AddPermission(p int) {
	if !r.HasPermission(p) {
		r.Permissions |= p
	}
}

// RemovePermission clears the bits of p. No-op if already absent.
func (r *Role) RemovePermission(p int) {
	if r.HasPermission(p) {
		r.Permissions &^= p
	}
}

// ResetPermissions clears the whole bitmask.
func (r *Role) ResetPermissions() {
	r.Permissions = 0
}

// CanonicalRolePermissions is the authoritative bitmask per role name.
// Reinitialization resets each role to exactly this set.
func CanonicalRolePermissions() map[string]int {
	return map[string]int{
		RoleMember:        PermissionVisit | PermissionMember,
		RoleModerator:     PermissionVisit | PermissionMember | PermissionModerate,
		RoleAdministrator: PermissionVisit | PermissionMember | PermissionModerate | PermissionAdmin,
	}
}
