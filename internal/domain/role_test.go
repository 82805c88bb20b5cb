package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleHasPermission(t *testing.T) {
	role := Role{Permissions: PermissionVisit | PermissionMember}

	assert.True(t, role.HasPermission(PermissionVisit))
	assert.True(t, role.HasPermission(PermissionMember))
	assert.True(t, role.HasPermission(PermissionVisit|PermissionMember))
	assert.False(t, role.HasPermission(PermissionAdmin))
	assert.False(t, role.HasPermission(PermissionMember|PermissionAdmin))
}

func TestRoleAddPermission_Idempotent(t *testing.T) {
	role := Role{}

	role.AddPermission(PermissionModerate)
	role.AddPermission(PermissionModerate)

	assert.Equal(t, PermissionModerate, role.Permissions)
}

func TestRoleRemovePermission_Idempotent(t *testing.T) {
	role := Role{Permissions: PermissionVisit | PermissionAdmin}

	role.RemovePermission(PermissionAdmin)
	role.RemovePermission(PermissionAdmin)

	assert.Equal(t, PermissionVisit, role.Permissions)
}

func TestCanonicalRolePermissions(t *testing.T) {
	canonical := CanonicalRolePermissions()

	admin := Role{Permissions: canonical[RoleAdministrator]}
	assert.True(t, admin.HasPermission(PermissionVisit))
	assert.True(t, admin.HasPermission(PermissionAdmin))

	member := Role{Permissions: canonical[RoleMember]}
	assert.True(t, member.HasPermission(PermissionMember))
	assert.False(t, member.HasPermission(PermissionModerate))
	assert.False(t, member.HasPermission(PermissionAdmin))
}
