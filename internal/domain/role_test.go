package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"MEMBER", "OFFICER", "ADMIN"} {
		role, err := ParseRole(s)
		require.NoError(t, err)
		assert.True(t, role.Valid())
	}

	for _, s := range []string{"", "member", "owner", "SUPERADMIN"} {
		_, err := ParseRole(s)
		assert.Error(t, err, "ParseRole(%q)", s)
	}
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleMember, RoleMember, true},
		{RoleMember, RoleOfficer, false},
		{RoleMember, RoleAdmin, false},
		{RoleOfficer, RoleMember, true},
		{RoleOfficer, RoleOfficer, true},
		{RoleOfficer, RoleAdmin, false},
		{RoleAdmin, RoleMember, true},
		{RoleAdmin, RoleOfficer, true},
		{RoleAdmin, RoleAdmin, true},
		{Role("bogus"), RoleMember, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.AtLeast(tt.min), "%s at least %s", tt.role, tt.min)
	}
}
