// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
)

/*
TestUserRole_Predicates checks both predicates against the rank of every role.
*/
func TestUserRole_Predicates(t *testing.T) {
	tests := []struct {
		role        sec.UserRole
		rank        int
		modOrAbove  bool
		adminOrHigh bool
	}{
		{sec.RoleUser, 0, false, false},
		{sec.RoleMod, 1, true, false},
		{sec.RoleAdmin, 2, true, true},
		{sec.RoleOwner, 3, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.rank, tt.role.Rank())
			assert.Equal(t, tt.modOrAbove, tt.role.IsModOrAbove())
			assert.Equal(t, tt.adminOrHigh, tt.role.IsAdmin())
			assert.Equal(t, tt.role.Rank() >= sec.RoleMod.Rank(), tt.role.IsModOrAbove())
			assert.Equal(t, tt.role.Rank() >= sec.RoleAdmin.Rank(), tt.role.IsAdmin())
		})
	}
}

/*
TestUserRole_Monotonic verifies that predicates never flip back to false as rank grows.
*/
func TestUserRole_Monotonic(t *testing.T) {
	for i := 1; i < len(sec.Roles); i++ {
		lower, higher := sec.Roles[i-1], sec.Roles[i]

		assert.Less(t, lower.Rank(), higher.Rank())
		assert.True(t, higher.AtLeast(lower))
		assert.False(t, lower.AtLeast(higher))

		if lower.IsModOrAbove() {
			assert.True(t, higher.IsModOrAbove())
		}
		if lower.IsAdmin() {
			assert.True(t, higher.IsAdmin())
		}
	}
}

/*
TestUserRole_UnknownRanksAsUser ensures an empty or garbage role never grants privilege.
*/
func TestUserRole_UnknownRanksAsUser(t *testing.T) {
	for _, raw := range []string{"", "superuser", "ADMIN "} {
		role := sec.UserRole(raw)
		assert.Equal(t, sec.RoleUser.Rank(), role.Rank())
		assert.False(t, role.IsModOrAbove())
		assert.False(t, role.IsAdmin())
		assert.False(t, role.Valid())
	}
}

/*
TestParseRole accepts the closed set only.
*/
func TestParseRole(t *testing.T) {
	role, err := sec.ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, role)

	for _, raw := range []string{"", "moderator", "root"} {
		_, err := sec.ParseRole(raw)
		assert.Error(t, err, raw)
	}
}

/*
TestCanSetRole walks the ordered role-change rules.
*/
func TestCanSetRole(t *testing.T) {
	tests := []struct {
		name    string
		actor   sec.UserRole
		current sec.UserRole
		next    sec.UserRole
		message string
	}{
		{"user_cannot_change_roles", sec.RoleUser, sec.RoleUser, sec.RoleMod, "not authorized"},
		{"mod_cannot_change_roles", sec.RoleMod, sec.RoleUser, sec.RoleMod, "not authorized"},
		{"admin_promotes_user", sec.RoleAdmin, sec.RoleUser, sec.RoleMod, ""},
		{"admin_demotes_admin", sec.RoleAdmin, sec.RoleAdmin, sec.RoleUser, ""},
		{"admin_cannot_demote_owner", sec.RoleAdmin, sec.RoleOwner, sec.RoleMod, "only owner may modify an owner"},
		{"admin_cannot_grant_owner", sec.RoleAdmin, sec.RoleUser, sec.RoleOwner, "only owner may grant owner"},
		{"owner_demotes_owner", sec.RoleOwner, sec.RoleOwner, sec.RoleMod, ""},
		{"owner_grants_owner", sec.RoleOwner, sec.RoleUser, sec.RoleOwner, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sec.CanSetRole(tt.actor, tt.current, tt.next)
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "FORBIDDEN", ae.Code)
			assert.Equal(t, tt.message, ae.Message)
		})
	}
}
