// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"strings"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
)

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Default role for standard registered users
	RoleUser UserRole = "user"

	// Can delete forum threads and replies
	RoleMod UserRole = "mod"

	// Can manage users and change their roles (except owners)
	RoleAdmin UserRole = "admin"

	// Unrestricted system access, including granting or revoking owner
	RoleOwner UserRole = "owner"
)

// Roles lists every valid role from lowest to highest privilege.
var Roles = []UserRole{RoleUser, RoleMod, RoleAdmin, RoleOwner}

// # Role Hierarchy

// Rank maps a role onto the total order user(0) < mod(1) < admin(2) < owner(3).
//
// Empty or unknown values rank as [RoleUser]; the lowest privilege is the only
// safe reading of a role we cannot interpret.
func (r UserRole) Rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleMod:
		return 1
	default:
		return 0
	}
}

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.Rank() >= target.Rank()
}

// IsModOrAbove reports whether the role may moderate forum content.
func (r UserRole) IsModOrAbove() bool {
	return r.AtLeast(RoleMod)
}

// IsAdmin reports whether the role may reach the admin area.
func (r UserRole) IsAdmin() bool {
	return r.AtLeast(RoleAdmin)
}

// IsOwner reports whether the role is exactly owner.
func (r UserRole) IsOwner() bool {
	return r == RoleOwner
}

// Valid reports whether r is one of the four known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleMod, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// ParseRole converts raw input into a [UserRole].
//
// Unlike [UserRole.Rank], it is strict: unknown values are rejected rather than
// downgraded, so a corrupt row or a crafted request never slips through as "user".
func ParseRole(raw string) (UserRole, error) {
	role := UserRole(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}
	return role, nil
}

// # Mutation Rules

// CanSetRole applies the role-change rules in order:
//
//  1. the actor must be admin or above;
//  2. only an owner may modify an account that is currently owner;
//  3. only an owner may grant the owner role.
//
// It returns nil when the change is allowed, otherwise a Forbidden [apperr.AppError].
func CanSetRole(actor, current, next UserRole) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("not authorized")
	}

	if current == RoleOwner && !actor.IsOwner() {
		return apperr.Forbidden("only owner may modify an owner")
	}

	if next == RoleOwner && !actor.IsOwner() {
		return apperr.Forbidden("only owner may grant owner")
	}

	return nil
}
