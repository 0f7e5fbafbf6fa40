// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account identity and session management for the support site.

It owns the User entity and the users.account store, issues RS256 access tokens,
and rotates refresh tokens kept in Redis. Every other package that needs to know
who a caller is, and with which role, goes through [Service.CurrentUser] or
[Service.ResolvePrincipal], both of which read the store rather than the token.
*/
package auth

import (
	"context"
	"time"

	"github.com/taibuivan/yomira-support/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the support site.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	DisplayName  string       `json:"display_name,omitempty"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Label returns the name shown next to the user's posts.
func (user *User) Label() string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return "Member"
}

// # Field Identifiers

const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
)

// # Repository Contracts

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or store failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given normalized email.
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict when the email is taken, or store failures
	*/
	Create(context context.Context, user *User) error

	// UpdateDisplayName replaces the display name and bumps updatedAt.
	UpdateDisplayName(context context.Context, userID, displayName string) (*User, error)

	// UpdatePassword replaces only the password hash.
	UpdatePassword(context context.Context, userID, newHash string) error

	// UpdateRole persists a new role and bumps updatedAt.
	UpdateRole(context context.Context, userID string, role sec.UserRole) (*User, error)

	// PromoteToOwner sets the owner role on every existing account in emails.
	PromoteToOwner(context context.Context, emails []string) (int64, error)
}

// RefreshTokenRepository stores hashed refresh tokens with their owner.
type RefreshTokenRepository interface {

	// Save stores tokenHash for userID until ttl elapses.
	Save(context context.Context, tokenHash, userID string, ttl time.Duration) error

	/*
		Consume atomically reads and deletes tokenHash.

		Returns:
		  - string: the owning user id
		  - error: apperr.NotFound when the token is unknown, expired or already used
	*/
	Consume(context context.Context, tokenHash string) (string, error)

	// Delete removes tokenHash. Deleting an unknown token is not an error.
	Delete(context context.Context, tokenHash string) error
}
