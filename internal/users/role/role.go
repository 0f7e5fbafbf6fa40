// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package role implements role administration and the admin pages.

Every mutation re-reads the acting account from the store and applies
[sec.CanSetRole]; what the admin page offered in its role picker is never
trusted.
*/
package role

import (
	"context"

	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/users/auth"
)

// # Read Models

// ListFilter narrows the admin user listing.
type ListFilter struct {
	// Role keeps only accounts with this role when set.
	Role sec.UserRole
	// Email keeps only accounts whose email contains this substring.
	Email string
}

// Dashboard holds the admin landing page counts.
type Dashboard struct {
	Users      int `json:"users"`
	Threads    int `json:"threads"`
	Replies    int `json:"replies"`
	Categories int `json:"categories"`
}

// # Repository Contracts

// UserRepository is the subset of the account store needed to change roles.
type UserRepository interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	UpdateRole(context context.Context, userID string, role sec.UserRole) (*auth.User, error)
}

// AdminRepository serves the admin listings and counts.
type AdminRepository interface {

	/*
		ListUsers returns one page of accounts, newest first.

		Returns:
		  - []*auth.User: the page
		  - int: total matching accounts
		  - error: store failures
	*/
	ListUsers(context context.Context, filter ListFilter, limit, offset int) ([]*auth.User, int, error)

	CountUsers(context context.Context) (int, error)
	CountThreads(context context.Context) (int, error)
	CountReplies(context context.Context) (int, error)
	CountCategories(context context.Context) (int, error)
}

// Revalidator drops cached page payloads after a mutation.
type Revalidator interface {
	Revalidate(context context.Context, paths ...string) error
}
