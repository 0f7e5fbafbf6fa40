// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles a member's own profile and the public profile page.

# Architecture

  - Domain: This package depends on the auth package for the User entity and store.
  - Reads: the public profile loads the account and its post counts concurrently.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/users/auth"
)

// # Domain Entities

// PublicProfile is what any visitor may see about a member.
type PublicProfile struct {
	ID          string       `json:"id"`
	DisplayName string       `json:"display_name"`
	Role        sec.UserRole `json:"role"`
	JoinedAt    time.Time    `json:"joined_at"`
	ThreadCount int          `json:"thread_count"`
	ReplyCount  int          `json:"reply_count"`
}

// # Repository Contracts

// AccountRepository is the subset of the user store this package writes through.
type AccountRepository interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	UpdateDisplayName(context context.Context, userID, displayName string) (*auth.User, error)
	UpdatePassword(context context.Context, userID, newHash string) error
}

// Revalidator drops cached page payloads after a mutation.
type Revalidator interface {
	Revalidate(context context.Context, paths ...string) error
}

// ActivityRepository counts a member's forum posts.
type ActivityRepository interface {
	CountThreadsByAuthor(context context.Context, authorID string) (int, error)
	CountRepliesByAuthor(context context.Context, authorID string) (int, error)
}
