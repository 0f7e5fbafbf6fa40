// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package thread serves forum threads and replies.

Reads return normalized views: each thread carries a small author summary and a
category summary resolved by the store, so a page never stitches rows together
itself. Writes are open to any signed-in account; removing content belongs to
the moderation package.
*/
package thread

import (
	"context"
	"time"

	"github.com/taibuivan/yomira-support/internal/forum/category"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
)

// # Input Limits

const (
	TitleMinLength     = 3
	TitleMaxLength     = 200
	BodyMaxLength      = 20000
	ReplyBodyMaxLength = 10000

	// SlugMaxLength bounds the cosmetic permalink slug derived from a title.
	SlugMaxLength = 80
)

// Request field identifiers.
const (
	FieldTitle        = "title"
	FieldBody         = "body"
	FieldCategorySlug = "category_slug"
)

// # Entities

// Thread is one forum topic as stored.
type Thread struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	AuthorID   string    `json:"author_id"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Reply is one answer inside a thread.
type Reply struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	ThreadID  string    `json:"thread_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// # Read Models

// AuthorSummary is the public face of a post's author.
type AuthorSummary struct {
	ID          string       `json:"id"`
	DisplayName string       `json:"display_name"`
	Role        sec.UserRole `json:"role"`
}

// CategorySummary identifies the category a thread lives in.
type CategorySummary struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ThreadView is a thread as listed on a category page.
type ThreadView struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Slug       string          `json:"slug"`
	Author     AuthorSummary   `json:"author"`
	Category   CategorySummary `json:"category"`
	ReplyCount int             `json:"reply_count"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ReplyView is a reply with its author summary.
type ReplyView struct {
	ID        string        `json:"id"`
	Body      string        `json:"body"`
	Author    AuthorSummary `json:"author"`
	CreatedAt time.Time     `json:"created_at"`
}

// ThreadDetail is the payload of a thread page.
type ThreadDetail struct {
	ThreadView
	Body    string       `json:"body"`
	Replies []*ReplyView `json:"replies"`
}

// CategoryPage is the payload of a category page.
type CategoryPage struct {
	Category *category.Category `json:"category"`
	Threads  []*ThreadView      `json:"threads"`
}

// CreateThreadInput is the body of a new thread.
type CreateThreadInput struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	CategorySlug string `json:"category_slug"`
}

// # Repository Contracts

// Repository defines the persistence contract for threads and replies.
type Repository interface {

	/*
		ListByCategory returns one page of a category's threads, most recently
		active first.

		Returns:
		  - []*ThreadView: the page
		  - int: total threads in the category
		  - error: store failures
	*/
	ListByCategory(context context.Context, categoryID string, limit, offset int) ([]*ThreadView, int, error)

	// FindDetail returns the thread view and body. Replies are loaded separately.
	FindDetail(context context.Context, id string) (*ThreadDetail, error)

	// ListReplies returns every reply of a thread, oldest first.
	ListReplies(context context.Context, threadID string) ([]*ReplyView, error)

	CreateThread(context context.Context, thread *Thread) error

	// CreateReply inserts a reply and bumps the thread's updatedAt in one
	// transaction. It returns NotFound when the thread is gone.
	CreateReply(context context.Context, reply *Reply) (*Thread, error)
}

// CategoryReader resolves the category a thread is filed under.
type CategoryReader interface {
	FindBySlug(context context.Context, slug string) (*category.Category, error)
	FindByID(context context.Context, id string) (*category.Category, error)
}

// Revalidator drops cached page payloads after a mutation.
type Revalidator interface {
	Revalidate(context context.Context, paths ...string) error
}
