// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package moderation removes forum content on behalf of moderators.

Deletes are hard and idempotent: a row that is already gone counts as removed.
The acting account's role is always read from the store at the moment of the
delete, and authorship grants nothing here.
*/
package moderation

import (
	"context"
	"time"

	"github.com/taibuivan/yomira-support/internal/forum/thread"
	"github.com/taibuivan/yomira-support/internal/users/auth"
)

// QueueSize is how many recent threads and replies the moderator queue shows.
const QueueSize = 50

// Removed describes what a delete took away, for cache revalidation.
type Removed struct {
	ThreadID     string
	AuthorID     string
	CategorySlug string
}

// QueueReply is a recent reply shown in the moderator queue.
type QueueReply struct {
	ID          string               `json:"id"`
	Body        string               `json:"body"`
	ThreadID    string               `json:"thread_id"`
	ThreadTitle string               `json:"thread_title"`
	Author      thread.AuthorSummary `json:"author"`
	CreatedAt   time.Time            `json:"created_at"`
}

// Queue is the payload of the moderator page.
type Queue struct {
	Threads []*thread.ThreadView `json:"threads"`
	Replies []*QueueReply        `json:"replies"`
}

// Repository defines the persistence contract for moderation.
type Repository interface {

	/*
		DeleteThread removes a thread and all of its replies in one transaction.

		Returns:
		  - *Removed: the deleted thread's identity, or nil when it did not exist
		  - error: store failures
	*/
	DeleteThread(context context.Context, threadID string) (*Removed, error)

	// DeleteReply removes one reply. It returns nil when the reply did not exist.
	DeleteReply(context context.Context, replyID string) (*Removed, error)

	RecentThreads(context context.Context, limit int) ([]*thread.ThreadView, error)
	RecentReplies(context context.Context, limit int) ([]*QueueReply, error)
}

// ActorRepository loads the acting account.
type ActorRepository interface {
	FindByID(context context.Context, id string) (*auth.User, error)
}

// Revalidator drops cached page payloads after a mutation.
type Revalidator interface {
	Revalidate(context context.Context, paths ...string) error
}
