// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thread

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/database/schema"
	"github.com/taibuivan/yomira-support/internal/platform/dberr"
	"github.com/taibuivan/yomira-support/internal/platform/postgres"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/pkg/slug"
)

const (
	resourceThread = "Thread"
	resourceReply  = "Reply"
)

// PostgresRepository implements [Repository] over forum.thread and forum.reply.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// threadViewSelect joins a thread with its author and category.
// Aliases: t thread, a account, c category.
var threadViewSelect = fmt.Sprintf(`
	SELECT
		t.%s, t.%s, t.%s, t.%s,
		a.%s, COALESCE(a.%s, ''), a.%s,
		c.%s, c.%s, c.%s,
		(SELECT COUNT(*) FROM %s r WHERE r.%s = t.%s)`,
	schema.ForumThread.ID, schema.ForumThread.Title, schema.ForumThread.CreatedAt, schema.ForumThread.UpdatedAt,
	schema.UserAccount.ID, schema.UserAccount.DisplayName, schema.UserAccount.Role,
	schema.ForumCategory.ID, schema.ForumCategory.Slug, schema.ForumCategory.Name,
	schema.ForumReply.Table, schema.ForumReply.ThreadID, schema.ForumThread.ID,
)

var threadViewFrom = fmt.Sprintf(`
	FROM %s t
	JOIN %s a ON a.%s = t.%s
	JOIN %s c ON c.%s = t.%s`,
	schema.ForumThread.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.ForumThread.AuthorID,
	schema.ForumCategory.Table, schema.ForumCategory.ID, schema.ForumThread.CategoryID,
)

// threadViewTargets returns the scan destinations matching threadViewSelect.
func threadViewTargets(view *ThreadView, role *string) []any {
	return []any{
		&view.ID, &view.Title, &view.CreatedAt, &view.UpdatedAt,
		&view.Author.ID, &view.Author.DisplayName, role,
		&view.Category.ID, &view.Category.Slug, &view.Category.Name,
		&view.ReplyCount,
	}
}

// finishView derives the fields not stored in the row.
func finishView(view *ThreadView, rawRole string) error {
	role, err := sec.ParseRole(rawRole)
	if err != nil {
		return fmt.Errorf("author %s: %w", view.Author.ID, err)
	}
	view.Author.Role = role
	view.Slug = slug.Truncated(view.Title, SlugMaxLength)
	return nil
}

/*
ListByCategory returns one page of a category's threads.

Description: the total is taken with COUNT(*) OVER() in the same statement, so
a page past the end reports a total of 0.
*/
func (repository *PostgresRepository) ListByCategory(context context.Context, categoryID string, limit, offset int) ([]*ThreadView, int, error) {
	query := fmt.Sprintf(`%s, COUNT(*) OVER() %s
		WHERE t.%s = $1
		ORDER BY t.%s DESC, t.%s DESC
		LIMIT $2 OFFSET $3`,
		threadViewSelect, threadViewFrom,
		schema.ForumThread.CategoryID,
		schema.ForumThread.UpdatedAt, schema.ForumThread.ID,
	)

	rows, err := repository.pool.Query(context, query, categoryID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceThread, "list_threads")
	}
	defer rows.Close()

	total := 0
	views := make([]*ThreadView, 0, limit)
	for rows.Next() {
		view := &ThreadView{}
		var role string
		if err := rows.Scan(append(threadViewTargets(view, &role), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, resourceThread, "scan_thread_view")
		}
		if err := finishView(view, role); err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceThread, "list_threads_rows")
	}

	return views, total, nil
}

// ListRecent returns the most recently created threads across every category.
func (repository *PostgresRepository) ListRecent(context context.Context, limit int) ([]*ThreadView, error) {
	query := fmt.Sprintf(`%s %s ORDER BY t.%s DESC, t.%s DESC LIMIT $1`,
		threadViewSelect, threadViewFrom, schema.ForumThread.CreatedAt, schema.ForumThread.ID)

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, resourceThread, "list_recent_threads")
	}
	defer rows.Close()

	views := make([]*ThreadView, 0, limit)
	for rows.Next() {
		view := &ThreadView{}
		var role string
		if err := rows.Scan(threadViewTargets(view, &role)...); err != nil {
			return nil, dberr.Wrap(err, resourceThread, "scan_thread_view")
		}
		if err := finishView(view, role); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceThread, "list_recent_threads_rows")
	}

	return views, nil
}

// FindDetail returns one thread view together with its body.
func (repository *PostgresRepository) FindDetail(context context.Context, id string) (*ThreadDetail, error) {
	query := fmt.Sprintf(`%s, t.%s %s WHERE t.%s = $1`,
		threadViewSelect, schema.ForumThread.Body, threadViewFrom, schema.ForumThread.ID)

	detail := &ThreadDetail{}
	var role string
	targets := append(threadViewTargets(&detail.ThreadView, &role), &detail.Body)
	if err := repository.pool.QueryRow(context, query, id).Scan(targets...); err != nil {
		return nil, dberr.Wrap(err, resourceThread, "find_thread")
	}
	if err := finishView(&detail.ThreadView, role); err != nil {
		return nil, err
	}

	return detail, nil
}

// ListReplies returns the replies of a thread in posting order.
func (repository *PostgresRepository) ListReplies(context context.Context, threadID string) ([]*ReplyView, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, COALESCE(a.%s, ''), a.%s
		FROM %s r
		JOIN %s a ON a.%s = r.%s
		WHERE r.%s = $1
		ORDER BY r.%s ASC, r.%s ASC`,
		schema.ForumReply.ID, schema.ForumReply.Body, schema.ForumReply.CreatedAt,
		schema.UserAccount.ID, schema.UserAccount.DisplayName, schema.UserAccount.Role,
		schema.ForumReply.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.ForumReply.AuthorID,
		schema.ForumReply.ThreadID,
		schema.ForumReply.CreatedAt, schema.ForumReply.ID,
	)

	rows, err := repository.pool.Query(context, query, threadID)
	if err != nil {
		return nil, dberr.Wrap(err, resourceReply, "list_replies")
	}
	defer rows.Close()

	replies := make([]*ReplyView, 0)
	for rows.Next() {
		reply := &ReplyView{}
		var role string
		if err := rows.Scan(&reply.ID, &reply.Body, &reply.CreatedAt, &reply.Author.ID, &reply.Author.DisplayName, &role); err != nil {
			return nil, dberr.Wrap(err, resourceReply, "scan_reply")
		}
		if reply.Author.Role, err = sec.ParseRole(role); err != nil {
			return nil, fmt.Errorf("author %s: %w", reply.Author.ID, err)
		}
		replies = append(replies, reply)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceReply, "list_replies_rows")
	}

	return replies, nil
}

// CreateThread inserts a thread; the store stamps both timestamps.
func (repository *PostgresRepository) CreateThread(context context.Context, thread *Thread) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s`,
		schema.ForumThread.Table,
		schema.ForumThread.ID, schema.ForumThread.Title, schema.ForumThread.Body,
		schema.ForumThread.AuthorID, schema.ForumThread.CategoryID,
		schema.ForumThread.CreatedAt, schema.ForumThread.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		thread.ID, thread.Title, thread.Body, thread.AuthorID, thread.CategoryID,
	).Scan(&thread.CreatedAt, &thread.UpdatedAt)

	return wrapWrite(err, resourceThread, "create_thread")
}

/*
CreateReply inserts a reply and bumps its thread inside one transaction.

Description: the thread row is updated first. That both confirms the thread
exists and holds its row lock, so a concurrent moderator delete either runs
before (NotFound here) or waits until the reply is committed and then removes it
with the thread.
*/
func (repository *PostgresRepository) CreateReply(context context.Context, reply *Reply) (*Thread, error) {
	bump := fmt.Sprintf(`
		UPDATE %s SET %s = now()
		WHERE %s = $1
		RETURNING %s, %s, %s, %s, %s, %s, %s`,
		schema.ForumThread.Table, schema.ForumThread.UpdatedAt,
		schema.ForumThread.ID,
		schema.ForumThread.ID, schema.ForumThread.Title, schema.ForumThread.Body,
		schema.ForumThread.AuthorID, schema.ForumThread.CategoryID,
		schema.ForumThread.CreatedAt, schema.ForumThread.UpdatedAt,
	)

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`,
		schema.ForumReply.Table,
		schema.ForumReply.ID, schema.ForumReply.Body, schema.ForumReply.ThreadID, schema.ForumReply.AuthorID,
		schema.ForumReply.CreatedAt,
	)

	parent := &Thread{}
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(context, bump, reply.ThreadID).Scan(
			&parent.ID, &parent.Title, &parent.Body, &parent.AuthorID, &parent.CategoryID,
			&parent.CreatedAt, &parent.UpdatedAt,
		); err != nil {
			return dberr.Wrap(err, resourceThread, "bump_thread")
		}

		err := tx.QueryRow(context, insert, reply.ID, reply.Body, reply.ThreadID, reply.AuthorID).Scan(&reply.CreatedAt)
		return wrapWrite(err, resourceReply, "create_reply")
	})
	if err != nil {
		return nil, err
	}

	return parent, nil
}

// wrapWrite maps a foreign-key failure on insert to the caller's vanished
// account; anything else goes through [dberr.Wrap].
func wrapWrite(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	if dberr.IsForeignKeyViolation(err) {
		unauthorized := apperr.Unauthorized("Account no longer exists")
		unauthorized.Cause = err
		return unauthorized
	}
	return dberr.Wrap(err, resource, action)
}
