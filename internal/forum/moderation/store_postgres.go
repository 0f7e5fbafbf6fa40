// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-support/internal/forum/thread"
	"github.com/taibuivan/yomira-support/internal/platform/database/schema"
	"github.com/taibuivan/yomira-support/internal/platform/dberr"
	"github.com/taibuivan/yomira-support/internal/platform/postgres"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
)

// PostgresRepository implements [Repository].
type PostgresRepository struct {
	pool    *pgxpool.Pool
	threads *thread.PostgresRepository
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool, threads: thread.NewPostgresRepository(pool)}
}

/*
DeleteThread removes the replies, then the thread, inside one transaction.

Description: the thread row is locked first so that a reply racing the delete
either lands before the lock (and is removed here) or fails to find its thread.
The reply foreign key also cascades, so the explicit reply delete only makes the
order visible in one place.
*/
func (repository *PostgresRepository) DeleteThread(context context.Context, threadID string) (*Removed, error) {
	lock := fmt.Sprintf(`
		SELECT t.%s, c.%s
		FROM %s t
		JOIN %s c ON c.%s = t.%s
		WHERE t.%s = $1
		FOR UPDATE OF t`,
		schema.ForumThread.AuthorID, schema.ForumCategory.Slug,
		schema.ForumThread.Table,
		schema.ForumCategory.Table, schema.ForumCategory.ID, schema.ForumThread.CategoryID,
		schema.ForumThread.ID,
	)
	deleteReplies := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ForumReply.Table, schema.ForumReply.ThreadID)
	deleteThread := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ForumThread.Table, schema.ForumThread.ID)

	var removed *Removed
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		target := &Removed{ThreadID: threadID}
		if err := tx.QueryRow(context, lock, threadID).Scan(&target.AuthorID, &target.CategorySlug); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return dberr.Wrap(err, "Thread", "lock_thread")
		}

		if _, err := tx.Exec(context, deleteReplies, threadID); err != nil {
			return dberr.Wrap(err, "Reply", "delete_thread_replies")
		}
		if _, err := tx.Exec(context, deleteThread, threadID); err != nil {
			return dberr.Wrap(err, "Thread", "delete_thread")
		}

		removed = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}

// DeleteReply removes one reply and reports where it lived.
func (repository *PostgresRepository) DeleteReply(context context.Context, replyID string) (*Removed, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s r
		USING %s t, %s c
		WHERE r.%s = $1 AND t.%s = r.%s AND c.%s = t.%s
		RETURNING r.%s, r.%s, c.%s`,
		schema.ForumReply.Table,
		schema.ForumThread.Table, schema.ForumCategory.Table,
		schema.ForumReply.ID, schema.ForumThread.ID, schema.ForumReply.ThreadID,
		schema.ForumCategory.ID, schema.ForumThread.CategoryID,
		schema.ForumReply.ThreadID, schema.ForumReply.AuthorID, schema.ForumCategory.Slug,
	)

	removed := &Removed{}
	err := repository.pool.QueryRow(context, query, replyID).Scan(&removed.ThreadID, &removed.AuthorID, &removed.CategorySlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "Reply", "delete_reply")
	}

	return removed, nil
}

// RecentThreads returns the newest threads across the forum.
func (repository *PostgresRepository) RecentThreads(context context.Context, limit int) ([]*thread.ThreadView, error) {
	return repository.threads.ListRecent(context, limit)
}

// RecentReplies returns the newest replies with their thread titles.
func (repository *PostgresRepository) RecentReplies(context context.Context, limit int) ([]*QueueReply, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, t.%s, a.%s, COALESCE(a.%s, ''), a.%s, r.%s
		FROM %s r
		JOIN %s t ON t.%s = r.%s
		JOIN %s a ON a.%s = r.%s
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $1`,
		schema.ForumReply.ID, schema.ForumReply.Body, schema.ForumReply.ThreadID, schema.ForumThread.Title,
		schema.UserAccount.ID, schema.UserAccount.DisplayName, schema.UserAccount.Role, schema.ForumReply.CreatedAt,
		schema.ForumReply.Table,
		schema.ForumThread.Table, schema.ForumThread.ID, schema.ForumReply.ThreadID,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.ForumReply.AuthorID,
		schema.ForumReply.CreatedAt, schema.ForumReply.ID,
	)

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "Reply", "list_recent_replies")
	}
	defer rows.Close()

	replies := make([]*QueueReply, 0, limit)
	for rows.Next() {
		reply := &QueueReply{}
		var role string
		if err := rows.Scan(
			&reply.ID, &reply.Body, &reply.ThreadID, &reply.ThreadTitle,
			&reply.Author.ID, &reply.Author.DisplayName, &role, &reply.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "Reply", "scan_recent_reply")
		}
		if reply.Author.Role, err = sec.ParseRole(role); err != nil {
			return nil, fmt.Errorf("author %s: %w", reply.Author.ID, err)
		}
		replies = append(replies, reply)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Reply", "list_recent_replies_rows")
	}

	return replies, nil
}
