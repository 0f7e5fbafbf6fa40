// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-support/internal/platform/database/schema"
	"github.com/taibuivan/yomira-support/internal/platform/dberr"
)

// PostgresActivityRepository implements [ActivityRepository].
type PostgresActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new PostgreSQL implementation of the ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *PostgresActivityRepository {
	return &PostgresActivityRepository{pool: pool}
}

// CountThreadsByAuthor counts the threads started by authorID.
func (repository *PostgresActivityRepository) CountThreadsByAuthor(context context.Context, authorID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.ForumThread.Table, schema.ForumThread.AuthorID)

	var count int
	if err := repository.pool.QueryRow(context, query, authorID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "Thread", "count_threads_by_author")
	}
	return count, nil
}

// CountRepliesByAuthor counts the replies written by authorID.
func (repository *PostgresActivityRepository) CountRepliesByAuthor(context context.Context, authorID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.ForumReply.Table, schema.ForumReply.AuthorID)

	var count int
	if err := repository.pool.QueryRow(context, query, authorID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "Reply", "count_replies_by_author")
	}
	return count, nil
}
