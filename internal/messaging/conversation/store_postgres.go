// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-support/internal/platform/database/schema"
	"github.com/taibuivan/yomira-support/internal/platform/dberr"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
)

const resourceConversation = "Conversation"

// PostgresRepository implements [Repository] on messaging.conversation.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var selectConversation = fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s`,
	schema.MessagingConversation.ID, schema.MessagingConversation.User1ID,
	schema.MessagingConversation.User2ID, schema.MessagingConversation.CreatedAt,
	schema.MessagingConversation.Table)

func scanConversation(row pgx.Row) (*Conversation, error) {
	c := &Conversation{}
	if err := row.Scan(&c.ID, &c.User1ID, &c.User2ID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

/*
GetOrCreate inserts the pair with ON CONFLICT DO NOTHING and reads it back.

Description: two participants starting the conversation at once both end on
the same row; the unique pair constraint picks the winner.
*/
func (repository *PostgresRepository) GetOrCreate(context context.Context, id, user1ID, user2ID string) (*Conversation, bool, error) {
	conv := schema.MessagingConversation

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO NOTHING
		RETURNING %s, %s, %s, %s`,
		conv.Table, conv.ID, conv.User1ID, conv.User2ID,
		conv.User1ID, conv.User2ID,
		conv.ID, conv.User1ID, conv.User2ID, conv.CreatedAt,
	)

	created, err := scanConversation(repository.pool.QueryRow(context, insert, id, user1ID, user2ID))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, dberr.Wrap(err, resourceConversation, "insert_conversation")
	}

	query := fmt.Sprintf(`%s WHERE %s = $1 AND %s = $2`, selectConversation, conv.User1ID, conv.User2ID)
	existing, err := scanConversation(repository.pool.QueryRow(context, query, user1ID, user2ID))
	if err != nil {
		return nil, false, dberr.Wrap(err, resourceConversation, "find_conversation_by_pair")
	}
	return existing, false, nil
}

// FindByID returns one conversation.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Conversation, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectConversation, schema.MessagingConversation.ID)

	c, err := scanConversation(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceConversation, "find_conversation")
	}
	return c, nil
}

// ListForUser returns the viewer's conversations joined to the other party's account.
func (repository *PostgresRepository) ListForUser(context context.Context, userID string) ([]*View, error) {
	conv := schema.MessagingConversation
	account := schema.UserAccount

	query := fmt.Sprintf(`
		SELECT m.%s, m.%s, a.%s, COALESCE(a.%s, ''), a.%s
		FROM %s m
		JOIN %s a ON a.%s = CASE WHEN m.%s = $1 THEN m.%s ELSE m.%s END
		WHERE m.%s = $1 OR m.%s = $1
		ORDER BY m.%s DESC, m.%s DESC`,
		conv.ID, conv.CreatedAt, account.ID, account.DisplayName, account.Role,
		conv.Table,
		account.Table, account.ID, conv.User1ID, conv.User2ID, conv.User1ID,
		conv.User1ID, conv.User2ID,
		conv.CreatedAt, conv.ID,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, resourceConversation, "list_conversations")
	}
	defer rows.Close()

	views := make([]*View, 0)
	for rows.Next() {
		view := &View{}
		var role string
		if err := rows.Scan(&view.ID, &view.CreatedAt, &view.With.ID, &view.With.DisplayName, &role); err != nil {
			return nil, dberr.Wrap(err, resourceConversation, "scan_conversation_view")
		}
		if view.With.Role, err = sec.ParseRole(role); err != nil {
			return nil, fmt.Errorf("participant %s: %w", view.With.ID, err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceConversation, "list_conversations_rows")
	}

	return views, nil
}
