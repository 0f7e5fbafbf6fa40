// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-support/internal/platform/database/schema"
	"github.com/taibuivan/yomira-support/internal/platform/dberr"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/users/auth"
)

// PostgresAdminRepository implements [AdminRepository].
type PostgresAdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new PostgreSQL implementation of the AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *PostgresAdminRepository {
	return &PostgresAdminRepository{pool: pool}
}

// escapeLike escapes the LIKE wildcards in a user-supplied search term.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// ListUsers returns one page of accounts, newest first, with the total count.
func (repository *PostgresAdminRepository) ListUsers(context context.Context, filter ListFilter, limit, offset int) ([]*auth.User, int, error) {
	account := schema.UserAccount

	conditions := []string{"TRUE"}
	args := []any{}

	if filter.Role != "" {
		args = append(args, string(filter.Role))
		conditions = append(conditions, fmt.Sprintf("%s = $%d", account.Role, len(args)))
	}
	if filter.Email != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(filter.Email))+"%")
		conditions = append(conditions, fmt.Sprintf("%s LIKE $%d", account.Email, len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, account.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "User", "count_users_filtered")
	}

	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(`
		SELECT %s, %s, COALESCE(%s, ''), %s, %s, %s
		FROM %s
		WHERE %s
		ORDER BY %s DESC, %s DESC
		LIMIT $%d OFFSET $%d`,
		account.ID, account.Email, account.DisplayName, account.Role, account.CreatedAt, account.UpdatedAt,
		account.Table,
		where,
		account.CreatedAt, account.ID,
		len(args)-1, len(args),
	)

	rows, err := repository.pool.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User", "list_users")
	}
	defer rows.Close()

	users := make([]*auth.User, 0, limit)
	for rows.Next() {
		user := &auth.User{}
		var rawRole string
		if err := rows.Scan(&user.ID, &user.Email, &user.DisplayName, &rawRole, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "User", "scan_user")
		}
		if user.Role, err = sec.ParseRole(rawRole); err != nil {
			return nil, 0, dberr.Wrap(fmt.Errorf("user %s: %w", user.ID, err), "User", "scan_user_role")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "User", "list_users_rows")
	}

	return users, total, nil
}

func (repository *PostgresAdminRepository) count(context context.Context, table, resource string) (int, error) {
	var total int
	if err := repository.pool.QueryRow(context, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, resource, "count_"+strings.ToLower(resource))
	}
	return total, nil
}

// CountUsers counts every account.
func (repository *PostgresAdminRepository) CountUsers(context context.Context) (int, error) {
	return repository.count(context, schema.UserAccount.Table, "User")
}

// CountThreads counts every thread.
func (repository *PostgresAdminRepository) CountThreads(context context.Context) (int, error) {
	return repository.count(context, schema.ForumThread.Table, "Thread")
}

// CountReplies counts every reply.
func (repository *PostgresAdminRepository) CountReplies(context context.Context) (int, error) {
	return repository.count(context, schema.ForumReply.Table, "Reply")
}

// CountCategories counts every category.
func (repository *PostgresAdminRepository) CountCategories(context context.Context) (int, error) {
	return repository.count(context, schema.ForumCategory.Table, "Category")
}
