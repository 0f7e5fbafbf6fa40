// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-support/internal/platform/database/schema"
	"github.com/taibuivan/yomira-support/internal/platform/dberr"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
)

// resourceUser names the resource in NotFound and Conflict messages.
const resourceUser = "User"

// # User Repository

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the select list scanned by [scanUser].
var userColumns = strings.Join([]string{
	schema.UserAccount.ID,
	schema.UserAccount.Email,
	fmt.Sprintf("COALESCE(%s, '')", schema.UserAccount.DisplayName),
	schema.UserAccount.Password,
	schema.UserAccount.Role,
	schema.UserAccount.CreatedAt,
	schema.UserAccount.UpdatedAt,
}, ", ")

// scanUser hydrates a [User] and rejects roles outside the hierarchy, so a
// corrupted row can never surface as a privileged account.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var rawRole string

	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&rawRole,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	role, err := sec.ParseRole(rawRole)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}
	user.Role = role

	return user, nil
}

/*
FindByID retrieves an account by its primary key.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or store failures
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "find_user_by_id")
	}
	return user, nil
}

// FindByEmail retrieves an account by its normalized email address.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.Email)

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "find_user_by_email")
	}
	return user, nil
}

/*
Create inserts a new account row.

The unique index on email is the real duplicate guard: a concurrent
registration that loses the race surfaces here as apperr.Conflict.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.DisplayName,
		schema.UserAccount.Password, schema.UserAccount.Role,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, resourceUser, "create_user")
	}
	return nil
}

// UpdateDisplayName replaces the display name and returns the updated row.
func (repository *PostgresUserRepository) UpdateDisplayName(context context.Context, userID, displayName string) (*User, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1 RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.DisplayName, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, userColumns)

	user, err := scanUser(repository.pool.QueryRow(context, query, userID, displayName))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "update_display_name")
	}
	return user, nil
}

// UpdatePassword replaces only the user's password hash.
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, userID, newHash)
	if err != nil {
		return dberr.Wrap(err, resourceUser, "update_password")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser, "update_password")
	}
	return nil
}

/*
UpdateRole persists a new role with a refreshed updatedAt.

Returns:
  - *User: the updated account
  - error: apperr.NotFound if the account vanished, or store failures
*/
func (repository *PostgresUserRepository) UpdateRole(context context.Context, userID string, role sec.UserRole) (*User, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1 RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Role, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, userColumns)

	user, err := scanUser(repository.pool.QueryRow(context, query, userID, string(role)))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "update_role")
	}
	return user, nil
}

// PromoteToOwner grants owner to every listed account not already an owner.
func (repository *PostgresUserRepository) PromoteToOwner(context context.Context, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = now() WHERE %s = ANY($2) AND %s <> $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Role, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Email, schema.UserAccount.Role)

	tag, err := repository.pool.Exec(context, query, string(sec.RoleOwner), emails)
	if err != nil {
		return 0, dberr.Wrap(err, resourceUser, "promote_owners")
	}
	return tag.RowsAffected(), nil
}
