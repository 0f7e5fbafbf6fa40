// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-support/internal/platform/database/schema"
	"github.com/taibuivan/yomira-support/internal/platform/dberr"
)

const resourceCategory = "Category"

// PostgresRepository implements [Repository] on forum.category.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var selectCategory = fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s`,
	schema.ForumCategory.ID, schema.ForumCategory.Slug, schema.ForumCategory.Name,
	schema.ForumCategory.Description, schema.ForumCategory.SortOrder, schema.ForumCategory.Table)

func scanCategory(row pgx.Row) (*Category, error) {
	c := &Category{}
	if err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.Order); err != nil {
		return nil, err
	}
	return c, nil
}

// Count returns the number of categories.
func (repository *PostgresRepository) Count(context context.Context) (int, error) {
	var total int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.ForumCategory.Table)
	if err := repository.pool.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, resourceCategory, "count_categories")
	}
	return total, nil
}

/*
InsertIfAbsent inserts a category with ON CONFLICT (slug) DO NOTHING.

Returns:
  - bool: true when this call wrote the row
  - error: store failures
*/
func (repository *PostgresRepository) InsertIfAbsent(context context.Context, c Category) (bool, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (%s) DO NOTHING`,
		schema.ForumCategory.Table,
		schema.ForumCategory.ID, schema.ForumCategory.Slug, schema.ForumCategory.Name,
		schema.ForumCategory.Description, schema.ForumCategory.SortOrder,
		schema.ForumCategory.Slug)

	tag, err := repository.pool.Exec(context, query, c.ID, c.Slug, c.Name, c.Description, c.Order)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// List returns every category in display order.
func (repository *PostgresRepository) List(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`%s ORDER BY %s ASC, %s ASC`, selectCategory, schema.ForumCategory.SortOrder, schema.ForumCategory.Slug)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, resourceCategory, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0, len(Defaults))
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceCategory, "scan_category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceCategory, "list_categories_rows")
	}
	return categories, nil
}

// FindBySlug returns the category with the given slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectCategory, schema.ForumCategory.Slug)

	c, err := scanCategory(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, resourceCategory, "find_category_by_slug")
	}
	return c, nil
}

// FindByID returns the category with the given id.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectCategory, schema.ForumCategory.ID)

	c, err := scanCategory(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceCategory, "find_category_by_id")
	}
	return c, nil
}
