// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package category owns the forum categories and their one-time seeding.

Categories are reference data: seeded once when the table is empty and never
mutated through the API.
*/
package category

import (
	"context"
	"slices"
	"strings"

	"github.com/taibuivan/yomira-support/internal/platform/constants"
)

// Category groups forum threads.
type Category struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// Defaults is the seed set inserted into an empty table.
var Defaults = []Category{
	{Slug: "server-manager", Name: "Server Manager", Description: "Setup, configuration and troubleshooting of the server manager.", Order: 1},
	{Slug: "general", Name: "General", Description: "Everything else.", Order: 2},
}

// ReservedSlugs collide with fixed routes under the forum path.
var ReservedSlugs = []string{
	strings.Trim(strings.TrimPrefix(constants.PathForumThread, constants.PathForum), "/"),
}

// IsReservedSlug reports whether slug can never name a category.
func IsReservedSlug(slug string) bool {
	return slices.Contains(ReservedSlugs, slug)
}

// Repository defines the persistence contract for categories.
type Repository interface {
	Count(context context.Context) (int, error)

	// InsertIfAbsent inserts c unless its slug exists and reports whether a row was written.
	InsertIfAbsent(context context.Context, c Category) (bool, error)

	List(context context.Context) ([]*Category, error)
	FindBySlug(context context.Context, slug string) (*Category, error)
	FindByID(context context.Context, id string) (*Category, error)
}
