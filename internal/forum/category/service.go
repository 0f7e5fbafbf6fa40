// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yomira-support/internal/platform/dberr"
	"github.com/taibuivan/yomira-support/pkg/uuid"
)

// Service seeds and serves forum categories.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

/*
EnsureDefaultCategories seeds [Defaults] when the table is empty.

Two processes may both see an empty table. The unique slug makes the second
insert a no-op, and a unique violation that still escapes is a lost race, not a
failure. Calling it on a seeded table changes nothing. A seed using a reserved
slug fails the call before anything is written.
*/
func (service *Service) EnsureDefaultCategories(context context.Context) error {
	for _, seed := range Defaults {
		if IsReservedSlug(seed.Slug) {
			return fmt.Errorf("category_service_reserved_slug: %q", seed.Slug)
		}
	}

	count, err := service.repository.Count(context)
	if err != nil {
		return fmt.Errorf("category_service_count_failed: %w", err)
	}
	if count > 0 {
		return nil
	}

	inserted := 0
	for _, seed := range Defaults {
		seed.ID = uuid.New()

		wrote, err := service.repository.InsertIfAbsent(context, seed)
		if err != nil {
			if dberr.IsUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("category_service_seed_failed: %w", dberr.Wrap(err, "Category", "seed_category"))
		}
		if wrote {
			inserted++
		}
	}

	if inserted > 0 {
		service.logger.InfoContext(context, "categories_seeded", slog.Int("inserted", inserted))
	}
	return nil
}

// List returns every category, seeding the defaults first if none exist yet.
func (service *Service) List(context context.Context) ([]*Category, error) {
	categories, err := service.repository.List(context)
	if err != nil {
		return nil, fmt.Errorf("category_service_list_failed: %w", err)
	}
	if len(categories) > 0 {
		return categories, nil
	}

	if err := service.EnsureDefaultCategories(context); err != nil {
		return nil, err
	}

	categories, err = service.repository.List(context)
	if err != nil {
		return nil, fmt.Errorf("category_service_list_failed: %w", err)
	}
	return categories, nil
}
