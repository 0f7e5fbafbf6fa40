// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thread

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/constants"
	"github.com/taibuivan/yomira-support/internal/platform/validate"
	"github.com/taibuivan/yomira-support/pkg/pagination"
	"github.com/taibuivan/yomira-support/pkg/uuid"
)

// Service implements thread and reply reads and writes.
type Service struct {
	repository  Repository
	categories  CategoryReader
	revalidator Revalidator
	logger      *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, categories CategoryReader, revalidator Revalidator, logger *slog.Logger) *Service {
	return &Service{
		repository:  repository,
		categories:  categories,
		revalidator: revalidator,
		logger:      logger,
	}
}

// ListByCategory returns one page of the threads filed under categorySlug.
func (service *Service) ListByCategory(context context.Context, categorySlug string, page pagination.Params) (*CategoryPage, pagination.Meta, error) {
	c, err := service.categories.FindBySlug(context, categorySlug)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("thread_service_category_lookup_failed: %w", err)
	}

	threads, total, err := service.repository.ListByCategory(context, c.ID, page.Limit, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("thread_service_list_failed: %w", err)
	}

	return &CategoryPage{Category: c, Threads: threads}, pagination.NewMeta(page.Page, page.Limit, total), nil
}

// Get returns a thread with all of its replies. The two reads run concurrently.
func (service *Service) Get(context context.Context, id string) (*ThreadDetail, error) {
	if !validate.IsUUID(id) {
		return nil, apperr.NotFound(resourceThread)
	}

	var (
		detail  *ThreadDetail
		replies []*ReplyView
	)

	group, groupCtx := errgroup.WithContext(context)
	group.Go(func() error {
		var err error
		detail, err = service.repository.FindDetail(groupCtx, id)
		return err
	})
	group.Go(func() error {
		var err error
		replies, err = service.repository.ListReplies(groupCtx, id)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("thread_service_get_failed: %w", err)
	}

	detail.Replies = replies
	return detail, nil
}

/*
CreateThread files a new thread by authorID.

Returns:
  - *Thread: the stored thread
  - error: ValidationError, NotFound (category) or store failures
*/
func (service *Service) CreateThread(context context.Context, authorID string, input CreateThreadInput) (*Thread, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.CategorySlug = strings.TrimSpace(input.CategorySlug)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MinLen(FieldTitle, input.Title, TitleMinLength).
		MaxLen(FieldTitle, input.Title, TitleMaxLength).
		Custom(FieldBody, strings.TrimSpace(input.Body) == "", "Body is required").
		MaxLen(FieldBody, input.Body, BodyMaxLength).
		Slug(FieldCategorySlug, input.CategorySlug)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	c, err := service.categories.FindBySlug(context, input.CategorySlug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, validate.FieldError(FieldCategorySlug, "Unknown category")
		}
		return nil, fmt.Errorf("thread_service_category_lookup_failed: %w", err)
	}

	thread := &Thread{
		ID:         uuid.New(),
		Title:      input.Title,
		Body:       input.Body,
		AuthorID:   authorID,
		CategoryID: c.ID,
	}
	if err := service.repository.CreateThread(context, thread); err != nil {
		return nil, fmt.Errorf("thread_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "thread_created",
		slog.String("thread_id", thread.ID),
		slog.String("author_id", authorID),
		slog.String("category", c.Slug),
	)

	service.revalidate(context,
		constants.PathForum,
		constants.PathForum+"/"+c.Slug,
		constants.PathProfile+authorID,
	)

	return thread, nil
}

// CreateReply posts body as a reply to threadID and bumps the thread.
func (service *Service) CreateReply(context context.Context, authorID, threadID, body string) (*Reply, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldBody, strings.TrimSpace(body) == "", "Body is required").
		MaxLen(FieldBody, body, ReplyBodyMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	reply := &Reply{
		ID:       uuid.New(),
		Body:     body,
		ThreadID: threadID,
		AuthorID: authorID,
	}
	parent, err := service.repository.CreateReply(context, reply)
	if err != nil {
		return nil, fmt.Errorf("thread_service_reply_failed: %w", err)
	}

	paths := []string{
		constants.PathForum,
		constants.PathForumThread + threadID,
		constants.PathProfile + authorID,
	}
	if c, err := service.categories.FindByID(context, parent.CategoryID); err == nil {
		paths = append(paths, constants.PathForum+"/"+c.Slug)
	} else {
		service.logger.WarnContext(context, "reply_category_lookup_failed", slog.Any("error", err))
	}

	service.logger.InfoContext(context, "reply_created",
		slog.String("reply_id", reply.ID),
		slog.String("thread_id", threadID),
		slog.String("author_id", authorID),
	)

	service.revalidate(context, paths...)
	return reply, nil
}

// revalidate drops cached pages. A cache failure never fails the write.
func (service *Service) revalidate(context context.Context, paths ...string) {
	if err := service.revalidator.Revalidate(context, paths...); err != nil {
		service.logger.WarnContext(context, "thread_revalidate_failed", slog.Any("error", err))
	}
}
