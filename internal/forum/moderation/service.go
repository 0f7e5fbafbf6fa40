// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/constants"
	"github.com/taibuivan/yomira-support/internal/platform/validate"
	"github.com/taibuivan/yomira-support/internal/users/auth"
)

// Service performs moderator deletes and serves the moderator queue.
type Service struct {
	repository  Repository
	actors      ActorRepository
	revalidator Revalidator
	logger      *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, actors ActorRepository, revalidator Revalidator, logger *slog.Logger) *Service {
	return &Service{
		repository:  repository,
		actors:      actors,
		revalidator: revalidator,
		logger:      logger,
	}
}

// authorizeModerator loads the actor from the store and requires mod or above.
func (service *Service) authorizeModerator(context context.Context, actorID, action, targetID string) (*auth.User, error) {
	actor, err := service.actors.FindByID(context, actorID)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("moderation_service_actor_lookup_failed: %w", err)
	}

	if actor == nil || !actor.Role.IsModOrAbove() {
		service.logger.WarnContext(context, "moderation_denied",
			slog.String("actor_id", actorID),
			slog.String("action", action),
			slog.String("target_id", targetID),
		)
		return nil, apperr.Forbidden("not authorized")
	}
	return actor, nil
}

/*
DeleteThread hard-deletes a thread and its replies.

A thread that does not exist is reported as deleted.

Returns:
  - error: Forbidden or store failures
*/
func (service *Service) DeleteThread(context context.Context, actorID, threadID string) error {
	actor, err := service.authorizeModerator(context, actorID, "delete_thread", threadID)
	if err != nil {
		return err
	}

	if !validate.IsUUID(threadID) {
		return nil
	}

	removed, err := service.repository.DeleteThread(context, threadID)
	if err != nil {
		return fmt.Errorf("moderation_service_delete_thread_failed: %w", err)
	}
	if removed == nil {
		return nil
	}

	service.logger.InfoContext(context, "thread_deleted",
		slog.String("actor_id", actor.ID),
		slog.String("actor_role", string(actor.Role)),
		slog.String("thread_id", threadID),
		slog.String("author_id", removed.AuthorID),
	)

	service.revalidate(context, removed)
	return nil
}

// DeleteReply hard-deletes one reply. A reply that does not exist is reported as deleted.
func (service *Service) DeleteReply(context context.Context, actorID, replyID string) error {
	actor, err := service.authorizeModerator(context, actorID, "delete_reply", replyID)
	if err != nil {
		return err
	}

	if !validate.IsUUID(replyID) {
		return nil
	}

	removed, err := service.repository.DeleteReply(context, replyID)
	if err != nil {
		return fmt.Errorf("moderation_service_delete_reply_failed: %w", err)
	}
	if removed == nil {
		return nil
	}

	service.logger.InfoContext(context, "reply_deleted",
		slog.String("actor_id", actor.ID),
		slog.String("actor_role", string(actor.Role)),
		slog.String("reply_id", replyID),
		slog.String("thread_id", removed.ThreadID),
		slog.String("author_id", removed.AuthorID),
	)

	service.revalidate(context, removed)
	return nil
}

// Queue returns the newest threads and replies for the moderator page.
func (service *Service) Queue(context context.Context, actorID string) (*Queue, error) {
	if _, err := service.authorizeModerator(context, actorID, "view_queue", ""); err != nil {
		return nil, err
	}

	queue := &Queue{}
	group, groupCtx := errgroup.WithContext(context)

	group.Go(func() error {
		threads, err := service.repository.RecentThreads(groupCtx, QueueSize)
		queue.Threads = threads
		return err
	})
	group.Go(func() error {
		replies, err := service.repository.RecentReplies(groupCtx, QueueSize)
		queue.Replies = replies
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("moderation_service_queue_failed: %w", err)
	}
	return queue, nil
}

// revalidate drops every cached page that may have shown the removed content.
func (service *Service) revalidate(context context.Context, removed *Removed) {
	err := service.revalidator.Revalidate(context,
		constants.PathForum,
		constants.PathForum+"/"+removed.CategorySlug,
		constants.PathForumThread+removed.ThreadID,
		constants.PathProfile+removed.AuthorID,
		constants.PathAdmin,
	)
	if err != nil {
		service.logger.WarnContext(context, "moderation_revalidate_failed", slog.Any("error", err))
	}
}
