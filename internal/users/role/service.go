// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/constants"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/platform/validate"
	"github.com/taibuivan/yomira-support/internal/users/auth"
	"github.com/taibuivan/yomira-support/pkg/pagination"
)

// FieldRole is the request field carrying the requested role.
const FieldRole = "role"

// Service applies role changes and serves the admin read models.
type Service struct {
	userRepository  UserRepository
	adminRepository AdminRepository
	revalidator     Revalidator
	logger          *slog.Logger
}

// NewService constructs a new [Service].
func NewService(userRepo UserRepository, adminRepo AdminRepository, revalidator Revalidator, logger *slog.Logger) *Service {
	return &Service{
		userRepository:  userRepo,
		adminRepository: adminRepo,
		revalidator:     revalidator,
		logger:          logger,
	}
}

// authorizeAdmin loads the actor from the store and requires admin or above.
// A vanished actor is refused the same way as an under-privileged one.
func (service *Service) authorizeAdmin(context context.Context, actorID string) (*auth.User, error) {
	actor, err := service.userRepository.FindByID(context, actorID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Forbidden("not authorized")
		}
		return nil, fmt.Errorf("role_service_actor_lookup_failed: %w", err)
	}

	if !actor.Role.IsAdmin() {
		return nil, apperr.Forbidden("not authorized")
	}
	return actor, nil
}

/*
SetRole changes targetUserID's role on behalf of actorID.

Rules, in order:
 1. the actor, as currently stored, must be admin or above;
 2. newRole must be one of user, mod, admin, owner;
 3. the target must exist, and an owner target may only be changed by an owner;
 4. only an owner may grant owner;
 5. a role equal to the current one is accepted without a write.

On a real change the admin pages are revalidated and the change is logged.

Returns:
  - *auth.User: the target as stored after the call
  - error: Forbidden, ValidationError, NotFound or store failures
*/
func (service *Service) SetRole(context context.Context, actorID, targetUserID, newRole string) (*auth.User, error) {
	actor, err := service.authorizeAdmin(context, actorID)
	if err != nil {
		return nil, err
	}

	next, err := sec.ParseRole(newRole)
	if err != nil {
		return nil, validate.FieldError(FieldRole, "Role must be one of user, mod, admin, owner")
	}

	target, err := service.userRepository.FindByID(context, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("role_service_target_lookup_failed: %w", err)
	}

	if err := sec.CanSetRole(actor.Role, target.Role, next); err != nil {
		service.logger.WarnContext(context, "role_change_denied",
			slog.String("actor_id", actor.ID),
			slog.String("target_id", target.ID),
			slog.String("requested_role", string(next)),
			slog.String("reason", err.Error()),
		)
		return nil, err
	}

	if target.Role == next {
		return target, nil
	}

	updated, err := service.userRepository.UpdateRole(context, target.ID, next)
	if err != nil {
		return nil, fmt.Errorf("role_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "role_changed",
		slog.String("actor_id", actor.ID),
		slog.String("actor_role", string(actor.Role)),
		slog.String("target_id", target.ID),
		slog.String("from_role", string(target.Role)),
		slog.String("to_role", string(next)),
	)

	if err := service.revalidator.Revalidate(context, constants.PathAdminUsers, constants.PathAdmin, constants.PathProfile+target.ID); err != nil {
		service.logger.WarnContext(context, "role_change_revalidate_failed", slog.Any("error", err))
	}

	return updated, nil
}

/*
ListUsers returns one page of the admin user listing.

The role filter is strict: an unknown role is a validation error rather than an
empty page.
*/
func (service *Service) ListUsers(context context.Context, actorID string, filter ListFilter, page pagination.Params) ([]*auth.User, pagination.Meta, error) {
	if _, err := service.authorizeAdmin(context, actorID); err != nil {
		return nil, pagination.Meta{}, err
	}

	if filter.Role != "" {
		parsed, err := sec.ParseRole(string(filter.Role))
		if err != nil {
			return nil, pagination.Meta{}, validate.FieldError(FieldRole, "Unknown role filter")
		}
		filter.Role = parsed
	}

	users, total, err := service.adminRepository.ListUsers(context, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("role_service_list_users_failed: %w", err)
	}

	return users, pagination.NewMeta(page.Page, page.Limit, total), nil
}

// countFunc reads one admin dashboard count.
type countFunc func(context.Context) (int, error)

// Dashboard fetches the four admin counts concurrently.
func (service *Service) Dashboard(context context.Context, actorID string) (*Dashboard, error) {
	if _, err := service.authorizeAdmin(context, actorID); err != nil {
		return nil, err
	}

	dashboard := &Dashboard{}
	group, groupCtx := errgroup.WithContext(context)

	counters := []struct {
		target *int
		count  countFunc
	}{
		{&dashboard.Users, service.adminRepository.CountUsers},
		{&dashboard.Threads, service.adminRepository.CountThreads},
		{&dashboard.Replies, service.adminRepository.CountReplies},
		{&dashboard.Categories, service.adminRepository.CountCategories},
	}

	for _, counter := range counters {
		group.Go(func() error {
			n, err := counter.count(groupCtx)
			if err != nil {
				return err
			}
			*counter.target = n
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("role_service_dashboard_failed: %w", err)
	}
	return dashboard, nil
}
