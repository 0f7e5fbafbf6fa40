// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/constants"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/platform/validate"
	"github.com/taibuivan/yomira-support/internal/users/auth"
)

// # Service Layer

// Service orchestrates profile reads and self-service account changes.
type Service struct {
	accountRepository  AccountRepository
	activityRepository ActivityRepository
	revalidator        Revalidator
	logger             *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(accountRepo AccountRepository, activityRepo ActivityRepository, revalidator Revalidator, logger *slog.Logger) *Service {
	return &Service{
		accountRepository:  accountRepo,
		activityRepository: activityRepo,
		revalidator:        revalidator,
		logger:             logger,
	}
}

// # Profile Management

// GetProfile returns the private view of the caller's own account.
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

/*
UpdateDisplayName sets the caller's display name.

Parameters:
  - context: context.Context
  - userID: string
  - displayName: string (trimmed; must be non-empty and at most 50 characters)

Returns:
  - *auth.User: the updated account
  - error: ValidationError or store failures
*/
func (service *Service) UpdateDisplayName(context context.Context, userID, displayName string) (*auth.User, error) {
	displayName = strings.TrimSpace(displayName)

	if displayName == "" {
		return nil, validate.FieldError(auth.FieldDisplayName, "Display name cannot be empty")
	}

	validator := &validate.Validator{}
	validator.MaxLen(auth.FieldDisplayName, displayName, auth.DisplayNameMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.UpdateDisplayName(context, userID, displayName)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_display_name_failed: %w", err)
	}

	// The public profile shows the display name
	if err := service.revalidator.Revalidate(context, constants.PathProfile+user.ID); err != nil {
		service.logger.WarnContext(context, "account_revalidate_failed", slog.Any("error", err))
	}
	return user, nil
}

/*
ChangePassword verifies the current password and stores a new hash.

Returns:
  - error: Unauthorized when the current password is wrong, ValidationError
    when the new one is too short, or store failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {
	validator := &validate.Validator{}
	validator.Required(auth.FieldCurrentPassword, currentPassword).
		MinLen(auth.FieldNewPassword, newPassword, auth.PasswordMinLength).
		MaxLen(auth.FieldNewPassword, newPassword, auth.PasswordMaxLength)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return fmt.Errorf("account_service_change_password_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("account_service_change_password_hash_failed: %w", err)
	}

	if err := service.accountRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("account_service_change_password_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "password_changed", slog.String("user_id", userID))
	return nil
}

/*
GetPublicProfile loads a member and their post counts.

The account and both counts are independent reads and run concurrently; the
first failure cancels the others.
*/
func (service *Service) GetPublicProfile(context context.Context, userID string) (*PublicProfile, error) {
	var (
		user        *auth.User
		threadCount int
		replyCount  int
	)

	group, groupCtx := errgroup.WithContext(context)

	group.Go(func() error {
		var err error
		user, err = service.accountRepository.FindByID(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		threadCount, err = service.activityRepository.CountThreadsByAuthor(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		replyCount, err = service.activityRepository.CountRepliesByAuthor(groupCtx, userID)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("account_service_public_profile_failed: %w", err)
	}

	return &PublicProfile{
		ID:          user.ID,
		DisplayName: user.Label(),
		Role:        user.Role,
		JoinedAt:    user.CreatedAt,
		ThreadCount: threadCount,
		ReplyCount:  replyCount,
	}, nil
}
