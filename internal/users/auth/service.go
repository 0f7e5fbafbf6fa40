// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-support/internal/platform/gate"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/platform/validate"
	"github.com/taibuivan/yomira-support/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error)
}

// Service implements account authentication use cases.
type Service struct {
	userRepository    UserRepository
	refreshRepository RefreshTokenRepository
	tokenProvider     TokenProvider
	logger            *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	refreshRepo RefreshTokenRepository,
	tokenProv TokenProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:    userRepo,
		refreshRepository: refreshRepo,
		tokenProvider:     tokenProv,
		logger:            logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

/*
Register validates, hashes, and persists a brand new account with the user role.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: ValidationError, Conflict (email taken) or store failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := validate.NormalizeEmail(input.Email)
	displayName := strings.TrimSpace(input.DisplayName)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		MaxLen(FieldPassword, input.Password, PasswordMaxLength).
		MaxLen(FieldDisplayName, displayName, DisplayNameMaxLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// # Authentication Flow

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates credentials and issues an access token plus a refresh token.

An unknown email and a wrong password produce the same error.
*/
func (service *Service) Login(context context.Context, email, password string) (*LoginSession, error) {
	user, err := service.userRepository.FindByEmail(context, validate.NormalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issueSession(context, user)
}

/*
RefreshSession rotates a refresh token.

The presented token is consumed before anything else, so a replayed token fails
even if the caller raced a legitimate refresh. The new access token carries the
role currently in the store.
*/
func (service *Service) RefreshSession(context context.Context, refreshToken string) (*LoginSession, error) {
	userID, err := service.refreshRepository.Consume(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, fmt.Errorf("auth_service_refresh_consume_failed: %w", err)
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	return service.issueSession(context, user)
}

// Logout revokes the refresh token. Unknown tokens are already logged out.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if err := service.refreshRepository.Delete(context, sec.HashToken(refreshToken)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

func (service *Service) issueSession(context context.Context, user *User) (*LoginSession, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if err := service.refreshRepository.Save(context, sec.HashToken(refreshToken), user.ID, RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: time.Now().Add(RefreshTokenTTL),
		User:                  user,
	}, nil
}

// # Session Provider

/*
CurrentUser resolves the caller of a request to a fresh account row.

Returns:
  - *User: the account as stored right now
  - error: Unauthorized for anonymous requests or deleted accounts
*/
func (service *Service) CurrentUser(context context.Context) (*User, error) {
	userID := ctxutil.GetAuthUserID(context)
	if userID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Authentication required")
		}
		return nil, fmt.Errorf("auth_service_current_user_failed: %w", err)
	}
	return user, nil
}

// ResolvePrincipal implements [gate.Resolver].
func (service *Service) ResolvePrincipal(context context.Context, userID string) (*gate.Principal, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return &gate.Principal{ID: user.ID, Email: user.Email, Name: user.DisplayName, Role: user.Role}, nil
}

// # Bootstrap

// PromoteOwners grants the owner role to the configured owner emails.
//
// It is the only way the first owner comes into existence; accounts that have
// not registered yet are skipped and picked up on the next start.
func (service *Service) PromoteOwners(context context.Context, emails []string) error {
	promoted, err := service.userRepository.PromoteToOwner(context, emails)
	if err != nil {
		return fmt.Errorf("auth_service_promote_owners_failed: %w", err)
	}

	if promoted > 0 {
		service.logger.InfoContext(context, "owners_promoted", slog.Int64("count", promoted))
	}
	return nil
}
