// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/users/auth"
)

// memoryUsers is an in-memory [auth.UserRepository] keyed by id.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*auth.User{}}
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return apperr.Conflict("User already exists")
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryUsers) UpdateDisplayName(_ context.Context, userID, displayName string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	user.DisplayName = displayName
	copied := *user
	return &copied, nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, userID, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (m *memoryUsers) UpdateRole(_ context.Context, userID string, role sec.UserRole) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	user.Role = role
	copied := *user
	return &copied, nil
}

func (m *memoryUsers) PromoteToOwner(_ context.Context, emails []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var promoted int64
	for _, user := range m.users {
		for _, email := range emails {
			if user.Email == email && user.Role != sec.RoleOwner {
				user.Role = sec.RoleOwner
				promoted++
			}
		}
	}
	return promoted, nil
}

type fixture struct {
	service *auth.Service
	users   *memoryUsers
	tokens  *sec.TokenService
	redis   *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKey(key, &key.PublicKey, "support.yomira.app")

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := newMemoryUsers()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := auth.NewService(users, auth.NewRefreshTokenRepository(client), tokens, logger)

	return &fixture{service: service, users: users, tokens: tokens, redis: server}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.service.Register(ctx, auth.RegisterInput{Email: "  Ana@Example.COM ", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	_, err = f.service.Register(ctx, auth.RegisterInput{Email: "ana@example.com", Password: "another one"})
	assert.True(t, apperr.IsConflict(err))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input auth.RegisterInput
		field string
	}{
		{"malformed_email", auth.RegisterInput{Email: "not-an-email", Password: "long enough"}, auth.FieldEmail},
		{"short_password", auth.RegisterInput{Email: "a@b.co", Password: "short"}, auth.FieldPassword},
		{"long_display_name", auth.RegisterInput{Email: "a@b.co", Password: "long enough", DisplayName: string(make([]byte, 51))}, auth.FieldDisplayName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Register(context.Background(), tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			require.NotEmpty(t, ae.Details)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}

func TestLogin_RefreshRotation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered, err := f.service.Register(ctx, auth.RegisterInput{Email: "mod@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = f.service.Login(ctx, "mod@example.com", "wrong-password")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	_, err = f.service.Login(ctx, "nobody@example.com", "password123")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	session, err := f.service.Login(ctx, "MOD@example.com", "password123")
	require.NoError(t, err)
	claims, err := f.tokens.VerifyToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)

	// A promotion is visible in the next refreshed token
	_, err = f.users.UpdateRole(ctx, registered.ID, sec.RoleMod)
	require.NoError(t, err)

	rotated, err := f.service.RefreshSession(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)
	claims, err = f.tokens.VerifyToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "mod", claims.Role)

	// The consumed token cannot be replayed
	_, err = f.service.RefreshSession(ctx, session.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	require.NoError(t, f.service.Logout(ctx, rotated.RefreshToken))
	_, err = f.service.RefreshSession(ctx, rotated.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	// Logging out twice is fine
	assert.NoError(t, f.service.Logout(ctx, rotated.RefreshToken))
}

func TestRefreshToken_Expires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	session, err := f.service.Login(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	f.redis.FastForward(auth.RefreshTokenTTL + time.Second)

	_, err = f.service.RefreshSession(ctx, session.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

func TestCurrentUser_ReadsStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.service.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = f.service.CurrentUser(ctx)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	// The token claims admin, the store says user
	authed := ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: user.ID, Role: "admin"})
	current, err := f.service.CurrentUser(authed)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, current.Role)

	principal, err := f.service.ResolvePrincipal(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, principal.Role)

	_, err = f.service.ResolvePrincipal(ctx, "0190a6e4-3c1b-7a2e-8f00-1234567890ab")
	assert.True(t, apperr.IsNotFound(err))
}

func TestPromoteOwners(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.service.Register(ctx, auth.RegisterInput{Email: "boss@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, f.service.PromoteOwners(ctx, []string{"boss@example.com", "later@example.com"}))

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleOwner, stored.Role)

	// Running again changes nothing
	require.NoError(t, f.service.PromoteOwners(ctx, []string{"boss@example.com"}))
}
