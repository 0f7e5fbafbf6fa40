// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/users/account"
	"github.com/taibuivan/yomira-support/internal/users/auth"
)

const memberID = "0190a6e4-3c1b-7a2e-8f00-1234567890ab"

type stubAccounts struct {
	users map[string]*auth.User
}

func (s *stubAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := s.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (s *stubAccounts) UpdateDisplayName(_ context.Context, userID, displayName string) (*auth.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	user.DisplayName = displayName
	copied := *user
	return &copied, nil
}

func (s *stubAccounts) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := s.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

type stubActivity struct {
	threads, replies int
	err              error
}

func (s stubActivity) CountThreadsByAuthor(context.Context, string) (int, error) {
	return s.threads, s.err
}

func (s stubActivity) CountRepliesByAuthor(context.Context, string) (int, error) {
	return s.replies, nil
}

type recordingRevalidator struct {
	paths [][]string
	err   error
}

func (r *recordingRevalidator) Revalidate(_ context.Context, paths ...string) error {
	r.paths = append(r.paths, paths)
	return r.err
}

func newService(t *testing.T, activity stubActivity) (*account.Service, *stubAccounts, *recordingRevalidator) {
	t.Helper()

	hash, err := sec.HashPassword("password123")
	require.NoError(t, err)

	accounts := &stubAccounts{users: map[string]*auth.User{
		memberID: {ID: memberID, Email: "ana@example.com", PasswordHash: hash, Role: sec.RoleMod, CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	revalidator := &recordingRevalidator{}
	return account.NewService(accounts, activity, revalidator, logger), accounts, revalidator
}

func TestUpdateDisplayName(t *testing.T) {
	service, _, _ := newService(t, stubActivity{})
	ctx := context.Background()

	user, err := service.UpdateDisplayName(ctx, memberID, "  Ana  ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.DisplayName)

	_, err = service.UpdateDisplayName(ctx, memberID, "   ")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "Display name cannot be empty", ae.Details[0].Message)

	_, err = service.UpdateDisplayName(ctx, memberID, strings.Repeat("x", 51))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestUpdateDisplayName_RevalidatesProfile(t *testing.T) {
	service, _, revalidator := newService(t, stubActivity{})
	ctx := context.Background()

	_, err := service.UpdateDisplayName(ctx, memberID, "   ")
	require.Error(t, err)
	assert.Empty(t, revalidator.paths)

	_, err = service.UpdateDisplayName(ctx, memberID, "Ana")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"/profile/" + memberID}}, revalidator.paths)

	// A cache outage never fails the rename
	revalidator.err = errors.New("redis down")
	user, err := service.UpdateDisplayName(ctx, memberID, "Ana B")
	require.NoError(t, err)
	assert.Equal(t, "Ana B", user.DisplayName)
}

func TestChangePassword(t *testing.T) {
	service, accounts, _ := newService(t, stubActivity{})
	ctx := context.Background()

	err := service.ChangePassword(ctx, memberID, "wrong-password", "new-password-1")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	err = service.ChangePassword(ctx, memberID, "password123", "short")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	require.NoError(t, service.ChangePassword(ctx, memberID, "password123", "new-password-1"))
	assert.True(t, sec.CheckPasswordHash("new-password-1", accounts.users[memberID].PasswordHash))
}

func TestGetPublicProfile(t *testing.T) {
	service, _, _ := newService(t, stubActivity{threads: 3, replies: 7})

	profile, err := service.GetPublicProfile(context.Background(), memberID)
	require.NoError(t, err)
	assert.Equal(t, 3, profile.ThreadCount)
	assert.Equal(t, 7, profile.ReplyCount)
	assert.Equal(t, sec.RoleMod, profile.Role)
	assert.Equal(t, "Member", profile.DisplayName)

	_, err = service.GetPublicProfile(context.Background(), "0190a6e4-3c1b-7a2e-8f00-000000000000")
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetPublicProfile_StoreFailure(t *testing.T) {
	service, _, _ := newService(t, stubActivity{err: errors.New("connection reset")})

	_, err := service.GetPublicProfile(context.Background(), memberID)
	require.Error(t, err)
	assert.Nil(t, apperr.As(err), "store failures stay outside the client taxonomy until respond.Error")
}

func TestHandler_Me(t *testing.T) {
	service, _, _ := newService(t, stubActivity{})
	handler := account.NewHandler(service)

	anonymous := httptest.NewRecorder()
	handler.MeRoutes().ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	request := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"display_name":"Ana"}`))
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: memberID}))
	recorder := httptest.NewRecorder()
	handler.MeRoutes().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"display_name":"Ana"`)
}

func TestHandler_PublicProfile(t *testing.T) {
	service, _, _ := newService(t, stubActivity{threads: 1})
	router := chi.NewRouter()
	router.Get("/users/{id}", account.NewHandler(service).PublicProfile)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/users/"+memberID, nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"thread_count":1`)
	assert.NotContains(t, recorder.Body.String(), "ana@example.com")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/users/not-a-uuid", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
