// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-support/internal/forum/moderation"
	"github.com/taibuivan/yomira-support/internal/forum/thread"
	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-support/internal/platform/gate"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/users/auth"
)

const (
	ownerID  = "0190a6e4-0000-7000-8000-000000000001"
	adminID  = "0190a6e4-0000-7000-8000-000000000002"
	modID    = "0190a6e4-0000-7000-8000-000000000003"
	userID   = "0190a6e4-0000-7000-8000-000000000004"
	ghostID  = "0190a6e4-0000-7000-8000-0000000000ff"
	threadID = "0190a6e4-0000-7000-8000-0000000000a1"
	replyID  = "0190a6e4-0000-7000-8000-0000000000b1"
	otherID  = "0190a6e4-0000-7000-8000-0000000000b2"
)

type actors map[string]sec.UserRole

func (a actors) FindByID(_ context.Context, id string) (*auth.User, error) {
	r, ok := a[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &auth.User{ID: id, Role: r}, nil
}

var everyone = actors{ownerID: sec.RoleOwner, adminID: sec.RoleAdmin, modID: sec.RoleMod, userID: sec.RoleUser}

// memoryForum holds one thread authored by the plain user with two replies.
type memoryForum struct {
	mu      sync.Mutex
	threads map[string]string // thread id -> author id
	replies map[string]string // reply id -> thread id
	fail    error
}

func newMemoryForum() *memoryForum {
	return &memoryForum{
		threads: map[string]string{threadID: userID},
		replies: map[string]string{replyID: threadID, otherID: threadID},
	}
}

func (m *memoryForum) DeleteThread(_ context.Context, id string) (*moderation.Removed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	author, ok := m.threads[id]
	if !ok {
		return nil, nil
	}
	for r, t := range m.replies {
		if t == id {
			delete(m.replies, r)
		}
	}
	delete(m.threads, id)
	return &moderation.Removed{ThreadID: id, AuthorID: author, CategorySlug: "general"}, nil
}

func (m *memoryForum) DeleteReply(_ context.Context, id string) (*moderation.Removed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.replies[id]
	if !ok {
		return nil, nil
	}
	delete(m.replies, id)
	return &moderation.Removed{ThreadID: t, AuthorID: modID, CategorySlug: "general"}, nil
}

func (m *memoryForum) RecentThreads(context.Context, int) ([]*thread.ThreadView, error) {
	return []*thread.ThreadView{{ID: threadID}}, nil
}

func (m *memoryForum) RecentReplies(context.Context, int) ([]*moderation.QueueReply, error) {
	return []*moderation.QueueReply{{ID: replyID, ThreadID: threadID}}, nil
}

type recordingRevalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingRevalidator) Revalidate(_ context.Context, paths ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, paths...)
	return nil
}

func newService() (*moderation.Service, *memoryForum, *recordingRevalidator) {
	forum := newMemoryForum()
	revalidator := &recordingRevalidator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return moderation.NewService(forum, everyone, revalidator, logger), forum, revalidator
}

func TestDeleteThread_Authorization(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		allowed bool
	}{
		{"owner", ownerID, true},
		{"admin", adminID, true},
		{"mod", modID, true},
		// The thread's own author is a plain user and gets no exception
		{"author_user", userID, false},
		{"deleted_actor", ghostID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, forum, revalidator := newService()

			err := service.DeleteThread(context.Background(), tt.actor, threadID)

			if !tt.allowed {
				require.True(t, apperr.IsForbidden(err))
				assert.Equal(t, "not authorized", apperr.As(err).Message)
				assert.Contains(t, forum.threads, threadID)
				assert.Len(t, forum.replies, 2)
				assert.Empty(t, revalidator.paths)
				return
			}

			require.NoError(t, err)
			assert.Empty(t, forum.threads)
			assert.Empty(t, forum.replies, "replies go with their thread")
		})
	}
}

func TestDeleteThread_Revalidates(t *testing.T) {
	service, _, revalidator := newService()

	require.NoError(t, service.DeleteThread(context.Background(), modID, threadID))

	assert.Equal(t, []string{
		"/support/forum",
		"/support/forum/general",
		"/support/forum/thread/" + threadID,
		"/profile/" + userID,
		"/admin",
	}, revalidator.paths)
}

func TestDelete_AbsentIsSuccess(t *testing.T) {
	service, _, revalidator := newService()
	ctx := context.Background()

	require.NoError(t, service.DeleteThread(ctx, modID, threadID))
	revalidator.paths = nil

	assert.NoError(t, service.DeleteThread(ctx, modID, threadID))
	assert.NoError(t, service.DeleteReply(ctx, modID, replyID))
	assert.NoError(t, service.DeleteThread(ctx, modID, "not-a-uuid"))
	assert.Empty(t, revalidator.paths, "nothing removed, nothing to revalidate")
}

func TestDeleteReply(t *testing.T) {
	service, forum, revalidator := newService()

	err := service.DeleteReply(context.Background(), userID, replyID)
	assert.True(t, apperr.IsForbidden(err))

	require.NoError(t, service.DeleteReply(context.Background(), adminID, replyID))
	assert.NotContains(t, forum.replies, replyID)
	assert.Contains(t, forum.replies, otherID)
	assert.Contains(t, revalidator.paths, "/support/forum/thread/"+threadID)
	assert.Contains(t, revalidator.paths, "/profile/"+modID)
}

func TestDeleteThread_StoreFailure(t *testing.T) {
	service, forum, revalidator := newService()
	forum.fail = errors.New("connection reset")

	err := service.DeleteThread(context.Background(), modID, threadID)
	require.Error(t, err)
	assert.False(t, apperr.IsForbidden(err))
	assert.Empty(t, revalidator.paths)
}

func TestQueue(t *testing.T) {
	service, _, _ := newService()

	queue, err := service.Queue(context.Background(), modID)
	require.NoError(t, err)
	assert.Len(t, queue.Threads, 1)
	assert.Len(t, queue.Replies, 1)

	_, err = service.Queue(context.Background(), userID)
	assert.True(t, apperr.IsForbidden(err))
}

func TestHandler_Delete(t *testing.T) {
	service, _, _ := newService()
	routes := moderation.NewHandler(service).APIRoutes()

	tests := []struct {
		name   string
		claims *sec.AuthClaims
		path   string
		status int
	}{
		{"anonymous", nil, "/threads/" + threadID, http.StatusUnauthorized},
		{"token_says_user", &sec.AuthClaims{UserID: userID, Role: "user"}, "/threads/" + threadID, http.StatusForbidden},
		// Demoted since the token was issued: the store wins
		{"stale_token_says_mod", &sec.AuthClaims{UserID: userID, Role: "mod"}, "/threads/" + threadID, http.StatusForbidden},
		{"mod", &sec.AuthClaims{UserID: modID, Role: "mod"}, "/threads/" + threadID, http.StatusNoContent},
		{"mod_again", &sec.AuthClaims{UserID: modID, Role: "mod"}, "/threads/" + threadID, http.StatusNoContent},
		{"mod_reply", &sec.AuthClaims{UserID: modID, Role: "mod"}, "/replies/" + otherID, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodDelete, tt.path, nil)
			if tt.claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), tt.claims))
			}
			recorder := httptest.NewRecorder()

			routes.ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

func TestQueuePage(t *testing.T) {
	service, _, _ := newService()
	handler := moderation.NewHandler(service)

	request := httptest.NewRequest(http.MethodGet, "/mod", nil)
	request = request.WithContext(gate.WithPrincipal(request.Context(), &gate.Principal{ID: modID, Role: sec.RoleMod}))
	recorder := httptest.NewRecorder()

	handler.QueuePage(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), threadID)
}
