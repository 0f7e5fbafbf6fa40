// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-support/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
)

func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.GetRequestID(ctx))
}

func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

func TestContext_AuthUser(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetAuthUser(ctx))
	assert.Empty(t, ctxutil.GetAuthUserID(ctx))

	ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: "user-123", Role: "mod"})

	claims := ctxutil.GetAuthUser(ctx)
	if assert.NotNil(t, claims) {
		assert.Equal(t, "mod", claims.Role)
	}
	assert.Equal(t, "user-123", ctxutil.GetAuthUserID(ctx))
}

func TestContext_RequestInfo(t *testing.T) {
	info := &ctxutil.RequestInfo{}
	ctx := ctxutil.WithRequestInfo(context.Background(), info)

	_ = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: "user-9"})
	assert.Equal(t, "user-9", info.UserID)
	assert.Same(t, info, ctxutil.GetRequestInfo(ctx))
}
