// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yomira-support/internal/platform/ctxkey"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// RequestInfo is filled in by inner middleware and read back by the request logger
// once the handler chain returns.
type RequestInfo struct {
	UserID string
}

// WithRequestInfo attaches the request's [RequestInfo] slot.
func WithRequestInfo(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestInfo, info)
}

// GetRequestInfo returns the request's [RequestInfo] slot, or nil outside the logger.
func GetRequestInfo(ctx context.Context) *RequestInfo {
	info, _ := ctx.Value(ctxkey.KeyRequestInfo).(*RequestInfo)
	return info
}

// # Identity & Access

// WithAuthUser returns a new context with the provided auth claims attached.
//
// The user id is also copied into the [RequestInfo] slot when one is present.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	if info := GetRequestInfo(ctx); info != nil && user != nil {
		info.UserID = user.UserID
	}
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser retrieves the [*sec.AuthClaims] from the [context.Context].
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// GetAuthUserID returns the authenticated user id, or "" for anonymous requests.
func GetAuthUserID(ctx context.Context) string {
	if claims := GetAuthUser(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}
