// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gate guards server-rendered pages behind a role predicate.

A page never answers 403. An anonymous visitor is sent to the login entry point
with a callback to the page, and a signed-in visitor below the threshold is sent
to a neutral fallback page, so the response never confirms that the page exists.

The role used for the decision is always loaded from the store on the request
itself. The role claim inside the access token only narrows the JSON API.
*/
package gate

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/constants"
	"github.com/taibuivan/yomira-support/internal/platform/ctxkey"
	"github.com/taibuivan/yomira-support/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-support/internal/platform/respond"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
)

// # Principal

// Principal is the store-resolved account behind a page session.
type Principal struct {
	ID    string       `json:"id"`
	Email string       `json:"email"`
	Name  string       `json:"name,omitempty"`
	Role  sec.UserRole `json:"role"`
}

// Resolver loads the current account for a session's user id.
//
// It returns an [apperr.AppError] with code NOT_FOUND when the account is gone.
type Resolver interface {
	ResolvePrincipal(ctx context.Context, userID string) (*Principal, error)
}

// ResolverFunc adapts a plain function to [Resolver].
type ResolverFunc func(ctx context.Context, userID string) (*Principal, error)

// ResolvePrincipal calls fn.
func (fn ResolverFunc) ResolvePrincipal(ctx context.Context, userID string) (*Principal, error) {
	return fn(ctx, userID)
}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxkey.KeyPrincipal, p)
}

// PrincipalFrom returns the principal admitted by [Gate.Require], or nil.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxkey.KeyPrincipal).(*Principal)
	return p
}

// # Predicates

// Predicate decides whether a signed-in role may see a page.
type Predicate struct {
	Name  string
	allow func(sec.UserRole) bool
}

var (
	// Authenticated admits any signed-in account.
	Authenticated = Predicate{Name: "authenticated", allow: func(sec.UserRole) bool { return true }}

	// ModOrAbove admits mod, admin and owner.
	ModOrAbove = Predicate{Name: "mod_or_above", allow: sec.UserRole.IsModOrAbove}

	// AdminOrAbove admits admin and owner.
	AdminOrAbove = Predicate{Name: "admin_or_above", allow: sec.UserRole.IsAdmin}

	// OwnerOnly admits owner.
	OwnerOnly = Predicate{Name: "owner_only", allow: sec.UserRole.IsOwner}
)

// Allows reports whether role satisfies the predicate. A zero Predicate allows nothing.
func (p Predicate) Allows(role sec.UserRole) bool {
	return p.allow != nil && p.allow(role)
}

// # Decision

// Decision is the outcome of [Gate.Guard].
type Decision struct {
	Allowed bool
	Target  string
}

// Allow admits the request.
func Allow() Decision { return Decision{Allowed: true} }

// Redirect sends the visitor to target.
func Redirect(target string) Decision { return Decision{Target: target} }

// # Gate

// Gate holds the redirect targets shared by every guarded page.
type Gate struct {
	resolver     Resolver
	loginPath    string
	fallbackPath string
}

// New creates a [Gate].
func New(resolver Resolver, loginPath, fallbackPath string) *Gate {
	return &Gate{resolver: resolver, loginPath: loginPath, fallbackPath: fallbackPath}
}

// Guard decides whether user may see a page protected by require.
//
// originalPath is the request path plus query, carried back through login.
func (gate *Gate) Guard(user *Principal, require Predicate, originalPath string) Decision {
	if user == nil {
		return Redirect(gate.loginPath + "?" + constants.CallbackURLParam + "=" + url.QueryEscape(originalPath))
	}

	if !require.Allows(user.Role) {
		return Redirect(gate.fallbackPath)
	}

	return Allow()
}

// Require builds page middleware for require.
//
// Must be registered AFTER [middleware.Authenticate], which supplies the session.
func (gate *Gate) Require(require Predicate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			writer.Header().Set(constants.HeaderCacheControl, "private, no-store")

			principal, err := gate.resolve(ctx)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			decision := gate.Guard(principal, require, request.URL.RequestURI())
			if !decision.Allowed {
				ctxutil.GetLogger(ctx).DebugContext(ctx, "page_gate_redirect",
					slog.String("predicate", require.Name),
					slog.String("target", decision.Target),
				)
				http.Redirect(writer, request, decision.Target, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(writer, request.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}

// resolve maps the session claims to a fresh principal. A session whose account
// was deleted is treated as no session.
func (gate *Gate) resolve(ctx context.Context) (*Principal, error) {
	userID := ctxutil.GetAuthUserID(ctx)
	if userID == "" {
		return nil, nil
	}

	principal, err := gate.resolver.ResolvePrincipal(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return principal, nil
}
