// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a refresh token remains valid.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random refresh token.
	RefreshTokenLength = 32

	// PasswordMinLength is the shortest password accepted at registration or change.
	PasswordMinLength = 8

	// PasswordMaxLength bounds input to bcrypt, which ignores bytes past 72.
	PasswordMaxLength = 72

	// DisplayNameMaxLength bounds the public display name.
	DisplayNameMaxLength = 50
)
