// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-support/internal/platform/sec"
)

func newTestTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKey(key, &key.PublicKey, issuer)
}

/*
TestTokenService_RoundTrip signs a token and reads the same claims back.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, "support.yomira.app")

	token, err := service.GenerateAccessToken("user-1", "ana@example.com", "mod", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "mod", claims.Role)
}

/*
TestTokenService_Rejects covers expired tokens, foreign issuers and foreign keys.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTestTokenService(t, "support.yomira.app")

	expired, err := service.GenerateAccessToken("user-1", "a@b.c", "user", -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	other := newTestTokenService(t, "elsewhere")
	foreign, err := other.GenerateAccessToken("user-1", "a@b.c", "owner", time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(foreign)
	assert.Error(t, err)

	_, err = service.VerifyToken("not-a-jwt")
	assert.Error(t, err)
}

/*
TestHashing covers password hashing and token digests.
*/
func TestHashing(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("battery staple", hash))

	token, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, sec.HashToken(token), sec.HashToken(token))
	assert.Len(t, sec.HashToken(token), 64)
}
