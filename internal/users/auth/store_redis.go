// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/constants"
)

// RedisRefreshTokenRepository implements [RefreshTokenRepository] using Redis.
//
// Only the SHA-256 of a token is ever used as a key.
type RedisRefreshTokenRepository struct {
	client redis.UniversalClient
}

// NewRefreshTokenRepository creates a new Redis-backed RefreshTokenRepository.
func NewRefreshTokenRepository(client redis.UniversalClient) *RedisRefreshTokenRepository {
	return &RedisRefreshTokenRepository{client: client}
}

func refreshKey(tokenHash string) string {
	return constants.RedisPrefixRefreshToken + tokenHash
}

// Save stores the token hash with its owning user id and TTL.
func (repository *RedisRefreshTokenRepository) Save(context context.Context, tokenHash, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, refreshKey(tokenHash), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_set_failed: %w", err)
	}
	return nil
}

/*
Consume reads and deletes the token in a single GETDEL.

Two concurrent refreshes with the same token cannot both succeed: the second
sees a missing key.

Returns:
  - string: Owning UserID
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisRefreshTokenRepository) Consume(context context.Context, tokenHash string) (string, error) {
	userID, err := repository.client.GetDel(context, refreshKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Refresh token")
		}
		return "", fmt.Errorf("redis_refresh_token_consume_failed: %w", err)
	}
	return userID, nil
}

// Delete removes the token from Redis.
func (repository *RedisRefreshTokenRepository) Delete(context context.Context, tokenHash string) error {
	if err := repository.client.Del(context, refreshKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_delete_failed: %w", err)
	}
	return nil
}
