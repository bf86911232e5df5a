package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenService 基于Redis维护登出后的JWT黑名单
type TokenService struct {
	Redis *redis.Client
}

func NewTokenService(rdb *redis.Client) *TokenService {
	return &TokenService{Redis: rdb}
}

func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked_token:" + hex.EncodeToString(sum[:])
}

// Revoke 将令牌加入黑名单，保留到其自然过期
func (s *TokenService) Revoke(token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	ctx := context.Background()
	return s.Redis.Set(ctx, revocationKey(token), "revoked", ttl).Err()
}

// IsRevoked 判断令牌是否已被吊销；Redis不可用时放行，不阻断登录态
func (s *TokenService) IsRevoked(token string) bool {
	ctx := context.Background()
	val, err := s.Redis.Get(ctx, revocationKey(token)).Result()
	if err != nil {
		return false
	}
	return val == "revoked"
}
