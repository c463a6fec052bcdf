package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// RefreshTokenExpiration 刷新令牌有效期：7天
	RefreshTokenExpiration = 7 * 24 * time.Hour
	// RefreshTokenPrefix 令牌 key 前缀
	RefreshTokenPrefix = "cofactor:refresh_token:"
	// UserRefreshTokensPrefix 用户的令牌集合 key 前缀（用于查看用户的所有活跃 session）
	UserRefreshTokensPrefix = "cofactor:user_refresh_tokens:"
)

// ErrTokenNotFound 令牌不存在或已过期
var ErrTokenNotFound = errors.New("refresh token not found")

// TokenData 刷新令牌关联的数据
type TokenData struct {
	UserID uint
	Email  string
}

// TokenStore 刷新令牌存储
type TokenStore interface {
	Create(ctx context.Context, token string, data TokenData) error
	Get(ctx context.Context, token string) (*TokenData, error)
	Delete(ctx context.Context, token string) error
	DeleteAllByUserID(ctx context.Context, userID uint) error
}

// RedisTokenStore 基于 Redis hash + set 的令牌存储
type RedisTokenStore struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

func NewRedisTokenStore(client redis.UniversalClient) *RedisTokenStore {
	return &RedisTokenStore{redis: client, ttl: RefreshTokenExpiration}
}

func userTokensKey(userID uint) string {
	return UserRefreshTokensPrefix + strconv.FormatUint(uint64(userID), 10)
}

// Create 存储令牌，并把令牌加入用户的令牌集合
func (s *RedisTokenStore) Create(ctx context.Context, token string, data TokenData) error {
	key := RefreshTokenPrefix + token
	setKey := userTokensKey(data.UserID)

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"user_id": data.UserID,
			"email":   data.Email,
		})
		pipe.Expire(ctx, key, s.ttl)
		pipe.SAdd(ctx, setKey, token)
		pipe.Expire(ctx, setKey, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// Get 读取令牌数据，不存在时返回 ErrTokenNotFound
func (s *RedisTokenStore) Get(ctx context.Context, token string) (*TokenData, error) {
	fields, err := s.redis.HGetAll(ctx, RefreshTokenPrefix+token).Result()
	if err != nil {
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrTokenNotFound
	}

	userID, err := strconv.ParseUint(fields["user_id"], 10, 64)
	if err != nil || userID == 0 {
		return nil, ErrTokenNotFound
	}
	return &TokenData{UserID: uint(userID), Email: fields["email"]}, nil
}

// Delete 删除令牌，不存在时不报错
func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	key := RefreshTokenPrefix + token

	if data, err := s.Get(ctx, token); err == nil {
		s.redis.SRem(ctx, userTokensKey(data.UserID), token)
	}
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// DeleteAllByUserID 删除用户的所有刷新令牌
func (s *RedisTokenStore) DeleteAllByUserID(ctx context.Context, userID uint) error {
	setKey := userTokensKey(userID)

	tokens, err := s.redis.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("list user tokens: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, RefreshTokenPrefix+token)
	}
	keys = append(keys, setKey)

	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

// CountActiveSessions 用户的活跃 session 数量
func (s *RedisTokenStore) CountActiveSessions(ctx context.Context, userID uint) (int64, error) {
	return s.redis.SCard(ctx, userTokensKey(userID)).Result()
}
