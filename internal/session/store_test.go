package session

import (
	"context"
	"testing"
	"time"

	"cofactor-club/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisTokenStore_Lifecycle(t *testing.T) {
	rc := testutils.SetupTestRedis(t)
	store := NewRedisTokenStore(rc.Client)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "tok-a", TokenData{UserID: 42, Email: "a@example.com"}))
	require.NoError(t, store.Create(ctx, "tok-b", TokenData{UserID: 42, Email: "a@example.com"}))

	data, err := store.Get(ctx, "tok-a")
	require.NoError(t, err)
	assert.Equal(t, uint(42), data.UserID)
	assert.Equal(t, "a@example.com", data.Email)

	n, err := store.CountActiveSessions(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ttl, err := rc.TTL(ctx, RefreshTokenPrefix+"tok-a").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, RefreshTokenExpiration-time.Minute)

	require.NoError(t, store.Delete(ctx, "tok-a"))
	_, err = store.Get(ctx, "tok-a")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	n, err = store.CountActiveSessions(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// 删除不存在的令牌不报错
	assert.NoError(t, store.Delete(ctx, "tok-a"))
}

func TestRedisTokenStore_DeleteAllByUserID(t *testing.T) {
	rc := testutils.SetupTestRedis(t)
	store := NewRedisTokenStore(rc.Client)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "u1-a", TokenData{UserID: 1}))
	require.NoError(t, store.Create(ctx, "u1-b", TokenData{UserID: 1}))
	require.NoError(t, store.Create(ctx, "u2-a", TokenData{UserID: 2}))

	require.NoError(t, store.DeleteAllByUserID(ctx, 1))

	for _, tok := range []string{"u1-a", "u1-b"} {
		_, err := store.Get(ctx, tok)
		assert.ErrorIs(t, err, ErrTokenNotFound)
	}
	_, err := store.Get(ctx, "u2-a")
	assert.NoError(t, err)
}
