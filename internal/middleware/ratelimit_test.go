package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("TestEnvironmentBypass", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		allowed, err := CheckRateLimit(ctx, nil, "send", "user:1", 1, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("DevelopmentEnvironmentBypass", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		allowed, err := CheckRateLimit(ctx, nil, "send", "user:1", 1, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilRedisErrors", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		allowed, err := CheckRateLimit(ctx, nil, "send", "user:1", 1, time.Minute)
		assert.Error(t, err)
		assert.False(t, allowed)
	})

	t.Run("EnforcesLimitPerWindow", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rdb.Close()

		for i := 0; i < 3; i++ {
			allowed, err := CheckRateLimit(ctx, rdb, "send", "user:9", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed, "request %d should be allowed", i+1)
		}

		allowed, err := CheckRateLimit(ctx, rdb, "send", "user:9", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		// A different user is counted independently.
		allowed, err = CheckRateLimit(ctx, rdb, "send", "user:10", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		// After the window passes the counter resets.
		mr.FastForward(time.Minute + time.Second)
		allowed, err = CheckRateLimit(ctx, rdb, "send", "user:9", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
