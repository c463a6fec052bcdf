package social

import (
	"context"
	"testing"

	"cofactor-club/internal/model/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomSource_Ranges(t *testing.T) {
	src := NewRandomSource(42)
	ctx := context.Background()

	for _, p := range user.Platforms {
		r := DefaultRanges[p]
		for i := 0; i < 500; i++ {
			n, err := src.Fetch(ctx, p, "")
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, r.Min, p)
			assert.Less(t, n, r.Max, p)
		}
	}
}

func TestRandomSource_Deterministic(t *testing.T) {
	a, b := NewRandomSource(7), NewRandomSource(7)
	for i := 0; i < 20; i++ {
		x, _ := a.Fetch(context.Background(), user.PlatformTikTok, "")
		y, _ := b.Fetch(context.Background(), user.PlatformTikTok, "")
		assert.Equal(t, x, y)
	}
}

func TestRandomSource_Errors(t *testing.T) {
	src := NewRandomSource(1)

	_, err := src.Fetch(context.Background(), user.Platform("myspace"), "")
	assert.ErrorIs(t, err, ErrUnknownPlatform)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Fetch(ctx, user.PlatformInstagram, "")
	assert.ErrorIs(t, err, context.Canceled)
}
