package social

import (
	"context"
	"errors"
	"math"
	"testing"

	"cofactor-club/internal/model/user"
	"cofactor-club/internal/model/wiki"
	"cofactor-club/internal/permission"
	"cofactor-club/internal/score"
	"cofactor-club/internal/testutils"
	"cofactor-club/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Fetch(ctx context.Context, platform user.Platform, handle string) (int64, error) {
	args := m.Called(ctx, platform, handle)
	return args.Get(0).(int64), args.Error(1)
}

func setupService(t *testing.T, source StatsSource) (*Service, *gorm.DB) {
	t.Helper()
	db := testutils.SetupTestDB(t)
	return NewService(db, score.NewEngine(db), source), db
}

func actorOf(u *user.User) permission.Actor {
	return permission.Actor{UserID: u.ID, Role: u.Role}
}

func TestUpdatePlatform_MergesAndRecalculates(t *testing.T) {
	svc, db := setupService(t, NewRandomSource(1))
	ctx := context.Background()

	member := testutils.CreateTestUser(db, testutils.WithSocialStats(user.SocialStats{
		user.PlatformInstagram: {Handle: "@ada.gram", Count: 1000},
		user.PlatformLinkedIn:  {Handle: "in/ada", Count: 500},
	}))
	testutils.CreateTestReferral(db, member.ID, testutils.CreateTestUser(db).ID)
	page := testutils.CreateTestPage(db)
	testutils.CreateTestRevision(db, page.ID, member.ID, "text", wiki.StatusApproved)

	view, err := svc.UpdatePlatform(ctx, actorOf(member), "tiktok", "@ada.tok", 12345)
	require.Nil(t, err)

	stored := testutils.ReloadUser(db, member.ID)
	stats := stored.Stats()
	assert.Equal(t, user.PlatformStat{Handle: "@ada.tok", Count: 12345}, stats[user.PlatformTikTok])
	assert.Equal(t, user.PlatformStat{Handle: "@ada.gram", Count: 1000}, stats[user.PlatformInstagram])
	assert.Equal(t, user.PlatformStat{Handle: "in/ada", Count: 500}, stats[user.PlatformLinkedIn])

	// 1 推荐 + 1 通过 + floor(13845 / 100)
	want := score.Compute(1, 1, 13845)
	assert.Equal(t, int64(50+20+138), want)
	assert.Equal(t, want, stored.PowerScore)
	assert.Equal(t, want, view.PowerScore)
	assert.Equal(t, int64(13845), view.Reach)
}

func TestUpdatePlatform_Validation(t *testing.T) {
	svc, db := setupService(t, NewRandomSource(1))
	member := testutils.CreateTestUser(db)

	tests := []struct {
		name     string
		actor    permission.Actor
		platform string
		handle   string
		count    int64
		wantCode response.ResponseCode
		wantErr  error
	}{
		{"anonymous", permission.Actor{}, "tiktok", "@x", 1, response.Unauthorized, permission.ErrUnauthenticated},
		{"unknown platform", actorOf(member), "myspace", "@x", 1, response.InvalidParameter, ErrUnknownPlatform},
		{"blank handle", actorOf(member), "tiktok", "  ", 1, response.InvalidParameter, ErrHandleRequired},
		{"negative count", actorOf(member), "tiktok", "@x", -5, response.InvalidParameter, ErrCountOutOfRange},
		{"count above limit", actorOf(member), "tiktok", "@x", user.MaxFollowerCount + 1, response.InvalidParameter, ErrCountOutOfRange},
		{"count near int64 max", actorOf(member), "tiktok", "@x", math.MaxInt64 / 2, response.InvalidParameter, ErrCountOutOfRange},
		{"missing user", permission.Actor{UserID: 987654321, Role: user.RoleStudent}, "tiktok", "@x", 1, response.NotFound, ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdatePlatform(context.Background(), tt.actor, tt.platform, tt.handle, tt.count)
			require.NotNil(t, err)
			assert.Equal(t, tt.wantCode, err.Code)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	assert.Empty(t, testutils.ReloadUser(db, member.ID).Stats())
}

func TestUpdatePlatform_LargeCountsKeepScorePositive(t *testing.T) {
	svc, db := setupService(t, NewRandomSource(1))
	ctx := context.Background()
	member := testutils.CreateTestUser(db)

	for _, p := range []string{"instagram", "tiktok"} {
		_, err := svc.UpdatePlatform(ctx, actorOf(member), p, "@big", user.MaxFollowerCount)
		require.Nil(t, err)
	}
	view, err := svc.UpdatePlatform(ctx, actorOf(member), "linkedin", "in/big", 12345)
	require.Nil(t, err)

	reach := 2*user.MaxFollowerCount + 12345
	assert.Equal(t, reach, view.Reach)
	assert.Equal(t, score.Compute(0, 0, reach), view.PowerScore)
	assert.Equal(t, view.PowerScore, testutils.ReloadUser(db, member.ID).PowerScore)
}

func TestSync_OverwritesCountsKeepsHandles(t *testing.T) {
	src := new(mockSource)
	svc, db := setupService(t, src)
	ctx := context.Background()

	member := testutils.CreateTestUser(db, testutils.WithSocialStats(user.SocialStats{
		user.PlatformInstagram: {Handle: "@ada.gram", Count: 1},
	}))

	src.On("Fetch", mock.Anything, user.PlatformInstagram, "@ada.gram").Return(int64(4000), nil).Once()
	src.On("Fetch", mock.Anything, user.PlatformTikTok, "").Return(int64(9000), nil).Once()
	src.On("Fetch", mock.Anything, user.PlatformLinkedIn, "").Return(int64(1400), nil).Once()

	view, err := svc.Sync(ctx, actorOf(member))
	require.Nil(t, err)
	src.AssertExpectations(t)

	stats := testutils.ReloadUser(db, member.ID).Stats()
	assert.Equal(t, user.PlatformStat{Handle: "@ada.gram", Count: 4000}, stats[user.PlatformInstagram])
	assert.Equal(t, int64(9000), stats[user.PlatformTikTok].Count)
	assert.Equal(t, int64(1400), stats[user.PlatformLinkedIn].Count)
	assert.Equal(t, int64(144), view.PowerScore)
}

func TestSync_SourceFailureChangesNothing(t *testing.T) {
	src := new(mockSource)
	svc, db := setupService(t, src)

	member := testutils.CreateTestUser(db, testutils.WithPowerScore(9))
	src.On("Fetch", mock.Anything, user.PlatformInstagram, "").Return(int64(600), nil)
	src.On("Fetch", mock.Anything, user.PlatformTikTok, "").Return(int64(0), errors.New("rate limited"))

	_, err := svc.Sync(context.Background(), actorOf(member))
	require.NotNil(t, err)
	assert.Equal(t, response.Fail, err.Code)

	stored := testutils.ReloadUser(db, member.ID)
	assert.Empty(t, stored.Stats())
	assert.Equal(t, int64(9), stored.PowerScore)
}

func TestSync_RandomRanges(t *testing.T) {
	svc, db := setupService(t, NewRandomSource(99))
	member := testutils.CreateTestUser(db)

	view, err := svc.Sync(context.Background(), actorOf(member))
	require.Nil(t, err)

	for _, p := range user.Platforms {
		r := DefaultRanges[p]
		assert.GreaterOrEqual(t, view.Stats[p].Count, r.Min)
		assert.Less(t, view.Stats[p].Count, r.Max)
	}
	assert.Equal(t, score.Compute(0, 0, view.Reach), view.PowerScore)
}

func TestGet(t *testing.T) {
	svc, db := setupService(t, NewRandomSource(1))
	member := testutils.CreateTestUser(db,
		testutils.WithPowerScore(77),
		testutils.WithSocialStats(user.SocialStats{user.PlatformLinkedIn: {Handle: "in/x", Count: 300}}),
	)

	view, err := svc.Get(context.Background(), actorOf(member))
	require.Nil(t, err)
	assert.Equal(t, int64(300), view.Reach)
	assert.Equal(t, int64(77), view.PowerScore)
}
