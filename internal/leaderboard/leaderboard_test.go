package leaderboard

import (
	"context"
	"testing"

	"cofactor-club/internal/model/user"
	"cofactor-club/internal/model/wiki"
	"cofactor-club/internal/permission"
	"cofactor-club/internal/testutils"
	"cofactor-club/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 分数足够大，保证测试数据排在最前
const base = int64(1_000_000_000)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultLimit},
		{-3, DefaultLimit},
		{10, 10},
		{MaxLimit + 1, MaxLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampLimit(tt.in))
	}
}

func TestTop_StudentsOnlyOrderedByScore(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewService(db)

	low := testutils.CreateTestUser(db, testutils.WithPowerScore(base+10))
	high := testutils.CreateTestUser(db, testutils.WithPowerScore(base+30))
	tieFirst := testutils.CreateTestUser(db, testutils.WithPowerScore(base+20))
	tieSecond := testutils.CreateTestUser(db, testutils.WithPowerScore(base+20))
	testutils.CreateTestUser(db, testutils.WithRole(user.RoleAdmin), testutils.WithPowerScore(base+99))
	testutils.CreateTestUser(db, testutils.WithRole(user.RoleStaff), testutils.WithPowerScore(base+98))

	entries, err := svc.Top(context.Background(), 4)
	require.Nil(t, err)
	require.Len(t, entries, 4)

	var ids []uint
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		ids = append(ids, e.UserID)
	}
	assert.Equal(t, []uint{high.ID, tieFirst.ID, tieSecond.ID, low.ID}, ids)
}

func TestScore_Rank(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewService(db)

	testutils.CreateTestUser(db, testutils.WithPowerScore(base+50))
	me := testutils.CreateTestUser(db, testutils.WithPowerScore(base+40))
	staff := testutils.CreateTestUser(db, testutils.WithRole(user.RoleStaff), testutils.WithPowerScore(base+45))

	entry, err := svc.Score(context.Background(), me.ID)
	require.Nil(t, err)
	assert.Equal(t, 2, entry.Rank)
	assert.Equal(t, base+40, entry.PowerScore)

	entry, err = svc.Score(context.Background(), staff.ID)
	require.Nil(t, err)
	assert.Zero(t, entry.Rank, "non-students are not ranked")

	_, err = svc.Score(context.Background(), 987654321)
	require.NotNil(t, err)
	assert.Equal(t, response.NotFound, err.Code)
}

func TestMembers_Counts(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewService(db)
	admin := testutils.CreateTestUser(db, testutils.WithRole(user.RoleAdmin))

	star := testutils.CreateTestUser(db)
	for i := 0; i < 3; i++ {
		testutils.CreateTestReferral(db, star.ID, testutils.CreateTestUser(db).ID)
	}
	page := testutils.CreateTestPage(db)
	testutils.CreateTestRevision(db, page.ID, star.ID, "a", wiki.StatusApproved)
	testutils.CreateTestRevision(db, page.ID, star.ID, "b", wiki.StatusApproved)
	testutils.CreateTestRevision(db, page.ID, star.ID, "c", wiki.StatusRejected)
	testutils.CreateTestRevision(db, page.ID, star.ID, "d")

	members, err := svc.Members(context.Background(), permission.Actor{UserID: admin.ID, Role: admin.Role})
	require.Nil(t, err)

	var found *Member
	for i := range members {
		if members[i].ID == star.ID {
			found = &members[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, int64(3), found.ReferralCount)
	assert.Equal(t, int64(2), found.ApprovedEdits)
	assert.Equal(t, star.ReferralCode, found.ReferralCode)
}

func TestMembers_RequiresAdmin(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewService(db)
	student := testutils.CreateTestUser(db)

	_, err := svc.Members(context.Background(), permission.Actor{UserID: student.ID, Role: student.Role})
	require.NotNil(t, err)
	assert.Equal(t, response.Forbidden, err.Code)

	_, err = svc.Members(context.Background(), permission.Actor{})
	require.NotNil(t, err)
	assert.Equal(t, response.Unauthorized, err.Code)
}
