package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"cofactor-club/internal/leaderboard"
	"cofactor-club/pkg/authsdk"
	"cofactor-club/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

const testSecret = "grpc-test-secret"

type fakeBoard struct {
	entries   []leaderboard.Entry
	lastLimit int
}

func (f *fakeBoard) Top(ctx context.Context, limit int) ([]leaderboard.Entry, *response.BusinessError) {
	f.lastLimit = limit
	return f.entries, nil
}

func (f *fakeBoard) Score(ctx context.Context, userID uint) (*leaderboard.Entry, *response.BusinessError) {
	for _, e := range f.entries {
		if e.UserID == userID {
			return &e, nil
		}
	}
	return nil, response.NewBusinessError(response.WithErrorCode(response.NotFound), response.WithErrorMessage("user not found"))
}

func startServer(t *testing.T, board Leaderboard) *ScoreClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := newServer(lis, NewScoreServiceImpl(board), testSecret)
	go func() { _ = srv.Start() }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewScoreClient(conn)
}

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{response.NewBusinessError(response.WithErrorCode(response.NotFound)), codes.NotFound},
		{response.NewBusinessError(response.WithErrorCode(response.Forbidden)), codes.PermissionDenied},
		{response.NewBusinessError(response.WithErrorCode(response.InvalidParameter)), codes.InvalidArgument},
		{errors.New("connection reset"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(toStatus(tt.err)))
	}
}

func TestScoreService_GetLeaderboard(t *testing.T) {
	board := &fakeBoard{entries: []leaderboard.Entry{
		{Rank: 1, UserID: 7, Name: "Ada", PowerScore: 120},
		{Rank: 2, UserID: 3, Name: "Grace", PowerScore: 70},
	}}
	client := startServer(t, board)

	out, err := client.GetLeaderboard(context.Background(), mustStruct(t, map[string]interface{}{"limit": 10}))
	require.NoError(t, err)
	assert.Equal(t, 10, board.lastLimit)

	entries := out.Fields["entries"].GetListValue().GetValues()
	require.Len(t, entries, 2)
	first := entries[0].GetStructValue().AsMap()
	assert.Equal(t, "Ada", first["name"])
	assert.Equal(t, float64(120), first["power_score"])
	assert.Equal(t, float64(1), first["rank"])
}

func TestScoreService_GetPowerScore(t *testing.T) {
	board := &fakeBoard{entries: []leaderboard.Entry{{Rank: 1, UserID: 7, Name: "Ada", PowerScore: 120}}}
	client := startServer(t, board)

	t.Run("explicit user", func(t *testing.T) {
		out, err := client.GetPowerScore(context.Background(), mustStruct(t, map[string]interface{}{"user_id": 7}))
		require.NoError(t, err)
		assert.Equal(t, float64(120), out.AsMap()["power_score"])
	})

	t.Run("caller from token", func(t *testing.T) {
		tok, err := authsdk.GenerateToken(authsdk.UserContext{UserID: 7, Role: "STUDENT"}, testSecret, time.Hour)
		require.NoError(t, err)
		ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+tok)

		out, err := client.GetPowerScore(ctx, &structpb.Struct{})
		require.NoError(t, err)
		assert.Equal(t, "Ada", out.AsMap()["name"])
	})

	t.Run("anonymous without user_id", func(t *testing.T) {
		_, err := client.GetPowerScore(context.Background(), &structpb.Struct{})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("invalid user_id", func(t *testing.T) {
		for _, v := range []interface{}{-1, 0.5, 7.25, "7", float64(1 << 40)} {
			_, err := client.GetPowerScore(context.Background(), mustStruct(t, map[string]interface{}{"user_id": v}))
			assert.Equal(t, codes.InvalidArgument, status.Code(err), "user_id=%v", v)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := client.GetPowerScore(context.Background(), mustStruct(t, map[string]interface{}{"user_id": 99}))
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}
