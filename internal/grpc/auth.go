package grpc

import (
	"context"

	"cofactor-club/internal/permission"
	"cofactor-club/pkg/authsdk"

	"google.golang.org/grpc"
)

type actorKey struct{}

// AuthInterceptor 从 metadata 解析 JWT，把调用方身份放入 context
// 没有 token 或解析失败时为匿名调用方，由具体方法决定是否拒绝
func AuthInterceptor(secret string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		user := authsdk.GetUserFromContext(ctx, secret)
		actor := permission.Actor{UserID: user.UserID, Role: user.Role}
		return handler(context.WithValue(ctx, actorKey{}, actor), req)
	}
}

// ActorFromContext 获取调用方身份，未登录时 UserID 为 0
func ActorFromContext(ctx context.Context) permission.Actor {
	actor, _ := ctx.Value(actorKey{}).(permission.Actor)
	return actor
}
