package authsdk

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"
)

// ExtractTokenFromContext 从 gRPC context 的 metadata 中提取 JWT token
// 支持 authorization (Bearer) 和 x-access-token 两种 header
func ExtractTokenFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", ErrNoToken
	}

	if values := md.Get("authorization"); len(values) > 0 {
		return strings.TrimPrefix(values[0], "Bearer "), nil
	}

	if values := md.Get("x-access-token"); len(values) > 0 {
		return values[0], nil
	}

	return "", ErrNoToken
}

// GetUserFromContext 从 gRPC context 获取用户信息
// 没有 token 或解析失败时返回空的 UserContext（UserID=0）
func GetUserFromContext(ctx context.Context, secret string) *UserContext {
	token, err := ExtractTokenFromContext(ctx)
	if err != nil {
		return &UserContext{}
	}

	user, err := ParseToken(token, secret)
	if err != nil {
		return &UserContext{}
	}

	return user
}
