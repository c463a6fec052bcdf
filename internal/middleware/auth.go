package middleware

import (
	"errors"
	"strings"

	"cofactor-club/config"
	"cofactor-club/internal/dto"
	"cofactor-club/internal/permission"
	"cofactor-club/pkg/authsdk"
	"cofactor-club/pkg/response"

	"github.com/gin-gonic/gin"
)

// gin 上下文中的身份字段
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextEmail    = "email"
	ContextName     = "name"
)

// AccessTokenCookie 访问令牌 cookie 名
const AccessTokenCookie = "access_token"

// parseToken 从 cookie 或 Authorization header 中解析 token
func parseToken(c *gin.Context) (*authsdk.UserContext, error) {
	// 优先从 cookie 中获取 access_token
	tokenString, err := c.Cookie(AccessTokenCookie)
	if err != nil || tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			return nil, errors.New("missing access token")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return nil, errors.New("malformed authorization header")
		}
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}

	user, err := authsdk.ParseToken(tokenString, config.Conf.JWT.Secret)
	if err != nil {
		if errors.Is(err, authsdk.ErrExpiredToken) {
			return nil, errors.New("access token expired")
		}
		return nil, errors.New("invalid access token")
	}
	return user, nil
}

func setIdentity(c *gin.Context, user *authsdk.UserContext) {
	c.Set(ContextUserID, user.UserID)
	c.Set(ContextUserRole, user.Role)
	c.Set(ContextEmail, user.Email)
	c.Set(ContextName, user.Name)
}

// JWTAuth JWT 认证中间件（必需认证）
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := parseToken(c)
		if err != nil {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage(err.Error()),
			))
			c.Abort()
			return
		}

		setIdentity(c, user)
		c.Next()
	}
}

// OptionalJWTAuth 可选的 JWT 认证中间件，有合法 token 时写入身份
func OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := parseToken(c); err == nil {
			setIdentity(c, user)
		}
		c.Next()
	}
}

// AdminRequired 需要放在 JWTAuth 之后；无法识别身份时同样拒绝
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := permission.RequireAdmin(CurrentActor(c)); err != nil {
			dto.ErrorResponse(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentActor 读取中间件写入的身份，未登录时返回零值 Actor
func CurrentActor(c *gin.Context) permission.Actor {
	var actor permission.Actor
	if v, ok := c.Get(ContextUserID); ok {
		actor.UserID, _ = v.(uint)
	}
	if v, ok := c.Get(ContextUserRole); ok {
		actor.Role, _ = v.(string)
	}
	return actor
}
