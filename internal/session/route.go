package session

import (
	"cofactor-club/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSessionRoutes 注册登录相关路由，注册接口由 signup 包挂在同一分组下
func SetupSessionRoutes(r *gin.RouterGroup, service *Service) {
	h := NewHandler(service)

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.JWTAuth(), h.Me)
	}
}
