package signup

import "github.com/gin-gonic/gin"

// SetupSignupRoutes 注册接口
func SetupSignupRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/auth/signup", h.Signup)
}
