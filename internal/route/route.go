package route

import (
	"cofactor-club/internal/leaderboard"
	"cofactor-club/internal/session"
	"cofactor-club/internal/signup"
	"cofactor-club/internal/social"
	"cofactor-club/internal/staff"
	"cofactor-club/internal/wiki"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services HTTP 层依赖的全部业务服务
type Services struct {
	Session     *session.Service
	Signup      *signup.Service
	Wiki        *wiki.Service
	Staff       *staff.Service
	Social      *social.Service
	Leaderboard *leaderboard.Service
}

func initRoute(r *gin.Engine, s Services) {
	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		session.SetupSessionRoutes(apiV1, s.Session)
		signup.SetupSignupRoutes(apiV1, signup.NewHandler(s.Signup, s.Session))
		wiki.SetupWikiRoutes(apiV1, s.Wiki)
		staff.SetupStaffRoutes(apiV1, s.Staff)
		social.SetupSocialRoutes(apiV1, s.Social)
		leaderboard.SetupLeaderboardRoutes(apiV1, s.Leaderboard)
	}
}

// SetupRouter origins 为允许跨域的前端地址，为空时只允许本地开发端口
func SetupRouter(s Services, origins []string) *gin.Engine {
	r := gin.Default()

	allowedOrigins := origins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	// 设置跨域请求，刷新令牌放在 cookie 中，需要允许携带凭证
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	initRoute(r, s)

	return r
}
