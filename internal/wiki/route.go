package wiki

import (
	"cofactor-club/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWikiRoutes 注册百科与审核路由
func SetupWikiRoutes(r *gin.RouterGroup, service *Service) {
	h := NewHandler(service)

	// 公开读取，登录用户可看到未发布页面（staff / admin）
	pages := r.Group("/wiki/pages")
	pages.Use(middleware.OptionalJWTAuth())
	{
		pages.GET("", h.ListPages)
		pages.GET("/:slug", h.GetPage)
		pages.GET("/:slug/revisions", h.ListPageRevisions)
	}

	proposals := r.Group("/wiki/pages")
	proposals.Use(middleware.JWTAuth())
	{
		proposals.POST("/:slug/revisions", h.Propose)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.AdminRequired())
	{
		admin.GET("/revisions", h.ListPending)
		admin.GET("/revisions/:id", h.GetRevision)
		admin.POST("/revisions/:id/approve", h.Approve)
		admin.POST("/revisions/:id/reject", h.Reject)
		admin.DELETE("/pages/:id", h.DeletePage)
	}
}
