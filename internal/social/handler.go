package social

import (
	"cofactor-club/internal/dto"
	"cofactor-club/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get 获取社媒数据
// @Summary 当前会员的社媒数据
// @Tags Social
// @Produce json
// @Success 200 {object} response.Response{data=StatsView}
// @Security BearerAuth
// @Router /social [get]
func (h *Handler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, view)
}

// Update 更新单个平台
// @Summary 更新单个平台的账号和粉丝数
// @Tags Social
// @Accept json
// @Produce json
// @Param platform path string true "平台" Enums(instagram, tiktok, linkedin)
// @Param request body UpdateRequest true "平台数据"
// @Success 200 {object} response.Response{data=StatsView}
// @Security BearerAuth
// @Router /social/{platform} [put]
func (h *Handler) Update(c *gin.Context) {
	var uri platformURI
	if err := c.ShouldBindUri(&uri); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	view, err := h.service.UpdatePlatform(c.Request.Context(), middleware.CurrentActor(c), uri.Platform, req.Handle, *req.Count)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, view)
}

// Sync 模拟同步
// @Summary 刷新所有平台的粉丝数
// @Tags Social
// @Produce json
// @Success 200 {object} response.Response{data=StatsView}
// @Security BearerAuth
// @Router /social/sync [post]
func (h *Handler) Sync(c *gin.Context) {
	view, err := h.service.Sync(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, view)
}

// SetupSocialRoutes 注册社媒路由，全部需要登录
func SetupSocialRoutes(r *gin.RouterGroup, service *Service) {
	h := NewHandler(service)

	social := r.Group("/social")
	social.Use(middleware.JWTAuth())
	{
		social.GET("", h.Get)
		social.POST("/sync", h.Sync)
		social.PUT("/:platform", h.Update)
	}
}
