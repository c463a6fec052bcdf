package leaderboard

import (
	"strconv"

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

// Top 排行榜
// @Summary 学生排行榜
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "条数" default(50)
// @Success 200 {object} response.Response{data=[]Entry}
// @Router /leaderboard [get]
func (h *Handler) Top(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	entries, err := h.service.Top(c.Request.Context(), limit)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, entries)
}

// Members 会员名单
// @Summary 会员名单及推荐数、通过的编辑数（管理员）
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response{data=[]Member}
// @Security BearerAuth
// @Router /members [get]
func (h *Handler) Members(c *gin.Context) {
	members, err := h.service.Members(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, members)
}

// SetupLeaderboardRoutes 注册排行榜路由
func SetupLeaderboardRoutes(r *gin.RouterGroup, service *Service) {
	h := NewHandler(service)

	r.GET("/leaderboard", h.Top)
	r.GET("/members", middleware.JWTAuth(), middleware.AdminRequired(), h.Members)
}
