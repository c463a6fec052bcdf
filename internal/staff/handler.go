package staff

import (
	"context"
	"strconv"

	"cofactor-club/internal/dto"
	"cofactor-club/internal/middleware"
	"cofactor-club/internal/permission"
	"cofactor-club/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListPending staff 申请列表
// @Summary 待审核的 staff 申请（管理员）
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response{data=[]Applicant}
// @Security BearerAuth
// @Router /admin/staff [get]
func (h *Handler) ListPending(c *gin.Context) {
	list, err := h.service.ListPending(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, list)
}

// Approve 通过 staff 申请
// @Summary 通过 staff 申请（管理员）
// @Tags Admin
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=Applicant}
// @Security BearerAuth
// @Router /admin/staff/{id}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

// Reject 驳回 staff 申请
// @Summary 驳回 staff 申请（管理员），用户降为 STUDENT
// @Tags Admin
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=Applicant}
// @Security BearerAuth
// @Router /admin/staff/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

type decision func(ctx context.Context, actor permission.Actor, userID uint) (*Applicant, *response.BusinessError)

func (h *Handler) decide(c *gin.Context, fn decision) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("invalid user id"),
		))
		return
	}

	applicant, bizErr := fn(c.Request.Context(), middleware.CurrentActor(c), uint(id))
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, applicant)
}

// SetupStaffRoutes 注册 staff 审核路由
func SetupStaffRoutes(r *gin.RouterGroup, service *Service) {
	h := NewHandler(service)

	admin := r.Group("/admin/staff")
	admin.Use(middleware.JWTAuth(), middleware.AdminRequired())
	{
		admin.GET("", h.ListPending)
		admin.POST("/:id/approve", h.Approve)
		admin.POST("/:id/reject", h.Reject)
	}
}
