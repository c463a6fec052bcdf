package signup

import (
	"cofactor-club/internal/dto"
	"cofactor-club/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service  *Service
	sessions *session.Service
}

// NewHandler sessions 不为空时注册成功后直接登录
func NewHandler(service *Service, sessions *session.Service) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// SignupResult 注册接口返回
type SignupResult struct {
	User    *SignupResponse        `json:"user"`
	Session *session.LoginResponse `json:"session,omitempty"`
}

// Signup 会员注册
// @Summary 使用推荐码或 staff 口令注册
// @Description code 为已有会员的推荐码时角色为 STUDENT；为 staff 口令时进入 staff 审核
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "注册请求"
// @Success 200 {object} response.Response{data=SignupResult}
// @Router /auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	created, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	result := SignupResult{User: created}
	if h.sessions != nil {
		// 会话建立失败不影响注册结果，用户可以再登录
		if s, err := h.sessions.Issue(c.Request.Context(), created.ID); err == nil {
			session.SetSessionCookies(c, s.TokenPair, gin.Mode() == gin.ReleaseMode)
			result.Session = s
		}
	}
	dto.SuccessResponse(c, result)
}
