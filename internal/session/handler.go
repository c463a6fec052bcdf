package session

import (
	"time"

	"cofactor-club/internal/dto"
	"cofactor-club/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RefreshTokenCookie 刷新令牌 cookie 名
const RefreshTokenCookie = "refresh_token"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SetSessionCookies 写入访问令牌和刷新令牌 cookie
func SetSessionCookies(c *gin.Context, pair TokenPair, secure bool) {
	accessMaxAge := int(time.Until(pair.ExpiresAt).Seconds())
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, accessMaxAge, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, pair.RefreshToken, int(RefreshTokenExpiration.Seconds()), "/", "", secure, true)
}

func clearSessionCookies(c *gin.Context, secure bool) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}

func secureCookies() bool {
	return gin.Mode() == gin.ReleaseMode
}

// Login 用户登录
// @Summary 邮箱密码登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录请求"
// @Success 200 {object} response.Response{data=LoginResponse}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	SetSessionCookies(c, result.TokenPair, secureCookies())
	dto.SuccessResponse(c, result)
}

// Refresh 刷新访问令牌
// @Summary 使用刷新令牌换取新的令牌对
// @Description 优先读取 refresh_token cookie，其次读取请求体
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "刷新令牌"
// @Success 200 {object} response.Response{data=LoginResponse}
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	token := refreshTokenFrom(c)

	result, err := h.service.Refresh(c.Request.Context(), token)
	if err != nil {
		clearSessionCookies(c, secureCookies())
		dto.ErrorResponse(c, err)
		return
	}

	SetSessionCookies(c, result.TokenPair, secureCookies())
	dto.SuccessResponse(c, result)
}

// Logout 用户退出登录
// @Summary 用户退出登录
// @Description 撤销刷新令牌并清除 cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	err := h.service.Logout(c.Request.Context(), refreshTokenFrom(c))
	clearSessionCookies(c, secureCookies())
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, nil)
}

// Me 获取当前用户信息
// @Summary 当前会员资料
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response{data=Profile}
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	profile, err := h.service.Me(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, profile)
}

func refreshTokenFrom(c *gin.Context) string {
	if token, err := c.Cookie(RefreshTokenCookie); err == nil && token != "" {
		return token
	}
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}
