package wiki

import (
	"strconv"

	"cofactor-club/internal/dto"
	"cofactor-club/internal/middleware"
	"cofactor-club/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListPages 获取页面目录
// @Summary 页面目录（按名称排序）
// @Tags Wiki
// @Produce json
// @Success 200 {object} response.Response{data=[]PageSummary}
// @Router /wiki/pages [get]
func (h *Handler) ListPages(c *gin.Context) {
	pages, err := h.service.ListPages(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, pages)
}

// GetPage 获取页面内容
// @Summary 按 slug 获取页面
// @Tags Wiki
// @Produce json
// @Param slug path string true "页面 slug"
// @Success 200 {object} response.Response{data=PageDetail}
// @Router /wiki/pages/{slug} [get]
func (h *Handler) GetPage(c *gin.Context) {
	page, err := h.service.GetPage(c.Request.Context(), middleware.CurrentActor(c), c.Param("slug"))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, page)
}

// ListPageRevisions 页面修订历史
// @Summary 页面已通过的修订
// @Tags Wiki
// @Produce json
// @Param slug path string true "页面 slug"
// @Success 200 {object} response.Response{data=[]RevisionView}
// @Router /wiki/pages/{slug}/revisions [get]
func (h *Handler) ListPageRevisions(c *gin.Context) {
	revs, err := h.service.ListPageRevisions(c.Request.Context(), middleware.CurrentActor(c), c.Param("slug"))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, revs)
}

// Propose 提交修改
// @Summary 提交页面修改
// @Description 页面不存在时自动创建（需要 name）。staff / admin 的修改直接发布
// @Tags Wiki
// @Accept json
// @Produce json
// @Param slug path string true "页面 slug"
// @Param request body ProposeRequest true "修改内容"
// @Success 200 {object} response.Response{data=RevisionView}
// @Security BearerAuth
// @Router /wiki/pages/{slug}/revisions [post]
func (h *Handler) Propose(c *gin.Context) {
	var req ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	rev, err := h.service.Propose(c.Request.Context(), middleware.CurrentActor(c), c.Param("slug"), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, rev)
}

// ListPending 待审核修订
// @Summary 待审核修订列表（管理员）
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response{data=[]RevisionView}
// @Security BearerAuth
// @Router /admin/revisions [get]
func (h *Handler) ListPending(c *gin.Context) {
	revs, err := h.service.ListPending(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, revs)
}

// GetRevision 修订详情
// @Summary 修订详情（管理员）
// @Tags Admin
// @Produce json
// @Param id path int true "修订ID"
// @Success 200 {object} response.Response{data=RevisionView}
// @Security BearerAuth
// @Router /admin/revisions/{id} [get]
func (h *Handler) GetRevision(c *gin.Context) {
	id, ok := parseID(c, "invalid revision id")
	if !ok {
		return
	}
	rev, err := h.service.GetRevision(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, rev)
}

// Approve 审核通过
// @Summary 通过修订（管理员）
// @Tags Admin
// @Produce json
// @Param id path int true "修订ID"
// @Success 200 {object} response.Response{data=RevisionView}
// @Security BearerAuth
// @Router /admin/revisions/{id}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	id, ok := parseID(c, "invalid revision id")
	if !ok {
		return
	}
	rev, err := h.service.Approve(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, rev)
}

// Reject 驳回修订
// @Summary 驳回修订（管理员）
// @Tags Admin
// @Produce json
// @Param id path int true "修订ID"
// @Success 200 {object} response.Response{data=RevisionView}
// @Security BearerAuth
// @Router /admin/revisions/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	id, ok := parseID(c, "invalid revision id")
	if !ok {
		return
	}
	rev, err := h.service.Reject(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, rev)
}

// DeletePage 删除页面
// @Summary 删除页面及全部修订（管理员）
// @Tags Admin
// @Produce json
// @Param id path int true "页面ID"
// @Success 200 {object} response.Response{data=DeletePageResult}
// @Security BearerAuth
// @Router /admin/pages/{id} [delete]
func (h *Handler) DeletePage(c *gin.Context) {
	id, ok := parseID(c, "invalid page id")
	if !ok {
		return
	}
	result, err := h.service.DeletePage(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

func parseID(c *gin.Context, msg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage(msg),
		))
		return 0, false
	}
	return uint(id), true
}
