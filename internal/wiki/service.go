package wiki

import (
	"context"
	"errors"
	"strings"

	"cofactor-club/internal/dto"
	"cofactor-club/internal/model/wiki"
	"cofactor-club/internal/permission"
	"cofactor-club/internal/score"
	"cofactor-club/pkg/response"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service 百科页面与修订审核
type Service struct {
	db    *gorm.DB
	repo  *Repository
	score *score.Engine
}

func NewService(db *gorm.DB, engine *score.Engine) *Service {
	return &Service{
		db:    db,
		repo:  NewRepository(db),
		score: engine,
	}
}

// Propose 提交一次页面修改
// 普通会员生成 PENDING 修订；staff / admin 直接发布并记为 APPROVED，同时给作者加分
func (s *Service) Propose(ctx context.Context, actor permission.Actor, slug string, req ProposeRequest) (*RevisionView, *response.BusinessError) {
	if err := permission.RequireIdentified(actor); err != nil {
		return nil, err
	}

	slug = strings.TrimSpace(slug)
	if !dto.SlugPattern.MatchString(slug) {
		return nil, response.NewError(response.InvalidParameter, ErrInvalidSlug)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, response.NewError(response.InvalidParameter, ErrContentRequired)
	}
	name := strings.TrimSpace(req.Name)

	direct := actor.IsPrivileged()
	rev := &wiki.WikiRevision{
		AuthorID: actor.UserID,
		Content:  req.Content,
		Status:   wiki.StatusPending,
	}
	if direct {
		rev.Status = wiki.StatusApproved
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		page, err := repo.FindPageBySlug(ctx, slug)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if name == "" {
				return ErrPageNameRequired
			}
			page, err = repo.CreatePageIfAbsent(ctx, &wiki.UniPage{Slug: slug, Name: name})
		}
		if err != nil {
			return err
		}

		rev.UniPageID = page.ID
		if err := repo.CreateRevision(ctx, rev); err != nil {
			return err
		}
		rev.Page = page

		if !direct {
			return nil
		}
		if _, err := repo.PublishPage(ctx, page.ID, rev.Content); err != nil {
			return err
		}
		page.Content = rev.Content
		page.Published = true
		return s.score.Increment(ctx, tx, actor.UserID, score.WikiApprovalPoints)
	})
	if err != nil {
		return nil, s.toBusinessError(err, "failed to submit revision")
	}

	log.WithFields(log.Fields{
		"component":   "wiki",
		"revision_id": rev.ID,
		"page_id":     rev.UniPageID,
		"author_id":   actor.UserID,
		"status":      rev.Status,
	}).Info("revision submitted")

	return toRevisionView(rev, false), nil
}

// Approve 审核通过：修订状态、页面内容和作者加分在同一事务内完成
func (s *Service) Approve(ctx context.Context, actor permission.Actor, revisionID uint) (*RevisionView, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	var rev *wiki.WikiRevision
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		rev, err = repo.FindRevision(ctx, revisionID)
		if err != nil {
			return err
		}

		// 条件更新保证并发审核时只有一方成功
		ok, err := repo.TransitionStatus(ctx, rev.ID, wiki.StatusPending, wiki.StatusApproved)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRevisionNotPending
		}
		rev.Status = wiki.StatusApproved

		n, err := repo.PublishPage(ctx, rev.UniPageID, rev.Content)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrPageNotFound
		}

		return s.score.Increment(ctx, tx, rev.AuthorID, score.WikiApprovalPoints)
	})
	if err != nil {
		return nil, s.toBusinessError(err, "failed to approve revision")
	}

	log.WithFields(log.Fields{
		"component":   "wiki",
		"revision_id": rev.ID,
		"page_id":     rev.UniPageID,
		"author_id":   rev.AuthorID,
		"admin_id":    actor.UserID,
	}).Info("revision approved")

	return toRevisionView(rev, false), nil
}

// Reject 驳回，只修改状态
func (s *Service) Reject(ctx context.Context, actor permission.Actor, revisionID uint) (*RevisionView, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	rev, err := s.repo.FindRevision(ctx, revisionID)
	if err != nil {
		return nil, s.toBusinessError(err, "failed to reject revision")
	}
	ok, err := s.repo.TransitionStatus(ctx, rev.ID, wiki.StatusPending, wiki.StatusRejected)
	if err != nil {
		return nil, s.toBusinessError(err, "failed to reject revision")
	}
	if !ok {
		return nil, s.toBusinessError(ErrRevisionNotPending, "")
	}
	rev.Status = wiki.StatusRejected

	log.WithFields(log.Fields{
		"component":   "wiki",
		"revision_id": rev.ID,
		"admin_id":    actor.UserID,
	}).Info("revision rejected")

	return toRevisionView(rev, false), nil
}

// DeletePage 删除页面及其全部修订
func (s *Service) DeletePage(ctx context.Context, actor permission.Actor, pageID uint) (*DeletePageResult, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	result := &DeletePageResult{PageID: pageID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindPageByID(ctx, pageID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPageNotFound
			}
			return err
		}

		n, err := repo.DeleteRevisionsByPage(ctx, pageID)
		if err != nil {
			return err
		}
		result.DeletedRevisions = n

		if _, err := repo.DeletePage(ctx, pageID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.toBusinessError(err, "failed to delete page")
	}

	log.WithFields(log.Fields{
		"component":         "wiki",
		"page_id":           pageID,
		"deleted_revisions": result.DeletedRevisions,
		"admin_id":          actor.UserID,
	}).Info("page deleted")

	return result, nil
}

// ListPages 页面目录；未发布的页面只对 staff / admin 可见
func (s *Service) ListPages(ctx context.Context, actor permission.Actor) ([]PageSummary, *response.BusinessError) {
	pages, err := s.repo.ListPages(ctx)
	if err != nil {
		return nil, s.toBusinessError(err, "failed to list pages")
	}

	list := make([]PageSummary, 0, len(pages))
	for i := range pages {
		if !pages[i].Published && !actor.IsPrivileged() {
			continue
		}
		list = append(list, *toPageSummary(&pages[i]))
	}
	return list, nil
}

// GetPage 按 slug 读取页面
func (s *Service) GetPage(ctx context.Context, actor permission.Actor, slug string) (*PageDetail, *response.BusinessError) {
	page, bizErr := s.visiblePage(ctx, actor, slug)
	if bizErr != nil {
		return nil, bizErr
	}
	return &PageDetail{PageSummary: *toPageSummary(page), Content: page.Content}, nil
}

// ListPageRevisions 页面已通过的修订历史
func (s *Service) ListPageRevisions(ctx context.Context, actor permission.Actor, slug string) ([]RevisionView, *response.BusinessError) {
	page, bizErr := s.visiblePage(ctx, actor, slug)
	if bizErr != nil {
		return nil, bizErr
	}

	revs, err := s.repo.ListPageHistory(ctx, page.ID)
	if err != nil {
		return nil, s.toBusinessError(err, "failed to list revisions")
	}

	views := make([]RevisionView, 0, len(revs))
	for i := range revs {
		views = append(views, *toRevisionView(&revs[i], false))
	}
	return views, nil
}

// ListPending 管理后台待审核列表，最新在前
func (s *Service) ListPending(ctx context.Context, actor permission.Actor) ([]RevisionView, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	revs, err := s.repo.ListByStatus(ctx, wiki.StatusPending)
	if err != nil {
		return nil, s.toBusinessError(err, "failed to list pending revisions")
	}

	views := make([]RevisionView, 0, len(revs))
	for i := range revs {
		views = append(views, *toRevisionView(&revs[i], true))
	}
	return views, nil
}

// GetRevision 管理后台查看单个修订
func (s *Service) GetRevision(ctx context.Context, actor permission.Actor, revisionID uint) (*RevisionView, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	rev, err := s.repo.FindRevision(ctx, revisionID, "Page", "Author")
	if err != nil {
		return nil, s.toBusinessError(err, "failed to load revision")
	}
	return toRevisionView(rev, true), nil
}

func (s *Service) visiblePage(ctx context.Context, actor permission.Actor, slug string) (*wiki.UniPage, *response.BusinessError) {
	page, err := s.repo.FindPageBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewError(response.NotFound, ErrPageNotFound)
	}
	if err != nil {
		return nil, s.toBusinessError(err, "failed to load page")
	}
	if !page.Published && !actor.IsPrivileged() {
		return nil, response.NewError(response.NotFound, ErrPageNotFound)
	}
	return page, nil
}

// toBusinessError 把哨兵错误映射为业务错误码，其余按存储失败处理
func (s *Service) toBusinessError(err error, msg string) *response.BusinessError {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.NewError(response.NotFound, ErrRevisionNotFound)
	case errors.Is(err, ErrRevisionNotFound),
		errors.Is(err, ErrPageNotFound):
		return response.NewError(response.NotFound, err)
	case errors.Is(err, ErrRevisionNotPending),
		errors.Is(err, ErrPageNameRequired),
		errors.Is(err, ErrContentRequired),
		errors.Is(err, ErrInvalidSlug):
		return response.NewError(response.InvalidParameter, err)
	}

	log.WithError(err).WithField("component", "wiki").Error(msg)
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
