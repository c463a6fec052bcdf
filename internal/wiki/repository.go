package wiki

import (
	"context"
	"time"

	"cofactor-club/internal/model/wiki"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 页面与修订的存储访问
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ===== UniPage =====

func (r *Repository) FindPageBySlug(ctx context.Context, slug string) (*wiki.UniPage, error) {
	var page wiki.UniPage
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *Repository) FindPageByID(ctx context.Context, id uint) (*wiki.UniPage, error) {
	var page wiki.UniPage
	if err := r.db.WithContext(ctx).First(&page, id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePageIfAbsent 插入页面，slug 已存在时不报错而是读回已有页面
// 并发创建同一 slug 时两边都拿到同一行
func (r *Repository) CreatePageIfAbsent(ctx context.Context, page *wiki.UniPage) (*wiki.UniPage, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(page)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 1 {
		return page, nil
	}
	return r.FindPageBySlug(ctx, page.Slug)
}

// PublishPage 写入内容并标记为已发布，返回受影响行数
func (r *Repository) PublishPage(ctx context.Context, pageID uint, content string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&wiki.UniPage{}).
		Where("id = ?", pageID).
		Updates(map[string]interface{}{
			"content":    content,
			"published":  true,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// ListPages 按名称升序
func (r *Repository) ListPages(ctx context.Context) ([]wiki.UniPage, error) {
	var pages []wiki.UniPage
	err := r.db.WithContext(ctx).
		Select("id", "slug", "name", "published", "created_at", "updated_at").
		Order("name asc").
		Find(&pages).Error
	return pages, err
}

func (r *Repository) DeletePage(ctx context.Context, pageID uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&wiki.UniPage{}, pageID)
	return result.RowsAffected, result.Error
}

// ===== WikiRevision =====

func (r *Repository) CreateRevision(ctx context.Context, rev *wiki.WikiRevision) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

// FindRevision 读取修订，preload 为需要预加载的关联（Page / Author）
func (r *Repository) FindRevision(ctx context.Context, id uint, preload ...string) (*wiki.WikiRevision, error) {
	q := r.db.WithContext(ctx)
	for _, assoc := range preload {
		q = q.Preload(assoc)
	}
	var rev wiki.WikiRevision
	if err := q.First(&rev, id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

// TransitionStatus 条件更新状态，只有当前状态为 from 时才会写入
// 返回 false 表示修订不存在或已不是 from 状态
func (r *Repository) TransitionStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&wiki.WikiRevision{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListByStatus 按创建时间倒序，预加载页面和作者
func (r *Repository) ListByStatus(ctx context.Context, status string) ([]wiki.WikiRevision, error) {
	var revs []wiki.WikiRevision
	err := r.db.WithContext(ctx).
		Preload("Page").
		Preload("Author").
		Where("status = ?", status).
		Order("created_at desc, id desc").
		Find(&revs).Error
	return revs, err
}

// ListPageHistory 页面已通过的修订，最新在前
func (r *Repository) ListPageHistory(ctx context.Context, pageID uint) ([]wiki.WikiRevision, error) {
	var revs []wiki.WikiRevision
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("uni_page_id = ? AND status = ?", pageID, wiki.StatusApproved).
		Order("created_at desc, id desc").
		Find(&revs).Error
	return revs, err
}

func (r *Repository) DeleteRevisionsByPage(ctx context.Context, pageID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("uni_page_id = ?", pageID).
		Delete(&wiki.WikiRevision{})
	return result.RowsAffected, result.Error
}
