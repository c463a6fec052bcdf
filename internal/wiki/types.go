package wiki

import (
	"time"

	"cofactor-club/internal/model/user"
	"cofactor-club/internal/model/wiki"
)

// ProposeRequest 提交页面修改
type ProposeRequest struct {
	Name    string `json:"name" binding:"max=255" example:"Massachusetts Institute of Technology"` // 新页面必填
	Content string `json:"content" binding:"required" example:"# MIT\nFounded in 1861."`
}

// PageSummary 页面列表项
type PageSummary struct {
	ID        uint      `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Published bool      `json:"published"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageDetail 页面详情
type PageDetail struct {
	PageSummary
	Content string `json:"content"`
}

// AuthorInfo 作者信息
type AuthorInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// RevisionView 修订详情
type RevisionView struct {
	ID        uint         `json:"id"`
	Status    string       `json:"status"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Page      *PageSummary `json:"page,omitempty"`
	Author    *AuthorInfo  `json:"author,omitempty"`
}

// DeletePageResult 删除页面结果
type DeletePageResult struct {
	PageID           uint  `json:"page_id"`
	DeletedRevisions int64 `json:"deleted_revisions"`
}

func toPageSummary(p *wiki.UniPage) *PageSummary {
	if p == nil {
		return nil
	}
	return &PageSummary{
		ID:        p.ID,
		Slug:      p.Slug,
		Name:      p.Name,
		Published: p.Published,
		UpdatedAt: p.UpdatedAt,
	}
}

func toAuthorInfo(u *user.User, withEmail bool) *AuthorInfo {
	if u == nil {
		return nil
	}
	info := &AuthorInfo{ID: u.ID, Name: u.Name}
	if withEmail {
		info.Email = u.Email
	}
	return info
}

func toRevisionView(r *wiki.WikiRevision, withEmail bool) *RevisionView {
	return &RevisionView{
		ID:        r.ID,
		Status:    r.Status,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Page:      toPageSummary(r.Page),
		Author:    toAuthorInfo(r.Author, withEmail),
	}
}
