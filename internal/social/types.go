package social

import "cofactor-club/internal/model/user"

// UpdateRequest 更新单个平台的数据
type UpdateRequest struct {
	Handle string `json:"handle" binding:"required,max=255" example:"@ada.codes"`
	Count  *int64 `json:"count" binding:"required,gte=0,lte=1000000000000" example:"12345"`
}

// platformURI 路径参数
type platformURI struct {
	Platform string `uri:"platform" binding:"required,platform"`
}

// StatsView 会员的社媒数据与当前分数
type StatsView struct {
	Stats      user.SocialStats `json:"stats"`
	Reach      int64            `json:"reach"`
	PowerScore int64            `json:"power_score"`
}
