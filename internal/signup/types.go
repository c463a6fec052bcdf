package signup

// SignupRequest 注册请求，code 为推荐码或 staff 口令
// 字段校验在 service 中按固定顺序进行
type SignupRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"correct-horse"`
	Name     string `json:"name" example:"Ada Lovelace"`
	Code     string `json:"code" example:"ADA-1F2E3D4C"`
}

// SignupResponse 注册结果
type SignupResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	ReferralCode string `json:"referral_code"`
	// 非空表示通过该会员的推荐码加入
	ReferredBy *uint `json:"referred_by,omitempty"`
}
