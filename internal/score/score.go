// Package score 会员战力值（power score）计算
//
//	powerScore = referrals*50 + approvedEdits*20 + floor(reach/100)
//
// 提供两种写入方式：Recalculate 从源数据重新推导并覆盖；Increment 在存储层原子累加。
// Recalculate 可重复调用，Increment 每个触发事件只能调用一次。
package score

const (
	ReferralPoints     = 50
	WikiApprovalPoints = 20
	SocialDivisor      = 100
)

// Compute 纯函数，负数输入按 0 处理
func Compute(referrals, approvedEdits, reach int64) int64 {
	return nonNegative(referrals)*ReferralPoints +
		nonNegative(approvedEdits)*WikiApprovalPoints +
		nonNegative(reach)/SocialDivisor
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
