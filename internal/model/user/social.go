package user

import (
	"math"
	"strings"
)

// Platform 支持的社媒平台
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformLinkedIn  Platform = "linkedin"
)

// MaxFollowerCount 单个平台允许上报的最大粉丝数
const MaxFollowerCount int64 = 1_000_000_000_000

// Platforms 全部支持的平台，顺序固定
var Platforms = []Platform{PlatformInstagram, PlatformTikTok, PlatformLinkedIn}

// ParsePlatform 解析平台标识，大小写不敏感
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Platforms {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// PlatformStat 单个平台的账号和粉丝数
type PlatformStat struct {
	Handle string `json:"handle"`
	Count  int64  `json:"count"`
}

// SocialStats 平台 -> 账号数据
type SocialStats map[Platform]PlatformStat

// Reach 所有平台粉丝数之和，负数按 0 计，溢出时停在 math.MaxInt64
func (s SocialStats) Reach() int64 {
	var total int64
	for _, stat := range s {
		if stat.Count <= 0 {
			continue
		}
		if stat.Count > math.MaxInt64-total {
			return math.MaxInt64
		}
		total += stat.Count
	}
	return total
}

// With 返回合并了单个平台数据的新副本，其他平台保持不变
func (s SocialStats) With(p Platform, stat PlatformStat) SocialStats {
	merged := make(SocialStats, len(s)+1)
	for k, v := range s {
		merged[k] = v
	}
	merged[p] = stat
	return merged
}
