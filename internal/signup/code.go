package signup

import (
	"strings"

	"github.com/google/uuid"
)

const (
	codePrefixLen  = 3
	fallbackPrefix = "CFC"
	codeSuffixLen  = 8
)

// NewReferralCode 名字前三个字母大写 + "-" + 8 位十六进制
// 例如 "Ada Lovelace" -> "ADA-1F2E3D4C"
func NewReferralCode(name string) string {
	var prefix strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			prefix.WriteRune(r)
			if prefix.Len() == codePrefixLen {
				break
			}
		}
	}
	p := prefix.String()
	if p == "" {
		p = fallbackPrefix
	}

	id := uuid.New()
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:codeSuffixLen])
	return p + "-" + suffix
}

// NormalizeCode 推荐码比较时忽略大小写和首尾空白
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
