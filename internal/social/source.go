package social

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"cofactor-club/internal/model/user"
)

// StatsSource 提供某个平台账号的最新粉丝数
type StatsSource interface {
	Fetch(ctx context.Context, platform user.Platform, handle string) (int64, error)
}

// Range 左闭右开区间 [Min, Max)
type Range struct {
	Min int64
	Max int64
}

// DefaultRanges 模拟同步时各平台的取值范围
var DefaultRanges = map[user.Platform]Range{
	user.PlatformInstagram: {Min: 500, Max: 5000},
	user.PlatformTikTok:    {Min: 1000, Max: 10000},
	user.PlatformLinkedIn:  {Min: 200, Max: 1500},
}

// RandomSource 不访问任何外部接口，按区间随机生成粉丝数
type RandomSource struct {
	mu     sync.Mutex
	rng    *rand.Rand
	ranges map[user.Platform]Range
}

// NewRandomSource seed 相同则序列相同，便于测试复现
func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ranges: DefaultRanges,
	}
}

func (s *RandomSource) Fetch(ctx context.Context, platform user.Platform, handle string) (int64, error) {
	r, ok := s.ranges[platform]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return r.Min + s.rng.Int64N(r.Max-r.Min), nil
}
