// Package rank 实现候选打分：订阅流与热门流各自的相关度 + 时效性公式。
// 打分函数都是候选与当前时间的纯函数。
package rank

import (
	"math"
	"time"

	"github.com/rushteam/scholarfeed/core"
)

// ElapsedDays 返回 now 与 t 之间相差的整天数（向下取整），t 晚于 now 时为 0。
func ElapsedDays(now, t time.Time) int {
	d := now.Sub(t)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// Freshness 是时效性得分 1/(1+elapsed_days)，取值 (0, 1]，随时间严格递减。
func Freshness(now, t time.Time) float64 {
	return 1 / (1 + float64(ElapsedDays(now, t)))
}

// SubscriptionPaperScore = 0.5*Σtopic + 0.5*freshness(published)
func SubscriptionPaperScore(tp *core.TopicProvenance, p *core.Paper, now time.Time) float64 {
	return 0.5*topicSum(tp) + 0.5*Freshness(now, p.Published)
}

// SubscriptionRepositoryScore = 0.5*overall_topic + 0.5*freshness
//
//	overall_topic = Σtopic / sqrt(1 + 话题数)
//	freshness     = 0.5*freshness(pushed_at) + 0.5*freshness(created_at)
func SubscriptionRepositoryScore(tp *core.TopicProvenance, r *core.Repository, now time.Time) float64 {
	count := 0
	if tp != nil {
		count = tp.Len()
	}
	overallTopic := topicSum(tp) / math.Sqrt(1+float64(count))
	freshness := 0.5*Freshness(now, r.PushedAt) + 0.5*Freshness(now, r.CreatedAt)
	return 0.5*overallTopic + 0.5*freshness
}

// HotPaperScore = views * freshness(published)^0.4
func HotPaperScore(p *core.Paper, now time.Time) float64 {
	return float64(p.ViewCount) * math.Pow(Freshness(now, p.Published), 0.4)
}

// HotRepositoryScore = views * (0.5/(1+d_pushed)^0.5 + 0.5/(1+d_created)^0.3)
// 仓库的指数更小，热度衰减比论文慢。
func HotRepositoryScore(r *core.Repository, now time.Time) float64 {
	pushed := 1 + float64(ElapsedDays(now, r.PushedAt))
	created := 1 + float64(ElapsedDays(now, r.CreatedAt))
	return float64(r.ViewCount) * (0.5/math.Pow(pushed, 0.5) + 0.5/math.Pow(created, 0.3))
}

// SubscriptionScore 按物品类型分派订阅流公式。
func SubscriptionScore(c *core.Candidate, now time.Time) float64 {
	tp := c.Topics()
	return core.MatchItem(c.Item,
		func(p *core.Paper) float64 { return SubscriptionPaperScore(tp, p, now) },
		func(r *core.Repository) float64 { return SubscriptionRepositoryScore(tp, r, now) },
	)
}

// HotScore 按物品类型分派热门流公式。
func HotScore(c *core.Candidate, now time.Time) float64 {
	return core.MatchItem(c.Item,
		func(p *core.Paper) float64 { return HotPaperScore(p, now) },
		func(r *core.Repository) float64 { return HotRepositoryScore(r, now) },
	)
}

func topicSum(tp *core.TopicProvenance) float64 {
	if tp == nil {
		return 0
	}
	return tp.Sum()
}
