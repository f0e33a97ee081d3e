package rank

import (
	"context"
	"time"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pipeline"
)

// ScoreFunc 计算单个候选的分数。
type ScoreFunc func(c *core.Candidate, now time.Time) float64

// ScoreNode 是打分节点：以 FeedContext.Now 为当前时间，原地写入 Candidate.Score。
// 顺序不变，排序由 rerank.SortNode 负责。
type ScoreNode struct {
	NodeName string
	Score    ScoreFunc
}

// NewSubscriptionNode 返回订阅流打分节点。
func NewSubscriptionNode() *ScoreNode {
	return &ScoreNode{NodeName: "rank.subscription", Score: SubscriptionScore}
}

// NewHotNode 返回热门流打分节点。
func NewHotNode() *ScoreNode {
	return &ScoreNode{NodeName: "rank.hot", Score: HotScore}
}

func (n *ScoreNode) Name() string        { return n.NodeName }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScoreNode) Process(
	_ context.Context,
	fctx *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	now := time.Now()
	if fctx != nil && !fctx.Now.IsZero() {
		now = fctx.Now
	}
	for _, c := range candidates {
		c.Score = n.Score(c, now)
	}
	return candidates, nil
}
