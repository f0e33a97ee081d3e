package rerank

import (
	"context"
	"math"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pipeline"
)

// Epsilon 加在标准差上，避免单元素或零方差分组除零。
const Epsilon = 1e-6

// ZScore 原地把 scores 标准化为零均值、单位方差：(s - mean) / (std + ε)。
// std 为总体标准差；空切片不做处理。
func ZScore(scores []float64) {
	if len(scores) == 0 {
		return
	}
	n := float64(len(scores))
	var mean float64
	for _, s := range scores {
		mean += s
	}
	mean /= n

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	std := math.Sqrt(variance/n) + Epsilon

	for i, s := range scores {
		scores[i] = (s - mean) / std
	}
}

// NormalizeNode 按物品类型分组，对每组分数独立做 z-score 标准化。
// 仅用于需要把不同类型候选放进同一个列表比较的热门流；候选顺序不变。
type NormalizeNode struct{}

func (n *NormalizeNode) Name() string        { return "normalize.zscore" }
func (n *NormalizeNode) Kind() pipeline.Kind { return pipeline.KindNormalize }

func (n *NormalizeNode) Process(
	_ context.Context,
	_ *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	groups := make(map[core.Origin][]*core.Candidate, len(core.Origins))
	for _, c := range candidates {
		groups[c.Origin] = append(groups[c.Origin], c)
	}
	for _, group := range groups {
		scores := make([]float64, len(group))
		for i, c := range group {
			scores[i] = c.Score
		}
		ZScore(scores)
		for i, c := range group {
			c.Score = scores[i]
		}
	}
	return candidates, nil
}
