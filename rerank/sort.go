package rerank

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pipeline"
)

// SortBy 是排序键。
type SortBy string

const (
	SortByScore     SortBy = "score"     // 订阅流、热门流
	SortByTimestamp SortBy = "timestamp" // 关注流
)

// ParseSortBy 解析配置中的排序键。
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(s) {
	case SortByScore, SortByTimestamp:
		return SortBy(s), nil
	case "":
		return SortByScore, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// SortNode 按分数或时间降序稳定排序，相同时保持输入顺序。
type SortNode struct {
	By SortBy
}

func (n *SortNode) Name() string        { return "rerank.sort" }
func (n *SortNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *SortNode) Process(
	_ context.Context,
	_ *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	out := append([]*core.Candidate(nil), candidates...)
	switch n.By {
	case SortByTimestamp:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Timestamp.After(out[j].Timestamp)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Score > out[j].Score
		})
	}
	return out, nil
}
