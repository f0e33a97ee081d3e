// Package merge 实现候选合并：按 (origin, id) 去重，把来源累积到同一个候选上。
package merge

import (
	"context"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pipeline"
)

// Node 是合并节点。热门流不需要合并（每条目录记录只产生一个候选）。
type Node struct{}

func (n *Node) Name() string        { return "merge.dedup" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindMerge }

func (n *Node) Process(
	_ context.Context,
	_ *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	return Candidates(candidates), nil
}

// Candidates 合并同一 (origin, id) 的候选，输出顺序为首次出现的顺序。
//
// 累积规则：
//   - 首次出现：创建新候选，来源为副本，Item 与 Timestamp 取首次出现的值
//   - 学者来源：追加新的学者姓名（按首次出现顺序，已存在的忽略）
//   - 话题来源：逐个话题写入分数，已存在的话题被覆盖
//
// 输入不会被修改；把输出再次传入得到相同的结果。
func Candidates(candidates []*core.Candidate) []*core.Candidate {
	seen := make(map[core.CandidateKey]*core.Candidate, len(candidates))
	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.Item == nil {
			continue
		}
		key := c.Key()
		if existing, ok := seen[key]; ok {
			accumulate(existing.Source, c.Source)
			continue
		}
		merged := &core.Candidate{
			Origin:    c.Origin,
			Item:      c.Item,
			Timestamp: c.Timestamp,
			Score:     c.Score,
		}
		if c.Source != nil {
			merged.Source = c.Source.Clone()
		}
		seen[key] = merged
		out = append(out, merged)
	}
	return out
}

func accumulate(dst, src core.Provenance) {
	switch d := dst.(type) {
	case *core.ScholarProvenance:
		if s, ok := src.(*core.ScholarProvenance); ok {
			for _, name := range s.ScholarNames {
				d.Add(name)
			}
		}
	case *core.TopicProvenance:
		if s, ok := src.(*core.TopicProvenance); ok {
			for _, topic := range s.Topics() {
				score, _ := s.Get(topic)
				d.Set(topic, score)
			}
		}
	}
}
