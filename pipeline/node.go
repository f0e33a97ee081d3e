package pipeline

import (
	"context"

	"github.com/rushteam/scholarfeed/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall    Kind = "recall"    // 召回阶段：从目录/检索后端生成原始候选
	KindMerge     Kind = "merge"     // 合并阶段：按 (origin, id) 去重并累积来源
	KindFilter    Kind = "filter"    // 过滤阶段：剔除不符合约束的候选
	KindRank      Kind = "rank"      // 打分阶段：计算候选分数
	KindNormalize Kind = "normalize" // 归一化阶段：同类型候选分数标准化
	KindReRank    Kind = "rerank"    // 重排阶段：排序与截断
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 candidates -> 输出 candidates”的形态，方便召回生成、合并去重、排序截断等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		fctx *core.FeedContext,
		candidates []*core.Candidate,
	) ([]*core.Candidate, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(config map[string]any) (Node, error)
