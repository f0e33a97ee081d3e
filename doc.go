// Package scholarfeed 是论文与开源仓库的 feed 聚合与排序引擎。
//
// 设计要点：
// - Pipeline-first: 每种 feed 都是 Node 串联（Recall → Merge → Filter → Rank → Normalize → ReRank）
// - Provenance-first: 候选的来源（学者或话题相关度）全链路累积，既用于打分，也随结果返回
// - Node 可扩展: 内置 Node 通过 YAML 配置组装，也可以注册自定义 Node
package scholarfeed

import (
	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pipeline"
)

// 轻量 facade：便于直接 import "scholarfeed" 使用核心抽象。
type (
	Pipeline  = pipeline.Pipeline
	Node      = pipeline.Node
	Kind      = pipeline.Kind
	Candidate = core.Candidate
	FeedKind  = core.FeedKind
)

const (
	KindRecall    = pipeline.KindRecall
	KindMerge     = pipeline.KindMerge
	KindFilter    = pipeline.KindFilter
	KindRank      = pipeline.KindRank
	KindNormalize = pipeline.KindNormalize
	KindReRank    = pipeline.KindReRank

	FeedFollow       = core.FeedFollow
	FeedSubscription = core.FeedSubscription
	FeedHot          = core.FeedHot
)
