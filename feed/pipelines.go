package feed

import (
	"github.com/rushteam/scholarfeed/config"
	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/merge"
	"github.com/rushteam/scholarfeed/pipeline"
	"github.com/rushteam/scholarfeed/rank"
	"github.com/rushteam/scholarfeed/recall"
	"github.com/rushteam/scholarfeed/rerank"
)

// DefaultPipelines 返回三种 feed 的内置 Pipeline：
//
//	follow:       recall.follow -> merge.dedup -> rerank.sort(timestamp)
//	subscription: recall.subscription -> merge.dedup -> rank.subscription -> rerank.sort(score) -> rerank.topn
//	hot:          recall.hot -> rank.hot -> normalize.zscore -> rerank.sort(score) -> rerank.topn
//
// 关注流不截断；热门流每条记录只召回一次，不需要合并。
func DefaultPipelines(deps config.Deps) map[core.FeedKind]*pipeline.Pipeline {
	cfg := deps.Feed.WithDefaults()
	return map[core.FeedKind]*pipeline.Pipeline{
		core.FeedFollow: {
			Name: string(core.FeedFollow),
			Nodes: []pipeline.Node{
				&recall.Follow{Catalog: deps.Catalog, PerScholar: cfg.FollowPerScholar, Logger: deps.Logger},
				&merge.Node{},
				&rerank.SortNode{By: rerank.SortByTimestamp},
			},
		},
		core.FeedSubscription: {
			Name: string(core.FeedSubscription),
			Nodes: []pipeline.Node{
				&recall.Subscription{
					Catalog:  deps.Catalog,
					Searcher: deps.Searcher,
					PerTopic: cfg.ResultsPerTopic,
					Logger:   deps.Logger,
				},
				&merge.Node{},
				rank.NewSubscriptionNode(),
				&rerank.SortNode{By: rerank.SortByScore},
				&rerank.TopNNode{N: cfg.OutputSize},
			},
		},
		core.FeedHot: {
			Name: string(core.FeedHot),
			Nodes: []pipeline.Node{
				&recall.Hot{
					Catalog:      deps.Catalog,
					Window:       cfg.HotWindow,
					MinViewCount: cfg.MinViewCount,
					Logger:       deps.Logger,
				},
				rank.NewHotNode(),
				&rerank.NormalizeNode{},
				&rerank.SortNode{By: rerank.SortByScore},
				&rerank.TopNNode{N: cfg.OutputSize},
			},
		},
	}
}
