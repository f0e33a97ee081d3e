// Package builders 注册全部内置 Node 的构建逻辑，import 即生效。
package builders

import (
	"fmt"

	"github.com/rushteam/scholarfeed/config"
	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/filter"
	"github.com/rushteam/scholarfeed/merge"
	"github.com/rushteam/scholarfeed/pipeline"
	"github.com/rushteam/scholarfeed/pkg/conv"
	"github.com/rushteam/scholarfeed/rank"
	"github.com/rushteam/scholarfeed/recall"
	"github.com/rushteam/scholarfeed/rerank"
)

func init() {
	config.Register("recall.follow", BuildFollowNode)
	config.Register("recall.subscription", BuildSubscriptionNode)
	config.Register("recall.hot", BuildHotNode)
	config.Register("merge.dedup", BuildMergeNode)
	config.Register("filter.expr", BuildExprFilterNode)
	config.Register("filter.blacklist", BuildBlacklistNode)
	config.Register("rank.subscription", BuildSubscriptionScoreNode)
	config.Register("rank.hot", BuildHotScoreNode)
	config.Register("normalize.zscore", BuildNormalizeNode)
	config.Register("rerank.sort", BuildSortNode)
	config.Register("rerank.topn", BuildTopNNode)
}

func BuildFollowNode(deps config.Deps, cfg map[string]any) (pipeline.Node, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("recall.follow requires a catalog")
	}
	return &recall.Follow{
		Catalog:       deps.Catalog,
		PerScholar:    int(conv.ConfigGetInt64(cfg, "per_scholar", int64(deps.Feed.FollowPerScholar))),
		MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
		Logger:        deps.Logger,
	}, nil
}

func BuildSubscriptionNode(deps config.Deps, cfg map[string]any) (pipeline.Node, error) {
	if deps.Catalog == nil || deps.Searcher == nil {
		return nil, fmt.Errorf("recall.subscription requires a catalog and a searcher")
	}
	origins, err := parseOrigins(cfg)
	if err != nil {
		return nil, err
	}
	return &recall.Subscription{
		Catalog:  deps.Catalog,
		Searcher: deps.Searcher,
		PerTopic: int(conv.ConfigGetInt64(cfg, "per_topic", int64(deps.Feed.ResultsPerTopic))),
		Origins:  origins,
		Logger:   deps.Logger,
	}, nil
}

func BuildHotNode(deps config.Deps, cfg map[string]any) (pipeline.Node, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("recall.hot requires a catalog")
	}
	window, err := conv.ConfigGetDuration(cfg, "window", deps.Feed.HotWindow)
	if err != nil {
		return nil, err
	}
	origins, err := parseOrigins(cfg)
	if err != nil {
		return nil, err
	}
	return &recall.Hot{
		Catalog:      deps.Catalog,
		Window:       window,
		MinViewCount: conv.ConfigGetInt64(cfg, "min_view_count", deps.Feed.MinViewCount),
		Origins:      origins,
		Logger:       deps.Logger,
	}, nil
}

func BuildMergeNode(_ config.Deps, _ map[string]any) (pipeline.Node, error) {
	return &merge.Node{}, nil
}

// BuildExprFilterNode 支持单个表达式 expr 或表达式列表 exprs。
func BuildExprFilterNode(deps config.Deps, cfg map[string]any) (pipeline.Node, error) {
	exprs := conv.SliceAnyToString(cfg["exprs"])
	if e := conv.ConfigGet(cfg, "expr", ""); e != "" {
		exprs = append(exprs, e)
	}
	if len(exprs) == 0 {
		return nil, fmt.Errorf("filter.expr requires expr or exprs")
	}
	filters := make([]filter.Filter, 0, len(exprs))
	for _, e := range exprs {
		f, err := filter.NewExprFilter(e)
		if err != nil {
			return nil, fmt.Errorf("filter.expr %q: %w", e, err)
		}
		filters = append(filters, f)
	}
	return &filter.FilterNode{Filters: filters, Logger: deps.Logger}, nil
}

// BuildBlacklistNode 黑名单来自 items 列表，以及可选的存储哈希 key。
func BuildBlacklistNode(deps config.Deps, cfg map[string]any) (pipeline.Node, error) {
	key := conv.ConfigGet(cfg, "key", "")
	if key != "" && deps.Store == nil {
		return nil, fmt.Errorf("filter.blacklist: key %q configured without a store", key)
	}
	f, err := filter.NewBlacklistFilter(conv.SliceAnyToString(cfg["items"]), deps.Store, key)
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}, Logger: deps.Logger}, nil
}

func BuildSubscriptionScoreNode(_ config.Deps, _ map[string]any) (pipeline.Node, error) {
	return rank.NewSubscriptionNode(), nil
}

func BuildHotScoreNode(_ config.Deps, _ map[string]any) (pipeline.Node, error) {
	return rank.NewHotNode(), nil
}

func BuildNormalizeNode(_ config.Deps, _ map[string]any) (pipeline.Node, error) {
	return &rerank.NormalizeNode{}, nil
}

func BuildSortNode(_ config.Deps, cfg map[string]any) (pipeline.Node, error) {
	by, err := rerank.ParseSortBy(conv.ConfigGet(cfg, "by", ""))
	if err != nil {
		return nil, err
	}
	return &rerank.SortNode{By: by}, nil
}

// BuildTopNNode 默认截断长度取 deps.Feed.OutputSize；n <= 0 表示不截断。
func BuildTopNNode(deps config.Deps, cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", int64(deps.Feed.OutputSize)))}, nil
}

func parseOrigins(cfg map[string]any) ([]core.Origin, error) {
	raw := conv.SliceAnyToString(cfg["origins"])
	if len(raw) == 0 {
		return nil, nil
	}
	origins := make([]core.Origin, 0, len(raw))
	for _, s := range raw {
		o, err := core.ParseOrigin(s)
		if err != nil {
			return nil, err
		}
		origins = append(origins, o)
	}
	return origins, nil
}
