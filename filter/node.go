package filter

import (
	"context"
	"log/slog"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该候选就会被过滤掉；过滤器出错时记录日志并保留候选。
type FilterNode struct {
	Filters []Filter
	Logger  *slog.Logger
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Filters) == 0 || len(candidates) == 0 {
		return candidates, nil
	}

	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if n.shouldFilter(ctx, fctx, c) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (n *FilterNode) shouldFilter(ctx context.Context, fctx *core.FeedContext, c *core.Candidate) bool {
	for _, f := range n.Filters {
		ok, err := f.ShouldFilter(ctx, fctx, c)
		if err != nil {
			n.logger().Debug("filter error, candidate kept", "filter", f.Name(), "id", c.Item.ItemID(), "error", err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

func (n *FilterNode) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}
