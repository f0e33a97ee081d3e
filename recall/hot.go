package recall

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pipeline"
)

// Hot 是热门流的召回节点：直接从目录读取时间窗口内、浏览数非零的物品。
// 每条记录只产生一个候选，不需要合并；来源为空的话题表。
type Hot struct {
	Catalog      core.Catalog
	Window       time.Duration // 时间窗口，默认 30 天
	MinViewCount int64         // 最小浏览数，默认 1
	Origins      []core.Origin // 默认全部物品类型，顺序即输出顺序
	Logger       *slog.Logger
}

func (n *Hot) Name() string        { return "recall.hot" }
func (n *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Hot) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	def := core.DefaultFeedConfig()
	window := n.Window
	if window <= 0 {
		window = def.HotWindow
	}
	minViews := n.MinViewCount
	if minViews <= 0 {
		minViews = def.MinViewCount
	}
	origins := n.Origins
	if len(origins) == 0 {
		origins = core.Origins
	}
	since := fctx.Now.Add(-window)

	sources := make([]Source, 0, len(origins))
	for _, o := range origins {
		origin := o
		sources = append(sources, SourceFunc{
			SourceName: "recent:" + string(origin),
			Fn: func(ctx context.Context, _ *core.FeedContext) ([]*core.Candidate, error) {
				items, err := n.Catalog.ListRecent(ctx, origin, since, minViews)
				if err != nil {
					return nil, fmt.Errorf("recent %s: %w", origin, err)
				}
				out := make([]*core.Candidate, 0, len(items))
				for _, it := range items {
					out = append(out, core.NewCandidate(it, core.NewTopicProvenance()))
				}
				return out, nil
			},
		})
	}
	fan := &Fanout{Sources: sources, Logger: n.Logger}
	return fan.Collect(ctx, fctx)
}
