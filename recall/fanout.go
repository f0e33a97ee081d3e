package recall

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pipeline"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，按 Sources 顺序拼接结果。
// 无论各召回源完成的先后，输出顺序只取决于 Sources 的顺序，下游合并因此是确定的。
// 支持超时、限流；默认任一召回源失败即整体失败。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	IgnoreErrors  bool          // 为 true 时失败的召回源返回空结果，不中断其他召回源
	Logger        *slog.Logger
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return n.Collect(ctx, fctx)
}

// Collect 执行全部召回源并拼接结果。
func (n *Fanout) Collect(ctx context.Context, fctx *core.FeedContext) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	results := make([][]*core.Candidate, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := src.Recall(recallCtx, fctx)
			if err != nil {
				if n.IgnoreErrors {
					n.logger().Warn("recall source failed, skipped", "source", src.Name(), "error", err)
					return nil
				}
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			results[i] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	all := make([]*core.Candidate, 0, total)
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

func (n *Fanout) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}
