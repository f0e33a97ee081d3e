package recall

import (
	"context"

	"github.com/rushteam/scholarfeed/core"
)

// Source 表示一个可复用的召回源（某位学者/某个检索通道/某类近期物品）。
// 你可以把它理解为“可并发 fan-out 的策略单元”。
type Source interface {
	Name() string
	Recall(ctx context.Context, fctx *core.FeedContext) ([]*core.Candidate, error)
}

// SourceFunc 把函数适配为 Source。
type SourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context, fctx *core.FeedContext) ([]*core.Candidate, error)
}

func (s SourceFunc) Name() string { return s.SourceName }

func (s SourceFunc) Recall(ctx context.Context, fctx *core.FeedContext) ([]*core.Candidate, error) {
	return s.Fn(ctx, fctx)
}
