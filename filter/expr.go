package filter

import (
	"context"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤候选：表达式为 true 的候选被移除。
//
// 示例：
//
//	f, _ := filter.NewExprFilter(`candidate.origin == "github" && candidate.views < 3`)
type ExprFilter struct {
	prg *dsl.Program
}

func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr(" + f.prg.String() + ")" }

func (f *ExprFilter) ShouldFilter(_ context.Context, fctx *core.FeedContext, c *core.Candidate) (bool, error) {
	return f.prg.Match(c, fctx)
}
