package recall

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pipeline"
	"github.com/rushteam/scholarfeed/pkg/names"
)

// Follow 是关注流的召回节点：对每位关注的学者召回其最新论文。
// 每位学者一个召回源，经 Fanout 并发执行；来源记录学者的原始姓名。
// 匿名请求在召回前被拒绝。
type Follow struct {
	Catalog       core.Catalog
	PerScholar    int // 每位学者最多召回的论文数，默认 10
	MaxConcurrent int
	Logger        *slog.Logger
}

func (n *Follow) Name() string        { return "recall.follow" }
func (n *Follow) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Follow) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if !fctx.Authenticated() {
		return nil, core.ErrUnauthenticated
	}

	limit := n.PerScholar
	if limit <= 0 {
		limit = core.DefaultFeedConfig().FollowPerScholar
	}

	sources := make([]Source, 0, len(fctx.Scholars))
	for _, scholar := range fctx.Scholars {
		sources = append(sources, &scholarSource{catalog: n.Catalog, scholar: scholar, limit: limit})
	}
	fan := &Fanout{Sources: sources, MaxConcurrent: n.MaxConcurrent, Logger: n.Logger}
	return fan.Collect(ctx, fctx)
}

type scholarSource struct {
	catalog core.Catalog
	scholar string
	limit   int
}

func (s *scholarSource) Name() string { return "scholar:" + s.scholar }

func (s *scholarSource) Recall(ctx context.Context, _ *core.FeedContext) ([]*core.Candidate, error) {
	author := names.Normalize(s.scholar)
	if author.LastName == "" {
		return nil, nil
	}
	papers, err := s.catalog.GetItemsByAuthor(ctx, author.FirstName, author.LastName, s.limit)
	if err != nil {
		return nil, fmt.Errorf("papers by %s %s: %w", author.FirstName, author.LastName, err)
	}
	out := make([]*core.Candidate, 0, len(papers))
	for _, p := range papers {
		out = append(out, core.NewCandidate(p, core.NewScholarProvenance(s.scholar)))
	}
	return out, nil
}
