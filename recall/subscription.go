package recall

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/metrics"
	"github.com/rushteam/scholarfeed/pipeline"
)

// Subscription 是订阅流的召回节点。
// 每个物品类型一个检索通道，所有话题在一次批量请求中发送；
// 检索命中但目录中已不存在的记录被静默丢弃，检索失败则整体失败（不重试）。
type Subscription struct {
	Catalog  core.Catalog
	Searcher core.TopicSearcher
	PerTopic int           // 每个话题的检索结果数，默认 10
	Origins  []core.Origin // 检索通道，默认全部物品类型
	Logger   *slog.Logger
}

func (n *Subscription) Name() string        { return "recall.subscription" }
func (n *Subscription) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Subscription) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	topics := fctx.Topics
	if len(topics) == 0 {
		topics = core.DefaultFallbackTopics
	}
	perTopic := n.PerTopic
	if perTopic <= 0 {
		perTopic = core.DefaultFeedConfig().ResultsPerTopic
	}
	origins := n.Origins
	if len(origins) == 0 {
		origins = core.Origins
	}

	sources := make([]Source, 0, len(origins))
	for _, o := range origins {
		sources = append(sources, &channelSource{
			node:   n,
			origin: o,
			req:    core.SearchRequest{Queries: topics, MaxResults: perTopic},
		})
	}
	fan := &Fanout{Sources: sources, Logger: n.Logger}
	return fan.Collect(ctx, fctx)
}

func (n *Subscription) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

type channelSource struct {
	node   *Subscription
	origin core.Origin
	req    core.SearchRequest
}

func (s *channelSource) Name() string { return "search:" + string(s.origin) }

func (s *channelSource) Recall(ctx context.Context, _ *core.FeedContext) ([]*core.Candidate, error) {
	results, err := s.node.Searcher.Search(ctx, s.origin, s.req)
	if err != nil {
		return nil, err
	}
	if len(results) != len(s.req.Queries) {
		s.node.logger().Warn("search result count does not match queries",
			"origin", s.origin, "queries", len(s.req.Queries), "results", len(results))
	}

	// 同一物品可能被多个话题命中，只解析一次
	resolved := make(map[string]core.Item)
	var out []*core.Candidate
	for i, topic := range s.req.Queries {
		if i >= len(results) {
			break
		}
		for _, hit := range results[i] {
			it, seen := resolved[hit.EntryID]
			if !seen {
				it, err = s.node.Catalog.GetItem(ctx, s.origin, hit.EntryID)
				if err != nil && !core.IsNotFound(err) {
					return nil, fmt.Errorf("resolve %s/%s: %w", s.origin, hit.EntryID, err)
				}
				if err != nil {
					s.node.logger().Debug("search hit missing from catalog, dropped",
						"origin", s.origin, "id", hit.EntryID, "topic", topic)
					metrics.RecordDropped(string(s.origin))
					it = nil
				}
				resolved[hit.EntryID] = it
			}
			if it == nil {
				continue
			}
			tp := core.NewTopicProvenance()
			tp.Set(topic, hit.Score)
			out = append(out, core.NewCandidate(it, tp))
		}
	}
	return out, nil
}
