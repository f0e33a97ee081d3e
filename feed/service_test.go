package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/scholarfeed/catalog"
	"github.com/rushteam/scholarfeed/config"
	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pipeline"
	"github.com/rushteam/scholarfeed/store"
	"github.com/rushteam/scholarfeed/subscription"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeSearcher 按 origin 返回预置结果，并记录收到的请求。
type fakeSearcher struct {
	mu       sync.Mutex
	results  map[core.Origin][][]core.SearchHit
	err      error
	requests map[core.Origin]core.SearchRequest
}

func (f *fakeSearcher) Search(_ context.Context, origin core.Origin, req core.SearchRequest) ([][]core.SearchHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.requests == nil {
		f.requests = make(map[core.Origin]core.SearchRequest)
	}
	f.requests[origin] = req
	if f.err != nil {
		return nil, f.err
	}
	return f.results[origin], nil
}

type fixture struct {
	cat      *catalog.KVCatalog
	subs     *subscription.KVSource
	searcher *fakeSearcher
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ms := store.NewMemoryStore()
	t.Cleanup(func() { ms.Close() })

	f := &fixture{
		cat:      catalog.NewKVCatalog(ms),
		subs:     subscription.NewKVSource(ms),
		searcher: &fakeSearcher{},
	}
	tick := now
	f.subs.Now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	deps := config.Deps{Catalog: f.cat, Searcher: f.searcher, Feed: core.DefaultFeedConfig()}
	f.svc = NewService(deps, f.subs, WithClock(func() time.Time { return now }))
	return f
}

func (f *fixture) put(t *testing.T, items ...core.Item) {
	t.Helper()
	for _, it := range items {
		if err := f.cat.Put(context.Background(), it); err != nil {
			t.Fatal(err)
		}
	}
}

func ids(feed []RankedCandidate) []string {
	out := make([]string, 0, len(feed))
	for _, rc := range feed {
		out = append(out, string(rc.Origin)+"/"+rc.Item.ItemID())
	}
	return out
}

func TestGetFollowFeed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	hinton := core.Author{FirstName: "geoffrey", LastName: "hinton"}
	bengio := core.Author{FirstName: "yoshua", LastName: "bengio"}
	f.put(t,
		&core.Paper{ID: "old", Published: now.AddDate(0, 0, -10), Authors: []core.Author{hinton}},
		&core.Paper{ID: "joint", Published: now.AddDate(0, 0, -1), Authors: []core.Author{hinton, bengio}},
		&core.Paper{ID: "mid", Published: now.AddDate(0, 0, -5), Authors: []core.Author{bengio}},
	)
	_ = f.subs.AddScholar(ctx, "u1", "Geoffrey Hinton")
	_ = f.subs.AddScholar(ctx, "u1", "Yoshua Bengio")

	feed, err := f.svc.GetFollowFeed(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"arxiv/joint", "arxiv/mid", "arxiv/old"}
	if got := ids(feed); len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("关注流 = %v, 期望 %v", got, want)
	}
	src, ok := feed[0].Source.(ScholarSource)
	if !ok || len(src.ScholarNames) != 2 || src.ScholarNames[0] != "Geoffrey Hinton" {
		t.Errorf("合著论文应记录两位学者的原始姓名: %+v", feed[0].Source)
	}
}

func TestGetFollowFeed_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetFollowFeed(context.Background(), "")
	if !core.IsUnauthenticated(err) {
		t.Errorf("匿名关注流应返回 UNAUTHENTICATED, 实际 %v", err)
	}
}

func TestGetSubscriptionFeed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.put(t,
		&core.Paper{ID: "p1", Published: now},
		&core.Paper{ID: "p2", Published: now.AddDate(0, 0, -30)},
		&core.Repository{ID: "r1", CreatedAt: now, PushedAt: now},
	)
	_ = f.subs.AddTopic(ctx, "u1", "Robotics")
	_ = f.subs.AddTopic(ctx, "u1", "Graphs")

	f.searcher.results = map[core.Origin][][]core.SearchHit{
		core.OriginPaper: {
			{{EntryID: "p1", Score: 0.9}, {EntryID: "gone", Score: 0.8}},
			{{EntryID: "p1", Score: 0.4}, {EntryID: "p2", Score: 0.7}},
		},
		core.OriginRepository: {
			{{EntryID: "r1", Score: 0.5}},
			{},
		},
	}

	feed, err := f.svc.GetSubscriptionFeed(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(feed); len(got) != 3 || got[0] != "arxiv/p1" {
		t.Fatalf("订阅流 = %v", got)
	}
	// p1: 0.5*(0.9+0.4) + 0.5*1 = 1.15
	if d := feed[0].Score - 1.15; d > 1e-9 || d < -1e-9 {
		t.Errorf("p1 分数 = %v, 期望 1.15", feed[0].Score)
	}
	src := feed[0].Source.(TopicSource)
	if len(src.Topics) != 2 || src.Topics[0] != "Robotics" || src.TopicScores["Graphs"] != 0.4 {
		t.Errorf("p1 来源 = %+v", src)
	}
	for _, rc := range feed {
		if rc.Item.ItemID() == "gone" {
			t.Error("目录中不存在的检索结果应被丢弃")
		}
	}
	if req := f.searcher.requests[core.OriginPaper]; len(req.Queries) != 2 || req.MaxResults != 10 {
		t.Errorf("检索请求 = %+v", req)
	}
}

func TestGetSubscriptionFeed_FallbackTopics(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.GetSubscriptionFeed(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	req := f.searcher.requests[core.OriginRepository]
	if len(req.Queries) != 3 || req.Queries[0] != "Machine Learning" {
		t.Errorf("匿名请求应使用兜底话题, 实际 %v", req.Queries)
	}
}

func TestGetSubscriptionFeed_UpstreamFailure(t *testing.T) {
	f := newFixture(t)
	f.searcher.err = core.WrapDomainError(core.ModuleSearch, core.ErrorCodeUpstream, errors.New("status 503"), "search failed")
	_, err := f.svc.GetSubscriptionFeed(context.Background(), "u1")
	if !core.IsUpstreamFailure(err) {
		t.Errorf("检索失败应返回 UPSTREAM_FAILURE, 实际 %v", err)
	}
}

func TestGetHotFeed(t *testing.T) {
	f := newFixture(t)
	f.put(t,
		&core.Paper{ID: "p-hot", Published: now, ViewCount: 100},
		&core.Paper{ID: "p-cold", Published: now, ViewCount: 10},
		&core.Paper{ID: "p-none", Published: now, ViewCount: 0},
		&core.Paper{ID: "p-stale", Published: now.AddDate(0, -2, 0), ViewCount: 1000},
		&core.Repository{ID: "r-hot", CreatedAt: now, PushedAt: now, ViewCount: 5},
		&core.Repository{ID: "r-cold", CreatedAt: now, PushedAt: now, ViewCount: 1},
	)

	feed, err := f.svc.GetHotFeed(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := ids(feed)
	if len(got) != 4 {
		t.Fatalf("热门流 = %v", got)
	}
	// 两组分别标准化后，组内最高者均为 +1，组内顺序保持
	pos := make(map[string]int, len(got))
	for i, id := range got {
		pos[id] = i
	}
	if pos["arxiv/p-hot"] > pos["arxiv/p-cold"] || pos["github/r-hot"] > pos["github/r-cold"] {
		t.Errorf("组内顺序错误: %v", got)
	}
	if feed[0].Score < 0.99 || feed[0].Score > 1.01 {
		t.Errorf("最高分应约为 1, 实际 %v", feed[0].Score)
	}
}

func TestRankedCandidate_JSON(t *testing.T) {
	tp := core.NewTopicProvenance()
	tp.Set("a", 0.1)
	tp.Set("b", 0.9)
	c := core.NewCandidate(&core.Repository{ID: "42", PushedAt: now}, tp)
	out := toRanked([]*core.Candidate{c}, 1)

	data, err := json.Marshal(out[0])
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Origin string `json:"origin"`
		Source struct {
			Topics      []string           `json:"topics"`
			TopicScores map[string]float64 `json:"topic_scores"`
		} `json:"source"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Origin != "github" || len(decoded.Source.Topics) != 1 || decoded.Source.Topics[0] != "b" {
		t.Errorf("JSON = %s", data)
	}
}

func TestNewServiceFromConfig(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()
	cat := catalog.NewKVCatalog(ms)
	_ = cat.Put(context.Background(), &core.Paper{ID: "p1", Published: now, ViewCount: 4})
	_ = cat.Put(context.Background(), &core.Repository{ID: "r1", PushedAt: now, CreatedAt: now, ViewCount: 4})

	pcfg, err := pipeline.ParseYAML([]byte(`
pipelines:
  hot:
    nodes:
      - type: recall.hot
      - type: filter.expr
        config:
          expr: 'candidate.origin == "github"'
      - type: rank.hot
      - type: rerank.sort
`))
	if err != nil {
		t.Fatal(err)
	}
	deps := config.Deps{Catalog: cat, Feed: core.DefaultFeedConfig()}
	svc, err := NewServiceFromConfig(deps, subscription.NewKVSource(ms), pcfg, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatal(err)
	}
	feed, err := svc.GetHotFeed(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(feed); len(got) != 1 || got[0] != "arxiv/p1" {
		t.Errorf("配置的过滤节点未生效: %v", got)
	}
}
