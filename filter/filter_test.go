package filter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/store"
)

type errFilter struct{}

func (errFilter) Name() string { return "err" }
func (errFilter) ShouldFilter(context.Context, *core.FeedContext, *core.Candidate) (bool, error) {
	return true, errors.New("broken")
}

func TestFilterNode_Expr(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fctx := core.NewFeedContext(core.FeedHot, "", now)

	f, err := NewExprFilter(`candidate.origin == "github" && candidate.views < 3`)
	if err != nil {
		t.Fatal(err)
	}
	node := &FilterNode{Filters: []Filter{errFilter{}, f}}
	cands := []*core.Candidate{
		core.NewCandidate(&core.Repository{ID: "low", ViewCount: 1, PushedAt: now}, core.NewTopicProvenance()),
		core.NewCandidate(&core.Repository{ID: "high", ViewCount: 8, PushedAt: now}, core.NewTopicProvenance()),
		core.NewCandidate(&core.Paper{ID: "paper", ViewCount: 1, Published: now}, core.NewTopicProvenance()),
		nil,
	}
	out, err := node.Process(context.Background(), fctx, cands)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Item.ItemID() != "high" || out[1].Item.ItemID() != "paper" {
		ids := make([]string, 0, len(out))
		for _, c := range out {
			ids = append(ids, c.Item.ItemID())
		}
		t.Errorf("过滤结果 = %v, 期望 [high paper]", ids)
	}
}

func TestNewExprFilter_Invalid(t *testing.T) {
	if _, err := NewExprFilter("candidate.views <"); err == nil {
		t.Error("非法表达式应报错")
	}
}

func TestBlacklistFilter(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()
	_ = ms.HSet(ctx, "blacklist", "github/7", []byte("1"))

	f, err := NewBlacklistFilter([]string{"arxiv/2401.00001"}, ms, "blacklist")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		item core.Item
		want bool
	}{
		{&core.Paper{ID: "2401.00001"}, true},
		{&core.Repository{ID: "2401.00001"}, false},
		{&core.Repository{ID: "7"}, true},
		{&core.Paper{ID: "7"}, false},
	}
	for _, tt := range tests {
		c := core.NewCandidate(tt.item, core.NewTopicProvenance())
		got, err := f.ShouldFilter(ctx, nil, c)
		if err != nil || got != tt.want {
			t.Errorf("%s/%s: ShouldFilter = %v, %v, 期望 %v", tt.item.Origin(), tt.item.ItemID(), got, err, tt.want)
		}
	}

	for _, bad := range []string{"2401.00001", "gitlab/1", "arxiv/"} {
		if _, err := NewBlacklistFilter([]string{bad}, nil, ""); err == nil {
			t.Errorf("条目 %q 应报错", bad)
		}
	}
}
