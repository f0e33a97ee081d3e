package dsl

import (
	"testing"
	"time"

	"github.com/rushteam/scholarfeed/core"
)

func TestProgram_Match(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fctx := core.NewFeedContext(core.FeedSubscription, "u1", now)

	tp := core.NewTopicProvenance()
	tp.Set("Robotics", 0.7)
	repo := core.NewCandidate(&core.Repository{ID: "r1", ViewCount: 2, PushedAt: now.AddDate(0, 0, -20)}, tp)
	repo.Score = 0.4
	paper := core.NewCandidate(&core.Paper{ID: "p1", ViewCount: 9, Published: now}, core.NewScholarProvenance("Ada Lovelace"))

	tests := []struct {
		expr      string
		candidate *core.Candidate
		want      bool
	}{
		{`candidate.origin == "github" && candidate.views < 3`, repo, true},
		{`candidate.origin == "github" && candidate.views < 3`, paper, false},
		{`"Robotics" in candidate.topics`, repo, true},
		{`"Ada Lovelace" in candidate.scholars`, paper, true},
		{`candidate.age_days > 14`, repo, true},
		{`candidate.age_days > 14`, paper, false},
		{`candidate.score >= 0.4 && feed.kind == "subscription"`, repo, true},
		{`feed.identity == "u1"`, paper, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prg, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("编译失败: %v", err)
			}
			got, err := prg.Match(tt.candidate, fctx)
			if err != nil {
				t.Fatalf("求值失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match(%s) = %v, 期望 %v", tt.candidate.Item.ItemID(), got, tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, expr := range []string{`candidate.origin ==`, `1 + 2`} {
		if _, err := Compile(expr); err == nil {
			t.Errorf("Compile(%q) 应报错", expr)
		}
	}
}
