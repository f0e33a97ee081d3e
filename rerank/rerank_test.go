package rerank

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/rushteam/scholarfeed/core"
)

func TestZScore(t *testing.T) {
	scores := []float64{10, 20, 30}
	ZScore(scores)

	want := []float64{-1.2247, 0, 1.2247}
	sum := 0.0
	for i := range scores {
		if math.Abs(scores[i]-want[i]) > 1e-3 {
			t.Errorf("scores[%d] = %.4f, 期望 %.4f", i, scores[i], want[i])
		}
		sum += scores[i]
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("标准化后之和 = %v, 期望 ≈ 0", sum)
	}
}

func TestZScore_Degenerate(t *testing.T) {
	single := []float64{42}
	ZScore(single)
	if single[0] != 0 {
		t.Errorf("单元素分组 = %v, 期望 0", single[0])
	}

	flat := []float64{5, 5, 5}
	ZScore(flat)
	for _, s := range flat {
		if s != 0 || math.IsNaN(s) {
			t.Errorf("零方差分组 = %v, 期望全 0", flat)
		}
	}

	var empty []float64
	ZScore(empty)
}

func TestNormalizeNode_PerOrigin(t *testing.T) {
	mk := func(it core.Item, score float64) *core.Candidate {
		c := core.NewCandidate(it, core.NewTopicProvenance())
		c.Score = score
		return c
	}
	cands := []*core.Candidate{
		mk(&core.Paper{ID: "p1"}, 10),
		mk(&core.Repository{ID: "r1"}, 1000),
		mk(&core.Paper{ID: "p2"}, 20),
		mk(&core.Repository{ID: "r2"}, 3000),
		mk(&core.Paper{ID: "p3"}, 30),
	}
	out, err := (&NormalizeNode{}).Process(context.Background(), nil, cands)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Item.ItemID() != "p1" || out[1].Item.ItemID() != "r1" {
		t.Error("归一化不应改变顺序")
	}
	if math.Abs(out[4].Score-1.2247) > 1e-3 || math.Abs(out[2].Score) > 1e-9 {
		t.Errorf("论文分组 = %.4f %.4f %.4f", out[0].Score, out[2].Score, out[4].Score)
	}
	if math.Abs(out[1].Score+1) > 1e-3 || math.Abs(out[3].Score-1) > 1e-3 {
		t.Errorf("仓库分组 = %.4f %.4f", out[1].Score, out[3].Score)
	}
}

func TestSortNode_Timestamp(t *testing.T) {
	older := core.NewCandidate(&core.Paper{ID: "old", Published: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, core.NewScholarProvenance("a"))
	newer := core.NewCandidate(&core.Paper{ID: "new", Published: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}, core.NewScholarProvenance("a"))

	for _, in := range [][]*core.Candidate{{older, newer}, {newer, older}} {
		out, _ := (&SortNode{By: SortByTimestamp}).Process(context.Background(), nil, in)
		if out[0].Item.ItemID() != "new" {
			t.Errorf("较新的候选应排在前面, 实际 %s", out[0].Item.ItemID())
		}
	}
}

func TestSortAndTruncate(t *testing.T) {
	cands := make([]*core.Candidate, 60)
	for i := range cands {
		c := core.NewCandidate(&core.Paper{ID: strconv.Itoa(i)}, core.NewTopicProvenance())
		// 分数 0..29 各出现两次，用于检验并列时保持原始顺序
		c.Score = float64(i % 30)
		cands[i] = c
	}
	sorted, _ := (&SortNode{By: SortByScore}).Process(context.Background(), nil, cands)
	out, _ := (&TopNNode{N: 50}).Process(context.Background(), nil, sorted)

	if len(out) != 50 {
		t.Fatalf("期望截断为 50, 实际 %d", len(out))
	}
	if out[0].Item.ItemID() != "29" || out[1].Item.ItemID() != "59" {
		t.Errorf("并列分数应保持原始顺序: %s, %s", out[0].Item.ItemID(), out[1].Item.ItemID())
	}
	for _, c := range out {
		if c.Score < 5 {
			t.Errorf("截断结果包含低分候选 %s (%.0f)", c.Item.ItemID(), c.Score)
		}
	}
	if cands[0].Item.ItemID() != "0" {
		t.Error("SortNode 不应修改输入切片")
	}
}

func TestTopNNode_NoTruncate(t *testing.T) {
	cands := []*core.Candidate{core.NewCandidate(&core.Paper{ID: "a"}, nil)}
	if out, _ := (&TopNNode{}).Process(context.Background(), nil, cands); len(out) != 1 {
		t.Error("N <= 0 时不应截断")
	}
}

func TestParseSortBy(t *testing.T) {
	if by, err := ParseSortBy(""); err != nil || by != SortByScore {
		t.Errorf("默认排序键 = %v, %v", by, err)
	}
	if _, err := ParseSortBy("views"); err == nil {
		t.Error("未知排序键应报错")
	}
}
