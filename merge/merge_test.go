package merge

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/rushteam/scholarfeed/core"
)

var day = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func scholarCandidate(id string, ts time.Time, name string) *core.Candidate {
	return core.NewCandidate(&core.Paper{ID: id, Published: ts}, core.NewScholarProvenance(name))
}

func topicCandidate(it core.Item, topic string, score float64) *core.Candidate {
	tp := core.NewTopicProvenance()
	tp.Set(topic, score)
	return core.NewCandidate(it, tp)
}

func TestCandidates_ScholarAccumulation(t *testing.T) {
	raw := []*core.Candidate{
		scholarCandidate("p1", day, "Yann LeCun"),
		scholarCandidate("p2", day.AddDate(0, 0, 1), "Yann LeCun"),
		scholarCandidate("p1", day.AddDate(0, 0, 5), "Geoffrey Hinton"),
	}
	out := Candidates(raw)
	if len(out) != 2 {
		t.Fatalf("期望 2 个候选, 实际 %d", len(out))
	}
	p1 := out[0]
	if got := p1.Source.(*core.ScholarProvenance).ScholarNames; !reflect.DeepEqual(got, []string{"Yann LeCun", "Geoffrey Hinton"}) {
		t.Errorf("p1 学者 = %v", got)
	}
	if !p1.Timestamp.Equal(day) {
		t.Errorf("后续出现不应改变 Timestamp: %v", p1.Timestamp)
	}
	if got := raw[0].Source.(*core.ScholarProvenance).ScholarNames; len(got) != 1 {
		t.Errorf("输入候选被修改: %v", got)
	}
}

func TestCandidates_TopicAccumulation(t *testing.T) {
	paper := &core.Paper{ID: "x", Published: day}
	raw := []*core.Candidate{
		topicCandidate(paper, "ml", 0.8),
		topicCandidate(paper, "cv", 0.4),
		topicCandidate(paper, "ml", 0.6),
	}
	out := Candidates(raw)
	if len(out) != 1 {
		t.Fatalf("期望 1 个候选, 实际 %d", len(out))
	}
	tp := out[0].Topics()
	if !reflect.DeepEqual(tp.Scores(), map[string]float64{"ml": 0.6, "cv": 0.4}) {
		t.Errorf("话题分数 = %v", tp.Scores())
	}
	if !reflect.DeepEqual(tp.Topics(), []string{"ml", "cv"}) {
		t.Errorf("话题顺序 = %v", tp.Topics())
	}
}

func TestCandidates_KeyIncludesOrigin(t *testing.T) {
	raw := []*core.Candidate{
		topicCandidate(&core.Paper{ID: "42"}, "ml", 0.5),
		topicCandidate(&core.Repository{ID: "42"}, "ml", 0.5),
	}
	if out := Candidates(raw); len(out) != 2 {
		t.Errorf("不同类型的相同 ID 不应合并, 实际 %d 个候选", len(out))
	}
}

func TestCandidates_Idempotent(t *testing.T) {
	paper := &core.Paper{ID: "p", Published: day}
	repo := &core.Repository{ID: "r", PushedAt: day}
	raw := []*core.Candidate{
		topicCandidate(paper, "ml", 0.8),
		topicCandidate(repo, "ml", 0.3),
		topicCandidate(paper, "cv", 0.2),
		topicCandidate(repo, "nlp", 0.7),
	}
	once := Candidates(raw)
	twice := Candidates(once)

	if len(once) != len(twice) {
		t.Fatalf("二次合并数量变化: %d → %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Key() != twice[i].Key() {
			t.Errorf("第 %d 个候选 key 变化: %v → %v", i, once[i].Key(), twice[i].Key())
		}
		if !reflect.DeepEqual(once[i].Topics().Scores(), twice[i].Topics().Scores()) {
			t.Errorf("第 %d 个候选来源变化: %v → %v", i, once[i].Topics().Scores(), twice[i].Topics().Scores())
		}
	}

	follow := Candidates([]*core.Candidate{
		scholarCandidate("p1", day, "a"),
		scholarCandidate("p1", day, "b"),
	})
	again := Candidates(follow)
	if !reflect.DeepEqual(again[0].Source, follow[0].Source) {
		t.Errorf("学者来源二次合并后变化: %v → %v", follow[0].Source, again[0].Source)
	}
}

func TestNode_Process(t *testing.T) {
	n := &Node{}
	out, err := n.Process(context.Background(), nil, []*core.Candidate{
		scholarCandidate("p1", day, "a"), nil, scholarCandidate("p1", day, "b"),
	})
	if err != nil || len(out) != 1 {
		t.Errorf("Process = %v, %v", out, err)
	}
}
