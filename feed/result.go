package feed

import (
	"time"

	"github.com/rushteam/scholarfeed/core"
)

// RankedCandidate 是 feed 的输出条目。
//
// Source 的 JSON 形态：
//   - 关注流：{"scholar_names": [...]}
//   - 订阅流/热门流：{"topics": [前 N 个话题], "topic_scores": {...}}
type RankedCandidate struct {
	Origin    core.Origin `json:"origin"`
	Item      core.Item   `json:"item"`
	Timestamp time.Time   `json:"timestamp"`
	Score     float64     `json:"score"`
	Source    any         `json:"source"`
}

// ScholarSource 是关注流条目的来源。
type ScholarSource struct {
	ScholarNames []string `json:"scholar_names"`
}

// TopicSource 是订阅流/热门流条目的来源，Topics 为分数最高的若干话题。
type TopicSource struct {
	Topics      []string           `json:"topics"`
	TopicScores map[string]float64 `json:"topic_scores"`
}

func toRanked(candidates []*core.Candidate, topTopics int) []RankedCandidate {
	out := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		rc := RankedCandidate{
			Origin:    c.Origin,
			Item:      c.Item,
			Timestamp: c.Timestamp,
			Score:     c.Score,
		}
		switch src := c.Source.(type) {
		case *core.ScholarProvenance:
			rc.Source = ScholarSource{ScholarNames: append([]string{}, src.ScholarNames...)}
		case *core.TopicProvenance:
			topics := src.TopTopics(topTopics)
			if topics == nil {
				topics = []string{}
			}
			rc.Source = TopicSource{Topics: topics, TopicScores: src.Scores()}
		default:
			rc.Source = TopicSource{Topics: []string{}, TopicScores: map[string]float64{}}
		}
		out = append(out, rc)
	}
	return out
}
