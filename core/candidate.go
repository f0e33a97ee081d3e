package core

import (
	"sort"
	"time"
)

// CandidateKey 是候选去重的身份：同一 (Origin, ID) 在合并后只能对应一个 Candidate。
type CandidateKey struct {
	Origin Origin
	ID     string
}

// Candidate 是推荐链路中的统一承载结构：引用的目录记录、时间、来源与分数。
// Candidate 只存在于一次 feed 计算内，不做持久化。
//
// Score 在打分节点运行前没有意义；归一化节点会原地改写它。
type Candidate struct {
	Origin    Origin
	Item      Item
	Timestamp time.Time
	Source    Provenance
	Score     float64
}

// NewCandidate 根据目录记录创建候选，Timestamp 取 ItemTimestamp。
func NewCandidate(it Item, src Provenance) *Candidate {
	return &Candidate{
		Origin:    it.Origin(),
		Item:      it,
		Timestamp: ItemTimestamp(it),
		Source:    src,
	}
}

func (c *Candidate) Key() CandidateKey {
	return CandidateKey{Origin: c.Origin, ID: c.Item.ItemID()}
}

// Topics 返回候选的话题来源；非话题来源时返回 nil。
func (c *Candidate) Topics() *TopicProvenance {
	tp, _ := c.Source.(*TopicProvenance)
	return tp
}

// Provenance 是候选被召回的原因，封闭变体：
//   - *ScholarProvenance：关注流，命中的学者姓名
//   - *TopicProvenance：订阅流/热门流，话题 → 相关度
type Provenance interface {
	Clone() Provenance
	sealedProvenance()
}

// ScholarProvenance 记录命中的学者姓名，顺序为首次出现的顺序。
type ScholarProvenance struct {
	ScholarNames []string
}

func NewScholarProvenance(names ...string) *ScholarProvenance {
	sp := &ScholarProvenance{}
	for _, n := range names {
		sp.Add(n)
	}
	return sp
}

// Add 追加学者姓名，已存在时忽略。合并同一论文的多路召回时，
// 同一位学者只记一次，ScholarNames 保持首次出现的顺序且无重复。
func (sp *ScholarProvenance) Add(name string) {
	for _, n := range sp.ScholarNames {
		if n == name {
			return
		}
	}
	sp.ScholarNames = append(sp.ScholarNames, name)
}

func (sp *ScholarProvenance) Clone() Provenance {
	return &ScholarProvenance{ScholarNames: append([]string(nil), sp.ScholarNames...)}
}

func (sp *ScholarProvenance) sealedProvenance() {}

// TopicProvenance 是 话题 → 相关度 的映射，保留话题首次写入的顺序，
// TopTopics 在分数相同的情况下按该顺序决胜。
type TopicProvenance struct {
	order  []string
	scores map[string]float64
}

func NewTopicProvenance() *TopicProvenance {
	return &TopicProvenance{scores: make(map[string]float64)}
}

// Set 写入话题分数；已存在的话题覆盖分数但保留原位置。
func (tp *TopicProvenance) Set(topic string, score float64) {
	if tp.scores == nil {
		tp.scores = make(map[string]float64)
	}
	if _, ok := tp.scores[topic]; !ok {
		tp.order = append(tp.order, topic)
	}
	tp.scores[topic] = score
}

func (tp *TopicProvenance) Get(topic string) (float64, bool) {
	s, ok := tp.scores[topic]
	return s, ok
}

func (tp *TopicProvenance) Len() int { return len(tp.order) }

// Topics 按写入顺序返回话题。
func (tp *TopicProvenance) Topics() []string {
	return append([]string(nil), tp.order...)
}

// Scores 返回分数表的副本。
func (tp *TopicProvenance) Scores() map[string]float64 {
	out := make(map[string]float64, len(tp.scores))
	for k, v := range tp.scores {
		out[k] = v
	}
	return out
}

// Sum 返回所有话题相关度之和。
func (tp *TopicProvenance) Sum() float64 {
	var sum float64
	for _, t := range tp.order {
		sum += tp.scores[t]
	}
	return sum
}

// TopTopics 返回相关度最高的 n 个话题，分数相同时保持写入顺序。
func (tp *TopicProvenance) TopTopics(n int) []string {
	topics := tp.Topics()
	sort.SliceStable(topics, func(i, j int) bool {
		return tp.scores[topics[i]] > tp.scores[topics[j]]
	})
	if n >= 0 && len(topics) > n {
		topics = topics[:n]
	}
	return topics
}

func (tp *TopicProvenance) Clone() Provenance {
	out := NewTopicProvenance()
	for _, t := range tp.order {
		out.Set(t, tp.scores[t])
	}
	return out
}

func (tp *TopicProvenance) sealedProvenance() {}
