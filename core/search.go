package core

import "context"

// SearchRequest 是一次批量话题检索请求，按物品类型分别发送。
type SearchRequest struct {
	Queries    []string `json:"queries"`
	MaxResults int      `json:"max_results"`
}

// SearchHit 是检索结果中的一条：目录 ID 与相关度。
type SearchHit struct {
	EntryID string  `json:"entry_id"`
	Score   float64 `json:"score"`
}

// TopicSearcher 是外部话题检索后端的领域接口。
//
// Search 返回与 Queries 一一对应的结果列表，每个列表按相关度排序。
// 调用失败应返回 IsUpstreamFailure 为 true 的错误；调用方不重试。
type TopicSearcher interface {
	Search(ctx context.Context, origin Origin, req SearchRequest) ([][]SearchHit, error)
}
