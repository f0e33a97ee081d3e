package core

import "time"

// FeedKind 是三种 feed：关注流、订阅流、热门流。
type FeedKind string

const (
	FeedFollow       FeedKind = "follow"
	FeedSubscription FeedKind = "subscription"
	FeedHot          FeedKind = "hot"
)

// FeedKinds 是全部 feed 类型。
var FeedKinds = []FeedKind{FeedFollow, FeedSubscription, FeedHot}

func (k FeedKind) Valid() bool {
	return k == FeedFollow || k == FeedSubscription || k == FeedHot
}

// FeedContext 承载一次 feed 计算的输入，贯穿整个 Pipeline 透传。
// 每个请求独立构造，不在请求之间共享。
type FeedContext struct {
	Kind FeedKind

	// Identity 是请求者身份；匿名请求为空。
	Identity string

	// Now 是本次计算使用的当前时间，所有时效性打分都以它为准。
	Now time.Time

	// Scholars 是关注流的学者姓名（原始输入，未标准化）。
	Scholars []string

	// Topics 是订阅流的话题（已应用兜底话题）。
	Topics []string

	// Params 请求级参数，例如 CEL 过滤表达式可以读取的附加字段。
	Params map[string]any
}

// NewFeedContext 创建 FeedContext，now 为零值时取当前时间。
func NewFeedContext(kind FeedKind, identity string, now time.Time) *FeedContext {
	if now.IsZero() {
		now = time.Now()
	}
	return &FeedContext{
		Kind:     kind,
		Identity: identity,
		Now:      now,
		Params:   make(map[string]any),
	}
}

// Authenticated 返回请求是否带有身份。
func (fctx *FeedContext) Authenticated() bool {
	return fctx != nil && fctx.Identity != ""
}
