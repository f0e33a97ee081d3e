package core

import "time"

// FeedConfig 是 feed 计算的参数。零值字段在 WithDefaults 中补齐。
type FeedConfig struct {
	// FollowPerScholar 每位学者最多召回的论文数
	FollowPerScholar int `yaml:"follow_per_scholar" json:"follow_per_scholar" koanf:"follow_per_scholar"`

	// ResultsPerTopic 每个话题向检索后端请求的结果数
	ResultsPerTopic int `yaml:"results_per_topic" json:"results_per_topic" koanf:"results_per_topic"`

	// OutputSize 订阅流与热门流的截断长度；关注流不截断
	OutputSize int `yaml:"output_size" json:"output_size" koanf:"output_size"`

	// HotWindow 热门流的时间窗口
	HotWindow time.Duration `yaml:"hot_window" json:"hot_window" koanf:"hot_window"`

	// MinViewCount 热门流的最小浏览数（即“非零浏览”）
	MinViewCount int64 `yaml:"min_view_count" json:"min_view_count" koanf:"min_view_count"`

	// TopTopics 展示用的话题摘要长度
	TopTopics int `yaml:"top_topics" json:"top_topics" koanf:"top_topics"`

	// FallbackTopics 用户没有订阅话题时使用的话题
	FallbackTopics []string `yaml:"fallback_topics" json:"fallback_topics" koanf:"fallback_topics"`
}

// DefaultFallbackTopics 是未登录或无订阅用户的默认话题。
var DefaultFallbackTopics = []string{"Machine Learning", "Computer Vision", "Natural Language Processing"}

// DefaultFeedConfig 返回默认参数。
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		FollowPerScholar: 10,
		ResultsPerTopic:  10,
		OutputSize:       50,
		HotWindow:        30 * 24 * time.Hour,
		MinViewCount:     1,
		TopTopics:        3,
		FallbackTopics:   append([]string(nil), DefaultFallbackTopics...),
	}
}

// WithDefaults 用默认值补齐未设置的字段。
func (c FeedConfig) WithDefaults() FeedConfig {
	def := DefaultFeedConfig()
	if c.FollowPerScholar <= 0 {
		c.FollowPerScholar = def.FollowPerScholar
	}
	if c.ResultsPerTopic <= 0 {
		c.ResultsPerTopic = def.ResultsPerTopic
	}
	if c.OutputSize <= 0 {
		c.OutputSize = def.OutputSize
	}
	if c.HotWindow <= 0 {
		c.HotWindow = def.HotWindow
	}
	if c.MinViewCount <= 0 {
		c.MinViewCount = def.MinViewCount
	}
	if c.TopTopics <= 0 {
		c.TopTopics = def.TopTopics
	}
	if len(c.FallbackTopics) == 0 {
		c.FallbackTopics = def.FallbackTopics
	}
	return c
}
