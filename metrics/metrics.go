// Package metrics 定义 feed 引擎的 Prometheus 指标。
//
// 指标分类：
//   - Feed 请求：按 feed 类型与结果计数、耗时直方图、输出条数
//   - Pipeline 阶段：每个 Node 的耗时
//   - 召回：因目录记录缺失而丢弃的候选
//   - 话题检索：上游调用耗时、失败、熔断状态
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedRequestsTotal 按 feed 类型与结果（ok / unauthenticated / upstream_failure / error）计数。
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarfeed_feed_requests_total",
			Help: "Total number of feed computations",
		},
		[]string{"kind", "outcome"},
	)

	FeedDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scholarfeed_feed_duration_seconds",
			Help:    "Duration of feed computations in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)

	FeedResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scholarfeed_feed_result_size",
			Help:    "Number of ranked candidates returned per feed",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 200},
		},
		[]string{"kind"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scholarfeed_pipeline_stage_duration_seconds",
			Help:    "Duration of individual pipeline nodes in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"feed", "node"},
	)

	// DroppedCandidatesTotal 统计检索命中但目录中已不存在的记录。
	DroppedCandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarfeed_dropped_candidates_total",
			Help: "Search hits dropped because the catalog no longer has the item",
		},
		[]string{"origin"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scholarfeed_search_duration_seconds",
			Help:    "Duration of topic search upstream calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"origin"},
	)

	SearchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarfeed_search_failures_total",
			Help: "Failed topic search upstream calls",
		},
		[]string{"origin", "reason"},
	)

	// SearchBreakerState 熔断器状态：0 closed，1 half-open，2 open。
	SearchBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scholarfeed_search_breaker_state",
			Help: "Topic search circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"origin"},
	)
)

// RecordFeed 记录一次 feed 计算。
func RecordFeed(kind, outcome string, size int, elapsed time.Duration) {
	FeedRequestsTotal.WithLabelValues(kind, outcome).Inc()
	FeedDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if outcome == "ok" {
		FeedResultSize.WithLabelValues(kind).Observe(float64(size))
	}
}

// RecordStage 记录 Pipeline 单个 Node 的耗时。
func RecordStage(feed, node string, elapsed time.Duration) {
	StageDuration.WithLabelValues(feed, node).Observe(elapsed.Seconds())
}

// RecordDropped 记录一条被丢弃的候选。
func RecordDropped(origin string) {
	DroppedCandidatesTotal.WithLabelValues(origin).Inc()
}

// RecordSearch 记录一次话题检索调用；reason 为空表示成功。
func RecordSearch(origin, reason string, elapsed time.Duration) {
	SearchDuration.WithLabelValues(origin).Observe(elapsed.Seconds())
	if reason != "" {
		SearchFailuresTotal.WithLabelValues(origin, reason).Inc()
	}
}
