// Package feed 是 feed 计算的对外入口：关注流、订阅流与热门流。
//
// 每次请求独立构造 FeedContext 并执行对应的 Pipeline，请求之间不共享可变状态。
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rushteam/scholarfeed/config"
	_ "github.com/rushteam/scholarfeed/config/builders"
	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/metrics"
	"github.com/rushteam/scholarfeed/pipeline"
)

// Service 计算三种 feed。
type Service struct {
	subs      core.SubscriptionSource
	cfg       core.FeedConfig
	logger    *slog.Logger
	now       func() time.Time
	pipelines map[core.FeedKind]*pipeline.Pipeline
}

// Option 配置 Service。
type Option func(*Service)

// WithLogger 设置 logger。
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock 设置时钟（测试用）。
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPipeline 替换某种 feed 的 Pipeline。
func WithPipeline(kind core.FeedKind, p *pipeline.Pipeline) Option {
	return func(s *Service) { s.pipelines[kind] = p }
}

// NewService 创建 Service，使用 DefaultPipelines 作为内置 Pipeline。
func NewService(deps config.Deps, subs core.SubscriptionSource, opts ...Option) *Service {
	deps.Feed = deps.Feed.WithDefaults()
	s := &Service{
		subs:      subs,
		cfg:       deps.Feed,
		logger:    deps.Logger,
		now:       time.Now,
		pipelines: DefaultPipelines(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	for kind, p := range s.pipelines {
		feedKind := string(kind)
		p.Observer = func(node pipeline.Node, in, out int, elapsed time.Duration, err error) {
			metrics.RecordStage(feedKind, node.Name(), elapsed)
			s.logger.Debug("pipeline node done",
				"feed", feedKind, "node", node.Name(), "in", in, "out", out, "elapsed", elapsed, "error", err)
		}
	}
	return s
}

// NewServiceFromConfig 用 Pipeline 配置中的条目覆盖内置 Pipeline，未配置的 feed 保持默认。
func NewServiceFromConfig(deps config.Deps, subs core.SubscriptionSource, pcfg *pipeline.Config, opts ...Option) (*Service, error) {
	if pcfg != nil {
		deps.Feed = deps.Feed.WithDefaults()
		built, err := config.BuildPipelines(pcfg, deps)
		if err != nil {
			return nil, fmt.Errorf("build pipelines: %w", err)
		}
		for kind, p := range built {
			opts = append(opts, WithPipeline(kind, p))
		}
	}
	return NewService(deps, subs, opts...), nil
}

// GetFollowFeed 返回请求者关注的学者的最新论文，按发布时间降序，不截断。
// 匿名请求返回 Unauthenticated，且不会触发任何召回。
func (s *Service) GetFollowFeed(ctx context.Context, identity string) ([]RankedCandidate, error) {
	return s.Get(ctx, core.FeedFollow, identity)
}

// GetSubscriptionFeed 返回与订阅话题相关的论文和仓库，按分数降序，最多 OutputSize 条。
// 匿名或无订阅话题时使用兜底话题。
func (s *Service) GetSubscriptionFeed(ctx context.Context, identity string) ([]RankedCandidate, error) {
	return s.Get(ctx, core.FeedSubscription, identity)
}

// GetHotFeed 返回时间窗口内浏览数非零的热门物品，不区分请求者。
func (s *Service) GetHotFeed(ctx context.Context) ([]RankedCandidate, error) {
	return s.Get(ctx, core.FeedHot, "")
}

// Get 计算指定类型的 feed。
func (s *Service) Get(ctx context.Context, kind core.FeedKind, identity string) (result []RankedCandidate, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordFeed(string(kind), outcome(err), len(result), time.Since(start))
	}()

	p, ok := s.pipelines[kind]
	if !ok || !kind.Valid() {
		return nil, core.NewDomainError(core.ModuleFeed, core.ErrorCodeInvalidInput, "feed: unknown feed kind "+string(kind))
	}

	fctx, err := s.prepare(ctx, kind, identity)
	if err != nil {
		return nil, err
	}

	candidates, err := p.Run(ctx, fctx, nil)
	if err != nil {
		s.logger.Warn("feed failed", "feed", kind, "identity", identity, "error", err)
		return nil, fmt.Errorf("%s feed: %w", kind, err)
	}

	s.logger.Debug("feed done", "feed", kind, "identity", identity, "results", len(candidates), "elapsed", time.Since(start))
	return toRanked(candidates, s.cfg.TopTopics), nil
}

// prepare 构造 FeedContext 并读取请求者的订阅。
func (s *Service) prepare(ctx context.Context, kind core.FeedKind, identity string) (*core.FeedContext, error) {
	fctx := core.NewFeedContext(kind, identity, s.now())

	switch kind {
	case core.FeedFollow:
		if !fctx.Authenticated() {
			return nil, core.ErrUnauthenticated
		}
		scholars, err := s.subs.Scholars(ctx, identity)
		if err != nil {
			return nil, fmt.Errorf("load scholars: %w", err)
		}
		fctx.Scholars = scholars

	case core.FeedSubscription:
		var topics []string
		if fctx.Authenticated() {
			var err error
			topics, err = s.subs.Topics(ctx, identity)
			if err != nil {
				return nil, fmt.Errorf("load topics: %w", err)
			}
		}
		if len(topics) == 0 {
			topics = s.cfg.FallbackTopics
		}
		fctx.Topics = topics
	}
	return fctx, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case core.IsUnauthenticated(err):
		return "unauthenticated"
	case core.IsUpstreamFailure(err):
		return "upstream_failure"
	case core.IsInvalidInput(err):
		return "invalid_input"
	default:
		return "error"
	}
}
