// Package search 是外部话题检索后端的 HTTP 客户端。
//
// 协议：
//
//	POST {BaseURL}/{origin}/search
//	Authorization: Bearer {Token}
//	{"queries": ["Machine Learning", ...], "max_results": 10}
//
// 响应为与 queries 一一对应的数组，每个元素 {"entry_id": "...", "score": 0.83}。
package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/metrics"
)

// Options 是 Client 的构造参数，由进程启动时从配置注入。
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// FailureThreshold 连续失败多少次后熔断（0 表示默认 5）
	FailureThreshold uint32
	// OpenTimeout 熔断打开后多久进入半开（0 表示默认 30s）
	OpenTimeout time.Duration

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client 实现 core.TopicSearcher。每个物品类型一个熔断器，互不影响。
// Client 不做重试：失败直接以 UPSTREAM_FAILURE 返回给调用方。
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	logger   *slog.Logger
	breakers map[core.Origin]*gobreaker.CircuitBreaker[[][]core.SearchHit]
}

var _ core.TopicSearcher = (*Client)(nil)

func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, core.NewDomainError(core.ModuleSearch, core.ErrorCodeInvalidInput, "search: base url is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		token:    opts.Token,
		http:     opts.HTTPClient,
		logger:   opts.Logger,
		breakers: make(map[core.Origin]*gobreaker.CircuitBreaker[[][]core.SearchHit], len(core.Origins)),
	}
	for _, o := range core.Origins {
		origin := o
		c.breakers[origin] = gobreaker.NewCircuitBreaker[[][]core.SearchHit](gobreaker.Settings{
			Name:    "search." + string(origin),
			Timeout: opts.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= opts.FailureThreshold
			},
			IsSuccessful: func(err error) bool {
				// 调用方取消不算上游故障
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				metrics.SearchBreakerState.WithLabelValues(string(origin)).Set(float64(to))
				c.logger.Warn("search circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		})
	}
	return c, nil
}

// Search 向 origin 对应的通道发送一次批量检索。
func (c *Client) Search(ctx context.Context, origin core.Origin, req core.SearchRequest) ([][]core.SearchHit, error) {
	cb, ok := c.breakers[origin]
	if !ok {
		return nil, core.NewDomainError(core.ModuleSearch, core.ErrorCodeInvalidInput, "search: unknown origin "+string(origin))
	}
	if len(req.Queries) == 0 {
		return [][]core.SearchHit{}, nil
	}

	start := time.Now()
	results, err := cb.Execute(func() ([][]core.SearchHit, error) {
		return c.do(ctx, origin, req)
	})
	if err != nil {
		reason := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			reason = "breaker_open"
		}
		metrics.RecordSearch(string(origin), reason, time.Since(start))
		c.logger.Warn("topic search failed", "origin", origin, "queries", len(req.Queries), "error", err)
		if core.IsUpstreamFailure(err) {
			return nil, err
		}
		return nil, core.WrapDomainError(core.ModuleSearch, core.ErrorCodeUpstream, err, "search: %s channel", origin)
	}
	metrics.RecordSearch(string(origin), "", time.Since(start))

	if req.MaxResults > 0 {
		for i := range results {
			if len(results[i]) > req.MaxResults {
				results[i] = results[i][:req.MaxResults]
			}
		}
	}
	return results, nil
}

func (c *Client) do(ctx context.Context, origin core.Origin, req core.SearchRequest) ([][]core.SearchHit, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/" + string(origin) + "/search"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, core.NewDomainError(core.ModuleSearch, core.ErrorCodeUpstream,
			fmt.Sprintf("search: %s channel status=%d body=%s", origin, resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var results [][]core.SearchHit
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return results, nil
}

// Disabled 是未配置检索后端时使用的 TopicSearcher：每次调用都返回 UPSTREAM_FAILURE。
type Disabled struct{}

var _ core.TopicSearcher = Disabled{}

func (Disabled) Search(context.Context, core.Origin, core.SearchRequest) ([][]core.SearchHit, error) {
	return nil, core.NewDomainError(core.ModuleSearch, core.ErrorCodeUpstream, "search: backend not configured")
}
