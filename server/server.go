// Package server 提供 feed 的 HTTP 接口。
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/feed"
)

// FeedService 是 HTTP 层依赖的 feed 计算接口，由 feed.Service 实现。
type FeedService interface {
	Get(ctx context.Context, kind core.FeedKind, identity string) ([]feed.RankedCandidate, error)
}

// ViewCounter 记录详情页浏览，由 catalog.KVCatalog 实现。
type ViewCounter interface {
	IncrView(ctx context.Context, origin core.Origin, id string) (int64, error)
}

// Options 是 HTTP 服务的配置。
type Options struct {
	CORSOrigins []string
	// RateLimit 每个客户端 IP 每分钟的请求上限，0 表示不限流
	RateLimit int
	// JWTSecret 为空时不解析身份，所有请求视为匿名
	JWTSecret string
	Logger    *slog.Logger
}

// Server 组装路由与中间件。
type Server struct {
	feeds  FeedService
	views  ViewCounter
	opts   Options
	logger *slog.Logger
}

// New 创建 Server；views 为 nil 时不注册浏览计数接口。
func New(feeds FeedService, views ViewCounter, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{feeds: feeds, views: views, opts: opts, logger: logger}
}

// Handler 返回完整的路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.opts.RateLimit, time.Minute))
		}
		if s.opts.JWTSecret != "" {
			r.Use(identityMiddleware([]byte(s.opts.JWTSecret)))
		}
		r.Get("/feed/{kind}", s.handleFeed)
		if s.views != nil {
			r.Post("/items/{origin}/{id}/view", s.handleView)
		}
	})
	return r
}

// ListenAndServe 启动服务，ctx 结束时优雅退出。
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
