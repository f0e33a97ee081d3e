package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/scholarfeed/catalog"
	"github.com/rushteam/scholarfeed/config"
	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/feed"
	"github.com/rushteam/scholarfeed/pipeline"
	"github.com/rushteam/scholarfeed/search"
	"github.com/rushteam/scholarfeed/store"
	"github.com/rushteam/scholarfeed/subscription"
)

// Version 在构建时注入。
var Version = "0.1.0"

var (
	configPath string

	cfg    *config.AppConfig
	logger *slog.Logger
	closer func() error
)

var rootCmd = &cobra.Command{
	Use:   "scholarfeed",
	Short: "Feed aggregation and ranking for papers and repositories",
	Long: `scholarfeed computes three feeds over a catalog of papers and repositories:

  follow        latest papers by the scholars a user follows
  subscription  papers and repositories relevant to subscribed topics
  hot           recently popular items by view count`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, closer = config.SetupLogger(cfg.Log.File, cfg.LogLevel())
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if closer != nil {
			_ = closer()
		}
	},
}

// Execute 执行根命令。
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(subscribeCmd)
}

// app 是一次命令执行所需的全部组件。
type app struct {
	kv      core.KeyValueStore
	catalog *catalog.KVCatalog
	subs    *subscription.KVSource
	feeds   *feed.Service
}

// openStore 配置了 Redis 地址时使用 Redis，否则使用内存存储（数据随进程退出丢失）。
func openStore(ctx context.Context) (core.KeyValueStore, error) {
	if cfg.Redis.Addr == "" {
		logger.Warn("redis not configured, using in-memory store")
		return store.NewMemoryStore(), nil
	}
	return store.NewRedisStore(ctx, store.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.Prefix,
	})
}

// requirePersistentStore 拒绝在内存存储上执行写入型命令：进程退出后数据即丢失，
// 单独运行的 serve 看不到这些写入。
func requirePersistentStore(c *config.AppConfig) error {
	if c.Redis.Addr == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			"store: redis.addr is not configured, writes to the in-memory store would be lost (use serve --import for a local catalog)")
	}
	return nil
}

// importCatalog 把 path 指向的 JSON 导出文件写入目录。
func importCatalog(ctx context.Context, c *catalog.KVCatalog, path string) (catalog.ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return catalog.ImportStats{}, err
	}
	defer f.Close()
	return c.Import(ctx, f)
}

func openApp(ctx context.Context) (*app, error) {
	kv, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	a := &app{
		kv:      kv,
		catalog: catalog.NewKVCatalog(kv),
		subs:    subscription.NewKVSource(kv),
	}
	a.catalog.Logger = logger

	var searcher core.TopicSearcher = search.Disabled{}
	if cfg.Search.BaseURL != "" {
		searcher, err = search.NewClient(search.Options{
			BaseURL:          cfg.Search.BaseURL,
			Token:            cfg.Search.Token,
			Timeout:          cfg.Search.Timeout,
			FailureThreshold: cfg.Search.FailureThreshold,
			OpenTimeout:      cfg.Search.OpenTimeout,
			Logger:           logger,
		})
		if err != nil {
			_ = kv.Close()
			return nil, err
		}
	} else {
		logger.Warn("search backend not configured, subscription feed will fail")
	}

	deps := config.Deps{Catalog: a.catalog, Searcher: searcher, Store: kv, Feed: cfg.Feed, Logger: logger}
	var pcfg *pipeline.Config
	if cfg.PipelineFile != "" {
		pcfg, err = pipeline.Load(cfg.PipelineFile)
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("load pipelines: %w", err)
		}
	}
	a.feeds, err = feed.NewServiceFromConfig(deps, a.subs, pcfg, feed.WithLogger(logger))
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() error {
	return a.kv.Close()
}
