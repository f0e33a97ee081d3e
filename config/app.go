package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/scholarfeed/core"
)

// AppConfig 是服务的全部配置：默认值之上叠加 YAML 文件，再由环境变量覆盖。
type AppConfig struct {
	HTTP   HTTPConfig      `koanf:"http"`
	Redis  RedisConfig     `koanf:"redis"`
	Search SearchConfig    `koanf:"search"`
	Feed   core.FeedConfig `koanf:"feed"`
	Log    LogConfig       `koanf:"log"`

	// PipelineFile 可选的 Pipeline YAML，覆盖内置的 feed Pipeline
	PipelineFile string `koanf:"pipeline_file"`
}

type HTTPConfig struct {
	Addr        string   `koanf:"addr"`
	CORSOrigins []string `koanf:"cors_origins"`
	// RateLimit 每个客户端 IP 每分钟的请求上限，0 表示不限流
	RateLimit int `koanf:"rate_limit"`
	// JWTSecret 用于校验 Bearer token 的 HS256 密钥
	JWTSecret string `koanf:"jwt_secret"`
}

// RedisConfig 为空 Addr 时使用内存存储。
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

type SearchConfig struct {
	BaseURL          string        `koanf:"base_url"`
	Token            string        `koanf:"token"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	OpenTimeout      time.Duration `koanf:"open_timeout"`
}

type LogConfig struct {
	File  string `koanf:"file"`
	Level string `koanf:"level"`
}

// Default 返回默认配置。
func Default() *AppConfig {
	return &AppConfig{
		HTTP: HTTPConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
			RateLimit:   120,
		},
		Redis: RedisConfig{Prefix: "scholarfeed:"},
		Search: SearchConfig{
			Timeout:          10 * time.Second,
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
		},
		Feed: core.DefaultFeedConfig(),
		Log: LogConfig{
			File:  "/tmp/scholarfeed.log",
			Level: "INFO",
		},
	}
}

// envKeys 把环境变量映射到配置路径，未列出的变量被忽略。
var envKeys = map[string]string{
	"SCHOLARFEED_HTTP_ADDR":      "http.addr",
	"SCHOLARFEED_JWT_SECRET":     "http.jwt_secret",
	"SCHOLARFEED_CORS_ORIGINS":   "http.cors_origins",
	"SCHOLARFEED_REDIS_ADDR":     "redis.addr",
	"SCHOLARFEED_REDIS_PASSWORD": "redis.password",
	"SCHOLARFEED_REDIS_DB":       "redis.db",
	"FEED_ENGINE_URL":            "search.base_url",
	"FEED_ENGINE_TOKEN":          "search.token",
	"SCHOLARFEED_PIPELINES":      "pipeline_file",
	"SCHOLARFEED_LOG_FILE":       "log.file",
	"SCHOLARFEED_LOG_LEVEL":      "log.level",
}

// sliceKeys 是环境变量中以逗号分隔的列表配置。
var sliceKeys = []string{"http.cors_origins"}

// Load 依次加载默认值、配置文件（path 为空时跳过）与环境变量，后者覆盖前者。
func Load(path string) (*AppConfig, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	if err := splitSliceKeys(k); err != nil {
		return nil, err
	}

	cfg := &AppConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Feed = cfg.Feed.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(name string) string {
	return envKeys[name]
}

func splitSliceKeys(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(key, out); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

// Validate 校验配置的取值范围。
func (c *AppConfig) Validate() error {
	if c.HTTP.Addr == "" {
		return core.NewDomainError(core.ModuleCore, core.ErrorCodeInvalidInput, "config: http.addr is required")
	}
	if c.HTTP.RateLimit < 0 {
		return core.NewDomainError(core.ModuleCore, core.ErrorCodeInvalidInput, "config: http.rate_limit must be >= 0")
	}
	if c.Search.Timeout <= 0 {
		return core.NewDomainError(core.ModuleCore, core.ErrorCodeInvalidInput, "config: search.timeout must be positive")
	}
	if _, ok := parseLogLevel(c.Log.Level); !ok {
		return core.NewDomainError(core.ModuleCore, core.ErrorCodeInvalidInput, "config: unknown log level "+c.Log.Level)
	}
	return nil
}

// LogLevel 返回解析后的日志级别。
func (c *AppConfig) LogLevel() slog.Level {
	level, _ := parseLogLevel(c.Log.Level)
	return level
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO", "":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
