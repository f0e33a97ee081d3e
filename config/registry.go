package config

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pipeline"
)

// 使用配置驱动时，需在入口处 import _ "github.com/rushteam/scholarfeed/config/builders"
// 以触发内置 Node（recall.follow、rank.hot、rerank.topn 等）的 init 注册。

// Deps 是构建 Node 时可用的外部依赖。
type Deps struct {
	Catalog  core.Catalog
	Searcher core.TopicSearcher

	// Store 可选，供需要直接读取存储的 Node 使用（如黑名单）
	Store  core.KeyValueStore
	Feed   core.FeedConfig
	Logger *slog.Logger
}

// Builder 根据依赖与节点配置构建 Node。
type Builder func(deps Deps, cfg map[string]any) (pipeline.Node, error)

var (
	defaultBuilders   = make(map[string]Builder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑。
// 建议在各组件的 init 中调用，例如：func init() { config.Register("recall.hot", BuildHotNode) }
func Register(typeName string, builder Builder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// NewFactory 返回绑定了 deps 的 NodeFactory，包含所有通过 Register 注册的 Node 类型。
func NewFactory(deps Deps) *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, func(cfg map[string]any) (pipeline.Node, error) {
			return builder(deps, cfg)
		})
	}
	return f
}

// ValidatePipelineConfig 校验配置：Pipeline 名称必须是 feed 类型，所有 node 类型均已注册。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	supported := SupportedTypes()
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	for _, name := range cfg.Names() {
		if !core.FeedKind(name).Valid() {
			return fmt.Errorf("unknown feed kind %q (supported: %v)", name, core.FeedKinds)
		}
		for _, nc := range cfg.Pipelines[name].Nodes {
			if _, ok := defaultBuilders[nc.Type]; !ok {
				return fmt.Errorf("pipeline %s: unsupported node type %q (supported: %v)", name, nc.Type, supported)
			}
		}
	}
	return nil
}

// BuildPipelines 校验并构建配置中的全部 Pipeline，按 feed 类型索引。
func BuildPipelines(cfg *pipeline.Config, deps Deps) (map[core.FeedKind]*pipeline.Pipeline, error) {
	if err := ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	factory := NewFactory(deps)
	out := make(map[core.FeedKind]*pipeline.Pipeline, len(cfg.Pipelines))
	for _, name := range cfg.Names() {
		p, err := cfg.BuildPipeline(name, factory)
		if err != nil {
			return nil, err
		}
		out[core.FeedKind(name)] = p
	}
	return out, nil
}
