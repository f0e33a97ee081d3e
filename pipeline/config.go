package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config 是 feed Pipeline 的配置结构（支持 YAML/JSON），key 为 feed 类型。
//
// 示例：
//
//	pipelines:
//	  hot:
//	    nodes:
//	      - type: recall.hot
//	      - type: filter.expr
//	        config: {expr: 'candidate.views < 3'}
//	      - type: rank.hot
//	      - type: normalize.zscore
//	      - type: rerank.sort
//	        config: {by: score}
//	      - type: rerank.topn
//	        config: {n: 50}
type Config struct {
	Pipelines map[string]Definition `yaml:"pipelines" json:"pipelines"`
}

// Definition 是单条 Pipeline 的配置。
type Definition struct {
	Nodes []NodeConfig `yaml:"nodes" json:"nodes"`
}

// NodeConfig 是单个 Node 的配置。
type NodeConfig struct {
	Type   string         `yaml:"type" json:"type"`     // recall.follow / merge.dedup / rank.hot 等
	Config map[string]any `yaml:"config" json:"config"` // Node 特定配置
}

// Load 按扩展名选择解析方式：.json 走 JSON，其余按 YAML 处理。
func Load(path string) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadFromJSON(path)
	}
	return LoadFromYAML(path)
}

// LoadFromYAML 从 YAML 文件加载 Pipeline 配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML 解析 YAML 内容。
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载 Pipeline 配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return &cfg, nil
}

// Names 返回配置中的 Pipeline 名称（排序）。
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Pipelines))
	for name := range c.Pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildPipeline 根据配置构建指定名称的 Pipeline（需要 NodeFactory 注册 Node 构建器）。
func (c *Config) BuildPipeline(name string, factory *NodeFactory) (*Pipeline, error) {
	def, ok := c.Pipelines[name]
	if !ok {
		return nil, fmt.Errorf("pipeline %q not configured", name)
	}
	nodes := make([]Node, 0, len(def.Nodes))
	for _, nc := range def.Nodes {
		node, err := factory.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, fmt.Errorf("build node %s: %w", nc.Type, err)
		}
		nodes = append(nodes, node)
	}

	return &Pipeline{Name: name, Nodes: nodes}, nil
}

// NodeFactory 用于根据配置构建 Node 实例。
type NodeFactory struct {
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{
		builders: make(map[string]NodeBuilder),
	}
}

// Register 注册 Node 构建器。
func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.builders[nodeType] = builder
}

// Build 根据类型和配置构建 Node。
func (f *NodeFactory) Build(nodeType string, config map[string]any) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", nodeType)
	}
	return builder(config)
}
