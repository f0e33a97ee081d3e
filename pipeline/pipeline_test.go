package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rushteam/scholarfeed/core"
)

type appendNode struct {
	name string
	id   string
	err  error
}

func (n *appendNode) Name() string { return n.name }
func (n *appendNode) Kind() Kind   { return KindRecall }
func (n *appendNode) Process(_ context.Context, _ *core.FeedContext, in []*core.Candidate) ([]*core.Candidate, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(in, core.NewCandidate(&core.Paper{ID: n.id}, core.NewTopicProvenance())), nil
}

func TestPipeline_Run(t *testing.T) {
	var observed []string
	p := &Pipeline{Name: "test", Observer: func(node Node, in, out int, _ time.Duration, _ error) {
		observed = append(observed, node.Name())
	}}
	p.Append(&appendNode{name: "a", id: "1"}, &appendNode{name: "b", id: "2"})

	got, err := p.Run(context.Background(), core.NewFeedContext(core.FeedHot, "", time.Time{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Item.ItemID() != "2" {
		t.Errorf("输出 = %+v", got)
	}
	if strings.Join(observed, ",") != "a,b" {
		t.Errorf("observer = %v", observed)
	}
}

func TestPipeline_RunError(t *testing.T) {
	cause := errors.New("boom")
	p := &Pipeline{Nodes: []Node{&appendNode{name: "bad", err: cause}, &appendNode{name: "never", id: "x"}}}
	_, err := p.Run(context.Background(), nil, nil)
	if !errors.Is(err, cause) || !strings.Contains(err.Error(), "bad") {
		t.Errorf("错误应包含节点名并可解包: %v", err)
	}
}

func TestConfig_BuildPipeline(t *testing.T) {
	cfg, err := ParseYAML([]byte(`
pipelines:
  hot:
    nodes:
      - type: test.append
        config: {id: "7"}
`))
	if err != nil {
		t.Fatal(err)
	}
	f := NewNodeFactory()
	f.Register("test.append", func(c map[string]any) (Node, error) {
		id, _ := c["id"].(string)
		return &appendNode{name: "append", id: id}, nil
	})

	p, err := cfg.BuildPipeline("hot", f)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Nodes) != 1 || p.Nodes[0].(*appendNode).id != "7" {
		t.Errorf("nodes = %+v", p.Nodes)
	}
	if _, err := cfg.BuildPipeline("follow", f); err == nil {
		t.Error("未配置的 pipeline 应报错")
	}
	if _, err := f.Build("missing", nil); err == nil {
		t.Error("未注册的 node 类型应报错")
	}
}

func TestLoad_ByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"pipelines.json": `{"pipelines": {"hot": {"nodes": [{"type": "rank.hot"}, {"type": "rerank.topn", "config": {"n": 5}}]}}}`,
		"pipelines.yaml": "pipelines:\n  hot:\n    nodes:\n      - type: rank.hot\n      - type: rerank.topn\n        config: {n: 5}\n",
		"exported.JSON":  `{"pipelines": {"hot": {"nodes": [{"type": "rank.hot"}, {"type": "rerank.topn", "config": {"n": 5}}]}}}`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Errorf("%s: 加载失败: %v", name, err)
			continue
		}
		nodes := cfg.Pipelines["hot"].Nodes
		if len(nodes) != 2 || nodes[0].Type != "rank.hot" || nodes[1].Type != "rerank.topn" {
			t.Errorf("%s: nodes = %+v", name, nodes)
		}
	}

	bad := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(bad, []byte("pipelines:\n  hot: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error(".json 文件应按 JSON 解析, YAML 内容应报错")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("文件不存在应报错")
	}
}
