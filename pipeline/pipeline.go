package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/scholarfeed/core"
)

// Observer 在每个 Node 执行后被调用，用于打点/日志。
type Observer func(node Node, in, out int, elapsed time.Duration, err error)

// Pipeline 把一次 feed 计算拆成可组合的 Node 链，单次执行、不保留状态。
type Pipeline struct {
	Name     string
	Nodes    []Node
	Observer Observer
}

func (p *Pipeline) Run(
	ctx context.Context,
	fctx *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		start := time.Now()
		next, err := node.Process(ctx, fctx, cur)
		if p.Observer != nil {
			p.Observer(node, len(cur), len(next), time.Since(start), err)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// Append 追加 Node，返回自身便于链式构建。
func (p *Pipeline) Append(nodes ...Node) *Pipeline {
	p.Nodes = append(p.Nodes, nodes...)
	return p
}
