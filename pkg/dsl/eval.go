package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/scholarfeed/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境，定义 candidate / feed 两个变量
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("candidate", cel.DynType),
			cel.Variable("feed", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的候选表达式，使用 CEL (Common Expression Language)。
// 编译一次，可并发对多个候选求值。
//
// 可用字段：
//   - candidate.origin / candidate.id / candidate.score / candidate.views
//   - candidate.age_days：距 feed.now 的整天数
//   - candidate.topics：话题列表（按写入顺序）；candidate.scholars：学者姓名列表
//   - feed.kind / feed.identity / feed.params
//
// 示例：
//   - `candidate.origin == "github" && candidate.views < 3`
//   - `"Robotics" in candidate.topics`
//   - `candidate.age_days > 14`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return bool, got %s", ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

func (p *Program) String() string { return p.expr }

// Match 对单个候选求值。
func (p *Program) Match(c *core.Candidate, fctx *core.FeedContext) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{
		"candidate": candidateInput(c, fctx),
		"feed":      feedInput(fctx),
	})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

func candidateInput(c *core.Candidate, fctx *core.FeedContext) map[string]any {
	in := map[string]any{
		"origin":    string(c.Origin),
		"id":        c.Item.ItemID(),
		"score":     c.Score,
		"views":     c.Item.Views(),
		"timestamp": c.Timestamp.Unix(),
		"topics":    []string{},
		"scholars":  []string{},
		"age_days":  int64(0),
	}
	if fctx != nil && !fctx.Now.IsZero() && fctx.Now.After(c.Timestamp) {
		in["age_days"] = int64(fctx.Now.Sub(c.Timestamp).Hours() / 24)
	}
	switch src := c.Source.(type) {
	case *core.TopicProvenance:
		in["topics"] = src.Topics()
	case *core.ScholarProvenance:
		in["scholars"] = append([]string{}, src.ScholarNames...)
	}
	return in
}

func feedInput(fctx *core.FeedContext) map[string]any {
	if fctx == nil {
		return map[string]any{"kind": "", "identity": "", "params": map[string]any{}}
	}
	params := fctx.Params
	if params == nil {
		params = map[string]any{}
	}
	return map[string]any{
		"kind":     string(fctx.Kind),
		"identity": fctx.Identity,
		"params":   params,
	}
}
