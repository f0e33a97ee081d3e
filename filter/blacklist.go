package filter

import (
	"context"
	"strings"

	"github.com/rushteam/scholarfeed/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉被下架的论文或仓库。
// 条目格式为 "<origin>/<id>"，例如 "arxiv/2401.00001"、"github/42"。
type BlacklistFilter struct {
	// Items 是内存中的黑名单
	Items map[core.CandidateKey]struct{}

	// Store 用于从存储中读取黑名单（可选），哈希 Key 的 field 为条目
	Store core.KeyValueStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// NewBlacklistFilter 创建一个黑名单过滤器，格式错误的条目返回 INVALID_INPUT。
func NewBlacklistFilter(entries []string, store core.KeyValueStore, key string) (*BlacklistFilter, error) {
	items := make(map[core.CandidateKey]struct{}, len(entries))
	for _, e := range entries {
		k, err := ParseEntry(e)
		if err != nil {
			return nil, err
		}
		items[k] = struct{}{}
	}
	return &BlacklistFilter{Items: items, Store: store, Key: key}, nil
}

// ParseEntry 解析 "<origin>/<id>" 形式的黑名单条目。
func ParseEntry(entry string) (core.CandidateKey, error) {
	origin, id, ok := strings.Cut(strings.TrimSpace(entry), "/")
	if !ok || id == "" {
		return core.CandidateKey{}, core.NewDomainError(core.ModuleCore, core.ErrorCodeInvalidInput, "blacklist: malformed entry "+entry)
	}
	o, err := core.ParseOrigin(origin)
	if err != nil {
		return core.CandidateKey{}, err
	}
	return core.CandidateKey{Origin: o, ID: id}, nil
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.FeedContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil {
		return true, nil
	}

	key := c.Key()
	if _, ok := f.Items[key]; ok {
		return true, nil
	}

	if f.Store != nil && f.Key != "" {
		_, err := f.Store.HGet(ctx, f.Key, string(key.Origin)+"/"+key.ID)
		if err == nil {
			return true, nil
		}
		if !core.IsStoreNotFound(err) {
			return false, err
		}
	}
	return false, nil
}
