// Package catalog 实现基于 KeyValueStore 的目录访问（论文/仓库记录 + 索引）。
//
// 存储布局（key 均带 Prefix）：
//   - item:<origin>              哈希，field 为 ID，value 为 JSON 记录
//   - author:<first>:<last>      有序集合，成员为论文 ID，分数为发布时间（unix 秒）
//   - recent:<origin>            有序集合，成员为 ID，分数为时间戳（论文发布/仓库推送）
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/scholarfeed/core"
)

// DefaultPrefix 是目录 key 的默认前缀。
const DefaultPrefix = "catalog:"

// listPageSize 是 ListRecent 每次从时间索引读取的成员数。
const listPageSize = 200

// KVCatalog 是 core.Catalog 的 KeyValueStore 实现。
type KVCatalog struct {
	Store  core.KeyValueStore
	Prefix string
	Logger *slog.Logger
}

func NewKVCatalog(kv core.KeyValueStore) *KVCatalog {
	return &KVCatalog{Store: kv, Prefix: DefaultPrefix}
}

var _ core.Catalog = (*KVCatalog)(nil)

func (c *KVCatalog) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *KVCatalog) itemKey(o core.Origin) string { return c.Prefix + "item:" + string(o) }
func (c *KVCatalog) recentKey(o core.Origin) string {
	return c.Prefix + "recent:" + string(o)
}
func (c *KVCatalog) authorKey(first, last string) string {
	return c.Prefix + "author:" + first + ":" + last
}

func unixScore(t time.Time) float64 { return float64(t.Unix()) }

func decodeItem(o core.Origin, data []byte) (core.Item, error) {
	switch o {
	case core.OriginPaper:
		var p core.Paper
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode paper: %w", err)
		}
		return &p, nil
	case core.OriginRepository:
		var r core.Repository
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode repository: %w", err)
		}
		return &r, nil
	}
	return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: unknown origin "+string(o))
}

func (c *KVCatalog) GetItem(ctx context.Context, origin core.Origin, id string) (core.Item, error) {
	data, err := c.Store.HGet(ctx, c.itemKey(origin), id)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrItemNotFound(origin, id)
		}
		return nil, fmt.Errorf("catalog get %s/%s: %w", origin, id, err)
	}
	return decodeItem(origin, data)
}

func (c *KVCatalog) GetItemsByAuthor(ctx context.Context, firstName, lastName string, limit int) ([]*core.Paper, error) {
	if limit <= 0 {
		return nil, nil
	}
	key := c.authorKey(firstName, lastName)
	page := int64(max(limit, listPageSize))
	out := make([]*core.Paper, 0, limit)
	// 索引成员可能已失效，按页继续读取直到凑满 limit 篇或索引读完
	for start := int64(0); ; start += page {
		ids, err := c.Store.ZRange(ctx, key, start, start+page-1)
		if err != nil {
			return nil, fmt.Errorf("catalog author index: %w", err)
		}
		for _, id := range ids {
			it, err := c.GetItem(ctx, core.OriginPaper, id)
			if err != nil {
				if core.IsNotFound(err) {
					c.logger().Debug("author index points at missing paper", "id", id)
					continue
				}
				return nil, err
			}
			p := it.(*core.Paper)
			// 作者被更正后旧索引不再匹配
			if !p.HasAuthor(firstName, lastName) {
				continue
			}
			out = append(out, p)
			if len(out) == limit {
				return out, nil
			}
		}
		if int64(len(ids)) < page {
			return out, nil
		}
	}
}

func (c *KVCatalog) ListRecent(ctx context.Context, origin core.Origin, since time.Time, minViewCount int64) ([]core.Item, error) {
	var out []core.Item
	for offset := int64(0); ; offset += listPageSize {
		ids, err := c.Store.ZRevRangeByScore(ctx, c.recentKey(origin), math.Inf(1), unixScore(since), offset, listPageSize)
		if err != nil {
			return nil, fmt.Errorf("catalog recent index: %w", err)
		}
		for _, id := range ids {
			it, err := c.GetItem(ctx, origin, id)
			if err != nil {
				if core.IsNotFound(err) {
					continue
				}
				return nil, err
			}
			if it.Views() < minViewCount || core.ItemTimestamp(it).Before(since) {
				continue
			}
			out = append(out, it)
		}
		if len(ids) < listPageSize {
			return out, nil
		}
	}
}

// Put 写入记录并更新索引。
func (c *KVCatalog) Put(ctx context.Context, it core.Item) error {
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", it.Origin(), it.ItemID(), err)
	}
	if err := c.Store.HSet(ctx, c.itemKey(it.Origin()), it.ItemID(), data); err != nil {
		return fmt.Errorf("catalog put %s/%s: %w", it.Origin(), it.ItemID(), err)
	}
	if err := c.Store.ZAdd(ctx, c.recentKey(it.Origin()), unixScore(core.ItemTimestamp(it)), it.ItemID()); err != nil {
		return fmt.Errorf("catalog recent index: %w", err)
	}
	if p, ok := it.(*core.Paper); ok {
		for _, a := range p.Authors {
			if a.FirstName == "" && a.LastName == "" {
				continue
			}
			if err := c.Store.ZAdd(ctx, c.authorKey(a.FirstName, a.LastName), unixScore(p.Published), p.ID); err != nil {
				return fmt.Errorf("catalog author index: %w", err)
			}
		}
	}
	return nil
}

// IncrView 为记录浏览数加一并返回新值。
// 这是一次不加锁的读-改-写：并发详情页访问可能丢失计数，feed 计算只读该值并容忍其滞后。
func (c *KVCatalog) IncrView(ctx context.Context, origin core.Origin, id string) (int64, error) {
	it, err := c.GetItem(ctx, origin, id)
	if err != nil {
		return 0, err
	}
	views := core.MatchItem(it,
		func(p *core.Paper) int64 { p.ViewCount++; return p.ViewCount },
		func(r *core.Repository) int64 { r.ViewCount++; return r.ViewCount },
	)
	data, err := json.Marshal(it)
	if err != nil {
		return 0, err
	}
	if err := c.Store.HSet(ctx, c.itemKey(origin), id, data); err != nil {
		return 0, fmt.Errorf("catalog incr view %s/%s: %w", origin, id, err)
	}
	return views, nil
}
