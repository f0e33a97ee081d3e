package core

import (
	"context"
	"time"
)

// Catalog 是目录访问的领域接口（只读，浏览计数由目录自身维护）。
//
// 实现：
//   - catalog.KVCatalog：基于 KeyValueStore（内存或 Redis）
type Catalog interface {
	// GetItemsByAuthor 返回作者列表中包含 (firstName, lastName) 的论文，按发布时间降序，最多 limit 篇
	GetItemsByAuthor(ctx context.Context, firstName, lastName string, limit int) ([]*Paper, error)

	// GetItem 按 (origin, id) 读取记录；不存在时返回 IsNotFound 为 true 的错误
	GetItem(ctx context.Context, origin Origin, id string) (Item, error)

	// ListRecent 返回时间戳不早于 since 且浏览数不低于 minViewCount 的记录
	ListRecent(ctx context.Context, origin Origin, since time.Time, minViewCount int64) ([]Item, error)
}

// ErrItemNotFound 构造目录记录不存在的错误。
func ErrItemNotFound(origin Origin, id string) *DomainError {
	return NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: "+string(origin)+" item "+id+" not found")
}

// SubscriptionSource 提供请求者的订阅（用户子系统是外部协作方）。
type SubscriptionSource interface {
	// Scholars 返回关注的学者姓名
	Scholars(ctx context.Context, identity string) ([]string, error)

	// Topics 返回订阅的话题
	Topics(ctx context.Context, identity string) ([]string, error)
}
