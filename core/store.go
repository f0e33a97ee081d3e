package core

import "context"

// Store 是存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 目录记录存储：论文、仓库的 JSON 记录
//   - 订阅关系存储：学者、话题订阅
//
// 实现：
//   - store.MemoryStore 实现此接口
//   - store.RedisStore 实现此接口
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	Delete(ctx context.Context, key string) error

	// BatchGet 批量读取，缺失的 key 不出现在结果中
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)

	Close() error
}

// KeyValueStore 是 Store 的扩展接口，支持有序集合与哈希。
//
// 目录用有序集合维护 “作者 → 论文” 与 “时间 → 物品” 两类索引，
// 用哈希保存记录本体。
type KeyValueStore interface {
	Store

	// ZAdd 向有序集合添加成员，成员已存在时更新分数
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZRange 按分数降序取排名 [start, stop] 的成员
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZRevRangeByScore 按分数降序取 [min, max] 区间内的成员，跳过 offset 个后最多返回 count 个（count <= 0 表示不限）
	ZRevRangeByScore(ctx context.Context, key string, max, min float64, offset, count int64) ([]string, error)

	// ZScore 获取成员的分数
	ZScore(ctx context.Context, key string, member string) (float64, error)

	HGet(ctx context.Context, key, field string) ([]byte, error)

	HSet(ctx context.Context, key, field string, value []byte) error

	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
}
