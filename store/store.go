// Package store 提供 core.KeyValueStore 的实现：内存（测试/开发）与 Redis（生产）。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
package store

import (
	"sort"

	"github.com/rushteam/scholarfeed/core"
)

var (
	_ core.KeyValueStore = (*MemoryStore)(nil)
	_ core.KeyValueStore = (*RedisStore)(nil)
)

type zmember struct {
	member string
	score  float64
}

// sortDesc 按分数降序排列，分数相同时按成员字典序降序（与 Redis ZREVRANGE 一致）。
func sortDesc(members []zmember) {
	sort.Slice(members, func(i, j int) bool {
		if members[i].score != members[j].score {
			return members[i].score > members[j].score
		}
		return members[i].member > members[j].member
	})
}
