// Package subscription 提供基于 KeyValueStore 的订阅关系读取（学者/话题）。
//
// 存储布局：哈希 sub:scholar:<identity> 与 sub:topic:<identity>，
// field 为学者姓名或话题，value 为订阅时间（unix 纳秒，决定返回顺序）。
package subscription

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rushteam/scholarfeed/core"
)

const DefaultPrefix = "sub:"

// KVSource 实现 core.SubscriptionSource。
type KVSource struct {
	Store  core.KeyValueStore
	Prefix string
	Now    func() time.Time
}

var _ core.SubscriptionSource = (*KVSource)(nil)

func NewKVSource(kv core.KeyValueStore) *KVSource {
	return &KVSource{Store: kv, Prefix: DefaultPrefix, Now: time.Now}
}

func (s *KVSource) key(kind, identity string) string {
	return s.Prefix + kind + ":" + identity
}

func (s *KVSource) Scholars(ctx context.Context, identity string) ([]string, error) {
	return s.list(ctx, "scholar", identity)
}

func (s *KVSource) Topics(ctx context.Context, identity string) ([]string, error) {
	return s.list(ctx, "topic", identity)
}

// AddScholar 关注学者，重复关注保留最早时间。
func (s *KVSource) AddScholar(ctx context.Context, identity, name string) error {
	return s.add(ctx, "scholar", identity, name)
}

// AddTopic 订阅话题，重复订阅保留最早时间。
func (s *KVSource) AddTopic(ctx context.Context, identity, topic string) error {
	return s.add(ctx, "topic", identity, topic)
}

func (s *KVSource) add(ctx context.Context, kind, identity, value string) error {
	value = strings.TrimSpace(value)
	if identity == "" || value == "" {
		return core.NewDomainError(core.ModuleFeed, core.ErrorCodeInvalidInput, "subscription: identity and value are required")
	}
	key := s.key(kind, identity)
	if _, err := s.Store.HGet(ctx, key, value); err == nil {
		return nil
	} else if !core.IsStoreNotFound(err) {
		return fmt.Errorf("subscription %s lookup: %w", kind, err)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ts := strconv.FormatInt(now().UnixNano(), 10)
	if err := s.Store.HSet(ctx, key, value, []byte(ts)); err != nil {
		return fmt.Errorf("subscription %s add: %w", kind, err)
	}
	return nil
}

func (s *KVSource) list(ctx context.Context, kind, identity string) ([]string, error) {
	if identity == "" {
		return nil, nil
	}
	all, err := s.Store.HGetAll(ctx, s.key(kind, identity))
	if err != nil {
		return nil, fmt.Errorf("subscription %s list: %w", kind, err)
	}

	type entry struct {
		value string
		at    int64
	}
	entries := make([]entry, 0, len(all))
	for v, raw := range all {
		at, _ := strconv.ParseInt(string(raw), 10, 64)
		entries = append(entries, entry{value: v, at: at})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].at != entries[j].at {
			return entries[i].at < entries[j].at
		}
		return entries[i].value < entries[j].value
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out, nil
}
