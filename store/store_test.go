package store

import (
	"context"
	"math"
	"os"
	"reflect"
	"testing"

	"github.com/rushteam/scholarfeed/core"
)

// exerciseKeyValueStore 对任意 KeyValueStore 实现跑同一组用例。
func exerciseKeyValueStore(t *testing.T, kv core.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) 期望 NOT_FOUND, 实际 %v", err)
	}
	if err := kv.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	got, err := kv.BatchGet(ctx, []string{"k", "missing"})
	if err != nil {
		t.Fatalf("BatchGet 失败: %v", err)
	}
	if len(got) != 1 || string(got["k"]) != "v" {
		t.Errorf("BatchGet = %v", got)
	}

	for member, score := range map[string]float64{"a": 10, "b": 30, "c": 20, "d": 5} {
		if err := kv.ZAdd(ctx, "z", score, member); err != nil {
			t.Fatalf("ZAdd 失败: %v", err)
		}
	}
	top, _ := kv.ZRange(ctx, "z", 0, 1)
	if !reflect.DeepEqual(top, []string{"b", "c"}) {
		t.Errorf("ZRange(0,1) = %v, 期望 [b c]", top)
	}
	window, _ := kv.ZRevRangeByScore(ctx, "z", math.Inf(1), 10, 0, 0)
	if !reflect.DeepEqual(window, []string{"b", "c", "a"}) {
		t.Errorf("ZRevRangeByScore(+inf,10) = %v, 期望 [b c a]", window)
	}
	page, _ := kv.ZRevRangeByScore(ctx, "z", math.Inf(1), math.Inf(-1), 1, 2)
	if !reflect.DeepEqual(page, []string{"c", "a"}) {
		t.Errorf("ZRevRangeByScore offset=1 count=2 = %v, 期望 [c a]", page)
	}
	if s, err := kv.ZScore(ctx, "z", "c"); err != nil || s != 20 {
		t.Errorf("ZScore(c) = %v, %v", s, err)
	}

	if _, err := kv.HGet(ctx, "h", "f"); !core.IsStoreNotFound(err) {
		t.Errorf("HGet(missing) 期望 NOT_FOUND, 实际 %v", err)
	}
	_ = kv.HSet(ctx, "h", "f1", []byte("1"))
	_ = kv.HSet(ctx, "h", "f2", []byte("2"))
	all, _ := kv.HGetAll(ctx, "h")
	if len(all) != 2 || string(all["f2"]) != "2" {
		t.Errorf("HGetAll = %v", all)
	}
}

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	exerciseKeyValueStore(t, ms)
}

func TestMemoryStore_CloseTwice(t *testing.T) {
	ms := NewMemoryStore()
	if err := ms.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ms.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("SCHOLARFEED_TEST_REDIS")
	if addr == "" {
		t.Skip("需要设置 SCHOLARFEED_TEST_REDIS 指向真实的 Redis 才能运行")
	}
	rs, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr, Prefix: "scholarfeed:test:" + t.Name() + ":"})
	if err != nil {
		t.Fatalf("连接 Redis 失败: %v", err)
	}
	defer rs.Close()
	ctx := context.Background()
	for _, k := range []string{"k", "z", "h"} {
		_ = rs.Delete(ctx, k)
	}
	exerciseKeyValueStore(t, rs)
}
