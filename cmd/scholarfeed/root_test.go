package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/scholarfeed/catalog"
	"github.com/rushteam/scholarfeed/config"
	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/store"
)

func TestRequirePersistentStore(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"in-memory", "", true},
		{"redis", "localhost:6379", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.Default()
			c.Redis.Addr = tt.addr
			err := requirePersistentStore(c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, 期望出错 %v", err, tt.wantErr)
			}
			if tt.wantErr && !core.IsInvalidInput(err) {
				t.Errorf("内存存储上的写入命令应返回 INVALID_INPUT, 实际 %v", err)
			}
		})
	}
}

func TestImportCatalog(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	t.Cleanup(func() { ms.Close() })
	c := catalog.NewKVCatalog(ms)

	path := filepath.Join(t.TempDir(), "dump.json")
	dump := `{"papers": [{"arxiv_id": "2401.00001", "title": "T", "published": "2024-01-02T00:00:00Z",
	  "authors": [{"name": "Geoffrey Hinton"}]}]}`
	if err := os.WriteFile(path, []byte(dump), 0o644); err != nil {
		t.Fatal(err)
	}

	stats, err := importCatalog(ctx, c, path)
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if stats.Papers != 1 {
		t.Errorf("stats = %+v", stats)
	}
	papers, _ := c.GetItemsByAuthor(ctx, "geoffrey", "hinton", 10)
	if len(papers) != 1 {
		t.Errorf("导入后 serve 进程内应能检索到论文, 实际 %d 篇", len(papers))
	}

	if _, err := importCatalog(ctx, c, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("文件不存在应报错")
	}
}
