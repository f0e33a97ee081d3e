package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/rushteam/scholarfeed/core"
	"github.com/rushteam/scholarfeed/pkg/names"
)

// AuthorRecord 是导入文件中的原始作者。
type AuthorRecord struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
}

// PaperRecord 是导入文件中的论文，作者为原始姓名，导入时标准化。
type PaperRecord struct {
	core.Paper
	Authors []AuthorRecord `json:"authors"`
}

// Dump 是目录导入文件格式（采集任务的输出）。
type Dump struct {
	Papers       []PaperRecord     `json:"papers"`
	Repositories []core.Repository `json:"repositories"`
}

// ImportStats 汇总一次导入的结果。
type ImportStats struct {
	Papers       int
	Repositories int
	Skipped      int
}

// Import 从 r 读取 Dump 并写入目录。缺少 ID 的记录被跳过。
func (c *KVCatalog) Import(ctx context.Context, r io.Reader) (ImportStats, error) {
	var (
		dump  Dump
		stats ImportStats
	)
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return stats, fmt.Errorf("decode dump: %w", err)
	}

	for _, rec := range dump.Papers {
		if rec.ID == "" {
			stats.Skipped++
			continue
		}
		p := rec.Paper
		p.Authors = make([]core.Author, 0, len(rec.Authors))
		for _, a := range rec.Authors {
			p.Authors = append(p.Authors, names.NormalizeWithAffiliation(a.Name, a.Affiliation))
		}
		if err := c.Put(ctx, &p); err != nil {
			return stats, err
		}
		stats.Papers++
	}
	for i := range dump.Repositories {
		repo := dump.Repositories[i]
		if repo.ID == "" {
			stats.Skipped++
			continue
		}
		if err := c.Put(ctx, &repo); err != nil {
			return stats, err
		}
		stats.Repositories++
	}
	c.logger().Info("catalog import finished",
		"papers", stats.Papers, "repositories", stats.Repositories, "skipped", stats.Skipped)
	return stats, nil
}
