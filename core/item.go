package core

import (
	"fmt"
	"time"
)

// Origin 标记候选物品来自哪一类目录。
// 两类目录的 ID 空间互不相交，因此任何按 ID 去重的逻辑都必须同时带上 Origin。
type Origin string

const (
	OriginPaper      Origin = "arxiv"  // 论文
	OriginRepository Origin = "github" // 代码仓库
)

// Origins 是全部合法的 Origin，顺序即热门流合并时的分组顺序。
var Origins = []Origin{OriginPaper, OriginRepository}

func (o Origin) Valid() bool {
	return o == OriginPaper || o == OriginRepository
}

func (o Origin) String() string { return string(o) }

// ParseOrigin 解析外部传入的 origin 字符串。
func ParseOrigin(s string) (Origin, error) {
	o := Origin(s)
	if !o.Valid() {
		return "", NewDomainError(ModuleCore, ErrorCodeInvalidInput, fmt.Sprintf("unknown origin %q", s))
	}
	return o, nil
}

// Item 是目录记录的封闭变体：只有 *Paper 与 *Repository 两种实现。
// 引擎对 Item 只读；需要按类型分支时使用 MatchItem，新增类型会在所有调用点产生编译错误。
type Item interface {
	Origin() Origin
	ItemID() string
	Views() int64
	sealed()
}

// MatchItem 对 Item 做穷举分支。
func MatchItem[T any](it Item, onPaper func(*Paper) T, onRepository func(*Repository) T) T {
	switch v := it.(type) {
	case *Paper:
		return onPaper(v)
	case *Repository:
		return onRepository(v)
	}
	panic(fmt.Sprintf("core: unexpected item type %T", it))
}

// Author 是标准化后的作者姓名（小写、去变音符号）。
type Author struct {
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name,omitempty"`
	LastName    string `json:"last_name"`
	Affiliation string `json:"affiliation,omitempty"`
}

// Paper 是论文记录。
type Paper struct {
	ID              string    `json:"arxiv_id"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	Authors         []Author  `json:"authors"`
	Comment         string    `json:"comment,omitempty"`
	Published       time.Time `json:"published"`
	Updated         time.Time `json:"updated"`
	PrimaryCategory string    `json:"primary_category"`
	Categories      []string  `json:"categories"`
	Link            string    `json:"link"`
	PDF             string    `json:"pdf"`
	ViewCount       int64     `json:"view_count"`
}

func (p *Paper) Origin() Origin { return OriginPaper }
func (p *Paper) ItemID() string { return p.ID }
func (p *Paper) Views() int64   { return p.ViewCount }
func (p *Paper) sealed()        {}

// HasAuthor 判断作者列表中是否存在 (first, last) 匹配。
func (p *Paper) HasAuthor(first, last string) bool {
	for _, a := range p.Authors {
		if a.FirstName == first && a.LastName == last {
			return true
		}
	}
	return false
}

// Repository 是代码仓库记录。
type Repository struct {
	ID          string    `json:"repo_id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description,omitempty"`
	HTMLURL     string    `json:"html_url"`
	Language    string    `json:"language,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
	Stars       int64     `json:"stargazers_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PushedAt    time.Time `json:"pushed_at"`
	ViewCount   int64     `json:"view_count"`
}

func (r *Repository) Origin() Origin { return OriginRepository }
func (r *Repository) ItemID() string { return r.ID }
func (r *Repository) Views() int64   { return r.ViewCount }
func (r *Repository) sealed()        {}

// ItemTimestamp 返回参与时效性打分与时间排序的时间：论文取发布时间，仓库取最近推送时间。
func ItemTimestamp(it Item) time.Time {
	return MatchItem(it,
		func(p *Paper) time.Time { return p.Published },
		func(r *Repository) time.Time { return r.PushedAt },
	)
}
