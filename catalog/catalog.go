// Package catalog 持有文章的描述属性（标题/类目/字数），按文章 ID 查询。
// 未知文章与缺失字段按确定性规则补默认值，查询永不失败。
package catalog

import (
	"strconv"

	"github.com/rushteam/mycontent/core"
)

// Entry 是目录的一条输入记录。Title/Category 为空串表示缺失。
type Entry struct {
	ID         int64
	Title      string
	Category   string
	WordsCount int64
}

// Catalog 是只读的文章目录，保留制品中的原始顺序。
type Catalog struct {
	ids  []int64
	rows map[int64]Entry
}

// New 从有序记录列表构造目录。重复 ID 以首次出现为准。
func New(entries []Entry) *Catalog {
	c := &Catalog{
		ids:  make([]int64, 0, len(entries)),
		rows: make(map[int64]Entry, len(entries)),
	}
	for _, e := range entries {
		if _, dup := c.rows[e.ID]; dup {
			continue
		}
		c.ids = append(c.ids, e.ID)
		c.rows[e.ID] = e
	}
	return c
}

// InfoOf 返回文章信息。未知 ID 或缺失字段走默认值，
// 调用方无法区分合成记录与真实的稀疏记录（除非对比字段与默认值）。
func (c *Catalog) InfoOf(id int64) core.Article {
	e, ok := c.rows[id]
	if !ok {
		return core.SynthesizeArticle(id)
	}
	a := core.Article{
		ID:         id,
		Title:      e.Title,
		Category:   e.Category,
		WordsCount: e.WordsCount,
	}
	if a.Title == "" {
		a.Title = core.SynthesizeTitle(id)
	}
	if a.Category == "" {
		a.Category = core.CategoryUnknown
	}
	return a
}

// Contains 判断文章是否在目录中。
func (c *Catalog) Contains(id int64) bool {
	_, ok := c.rows[id]
	return ok
}

// IDs 返回目录顺序的文章 ID 列表（内部数据，只读）。
func (c *Catalog) IDs() []int64 { return c.ids }

// Head 返回目录顺序的前 n 个文章 ID。
func (c *Catalog) Head(n int) []int64 {
	if n <= 0 {
		return nil
	}
	if n > len(c.ids) {
		n = len(c.ids)
	}
	return c.ids[:n]
}

// Len 返回目录中的文章数。
func (c *Catalog) Len() int { return len(c.ids) }

// FormatCategory 把数值类目转为目录内部的字符串表示。
func FormatCategory(id int64) string {
	return strconv.FormatInt(id, 10)
}
