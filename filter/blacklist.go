package filter

import (
	"context"

	"github.com/rushteam/mycontent/core"
)

// Blacklist 按文章 ID 剔除候选（运营下架、违规内容等）。
type Blacklist struct {
	ids map[int64]struct{}
}

// NewBlacklist 创建黑名单过滤器。
func NewBlacklist(ids []int64) *Blacklist {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &Blacklist{ids: set}
}

func (b *Blacklist) Name() string { return "filter.blacklist" }

func (b *Blacklist) Allow(_ context.Context, rec core.Recommendation) (bool, error) {
	_, blocked := b.ids[rec.ArticleID]
	return !blocked, nil
}

var _ Filter = (*Blacklist)(nil)
