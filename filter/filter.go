// Package filter 提供推荐候选的过滤器：静态黑名单与 CEL 规则。
// 过滤发生在打分之后、截断 TopN 之前，过滤器之间是与（AND）关系。
package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/mycontent/core"
)

// Filter 判断一条已打分的候选是否保留。
type Filter interface {
	Name() string

	// Allow 返回 true 表示保留候选。
	Allow(ctx context.Context, rec core.Recommendation) (bool, error)
}

// Apply 依次应用过滤器。
// 软失败：单个过滤器求值出错时告警并保留候选，一条坏规则不中断推荐请求。
func Apply(ctx context.Context, filters []Filter, recs []core.Recommendation, logger zerolog.Logger) []core.Recommendation {
	if len(filters) == 0 {
		return recs
	}
	out := recs[:0]
	for _, rec := range recs {
		keep := true
		for _, f := range filters {
			ok, err := f.Allow(ctx, rec)
			if err != nil {
				logger.Warn().Str("filter", f.Name()).Int64("article_id", rec.ArticleID).Err(err).
					Msg("filter evaluation failed, keeping candidate")
				continue
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, rec)
		}
	}
	return out
}
