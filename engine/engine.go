// Package engine 把向量存储、文章目录与点击日志编排成面向用户的推荐。
//
// 单个请求的控制流：
//
//	Recommend -> clicks.HistoryOf -> similarity.NeighborsOf（逐个种子）-> catalog.InfoOf -> 结果
//
// 所有数据在构造时加载一次，之后只读共享；Engine 实例不可变，
// 相同数据下 Recommend 是幂等的。
package engine

import (
	"context"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rushteam/mycontent/catalog"
	"github.com/rushteam/mycontent/clicks"
	"github.com/rushteam/mycontent/core"
	"github.com/rushteam/mycontent/embedding"
	"github.com/rushteam/mycontent/filter"
	"github.com/rushteam/mycontent/similarity"
)

// 默认参数。来源数据上没有调参依据，保留为可配置项。
const (
	DefaultTopN      = 5  // 默认返回条数
	DefaultSeedLimit = 5  // 相似度扩展最多使用的历史种子数
	DefaultNeighborK = 20 // 每个种子取的相似候选数
)

// Options 是引擎的可调参数。零值字段取默认值。
type Options struct {
	// SeedLimit 每次推荐最多使用多少条最近历史做种子
	SeedLimit int

	// NeighborK 每个种子召回多少相似候选
	NeighborK int

	// Filters 打分后、截断前应用的候选过滤器
	Filters []filter.Filter

	// HotStore 可选的共享热门榜（有序集合）。
	// 本地日志为空时在目录兜底之前先查它，多实例部署用。
	HotStore core.KeyValueStore

	// HotKey 热门榜在 HotStore 中的 key
	HotKey string

	// Logger 结构化日志，零值为 Nop
	Logger zerolog.Logger
}

func (o *Options) applyDefaults() {
	if o.SeedLimit <= 0 {
		o.SeedLimit = DefaultSeedLimit
	}
	if o.NeighborK <= 0 {
		o.NeighborK = DefaultNeighborK
	}
}

// Engine 是装配完成的推荐引擎。构造后不可变，可被任意多请求并发使用。
type Engine struct {
	embeddings *embedding.Store
	catalog    *catalog.Catalog
	log        *clicks.Log
	index      *similarity.Index
	opts       Options
}

// New 装配推荐引擎。三份数据均为调用方加载完成的只读结构。
func New(emb *embedding.Store, cat *catalog.Catalog, log *clicks.Log, opts Options) *Engine {
	opts.applyDefaults()
	return &Engine{
		embeddings: emb,
		catalog:    cat,
		log:        log,
		index:      similarity.NewIndex(emb),
		opts:       opts,
	}
}

// Recommend 为用户生成至多 topN 条推荐，按推荐分数降序。
//
// 有历史用户走相似度路径：对最近 SeedLimit 条历史逐个做相似扩展，
// 按候选累加相似度，剔除用户完整历史中的文章（不论哪条种子召回的），
// 排序截断后用目录信息充实。
//
// 无历史用户走兜底路径：热度榜；日志为空时退到共享热门榜（如配置），
// 最后退到目录顺序并赋予 topN..1 的合成分数（只为保持全序，不是学习到的排名）。
func (e *Engine) Recommend(ctx context.Context, userID int64, topN int) []core.Recommendation {
	if topN <= 0 {
		topN = DefaultTopN
	}

	history := e.log.HistoryOf(userID)
	if len(history) == 0 {
		e.opts.Logger.Debug().Int64("user_id", userID).Msg("no history, falling back")
		return e.fallback(ctx, topN)
	}

	seeds := history
	if len(seeds) > e.opts.SeedLimit {
		seeds = seeds[:e.opts.SeedLimit]
	}
	read := make(map[int64]struct{}, len(history))
	for _, id := range history {
		read[id] = struct{}{}
	}

	scores := make(map[int64]float64)
	for _, seed := range seeds {
		for _, n := range e.index.NeighborsOf(seed, e.opts.NeighborK) {
			if _, already := read[n.ArticleID]; already {
				continue
			}
			scores[n.ArticleID] += n.Score
		}
	}

	ranked := make([]core.Recommendation, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, core.NewRecommendation(e.catalog.InfoOf(id), score))
	}
	sortByScore(ranked)

	ranked = filter.Apply(ctx, e.opts.Filters, ranked, e.opts.Logger)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// fallback 处理无历史用户：热度榜 -> 共享热门榜 -> 目录顺序。
func (e *Engine) fallback(ctx context.Context, topN int) []core.Recommendation {
	if pops := e.log.Popularity(topN); len(pops) > 0 {
		out := make([]core.Recommendation, 0, len(pops))
		for _, p := range pops {
			out = append(out, core.NewRecommendation(e.catalog.InfoOf(p.ArticleID), float64(p.Clicks)))
		}
		return out
	}

	if hot := e.hotRanking(ctx, topN); len(hot) > 0 {
		return hot
	}

	head := e.catalog.Head(topN)
	out := make([]core.Recommendation, 0, len(head))
	for i, id := range head {
		out = append(out, core.NewRecommendation(e.catalog.InfoOf(id), float64(topN-i)))
	}
	return out
}

// hotRanking 从共享热门榜读取 TopN。榜不可用或为空时返回 nil，继续走目录兜底。
func (e *Engine) hotRanking(ctx context.Context, topN int) []core.Recommendation {
	if e.opts.HotStore == nil || e.opts.HotKey == "" {
		return nil
	}
	members, err := e.opts.HotStore.ZRange(ctx, e.opts.HotKey, 0, int64(topN-1))
	if err != nil || len(members) == 0 {
		if err != nil {
			e.opts.Logger.Warn().Err(err).Msg("hot store unavailable, falling back to catalog order")
		}
		return nil
	}
	out := make([]core.Recommendation, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		score, err := e.opts.HotStore.ZScore(ctx, e.opts.HotKey, m)
		if err != nil {
			score = 0
		}
		out = append(out, core.NewRecommendation(e.catalog.InfoOf(id), score))
	}
	return out
}

// SyncPopularity 把本地热度榜发布到共享有序集合，供其他实例做兜底。
func (e *Engine) SyncPopularity(ctx context.Context, kv core.KeyValueStore, key string) error {
	for _, p := range e.log.Popularity(e.log.Len()) {
		member := strconv.FormatInt(p.ArticleID, 10)
		if err := kv.ZAdd(ctx, key, float64(p.Clicks), member); err != nil {
			return err
		}
	}
	return nil
}

// SampleUserIDs 透出日志中的用户样本，供演示端挑选用户。
func (e *Engine) SampleUserIDs(limit int) []int64 {
	return e.log.SampleUserIDs(limit)
}

// Catalog 返回引擎持有的文章目录。
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Embeddings 返回引擎持有的向量存储。
func (e *Engine) Embeddings() *embedding.Store { return e.embeddings }

// sortByScore 按分数降序排序，分数完全相同按文章 ID 升序，保证结果可复现。
func sortByScore(recs []core.Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ArticleID < recs[j].ArticleID
	})
}
