package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/mycontent/catalog"
	"github.com/rushteam/mycontent/clicks"
	"github.com/rushteam/mycontent/config"
	"github.com/rushteam/mycontent/embedding"
	"github.com/rushteam/mycontent/filter"
	"github.com/rushteam/mycontent/store"
)

// Load 按配置加载三份制品并装配引擎。
//
// 加载顺序固定：先目录（裸矩阵形态的向量制品需要目录顺序的 ID），
// 再向量，最后点击日志。向量或目录失败是致命的；点击日志按文件软失败。
func Load(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Engine, error) {
	cat, err := catalog.Load(cfg.Data.Metadata, logger)
	if err != nil {
		return nil, err
	}

	emb, err := embedding.Load(cfg.Data.Embeddings, cat.IDs(), logger)
	if err != nil {
		return nil, err
	}

	log, err := clicks.LoadDir(cfg.Data.ClicksDir, cfg.Data.ClicksFileLimit, logger)
	if err != nil {
		return nil, err
	}

	filters, err := buildFilters(cfg.Filters)
	if err != nil {
		return nil, err
	}

	opts := Options{
		SeedLimit: cfg.Engine.SeedLimit,
		NeighborK: cfg.Engine.NeighborK,
		Filters:   filters,
		Logger:    logger,
	}

	if cfg.Redis.Addr != "" {
		kv, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			// 共享热门榜是可选增强，连不上只降级告警，不影响启动
			logger.Warn().Str("addr", cfg.Redis.Addr).Err(err).Msg("redis unavailable, shared hot ranking disabled")
		} else {
			opts.HotStore = kv
			opts.HotKey = cfg.Redis.HotKey
		}
	}

	e := New(emb, cat, log, opts)

	// 本地有点击数据时把热度榜同步到共享榜，供空日志实例兜底
	if opts.HotStore != nil && !log.Empty() {
		if err := e.SyncPopularity(ctx, opts.HotStore, opts.HotKey); err != nil {
			logger.Warn().Err(err).Msg("failed to publish hot ranking")
		}
	}
	return e, nil
}

func buildFilters(configs []config.FilterConfig) ([]filter.Filter, error) {
	if len(configs) == 0 {
		return nil, nil
	}
	out := make([]filter.Filter, 0, len(configs))
	for _, fc := range configs {
		switch fc.Type {
		case "blacklist":
			out = append(out, filter.NewBlacklist(fc.ArticleIDs))
		case "rule":
			f, err := filter.NewRule(fc.Expr)
			if err != nil {
				return nil, fmt.Errorf("build filter rule: %w", err)
			}
			out = append(out, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", fc.Type)
		}
	}
	return out, nil
}
