// Package mycontent 是 My Content 的文章推荐引擎。
//
// 设计要点：
// - 数据一次加载、只读共享：embeddings / 目录 / 点击日志在进程内构成不可变缓存
// - 相似度优先：按用户最近历史做余弦相似度扩展，按候选累加打分；无历史时走热度/目录兜底
// - 查询期永不失败：缺数据一律降级为文档化的默认值或空结果，只有加载期才会报错
package mycontent

import (
	"github.com/rushteam/mycontent/core"
	"github.com/rushteam/mycontent/engine"
)

// 轻量 facade：便于用户直接 import "mycontent" 使用核心抽象。
type Engine = engine.Engine
type Options = engine.Options
type Provider = engine.Provider
type Recommendation = core.Recommendation
type Article = core.Article
