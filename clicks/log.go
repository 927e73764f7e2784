// Package clicks 持有 (用户, 文章) 点击日志，提供按用户的历史与全局热度统计。
// 日志允许为空：针对空日志的一切查询都降级为空结果，不产生错误。
package clicks

import "sort"

// Event 是一次点击事件。事件顺序即制品内的出现顺序，作为时间近因的替代。
type Event struct {
	UserID    int64
	ArticleID int64
}

// Count 是热度统计的一项。
type Count struct {
	ArticleID int64
	Clicks    int64
}

// Log 是只读的点击日志。构造完成后不再变更。
type Log struct {
	byUser map[int64][]int64
	counts map[int64]int64
	users  []int64
	total  int
}

// NewLog 从事件流构造日志。每个用户的历史按首次出现去重并保序。
func NewLog(events []Event) *Log {
	l := &Log{
		byUser: make(map[int64][]int64),
		counts: make(map[int64]int64),
		total:  len(events),
	}
	seen := make(map[int64]map[int64]struct{})
	for _, ev := range events {
		l.counts[ev.ArticleID]++
		if _, ok := l.byUser[ev.UserID]; !ok {
			l.users = append(l.users, ev.UserID)
			seen[ev.UserID] = make(map[int64]struct{})
		}
		if _, dup := seen[ev.UserID][ev.ArticleID]; dup {
			continue
		}
		seen[ev.UserID][ev.ArticleID] = struct{}{}
		l.byUser[ev.UserID] = append(l.byUser[ev.UserID], ev.ArticleID)
	}
	return l
}

// Empty 判断日志是否为空。
func (l *Log) Empty() bool { return l.total == 0 }

// Len 返回事件总数（去重前）。
func (l *Log) Len() int { return l.total }

// HistoryOf 返回用户点击过的文章 ID，按首次点击顺序去重。
// 未知用户返回空切片。返回内部数据，调用方不得修改。
func (l *Log) HistoryOf(userID int64) []int64 {
	return l.byUser[userID]
}

// Popularity 返回点击计数降序的前 topN 篇文章，计数相同按 ID 升序。
// 仅用于无历史用户的兜底推荐。
func (l *Log) Popularity(topN int) []Count {
	if topN <= 0 || len(l.counts) == 0 {
		return nil
	}
	out := make([]Count, 0, len(l.counts))
	for id, n := range l.counts {
		out = append(out, Count{ArticleID: id, Clicks: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Clicks != out[j].Clicks {
			return out[i].Clicks > out[j].Clicks
		}
		return out[i].ArticleID < out[j].ArticleID
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// SampleUserIDs 返回前 limit 个已知用户 ID（首次出现顺序），供演示/探索用。
// 日志为空时生成 1..min(limit,100) 的占位 ID，仅用于保持下游工具可用，
// 调用方必须把它们当作占位符而不是真实用户。
func (l *Log) SampleUserIDs(limit int) []int64 {
	if limit <= 0 {
		limit = 100
	}
	if len(l.users) == 0 {
		if limit > 100 {
			limit = 100
		}
		out := make([]int64, limit)
		for i := range out {
			out[i] = int64(i + 1)
		}
		return out
	}
	if limit > len(l.users) {
		limit = len(l.users)
	}
	return l.users[:limit]
}
