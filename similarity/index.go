// Package similarity 在向量存储上做余弦相似度的暴力全量检索。
// 该系统的数据规模不需要近似索引，O(N·D) 的精确扫描换取实现上的正确与简单。
package similarity

import (
	"math"
	"sort"

	"github.com/rushteam/mycontent/embedding"
)

// Neighbor 是一条相似文章结果。Score 为余弦相似度，范围 [-1, 1]。
type Neighbor struct {
	ArticleID int64
	Score     float64
}

// Index 是只读向量存储之上的检索视图，本身不持有数据。
type Index struct {
	store *embedding.Store
}

// NewIndex 在向量存储上构建检索视图。
func NewIndex(store *embedding.Store) *Index {
	return &Index{store: store}
}

// NeighborsOf 返回与指定文章最相似的 k 篇其他文章，按相似度降序，
// 相似度相同按 ID 升序。查询文章本身始终被排除。
//
// 软失败：文章不在向量存储中返回空结果而不是错误，
// 上层引擎要继续处理其余历史文章。
func (idx *Index) NeighborsOf(id int64, k int) []Neighbor {
	if k <= 0 {
		return nil
	}
	query, err := idx.store.VectorOf(id)
	if err != nil {
		return nil
	}

	out := make([]Neighbor, 0, idx.store.Len()-1)
	for i := 0; i < idx.store.Len(); i++ {
		candidateID, vec := idx.store.At(i)
		if candidateID == id {
			continue
		}
		out = append(out, Neighbor{
			ArticleID: candidateID,
			Score:     cosineSimilarity(query, vec),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ArticleID < out[j].ArticleID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// cosineSimilarity 计算余弦相似度。零向量视为相似度 0。
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
