// Package embedding 持有每篇文章的稠密向量，以及文章 ID 到矩阵行号的稳定映射。
//
// 三种制品形态在加载时一次性归一化为统一的 (有序 ID 列表, 向量矩阵) 表示：
//   - mapping: {article_id: vector}
//   - pair:    (article_ids, embeddings) 按位置对齐
//   - matrix:  裸矩阵，按目录顺序取前 N 个文章 ID 位置赋值
//
// 形态分发只发生在构造期（Shape 记录最终采用的形态），查询路径不做任何类型判断。
// 加载是 fail-fast 的：任何无法识别或损坏的形态都会中止初始化，不会留下半可用的存储。
package embedding

import (
	"fmt"
	"sort"

	"github.com/rushteam/mycontent/core"
)

// Shape 标记制品被识别为哪种形态。
type Shape string

const (
	ShapeMapping Shape = "mapping" // {article_id: vector} 映射
	ShapePair    Shape = "pair"    // (article_ids, embeddings) 对
	ShapeMatrix  Shape = "matrix"  // 裸矩阵 + 目录顺序 ID
)

// Store 是只读的向量存储。构造完成后不再变更，可被任意多请求并发读取。
type Store struct {
	ids     []int64
	index   map[int64]int
	vectors [][]float64
	dim     int
	shape   Shape
}

// FromMapping 从 {article_id: vector} 映射构造。
// 映射本身无序，ID 按升序排列以保证确定性。
func FromMapping(m map[int64][]float64) (*Store, error) {
	if len(m) == 0 {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed, "embedding: mapping artifact is empty")
	}
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	vectors := make([][]float64, len(ids))
	for i, id := range ids {
		vectors[i] = m[id]
	}
	return newStore(ids, vectors, ShapeMapping)
}

// FromPair 从按位置对齐的 (article_ids, embeddings) 对构造。
func FromPair(ids []int64, vectors [][]float64) (*Store, error) {
	if len(ids) != len(vectors) {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed,
			fmt.Sprintf("embedding: pair artifact misaligned: %d ids vs %d vectors", len(ids), len(vectors)))
	}
	return newStore(append([]int64(nil), ids...), vectors, ShapePair)
}

// FromMatrix 从不带 ID 的裸矩阵构造，按目录顺序把前 N 个文章 ID 位置赋给矩阵行。
func FromMatrix(vectors [][]float64, catalogIDs []int64) (*Store, error) {
	if len(catalogIDs) < len(vectors) {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed,
			fmt.Sprintf("embedding: matrix has %d rows but catalog only has %d ids", len(vectors), len(catalogIDs)))
	}
	ids := append([]int64(nil), catalogIDs[:len(vectors)]...)
	return newStore(ids, vectors, ShapeMatrix)
}

func newStore(ids []int64, vectors [][]float64, shape Shape) (*Store, error) {
	if len(vectors) == 0 {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed, "embedding: artifact has no vectors")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed, "embedding: zero-dimension vector at row 0")
	}
	index := make(map[int64]int, len(ids))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed,
				fmt.Sprintf("embedding: ragged matrix: row %d has dim %d, expected %d", i, len(v), dim))
		}
		id := ids[i]
		if _, dup := index[id]; dup {
			return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed,
				fmt.Sprintf("embedding: duplicate article id %d", id))
		}
		index[id] = i
	}
	return &Store{ids: ids, index: index, vectors: vectors, dim: dim, shape: shape}, nil
}

// VectorOf 返回文章的向量；文章不存在时返回 NOT_FOUND。
// 返回的切片为内部数据，调用方不得修改。
func (s *Store) VectorOf(id int64) ([]float64, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeNotFound,
			fmt.Sprintf("embedding: article %d not found", id))
	}
	return s.vectors[i], nil
}

// Contains 判断文章是否在存储中。
func (s *Store) Contains(id int64) bool {
	_, ok := s.index[id]
	return ok
}

// IDs 返回有序的文章 ID 列表（内部数据，只读）。
func (s *Store) IDs() []int64 { return s.ids }

// At 返回第 i 行的 (文章 ID, 向量)，供相似度索引做全量扫描。
func (s *Store) At(i int) (int64, []float64) { return s.ids[i], s.vectors[i] }

// Len 返回文章数。
func (s *Store) Len() int { return len(s.ids) }

// Dimension 返回向量维度 D。
func (s *Store) Dimension() int { return s.dim }

// Shape 返回加载时识别出的制品形态。
func (s *Store) Shape() Shape { return s.shape }
