package core

import "strconv"

// CategoryUnknown 是类目缺失时的哨兵值。
// 元数据中没有 category_id（或字段为空）的文章统一归入此类目。
const CategoryUnknown = "unknown"

// Article 是文章的描述信息，由 Catalog 提供。
// 字段缺失时按确定性规则补默认值（见 SynthesizeArticle），
// 调用方拿到的永远是完整记录。
type Article struct {
	ID         int64  `json:"article_id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	WordsCount int64  `json:"words_count"`
}

// SynthesizeArticle 为未知文章构造合成记录：
// - Title: "Article {id}"
// - Category: CategoryUnknown
// - WordsCount: 0
func SynthesizeArticle(id int64) Article {
	return Article{
		ID:         id,
		Title:      SynthesizeTitle(id),
		Category:   CategoryUnknown,
		WordsCount: 0,
	}
}

// SynthesizeTitle 生成缺省标题 "Article {id}"。
func SynthesizeTitle(id int64) string {
	return "Article " + strconv.FormatInt(id, 10)
}

// Recommendation 是一条推荐结果，按扁平记录序列化，
// 数值字段使用标准 JSON number，便于任意下游渲染端消费。
type Recommendation struct {
	ArticleID  int64   `json:"article_id"`
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	WordsCount int64   `json:"words_count"`
	Score      float64 `json:"recommendation_score"`
}

// NewRecommendation 由文章信息与分数构造推荐条目。
func NewRecommendation(a Article, score float64) Recommendation {
	return Recommendation{
		ArticleID:  a.ID,
		Title:      a.Title,
		Category:   a.Category,
		WordsCount: a.WordsCount,
		Score:      score,
	}
}
