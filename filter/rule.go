package filter

import (
	"context"

	"github.com/rushteam/mycontent/core"
	"github.com/rushteam/mycontent/pkg/dsl"
)

// RuleFilter 按 CEL 表达式保留候选，表达式在构造时编译一次。
//
// 示例：
//   - `article.words_count > 0`          只保留有正文的文章
//   - `article.category != "unknown"`    剔除无类目文章
type RuleFilter struct {
	rule *dsl.Rule
}

// NewRule 编译表达式并创建规则过滤器。表达式非法时立即报错。
func NewRule(expr string) (*RuleFilter, error) {
	rule, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{rule: rule}, nil
}

func (f *RuleFilter) Name() string { return "filter.rule(" + f.rule.Expr() + ")" }

func (f *RuleFilter) Allow(_ context.Context, rec core.Recommendation) (bool, error) {
	return f.rule.Evaluate(map[string]any{
		"article_id":  rec.ArticleID,
		"title":       rec.Title,
		"category":    rec.Category,
		"words_count": rec.WordsCount,
	}, rec.Score)
}

var _ Filter = (*RuleFilter)(nil)
