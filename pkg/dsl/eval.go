// Package dsl 提供基于 CEL (Common Expression Language) 的规则求值，
// 用于对推荐候选做声明式的保留/剔除判断。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，声明规则可见的变量。
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("article", cel.DynType),
		cel.Variable("score", cel.DoubleType),
	)
}

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	if celEnv == nil && err == nil {
		err = fmt.Errorf("cel environment not initialized")
	}
	return celEnv, err
}

// Rule 是一条编译后的布尔规则，可对多个候选反复求值。
//
// 表达式语法（CEL 标准语法），可见变量：
//   - article: 候选文章，字段 article_id / title / category / words_count
//   - score:   候选的推荐分数
//
// 示例：
//   - `article.words_count > 100`
//   - `article.category != "unknown" && score > 0.5`
type Rule struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。表达式必须返回布尔值；编译失败立即报错。
func Compile(expr string) (*Rule, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Rule{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式文本。
func (r *Rule) Expr() string { return r.expr }

// Evaluate 对一个候选求值，返回布尔结果。
func (r *Rule) Evaluate(article map[string]any, score float64) (bool, error) {
	out, _, err := r.prg.Eval(map[string]any{
		"article": article,
		"score":   score,
	})
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", r.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", r.expr, out.Value())
	}
	return result, nil
}
