package filter

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/mycontent/core"
)

func rec(id int64, category string, words int64, score float64) core.Recommendation {
	return core.Recommendation{
		ArticleID:  id,
		Title:      core.SynthesizeTitle(id),
		Category:   category,
		WordsCount: words,
		Score:      score,
	}
}

func TestBlacklist(t *testing.T) {
	f := NewBlacklist([]int64{2, 4})

	tests := []struct {
		id   int64
		want bool
	}{
		{id: 1, want: true},
		{id: 2, want: false},
		{id: 4, want: false},
		{id: 5, want: true},
	}
	for _, tt := range tests {
		got, err := f.Allow(context.Background(), rec(tt.id, "unknown", 0, 1))
		if err != nil {
			t.Fatalf("Allow(%d) error = %v", tt.id, err)
		}
		if got != tt.want {
			t.Errorf("Allow(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestRuleFilter(t *testing.T) {
	tests := []struct {
		name string
		expr string
		rec  core.Recommendation
		want bool
	}{
		{
			name: "words threshold keeps long article",
			expr: "article.words_count > 100",
			rec:  rec(1, "9", 500, 0.8),
			want: true,
		},
		{
			name: "words threshold drops short article",
			expr: "article.words_count > 100",
			rec:  rec(1, "9", 10, 0.8),
			want: false,
		},
		{
			name: "category sentinel",
			expr: `article.category != "unknown"`,
			rec:  rec(1, "unknown", 100, 0.8),
			want: false,
		},
		{
			name: "score and attribute combined",
			expr: `score > 0.5 && article.category == "9"`,
			rec:  rec(1, "9", 100, 0.8),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewRule(tt.expr)
			if err != nil {
				t.Fatalf("NewRule(%q) error = %v", tt.expr, err)
			}
			got, err := f.Allow(context.Background(), tt.rec)
			if err != nil {
				t.Fatalf("Allow() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Allow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRule_CompileError(t *testing.T) {
	if _, err := NewRule("article.words_count >"); err == nil {
		t.Error("NewRule() with broken expression should fail")
	}
}

func TestApply_KeepsCandidateOnRuleError(t *testing.T) {
	// rule returns a non-boolean: evaluation error, candidate is kept
	bad, err := NewRule("article.words_count")
	if err != nil {
		t.Skipf("expression rejected at compile time: %v", err)
	}
	in := []core.Recommendation{rec(1, "9", 10, 0.5)}
	out := Apply(context.Background(), []Filter{bad}, in, zerolog.Nop())
	if len(out) != 1 {
		t.Errorf("Apply() dropped candidate on filter error, got %d entries", len(out))
	}
}

func TestApply_ANDSemantics(t *testing.T) {
	in := []core.Recommendation{
		rec(1, "9", 500, 0.9),
		rec(2, "9", 500, 0.9), // blacklisted
		rec(3, "9", 10, 0.9),  // too short
	}
	long, err := NewRule("article.words_count > 100")
	if err != nil {
		t.Fatal(err)
	}
	out := Apply(context.Background(), []Filter{NewBlacklist([]int64{2}), long}, in, zerolog.Nop())
	if len(out) != 1 || out[0].ArticleID != 1 {
		t.Errorf("Apply() = %+v, want only article 1", out)
	}
}
