package engine

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/rushteam/mycontent/catalog"
	"github.com/rushteam/mycontent/clicks"
	"github.com/rushteam/mycontent/embedding"
	"github.com/rushteam/mycontent/filter"
	"github.com/rushteam/mycontent/store"
)

// testEngine wires an engine from in-memory parts.
func testEngine(t *testing.T, vectors map[int64][]float64, entries []catalog.Entry, events []clicks.Event, opts Options) *Engine {
	t.Helper()
	emb, err := embedding.FromMapping(vectors)
	if err != nil {
		t.Fatalf("FromMapping() error = %v", err)
	}
	return New(emb, catalog.New(entries), clicks.NewLog(events), opts)
}

// sharedDirection returns a unit vector whose cosine against {1,0} is exactly sim.
func sharedDirection(sim float64) []float64 {
	return []float64{sim, math.Sqrt(1 - sim*sim)}
}

func TestRecommend_CatalogFallbackOnEmptyLog(t *testing.T) {
	entries := []catalog.Entry{{ID: 10}, {ID: 20}, {ID: 30}, {ID: 40}, {ID: 50}}
	e := testEngine(t, map[int64][]float64{10: {1, 0}}, entries, nil, Options{})

	got := e.Recommend(context.Background(), 12345, 3)
	if len(got) != 3 {
		t.Fatalf("length = %d, want 3", len(got))
	}
	wantIDs := []int64{10, 20, 30}
	wantScores := []float64{3, 2, 1}
	for i, rec := range got {
		if rec.ArticleID != wantIDs[i] || rec.Score != wantScores[i] {
			t.Errorf("entry %d = (%d, %v), want (%d, %v)", i, rec.ArticleID, rec.Score, wantIDs[i], wantScores[i])
		}
	}
}

func TestRecommend_PopularityFallback(t *testing.T) {
	events := []clicks.Event{
		{UserID: 1, ArticleID: 10},
		{UserID: 2, ArticleID: 10},
		{UserID: 1, ArticleID: 20},
	}
	e := testEngine(t, map[int64][]float64{10: {1, 0}}, []catalog.Entry{{ID: 10}, {ID: 20}}, events, Options{})

	// user 999 has no history: popularity ranking with click counts as scores
	got := e.Recommend(context.Background(), 999, 5)
	if len(got) != 2 {
		t.Fatalf("length = %d, want 2", len(got))
	}
	if got[0].ArticleID != 10 || got[0].Score != 2 {
		t.Errorf("top entry = (%d, %v), want (10, 2)", got[0].ArticleID, got[0].Score)
	}
	if got[1].ArticleID != 20 || got[1].Score != 1 {
		t.Errorf("second entry = (%d, %v), want (20, 1)", got[1].ArticleID, got[1].Score)
	}
}

func TestRecommend_SimilarityPath(t *testing.T) {
	vectors := map[int64][]float64{
		1: {1, 0},
		2: sharedDirection(0.9),
		3: {0, 1},
	}
	entries := []catalog.Entry{
		{ID: 1, Title: "Seed"},
		{ID: 2, Title: "Close"},
		{ID: 3, Title: "Far"},
	}
	e := testEngine(t, vectors, entries, []clicks.Event{{UserID: 42, ArticleID: 1}}, Options{})

	got := e.Recommend(context.Background(), 42, 1)
	if len(got) != 1 {
		t.Fatalf("length = %d, want 1", len(got))
	}
	if got[0].ArticleID != 2 {
		t.Fatalf("recommended article = %d, want 2", got[0].ArticleID)
	}
	if math.Abs(got[0].Score-0.9) > 1e-9 {
		t.Errorf("score = %v, want 0.9", got[0].Score)
	}
	if got[0].Title != "Close" {
		t.Errorf("title = %q, want enriched %q", got[0].Title, "Close")
	}
}

func TestRecommend_ExcludesFullHistory(t *testing.T) {
	vectors := map[int64][]float64{
		1: {1, 0},
		2: sharedDirection(0.95), // top neighbor of 1, but already read
		3: sharedDirection(0.5),
		4: {0, 1},
	}
	history := []clicks.Event{
		{UserID: 42, ArticleID: 1},
		{UserID: 42, ArticleID: 2},
	}
	e := testEngine(t, vectors, []catalog.Entry{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}, history, Options{})

	got := e.Recommend(context.Background(), 42, 10)
	for _, rec := range got {
		if rec.ArticleID == 1 || rec.ArticleID == 2 {
			t.Errorf("recommended already-read article %d", rec.ArticleID)
		}
	}
	if len(got) == 0 {
		t.Fatal("no recommendations at all")
	}
}

func TestRecommend_SeedLimit(t *testing.T) {
	vectors := map[int64][]float64{
		1: {1, 0},
		2: {1, 0}, // neighbor of 1
		3: {0, 1},
		4: {0, 1}, // neighbor of 3 only
	}
	history := []clicks.Event{
		{UserID: 42, ArticleID: 1},
		{UserID: 42, ArticleID: 3},
	}
	e := testEngine(t, vectors, []catalog.Entry{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}},
		history, Options{SeedLimit: 1, NeighborK: 1})

	// only article 1 seeds the expansion, so 4 must not appear
	got := e.Recommend(context.Background(), 42, 10)
	if len(got) != 1 || got[0].ArticleID != 2 {
		t.Errorf("Recommend() = %+v, want single entry for article 2", got)
	}
}

func TestRecommend_SortedBoundedIdempotent(t *testing.T) {
	vectors := map[int64][]float64{
		1: {1, 0},
		2: sharedDirection(0.9),
		3: sharedDirection(0.7),
		4: sharedDirection(0.5),
		5: sharedDirection(0.3),
	}
	e := testEngine(t, vectors, []catalog.Entry{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}},
		[]clicks.Event{{UserID: 42, ArticleID: 1}}, Options{})

	first := e.Recommend(context.Background(), 42, 3)
	if len(first) > 3 {
		t.Fatalf("length = %d, want <= 3", len(first))
	}
	for i := 1; i < len(first); i++ {
		if first[i].Score > first[i-1].Score {
			t.Errorf("not sorted descending at %d: %v > %v", i, first[i].Score, first[i-1].Score)
		}
	}

	second := e.Recommend(context.Background(), 42, 3)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("successive calls differ:\n%+v\n%+v", first, second)
	}
}

func TestRecommend_NeverPads(t *testing.T) {
	vectors := map[int64][]float64{
		1: {1, 0},
		2: {0, 1},
	}
	e := testEngine(t, vectors, []catalog.Entry{{ID: 1}, {ID: 2}},
		[]clicks.Event{{UserID: 42, ArticleID: 1}}, Options{})

	// only one possible candidate exists; asking for 10 returns 1
	got := e.Recommend(context.Background(), 42, 10)
	if len(got) != 1 {
		t.Errorf("length = %d, want 1", len(got))
	}
}

func TestRecommend_Filters(t *testing.T) {
	vectors := map[int64][]float64{
		1: {1, 0},
		2: sharedDirection(0.9),
		3: sharedDirection(0.7),
	}
	e := testEngine(t, vectors, []catalog.Entry{{ID: 1}, {ID: 2}, {ID: 3}},
		[]clicks.Event{{UserID: 42, ArticleID: 1}},
		Options{Filters: []filter.Filter{filter.NewBlacklist([]int64{2})}})

	got := e.Recommend(context.Background(), 42, 1)
	if len(got) != 1 || got[0].ArticleID != 3 {
		t.Errorf("Recommend() = %+v, want blacklisted 2 replaced by 3", got)
	}
}

func TestRecommend_SharedHotRanking(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	// instance A has click data and publishes its ranking
	events := []clicks.Event{
		{UserID: 1, ArticleID: 10},
		{UserID: 2, ArticleID: 10},
		{UserID: 1, ArticleID: 20},
	}
	a := testEngine(t, map[int64][]float64{10: {1, 0}}, []catalog.Entry{{ID: 10}, {ID: 20}}, events, Options{})
	if err := a.SyncPopularity(ctx, kv, "hot:test"); err != nil {
		t.Fatalf("SyncPopularity() error = %v", err)
	}

	// instance B has an empty log and falls back to the shared ranking
	b := testEngine(t, map[int64][]float64{10: {1, 0}}, []catalog.Entry{{ID: 10}, {ID: 20}}, nil,
		Options{HotStore: kv, HotKey: "hot:test"})

	got := b.Recommend(ctx, 999, 2)
	if len(got) != 2 || got[0].ArticleID != 10 || got[0].Score != 2 {
		t.Errorf("Recommend() = %+v, want shared ranking led by (10, 2)", got)
	}
}

func TestRecommend_DefaultTopN(t *testing.T) {
	entries := make([]catalog.Entry, 10)
	for i := range entries {
		entries[i] = catalog.Entry{ID: int64(i + 1)}
	}
	e := testEngine(t, map[int64][]float64{1: {1, 0}}, entries, nil, Options{})

	if got := e.Recommend(context.Background(), 1, 0); len(got) != DefaultTopN {
		t.Errorf("length = %d, want default %d", len(got), DefaultTopN)
	}
}
