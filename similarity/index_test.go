package similarity

import (
	"math"
	"testing"

	"github.com/rushteam/mycontent/embedding"
)

func newTestIndex(t *testing.T, m map[int64][]float64) *Index {
	t.Helper()
	s, err := embedding.FromMapping(m)
	if err != nil {
		t.Fatalf("FromMapping() error = %v", err)
	}
	return NewIndex(s)
}

func TestNeighborsOf(t *testing.T) {
	// 1 and 2 share a direction, 3 is orthogonal.
	idx := newTestIndex(t, map[int64][]float64{
		1: {1, 0},
		2: {1, 0},
		3: {0, 1},
	})

	got := idx.NeighborsOf(1, 2)
	if len(got) != 2 {
		t.Fatalf("NeighborsOf(1, 2) length = %d, want 2", len(got))
	}
	if got[0].ArticleID != 2 || math.Abs(got[0].Score-1.0) > 1e-12 {
		t.Errorf("first neighbor = %+v, want (2, 1.0)", got[0])
	}
	if got[1].ArticleID != 3 || math.Abs(got[1].Score) > 1e-12 {
		t.Errorf("second neighbor = %+v, want (3, 0.0)", got[1])
	}
}

func TestNeighborsOf_NeverContainsQuery(t *testing.T) {
	idx := newTestIndex(t, map[int64][]float64{
		1: {1, 0},
		2: {1, 0}, // duplicate vector: similarity 1.0 but still not the query itself
		3: {0, 1},
	})
	for _, id := range []int64{1, 2, 3} {
		for _, n := range idx.NeighborsOf(id, 10) {
			if n.ArticleID == id {
				t.Errorf("NeighborsOf(%d) contains the query item", id)
			}
		}
	}
}

func TestNeighborsOf_ScoreBoundsAndLength(t *testing.T) {
	idx := newTestIndex(t, map[int64][]float64{
		1: {1, 0},
		2: {-1, 0},
		3: {0.5, 0.5},
		4: {0, -1},
	})
	got := idx.NeighborsOf(1, 2)
	if len(got) > 2 {
		t.Fatalf("length = %d, want <= 2", len(got))
	}
	for _, n := range idx.NeighborsOf(1, 100) {
		if n.Score < -1-1e-12 || n.Score > 1+1e-12 {
			t.Errorf("score %v out of [-1, 1]", n.Score)
		}
	}
}

func TestNeighborsOf_SortedWithStableTieBreak(t *testing.T) {
	idx := newTestIndex(t, map[int64][]float64{
		1: {1, 0},
		5: {1, 0},
		3: {1, 0},
		9: {0, 1},
	})
	got := idx.NeighborsOf(1, 10)
	// 3 and 5 tie at 1.0: id ascending; 9 trails at 0.
	wantOrder := []int64{3, 5, 9}
	for i, n := range got {
		if n.ArticleID != wantOrder[i] {
			t.Fatalf("order = %v, want %v", got, wantOrder)
		}
	}
}

func TestNeighborsOf_SoftFailures(t *testing.T) {
	idx := newTestIndex(t, map[int64][]float64{1: {1, 0}, 2: {0, 1}})

	if got := idx.NeighborsOf(99, 5); got != nil {
		t.Errorf("unknown id: got %v, want nil", got)
	}
	if got := idx.NeighborsOf(1, 0); got != nil {
		t.Errorf("k=0: got %v, want nil", got)
	}
}
