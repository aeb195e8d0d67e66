package sweep

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/biomorph/internal/morph"
)

func TestSteps(t *testing.T) {
	got := Steps(0.1, 0.9, 5)
	want := []float64{0.1, 0.3, 0.5, 0.7, 0.9}
	if len(got) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("step %d: expected %g, got %g", i, want[i], got[i])
		}
	}

	if got := Steps(0.5, 0.9, 1); len(got) != 1 || got[0] != 0.5 {
		t.Errorf("single step must be the lower bound, got %v", got)
	}
}

func TestSearchFindsClosest(t *testing.T) {
	// the fake metric is just the density knob itself, so the best grid
	// point is the one nearest the target
	eval := func(ctx context.Context, p morph.Parameters) (map[string]float64, error) {
		return map[string]float64{"density": p.Density}, nil
	}

	search := NewGridSearch([]string{"density"}, [][]float64{Steps(0.1, 0.9, 5)})
	knobs, val, err := search.Search(context.Background(), morph.Parameters{}, eval, "density", 0.42)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if knobs["density"] != 0.5 {
		t.Errorf("expected density 0.5, got %g", knobs["density"])
	}
	if val != 0.5 {
		t.Errorf("expected achieved value 0.5, got %g", val)
	}
}

func TestSearchEnumeratesFullGrid(t *testing.T) {
	count := 0
	eval := func(ctx context.Context, p morph.Parameters) (map[string]float64, error) {
		count++
		return map[string]float64{"m": p.Density + p.Connectivity}, nil
	}

	search := NewGridSearch(
		[]string{"density", "connectivity"},
		[][]float64{Steps(0, 1, 3), Steps(0, 1, 4)},
	)
	if _, _, err := search.Search(context.Background(), morph.Parameters{}, eval, "m", 0); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if count != 12 {
		t.Errorf("expected 12 evaluations, got %d", count)
	}
}

func TestSearchHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eval := func(ctx context.Context, p morph.Parameters) (map[string]float64, error) {
		t.Error("cancelled search must not evaluate")
		return nil, nil
	}
	search := NewGridSearch([]string{"density"}, [][]float64{Steps(0, 1, 3)})
	if _, _, err := search.Search(ctx, morph.Parameters{}, eval, "m", 0); err == nil {
		t.Error("expected cancellation error")
	}
}
