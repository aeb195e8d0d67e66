// Package sweep searches the growth parameter space for configurations
// that best match a target metric, by exhaustive grid evaluation.
package sweep

import (
	"context"
	"math"

	"github.com/san-kum/biomorph/internal/morph"
)

// Evaluate runs one generation with the given parameters and returns its
// exported metrics.
type Evaluate func(ctx context.Context, params morph.Parameters) (map[string]float64, error)

// GridSearch enumerates the cartesian product of per-knob value ranges.
// Knob names match the parameter fields: density, complexity,
// connectivity, growth_rate.
type GridSearch struct {
	knobs  []string
	ranges [][]float64
}

func NewGridSearch(knobs []string, ranges [][]float64) *GridSearch {
	return &GridSearch{knobs: knobs, ranges: ranges}
}

// Search evaluates every grid point and returns the knob assignment whose
// named metric lands closest to target, along with the achieved value.
// Grid points that fail to evaluate are skipped.
func (g *GridSearch) Search(ctx context.Context, base morph.Parameters,
	eval Evaluate, metricName string, target float64) (map[string]float64, float64, error) {

	bestDist := math.Inf(1)
	bestVal := math.NaN()
	var bestKnobs map[string]float64

	var walk func(depth int, current map[string]float64) error
	walk = func(depth int, current map[string]float64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if depth == len(g.knobs) {
			params := apply(base, current)
			metrics, err := eval(ctx, params)
			if err != nil {
				return nil
			}
			val, ok := metrics[metricName]
			if !ok {
				return nil
			}
			if d := math.Abs(val - target); d < bestDist {
				bestDist = d
				bestVal = val
				bestKnobs = make(map[string]float64, len(current))
				for k, v := range current {
					bestKnobs[k] = v
				}
			}
			return nil
		}
		for _, v := range g.ranges[depth] {
			current[g.knobs[depth]] = v
			if err := walk(depth+1, current); err != nil {
				return err
			}
		}
		delete(current, g.knobs[depth])
		return nil
	}

	if err := walk(0, make(map[string]float64)); err != nil {
		return nil, 0, err
	}
	return bestKnobs, bestVal, nil
}

// apply overlays knob assignments onto a base parameter set.
func apply(base morph.Parameters, knobs map[string]float64) morph.Parameters {
	p := base
	for name, v := range knobs {
		switch name {
		case "density":
			p.Density = v
		case "complexity":
			p.Complexity = v
		case "connectivity":
			p.Connectivity = v
		case "growth_rate":
			p.GrowthRate = v
		case "adaptation_rate":
			p.AdaptationRate = v
		}
	}
	return p
}

// Steps builds an inclusive evenly spaced range for one knob.
func Steps(from, to float64, n int) []float64 {
	if n < 2 {
		return []float64{from}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return out
}
