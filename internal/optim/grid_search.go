// Package optim searches gain space for the best scoring controller.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/sim"
)

var ErrEmptyGrid = errors.New("optim: empty search grid")

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Candidate is one evaluated grid point.
type Candidate struct {
	Params  map[string]float64
	Score   float64
	Metrics map[string]float64
}

// Points returns the cartesian product of all ranges.
func (g *GridSearch) Points() []map[string]float64 {
	if len(g.paramNames) == 0 {
		return nil
	}
	points := []map[string]float64{{}}
	for i, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(points)*len(g.ranges[i]))
		for _, p := range points {
			for _, val := range g.ranges[i] {
				np := make(map[string]float64, len(p)+1)
				for k, v := range p {
					np[k] = v
				}
				np[name] = val
				next = append(next, np)
			}
		}
		points = next
	}
	return points
}

// Search runs base with the gains of every grid point and ranks the points
// by metricName, lowest first. A settling tick of -1 (never settled) ranks
// last.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) ([]Candidate, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}
	points := g.Points()
	if len(points) == 0 {
		return nil, ErrEmptyGrid
	}

	ensemble := sim.NewEnsemble()
	for _, p := range points {
		cfg := base.Clone()
		for name, val := range p {
			if err := cfg.Gains.SetParam(name, val); err != nil {
				return nil, err
			}
		}
		s, err := sim.FromConfig(cfg)
		if err != nil {
			return nil, err
		}
		ensemble.Add(sim.Job{
			Simulator: s,
			Ticks:     cfg.Ticks,
			Metrics:   func() []sim.Metric { return metrics.Default(cfg) },
		})
	}

	results, err := ensemble.Run(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(points))
	for i, res := range results {
		val, ok := res.Metrics[metricName]
		if !ok {
			return nil, fmt.Errorf("optim: unknown metric %q", metricName)
		}
		candidates[i] = Candidate{Params: points[i], Score: score(metricName, val), Metrics: res.Metrics}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})
	return candidates, nil
}

func score(metricName string, val float64) float64 {
	if metricName == metrics.NameSettlingTick && val < 0 {
		return math.Inf(1)
	}
	return val
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
