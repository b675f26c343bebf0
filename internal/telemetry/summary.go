package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a batch of runs.
type Summary struct {
	Runs     int
	Deaths   int
	Score    Spread
	Distance Spread
	Items    Spread
}

// Spread describes one metric across runs.
type Spread struct {
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	Max    float64
}

// Summarize computes per-metric spreads. An empty batch yields a zero Summary.
func Summarize(runs []RunSummary) Summary {
	sum := Summary{Runs: len(runs)}
	if len(runs) == 0 {
		return sum
	}

	scores := make([]float64, len(runs))
	distances := make([]float64, len(runs))
	items := make([]float64, len(runs))
	for i, r := range runs {
		scores[i] = float64(r.Score)
		distances[i] = r.Distance
		items[i] = float64(r.Items)
		if r.Outcome == OutcomeDied {
			sum.Deaths++
		}
	}

	sum.Score = spread(scores)
	sum.Distance = spread(distances)
	sum.Items = spread(items)
	return sum
}

func spread(xs []float64) Spread {
	var s Spread
	if len(xs) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	} else {
		s.Mean = xs[0]
	}
	s.Min = floats.Min(xs)
	s.Max = floats.Max(xs)

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return s
}
