package engine

import (
	"context"
	"fmt"

	"crankview/adapters/agg"
	"crankview/adapters/plotprep"
	"crankview/domain/core"
	"crankview/domain/plot"
	"crankview/domain/project"
	"crankview/domain/stats"
)

// ComputeGlobalStats correlates every visible dataset pair over their full
// binned series, matched on the bins both datasets populated.
func (e *Engine) ComputeGlobalStats(ctx context.Context, state *project.State, p Params) *stats.GlobalStats {
	out := &stats.GlobalStats{}
	if p.AngleColumn == "" || p.MetricColumn == "" {
		out.Errors = append(out.Errors, "angle and metric columns are required for pairwise statistics")
		return out
	}

	type binned struct {
		id     core.SourceID
		label  string
		keys   []float64
		series map[float64]float64
	}
	var sets []binned
	for _, id := range state.OrderedSourceIDs() {
		if !state.ShowFlag[id] {
			continue
		}
		label := state.DisplayName(id)
		bins, vals, err := agg.PrepareAngleValueAgg(state.Loaded[id], p.AngleColumn, p.MetricColumn, p.Sentinels, p.AggMode, p.Threshold, p.OutlierMethod)
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		if p.ValueMode == plot.ValuePercentMean {
			vals, err = plotprep.ToPercentOfMean(vals)
			if err != nil {
				out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", label, err))
				continue
			}
		}
		series := make(map[float64]float64, len(bins))
		keys := make([]float64, len(bins))
		for i, b := range bins {
			keys[i] = binKey(b)
			series[keys[i]] = vals[i]
		}
		sets = append(sets, binned{id: id, label: label, keys: keys, series: series})
	}
	if len(sets) < 2 {
		return out
	}

	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			var xs, ys []float64
			for _, k := range sets[i].keys {
				vy, ok := sets[j].series[k]
				if !ok {
					continue
				}
				xs = append(xs, sets[i].series[k])
				ys = append(ys, vy)
			}
			out.Pairs = append(out.Pairs, e.PairStat(ctx, sets[i].label, sets[j].label, xs, ys, p.Method))
		}
	}
	return out
}
