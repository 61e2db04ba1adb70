package engine

import (
	"context"
	"fmt"
	"math"

	"crankview/adapters/agg"
	"crankview/adapters/clean"
	"crankview/adapters/plotprep"
	"crankview/domain/core"
	"crankview/domain/plot"
	"crankview/domain/project"
	"crankview/domain/stats"
)

// bucketBins is how many adjacent circular bins form one analysis bucket.
// 52 bins / 4 = 13 buckets of ~27.7° each.
const bucketBins = 4

// binKey rounds a bin angle to 3 decimals so float noise from the snap
// arithmetic cannot split a bin across datasets.
func binKey(angle float64) float64 {
	return math.Round(angle*1000) / 1000
}

// ComputeRadarCartesianStats builds the angle-bucketed pairwise report for
// the binned chart modes: each dataset is reduced to its binned series, then
// every dataset pair is correlated within each contiguous 4-bin bucket, over
// the bins both datasets populated. Fewer than two usable datasets yields an
// empty report.
func (e *Engine) ComputeRadarCartesianStats(ctx context.Context, state *project.State, p Params) *stats.RadarCartesianStats {
	out := &stats.RadarCartesianStats{}
	if p.AngleColumn == "" || p.MetricColumn == "" {
		out.Errors = append(out.Errors, "angle and metric columns are required for range statistics")
		return out
	}

	type binned struct {
		id     core.SourceID
		label  string
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
		for i, b := range bins {
			series[binKey(b)] = vals[i]
		}
		sets = append(sets, binned{id: id, label: label, series: series})
	}
	if len(sets) < 2 {
		return out
	}

	bucketCount := agg.BinCount / bucketBins
	for idx := 0; idx < bucketCount; idx++ {
		rangeStat := stats.AngleRangeStat{
			Index:    idx + 1,
			StartDeg: float64(idx*bucketBins) * agg.BinWidth,
			EndDeg:   float64((idx+1)*bucketBins) * agg.BinWidth,
		}
		keys := make([]float64, bucketBins)
		for b := 0; b < bucketBins; b++ {
			keys[b] = binKey(clean.Mod360(float64(idx*bucketBins+b) * agg.BinWidth))
		}

		for i := 0; i < len(sets); i++ {
			for j := i + 1; j < len(sets); j++ {
				var xs, ys []float64
				for _, k := range keys {
					vx, okX := sets[i].series[k]
					vy, okY := sets[j].series[k]
					if okX && okY {
						xs = append(xs, vx)
						ys = append(ys, vy)
					}
				}
				rangeStat.Pairs = append(rangeStat.Pairs, e.PairStat(ctx, sets[i].label, sets[j].label, xs, ys, p.Method))
			}
		}
		out.Ranges = append(out.Ranges, rangeStat)
	}
	return out
}
