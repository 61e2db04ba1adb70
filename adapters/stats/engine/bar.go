package engine

import (
	"context"
	"fmt"
	"math"

	montana "github.com/montanaflynn/stats"

	"crankview/adapters/agg"
	"crankview/domain/core"
	"crankview/domain/project"
	"crankview/domain/stats"
)

// ComputeBarStats builds the bar-mode analysis report. Centers come from the
// whole-column scalar aggregation; the whisker band is the 25th/75th
// percentile of the rolling-360°-median series, a spread over full
// revolutions rather than the binned central tendency the other modes use.
// In compare mode the pairwise section tests each dataset's rolling-median
// delta against the baseline for a drift trend over sample index; otherwise
// it correlates the rolling-median series of every dataset pair.
func (e *Engine) ComputeBarStats(ctx context.Context, state *project.State, p Params) *stats.BarStats {
	out := &stats.BarStats{}
	if p.MetricColumn == "" {
		out.Errors = append(out.Errors, "metric column is required for bar statistics")
		return out
	}

	isBaseline := make(map[core.SourceID]bool, len(p.BaselineIDs))
	if p.Compare {
		for _, id := range p.BaselineIDs {
			isBaseline[id] = true
		}
	}

	// Baselines stay in the report even when hidden: the deltas only make
	// sense next to the reference they were taken against.
	var ids []core.SourceID
	for _, id := range state.OrderedSourceIDs() {
		if state.ShowFlag[id] || isBaseline[id] {
			ids = append(ids, id)
		}
	}

	centers := make(map[core.SourceID]float64, len(ids))
	rolling := make(map[core.SourceID][]float64, len(ids))
	for _, id := range ids {
		center, err := agg.AggregateMetric(state.Loaded[id], p.MetricColumn, p.Sentinels, p.AggMode, p.Threshold, p.OutlierMethod)
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", state.DisplayName(id), err))
			continue
		}
		centers[id] = center
		series, err := agg.Rolling360MedianSeries(state.Loaded[id], p.MetricColumn, p.Sentinels, p.Threshold, p.OutlierMethod)
		if err == nil {
			rolling[id] = series
		}
	}

	// In compare mode every bar is reported relative to the baselines' mean
	// center: the baseline bar sits at zero and the others show their delta.
	refCenter := 0.0
	if p.Compare {
		sum, n := 0.0, 0
		for _, id := range p.BaselineIDs {
			if c, ok := centers[id]; ok {
				sum += c
				n++
			}
		}
		if n > 0 {
			refCenter = sum / float64(n)
		}
	}

	for _, id := range ids {
		center, ok := centers[id]
		if !ok {
			continue
		}
		w := stats.BarWhisker{SourceID: id, Label: state.DisplayName(id)}
		if p.Compare && isBaseline[id] {
			out.Whiskers = append(out.Whiskers, w)
			continue
		}
		w.Center = center - refCenter
		if series, ok := rolling[id]; ok {
			low, errLow := montana.Percentile(series, 25)
			high, errHigh := montana.Percentile(series, 75)
			if errLow == nil && errHigh == nil {
				w.Low = low - refCenter
				w.High = high - refCenter
				w.HasWhisker = true
			}
		}
		out.Whiskers = append(out.Whiskers, w)
	}

	if p.Compare {
		ref := e.baselineRollingReference(p.BaselineIDs, rolling)
		if len(ref) == 0 {
			out.Errors = append(out.Errors, "baseline produced no complete 360deg median windows")
			return out
		}
		refLabel := ""
		for i, id := range p.BaselineIDs {
			if i > 0 {
				refLabel += ", "
			}
			refLabel += state.DisplayName(id)
		}
		for _, id := range ids {
			if isBaseline[id] || !state.ShowFlag[id] {
				continue
			}
			series, ok := rolling[id]
			if !ok {
				continue
			}
			n := len(series)
			if len(ref) < n {
				n = len(ref)
			}
			idx := make([]float64, n)
			delta := make([]float64, n)
			for i := 0; i < n; i++ {
				idx[i] = float64(i)
				delta[i] = series[i] - ref[i]
			}
			st := e.PairStat(ctx, state.DisplayName(id), refLabel, idx, delta, p.Method)
			st.Summary = fmt.Sprintf("delta trend vs baseline: %s", st.Summary)
			out.Pairs = append(out.Pairs, st)
		}
		return out
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, okA := rolling[ids[i]]
			b, okB := rolling[ids[j]]
			if !okA || !okB {
				continue
			}
			out.Pairs = append(out.Pairs, e.PairStat(ctx, state.DisplayName(ids[i]), state.DisplayName(ids[j]), a, b, p.Method))
		}
	}
	return out
}

// baselineRollingReference element-wise averages the baselines' rolling
// median series; the result has the length of the longest series.
func (e *Engine) baselineRollingReference(baselineIDs []core.SourceID, rolling map[core.SourceID][]float64) []float64 {
	var series [][]float64
	for _, id := range baselineIDs {
		if s, ok := rolling[id]; ok {
			series = append(series, s)
		}
	}
	maxLen := 0
	for _, s := range series {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}
	if maxLen == 0 {
		return nil
	}
	out := make([]float64, maxLen)
	for i := 0; i < maxLen; i++ {
		sum, n := 0.0, 0
		for _, s := range series {
			if i < len(s) && isFinite(s[i]) {
				sum += s[i]
				n++
			}
		}
		if n == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(n)
		}
	}
	return out
}
