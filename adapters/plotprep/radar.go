package plotprep

import (
	"fmt"

	"crankview/domain/core"
	"crankview/domain/plot"
	"crankview/domain/project"
)

// PrepareRadar assembles radar (polar) chart data. In compare mode every
// non-baseline dataset becomes a delta-vs-baseline trace shifted outward by
// the comparison ring offset; otherwise each visible dataset becomes one
// aggregated trace. Per-dataset failures land in Errors without aborting the
// remaining datasets; a baseline failure aborts the comparison.
func PrepareRadar(state *project.State, opts Options) (*plot.RadarData, error) {
	r := resolve(state, opts)
	if r.angleCol == "" {
		return nil, fmt.Errorf("angle column is required for radar plot")
	}
	if r.metricCol == "" {
		return nil, fmt.Errorf("metric column is required for radar plot")
	}

	data := &plot.RadarData{
		ModeLabel:   r.valueMode.Label(),
		AggLabel:    r.aggMode.Label(),
		MetricLabel: r.metricCol,
		Compare:     r.compare,
	}
	order := state.OrderedSourceIDs()

	if r.compare {
		if len(r.baselineIDs) == 0 {
			return nil, fmt.Errorf("at least one baseline dataset is required for comparison")
		}
		data.BaselineLabel = baselineLabel(state, r.baselineIDs)
		bAng, bVal, err := aggregateBaselineAngleValues(state, r.baselineIDs, r)
		if err != nil {
			return nil, err
		}

		var deltas []plot.Trace
		maxAbs := 0.0
		for _, id := range order {
			if !state.ShowFlag[id] {
				continue
			}
			label := state.DisplayName(id)
			ang, delta, err := datasetDelta(state, id, r, bAng, bVal)
			if err != nil {
				data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", label, err))
				continue
			}
			if r.closeLoop && len(ang) > 2 {
				ang = append(ang, ang[0])
				delta = append(delta, delta[0])
			}
			deltas = append(deltas, plot.Trace{Label: label, X: ang, Y: delta, SourceID: id})
			if m := maxAbsFinite(delta); m > maxAbs {
				maxAbs = m
			}
		}

		if len(deltas) == 0 {
			return data, nil
		}

		offset := radarOffset(maxAbs)
		data.Offset = offset

		ring := baselineGrid()
		ringR := make([]float64, len(ring))
		for i := range ringR {
			ringR[i] = offset
		}
		data.Traces = append(data.Traces, plot.Trace{
			Label:      data.BaselineLabel,
			X:          ring,
			Y:          ringR,
			IsBaseline: true,
		})
		for _, d := range deltas {
			shifted := make([]float64, len(d.Y))
			for i, v := range d.Y {
				shifted[i] = v + offset
			}
			d.Y = shifted
			data.Traces = append(data.Traces, d)
		}
		return data, nil
	}

	for _, id := range order {
		if !state.ShowFlag[id] {
			continue
		}
		label := state.DisplayName(id)
		ang, val, err := angleValuesForPlot(state, id, r, false)
		if err != nil {
			data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		val2, err := applyValueMode(val, r.valueMode)
		if err != nil {
			data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		if r.closeLoop && len(ang) > 2 {
			ang = append(ang, ang[0])
			val2 = append(val2, val2[0])
		}
		data.Traces = append(data.Traces, plot.Trace{Label: label, X: ang, Y: val2, SourceID: id})
	}
	return data, nil
}

// datasetDelta aggregates one dataset and subtracts the baseline, keeping
// only finite pairs. With raw samples the baseline is interpolated at the
// dataset's bin angles; in original-bins mode the rows are subtracted
// positionally, which requires the row counts to match.
func datasetDelta(
	state *project.State,
	id core.SourceID,
	r resolved,
	bAng, bVal []float64,
) ([]float64, []float64, error) {
	ang, val, err := angleValuesForPlot(state, id, r, r.useBinned)
	if err != nil {
		return nil, nil, err
	}
	val2, err := applyValueMode(val, r.valueMode)
	if err != nil {
		return nil, nil, err
	}
	var baseAt []float64
	if r.useBinned {
		if len(val2) != len(bVal) {
			return nil, nil, fmt.Errorf("original binned comparison requires matching row counts with the baseline dataset")
		}
		ang = bAng
		baseAt = bVal
	} else {
		baseAt = CircularInterpBaseline(bAng, bVal, ang)
	}

	outAng := make([]float64, 0, len(ang))
	outDelta := make([]float64, 0, len(ang))
	for i := range ang {
		delta := val2[i] - baseAt[i]
		if isFinite(delta) && isFinite(ang[i]) {
			outAng = append(outAng, ang[i])
			outDelta = append(outDelta, delta)
		}
	}
	if len(outAng) == 0 {
		return nil, nil, fmt.Errorf("no valid comparison values after filtering")
	}
	return outAng, outDelta, nil
}
