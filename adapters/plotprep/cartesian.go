package plotprep

import (
	"fmt"

	"crankview/domain/plot"
	"crankview/domain/project"
)

// PrepareCartesian assembles angle-vs-value line chart data. It shares the
// binned pipeline with the radar preparer but keeps deltas unshifted; the
// close-loop option duplicates the first sample at x=360° so the line meets
// itself visually.
func PrepareCartesian(state *project.State, opts Options) (*plot.CartesianData, error) {
	r := resolve(state, opts)
	if r.angleCol == "" {
		return nil, fmt.Errorf("angle column is required for cartesian plot")
	}
	if r.metricCol == "" {
		return nil, fmt.Errorf("metric column is required for cartesian plot")
	}

	data := &plot.CartesianData{
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
				ang = append(ang, 360.0)
				delta = append(delta, delta[0])
			}
			data.Traces = append(data.Traces, plot.Trace{Label: label, X: ang, Y: delta, SourceID: id})
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
			ang = append(ang, 360.0)
			val2 = append(val2, val2[0])
		}
		data.Traces = append(data.Traces, plot.Trace{Label: label, X: ang, Y: val2, SourceID: id})
	}
	return data, nil
}
