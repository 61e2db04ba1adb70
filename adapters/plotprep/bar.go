package plotprep

import (
	"fmt"

	"crankview/adapters/agg"
	"crankview/domain/core"
	"crankview/domain/plot"
	"crankview/domain/project"
)

// PrepareBar reduces each visible dataset to one aggregate scalar. Percent of
// dataset mean is meaningless for a single scalar per dataset (every bar would
// read 100), so that mode is rejected outright.
func PrepareBar(state *project.State, opts Options) (*plot.BarData, error) {
	r := resolve(state, opts)
	if r.metricCol == "" {
		return nil, fmt.Errorf("metric column is required for bar plot")
	}
	if r.valueMode == plot.ValuePercentMean {
		return nil, fmt.Errorf("bar plot does not support %% of dataset mean")
	}

	data := &plot.BarData{
		ModeLabel:   r.valueMode.Label(),
		AggLabel:    r.aggMode.Label(),
		MetricLabel: r.metricCol,
		Compare:     r.compare,
	}
	order := state.OrderedSourceIDs()

	baseValue := 0.0
	if r.compare {
		if len(r.baselineIDs) == 0 {
			return nil, fmt.Errorf("at least one baseline dataset is required for comparison")
		}
		data.BaselineLabel = baselineLabel(state, r.baselineIDs)
		var err error
		baseValue, err = aggregateBaselineScalar(state, r.baselineIDs, r)
		if err != nil {
			return nil, err
		}
	}

	for _, id := range order {
		if !state.ShowFlag[id] {
			continue
		}
		label := state.DisplayName(id)
		table, err := plotSource(state, id, r)
		if err != nil {
			data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		v, err := agg.AggregateMetric(table, r.metricCol, r.sentinels, r.aggMode, r.threshold, r.method)
		if err != nil {
			data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		if !isFinite(v) {
			data.Errors = append(data.Errors, fmt.Sprintf("%s: no valid values after filtering", label))
			continue
		}
		if r.compare {
			v -= baseValue
		}
		data.Labels = append(data.Labels, label)
		data.Values = append(data.Values, v)
	}
	return data, nil
}

// aggregateBaselineScalar averages the per-baseline scalar aggregates into
// the single reference value bar deltas are taken against. As everywhere
// else, a baseline failure is fatal for the comparison.
func aggregateBaselineScalar(state *project.State, baselineIDs []core.SourceID, r resolved) (float64, error) {
	sum, n := 0.0, 0
	for _, id := range baselineIDs {
		table, err := plotSource(state, id, r)
		if err != nil {
			return 0, fmt.Errorf("baseline %s: %w", state.DisplayName(id), err)
		}
		v, err := agg.AggregateMetric(table, r.metricCol, r.sentinels, r.aggMode, r.threshold, r.method)
		if err != nil {
			return 0, fmt.Errorf("baseline %s: %w", state.DisplayName(id), err)
		}
		if !isFinite(v) {
			return 0, fmt.Errorf("baseline %s: no valid values after filtering", state.DisplayName(id))
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, fmt.Errorf("at least one baseline dataset is required for comparison")
	}
	return sum / float64(n), nil
}
