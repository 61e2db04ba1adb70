package plotprep

import (
	"fmt"
	"math"

	"crankview/adapters/agg"
	"crankview/adapters/clean"
	"crankview/domain/core"
	"crankview/domain/plot"
	"crankview/domain/project"
)

// sampleRateHz converts raw record indices to seconds on the time axis.
const sampleRateHz = 100.0

// timeSeriesValues reduces one dataset to its sample-order series under the
// active aggregation: per-stroke means, rolling full-revolution means, or the
// raw cleaned samples. Positions are meaningful, so raw NaNs are kept in
// place rather than compacted.
func timeSeriesValues(state *project.State, id core.SourceID, r resolved) ([]float64, error) {
	table := state.Loaded[id]
	switch r.aggMode {
	case plot.AggPedalStroke:
		_, vals, err := agg.PedalStrokeSeries(table, r.metricCol, r.sentinels, r.threshold, r.method)
		return vals, err
	case plot.AggRoll360:
		_, vals, err := agg.Rolling360Series(table, r.metricCol, r.sentinels, r.threshold, r.method)
		return vals, err
	}

	raw, err := table.Column(r.metricCol)
	if err != nil {
		return nil, fmt.Errorf("metric column '%s' not found", r.metricCol)
	}
	vals := clean.Apply(clean.Sanitize(raw, r.sentinels), r.threshold, r.method, nil, agg.BinCount)
	if len(finiteValues(vals)) == 0 {
		return nil, fmt.Errorf("no valid values after filtering")
	}
	return vals, nil
}

// timeSeriesX maps a series position to its x coordinate for the mode: stroke
// numbers start at 1, rolling windows are indexed by starting record, raw
// samples sit on the recording clock.
func timeSeriesX(mode plot.AggMode, i int) float64 {
	switch mode {
	case plot.AggPedalStroke:
		return float64(i + 1)
	case plot.AggRoll360:
		return float64(i)
	}
	return float64(i) / sampleRateHz
}

func timeSeriesXLabel(mode plot.AggMode) string {
	switch mode {
	case plot.AggPedalStroke:
		return "Pedal stroke #"
	case plot.AggRoll360:
		return "Record #"
	}
	return "Time (s)"
}

// PrepareTimeSeries assembles sample-order chart data. In compare mode each
// dataset's series and the averaged baseline series are truncated to their
// common length before subtracting, since sample positions rather than angles
// are what align here.
func PrepareTimeSeries(state *project.State, opts Options) (*plot.TimeSeriesData, error) {
	r := resolve(state, opts)
	if r.metricCol == "" {
		return nil, fmt.Errorf("metric column is required for time series plot")
	}

	data := &plot.TimeSeriesData{
		ModeLabel:   r.valueMode.Label(),
		MetricLabel: r.metricCol,
		Compare:     r.compare,
		XLabel:      timeSeriesXLabel(r.aggMode),
	}
	order := state.OrderedSourceIDs()

	var baseVals []float64
	if r.compare {
		if len(r.baselineIDs) == 0 {
			return nil, fmt.Errorf("at least one baseline dataset is required for comparison")
		}
		data.BaselineLabel = baselineLabel(state, r.baselineIDs)
		var err error
		baseVals, err = aggregateTimeSeriesBaseline(state, r.baselineIDs, r)
		if err != nil {
			return nil, err
		}
	}

	for _, id := range order {
		if !state.ShowFlag[id] {
			continue
		}
		label := state.DisplayName(id)
		vals, err := timeSeriesValues(state, id, r)
		if err != nil {
			data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		vals2, err := applyValueMode(vals, r.valueMode)
		if err != nil {
			data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", label, err))
			continue
		}

		n := len(vals2)
		if r.compare && len(baseVals) < n {
			n = len(baseVals)
		}
		x := make([]float64, 0, n)
		y := make([]float64, 0, n)
		for i := 0; i < n; i++ {
			v := vals2[i]
			if r.compare {
				v -= baseVals[i]
			}
			if !isFinite(v) {
				continue
			}
			x = append(x, timeSeriesX(r.aggMode, i))
			y = append(y, v)
		}
		if len(x) == 0 {
			data.Errors = append(data.Errors, fmt.Sprintf("%s: no valid values after filtering", label))
			continue
		}
		if last := x[len(x)-1]; last > data.MaxX {
			data.MaxX = last
		}
		data.Traces = append(data.Traces, plot.Trace{Label: label, X: x, Y: y, SourceID: id})
	}
	return data, nil
}

func finiteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
