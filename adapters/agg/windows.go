package agg

import (
	"fmt"
	"math"

	montana "github.com/montanaflynn/stats"

	"crankview/adapters/clean"
	"crankview/domain/dataset"
	"crankview/domain/plot"
)

// PrimaryAngleColumn is the angle source for the window-detection
// aggregations. Both algorithms walk samples in original row order on this
// column's wrapped values.
const PrimaryAngleColumn = "leftPedalCrankAngle"

// windowRows pulls the wrapped primary angle and filtered metric for the
// window algorithms, keeping only rows where both sides are finite.
func windowRows(
	t *dataset.Table,
	metricCol string,
	sentinels []float64,
	threshold *float64,
	method plot.OutlierMethod,
) ([]float64, []float64, error) {
	rawAngle, err := t.Column(PrimaryAngleColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("angle column '%s' not found", PrimaryAngleColumn)
	}
	rawValue, err := t.Column(metricCol)
	if err != nil {
		return nil, nil, fmt.Errorf("metric column '%s' not found", metricCol)
	}

	ang := clean.WrapAngle(clean.Sanitize(rawAngle, sentinels), true)
	val := clean.Sanitize(rawValue, sentinels)
	var phaseAngles []float64
	if method == plot.OutlierPhaseMAD {
		phaseAngles = ang
	}
	val = clean.Apply(val, threshold, method, phaseAngles, BinCount)

	outAng := make([]float64, 0, len(ang))
	outVal := make([]float64, 0, len(val))
	for i := range ang {
		if math.IsNaN(ang[i]) || math.IsNaN(val[i]) {
			continue
		}
		outAng = append(outAng, ang[i])
		outVal = append(outVal, val[i])
	}
	if len(outAng) == 0 {
		return nil, nil, fmt.Errorf("no valid values after filtering")
	}
	return outAng, outVal, nil
}

// PedalStrokeSeries segments the samples into pedal strokes and averages the
// metric per stroke. A stroke boundary is detected when the angle has jumped
// backwards by more than 180° (wraparound) and has then climbed back to at
// least the starting angle. X is the 1-based stroke number.
func PedalStrokeSeries(
	t *dataset.Table,
	metricCol string,
	sentinels []float64,
	threshold *float64,
	method plot.OutlierMethod,
) ([]float64, []float64, error) {
	ang, val, err := windowRows(t, metricCol, sentinels, threshold, method)
	if err != nil {
		return nil, nil, err
	}

	var strokeMeans []float64
	var strokeVals []float64
	startAngle := ang[0]
	prev := ang[0]
	wrapped := false
	for i := range ang {
		if prev-ang[i] > 180.0 {
			wrapped = true
		}
		strokeVals = append(strokeVals, val[i])
		if wrapped && ang[i] >= startAngle {
			strokeMeans = append(strokeMeans, mean(strokeVals))
			strokeVals = strokeVals[:0]
			wrapped = false
		}
		prev = ang[i]
	}
	if len(strokeMeans) == 0 {
		return nil, nil, fmt.Errorf("no valid pedal strokes after filtering")
	}

	x := make([]float64, len(strokeMeans))
	for i := range x {
		x[i] = float64(i + 1)
	}
	return x, strokeMeans, nil
}

// unwrap accumulates +360° at every backward jump larger than 180°, turning
// the wrapped angle sequence into a monotonic-ish unwrapped one. The 180°
// threshold is the established wraparound heuristic; downstream window
// boundaries depend on it exactly.
func unwrap(ang []float64) []float64 {
	out := make([]float64, len(ang))
	offset := 0.0
	prev := ang[0]
	out[0] = prev
	for i := 1; i < len(ang); i++ {
		if prev-ang[i] > 180.0 {
			offset += 360.0
		}
		out[i] = ang[i] + offset
		prev = ang[i]
	}
	return out
}

// Rolling360Series aggregates, for each starting sample, all samples within
// the trailing full revolution. Windows run [i..j] where j is the first index
// with unwrapped[j] >= unwrapped[i]+360; samples without a complete trailing
// window produce no output. X is the 0-based starting record index.
func Rolling360Series(
	t *dataset.Table,
	metricCol string,
	sentinels []float64,
	threshold *float64,
	method plot.OutlierMethod,
) ([]float64, []float64, error) {
	ang, val, err := windowRows(t, metricCol, sentinels, threshold, method)
	if err != nil {
		return nil, nil, err
	}
	out := rolling360(unwrap(ang), val, false)
	if len(out) == 0 {
		return nil, nil, fmt.Errorf("no complete 360deg windows after filtering")
	}
	x := make([]float64, len(out))
	for i := range x {
		x[i] = float64(i)
	}
	return x, out, nil
}

// Rolling360MedianSeries is the median-aggregated variant used for the bar
// whisker band and the bar-mode statistics. Non-finite window medians are
// dropped from the result.
func Rolling360MedianSeries(
	t *dataset.Table,
	metricCol string,
	sentinels []float64,
	threshold *float64,
	method plot.OutlierMethod,
) ([]float64, error) {
	if !t.HasColumn(metricCol) {
		return nil, fmt.Errorf("metric column '%s' not found", metricCol)
	}
	ang, val, err := windowRows(t, metricCol, sentinels, threshold, method)
	if err != nil {
		return nil, err
	}
	raw := rolling360(unwrap(ang), val, true)
	out := finite(raw)
	if len(out) == 0 {
		return nil, fmt.Errorf("no complete 360deg median windows after filtering")
	}
	return out, nil
}

func rolling360(unwrapped, values []float64, useMedian bool) []float64 {
	var out []float64
	n := len(values)
	for i := 0; i < n; i++ {
		target := unwrapped[i] + 360.0
		j := i + 1
		for j < n && unwrapped[j] < target {
			j++
		}
		if j >= n {
			break
		}
		window := values[i : j+1]
		if useMedian {
			m, err := montana.Median(finite(window))
			if err != nil {
				out = append(out, math.NaN())
			} else {
				out = append(out, m)
			}
		} else {
			out = append(out, mean(window))
		}
	}
	return out
}
