// Package agg implements the angle binning and aggregation engines: the
// fixed 52-bin circular aggregation used by radar/cartesian modes, the
// whole-column scalar aggregation used by bar mode, and the pedal-stroke /
// rolling-360° windowed aggregations used by the sample-order modes.
package agg

import (
	"fmt"
	"math"
	"sort"

	montana "github.com/montanaflynn/stats"

	"crankview/adapters/clean"
	"crankview/domain/dataset"
	"crankview/domain/plot"
)

// BinCount is the fixed number of circular angle bins covering a revolution.
const BinCount = 52

// BinWidth is the width of one circular bin in degrees (~6.923).
const BinWidth = 360.0 / float64(BinCount)

// trimFraction is the per-end fraction removed by the trimmed mean.
const trimFraction = 0.10

// SnapToBin quantizes an angle to its nearest bin center, modulo 360.
func SnapToBin(angle float64) float64 {
	return clean.Mod360(math.Round(angle/BinWidth) * BinWidth)
}

// PrepareAngleValueAgg runs the full binned-aggregation pipeline for one
// dataset/metric/angle-column combination: sanitize, BR-wrap, outlier-filter,
// drop incomplete rows, snap to the 52 fixed bins, aggregate per bin, sort.
// Bins with no samples are absent from the output. The returned bin angles
// are unique and strictly increasing in [0, 360).
func PrepareAngleValueAgg(
	t *dataset.Table,
	angleCol, metricCol string,
	sentinels []float64,
	aggMode plot.AggMode,
	threshold *float64,
	method plot.OutlierMethod,
) ([]float64, []float64, error) {
	rawAngle, err := t.Column(angleCol)
	if err != nil {
		return nil, nil, fmt.Errorf("angle column '%s' not found", angleCol)
	}
	rawValue, err := t.Column(metricCol)
	if err != nil {
		return nil, nil, fmt.Errorf("metric column '%s' not found", metricCol)
	}

	ang := clean.WrapAngle(clean.Sanitize(rawAngle, sentinels), clean.IsBRAngleColumn(angleCol))
	val := clean.Sanitize(rawValue, sentinels)
	var phaseAngles []float64
	if method == plot.OutlierPhaseMAD {
		phaseAngles = ang
	}
	val = clean.Apply(val, threshold, method, phaseAngles, BinCount)

	groups := make(map[float64][]float64)
	for i := range ang {
		if math.IsNaN(ang[i]) || math.IsNaN(val[i]) {
			continue
		}
		bin := SnapToBin(ang[i])
		groups[bin] = append(groups[bin], val[i])
	}
	if len(groups) == 0 {
		return nil, nil, fmt.Errorf("no valid rows after removing NaNs/sentinels")
	}

	bins := make([]float64, 0, len(groups))
	for bin := range groups {
		bins = append(bins, bin)
	}
	sort.Float64s(bins)

	values := make([]float64, len(bins))
	for i, bin := range bins {
		values[i] = aggregateValues(groups[bin], aggMode)
	}
	return bins, values, nil
}

// AggregateMetric reduces a whole metric column to a single scalar using the
// selected statistic, after sentinel masking and outlier filtering.
func AggregateMetric(
	t *dataset.Table,
	metricCol string,
	sentinels []float64,
	aggMode plot.AggMode,
	threshold *float64,
	method plot.OutlierMethod,
) (float64, error) {
	raw, err := t.Column(metricCol)
	if err != nil {
		return math.NaN(), fmt.Errorf("metric column '%s' not found", metricCol)
	}
	val := clean.Sanitize(raw, sentinels)
	val = clean.Apply(val, threshold, method, nil, BinCount)
	return aggregateValues(val, aggMode), nil
}

// aggregateValues applies the selected statistic over the finite values.
// Unknown window modes fall back to the mean; window detection happens
// upstream of this function.
func aggregateValues(values []float64, aggMode plot.AggMode) float64 {
	f := finite(values)
	if len(f) == 0 {
		return math.NaN()
	}
	switch aggMode {
	case plot.AggMedian:
		m, err := montana.Median(f)
		if err != nil {
			return math.NaN()
		}
		return m
	case plot.AggTrimmedMean10:
		return TrimmedMean(f, trimFraction)
	default:
		return mean(f)
	}
}

// TrimmedMean sorts the values and drops floor(n*fraction) from each end
// before averaging. If trimming would remove at least half the samples the
// plain mean is used instead.
func TrimmedMean(values []float64, fraction float64) float64 {
	f := finite(values)
	if len(f) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(f))
	copy(sorted, f)
	sort.Float64s(sorted)

	trim := int(math.Floor(float64(len(sorted)) * fraction))
	if trim*2 >= len(sorted) {
		return mean(sorted)
	}
	return mean(sorted[trim : len(sorted)-trim])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
