package clean

import (
	"math"

	montana "github.com/montanaflynn/stats"

	"crankview/domain/plot"
)

// madScale converts a MAD into a consistent estimator of the standard
// deviation for normal data.
const madScale = 1.4826

// robustZScale is the reciprocal constant used in the robust z-score.
const robustZScale = 0.6745

// Apply runs the configured outlier filter over values. A nil threshold
// disables filtering. The phase-aware method needs the (already wrapped)
// angle series; without one it degrades to the global MAD filter. Output has
// the same length as the input with outliers replaced by NaN.
func Apply(values []float64, threshold *float64, method plot.OutlierMethod, angles []float64, binCount int) []float64 {
	if threshold == nil {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	switch method {
	case plot.OutlierPhaseMAD:
		if angles != nil {
			return FilterPhaseMAD(angles, values, *threshold, binCount)
		}
		return FilterMAD(values, *threshold)
	case plot.OutlierHampel:
		return FilterHampel(values, *threshold, 11)
	case plot.OutlierImpulse:
		return FilterImpulse(values, *threshold)
	default:
		return FilterMAD(values, *threshold)
	}
}

// FilterMAD masks values whose global robust z-score exceeds the threshold.
// A zero or non-finite MAD means the data is essentially constant and no
// filtering occurs.
func FilterMAD(values []float64, threshold float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)

	median := nanMedian(values)
	mad := nanMedianAbsDev(values, median)
	if !isFinite(mad) || mad == 0.0 {
		return out
	}
	for i, v := range out {
		if math.IsNaN(v) {
			continue
		}
		z := robustZScale * (v - median) / mad
		if math.Abs(z) > threshold {
			out[i] = math.NaN()
		}
	}
	return out
}

// FilterPhaseMAD applies the robust z-score per angle bin rather than
// globally, so phase-correlated variance such as the pedal-stroke shape does
// not inflate the spread estimate.
func FilterPhaseMAD(angles, values []float64, threshold float64, binCount int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if binCount <= 0 {
		return out
	}

	binW := 360.0 / float64(binCount)
	groups := make(map[float64][]int)
	for i, a := range angles {
		var key float64
		if math.IsNaN(a) {
			key = math.Inf(1) // NaN angles group together
		} else {
			key = Mod360(math.Round(a/binW) * binW)
		}
		groups[key] = append(groups[key], i)
	}

	for _, idxs := range groups {
		group := make([]float64, 0, len(idxs))
		for _, i := range idxs {
			group = append(group, values[i])
		}
		median := nanMedian(group)
		mad := nanMedianAbsDev(group, median)
		if !isFinite(mad) || mad == 0.0 {
			continue
		}
		for _, i := range idxs {
			v := values[i]
			if math.IsNaN(v) {
				continue
			}
			z := robustZScale * (v - median) / mad
			if math.Abs(z) > threshold {
				out[i] = math.NaN()
			}
		}
	}
	return out
}

// FilterHampel masks values deviating from a centered rolling median by more
// than threshold robust z-scores of the local spread. Window sizes below 3
// disable the filter; even windows are widened by one.
func FilterHampel(values []float64, threshold float64, window int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if window < 3 {
		return out
	}
	if window%2 == 0 {
		window++
	}
	half := window / 2
	n := len(values)

	rollMedian := make([]float64, n)
	for i := 0; i < n; i++ {
		lo, hi := i-half, i+half+1
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		rollMedian[i] = nanMedian(values[lo:hi])
	}

	diff := make([]float64, n)
	for i, v := range values {
		if math.IsNaN(v) || math.IsNaN(rollMedian[i]) {
			diff[i] = math.NaN()
		} else {
			diff[i] = math.Abs(v - rollMedian[i])
		}
	}

	for i := 0; i < n; i++ {
		lo, hi := i-half, i+half+1
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		rollMAD := nanMedian(diff[lo:hi])
		if !(rollMAD > 0) || math.IsNaN(diff[i]) {
			continue
		}
		z := robustZScale * diff[i] / rollMAD
		if isFinite(z) && z > threshold {
			out[i] = math.NaN()
		}
	}
	return out
}

// FilterImpulse masks single-sample spikes detected through the second
// difference of the series. Only the leading sample of a detected impulse is
// masked; the immediately following rebound is left alone.
func FilterImpulse(values []float64, threshold float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	n := len(values)
	if n < 3 {
		return out
	}

	accel := make([]float64, n)
	accel[0] = math.NaN()
	accel[1] = math.NaN()
	for i := 2; i < n; i++ {
		accel[i] = values[i] - 2.0*values[i-1] + values[i-2]
	}

	median := nanMedian(accel)
	mad := nanMedianAbsDev(accel, median)
	if !isFinite(mad) || mad == 0.0 {
		return out
	}
	scale := madScale * mad
	upper := median + threshold*scale
	lower := median - threshold*scale

	mask := make([]bool, n)
	for i, a := range accel {
		mask[i] = !math.IsNaN(a) && (a > upper || a < lower)
	}
	for i := 0; i < n; i++ {
		if mask[i] && (i == 0 || !mask[i-1]) {
			out[i] = math.NaN()
		}
	}
	return out
}

// finite filters out NaN and infinities.
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nanMedian(values []float64) float64 {
	f := finite(values)
	if len(f) == 0 {
		return math.NaN()
	}
	m, err := montana.Median(f)
	if err != nil {
		return math.NaN()
	}
	return m
}

func nanMedianAbsDev(values []float64, median float64) float64 {
	devs := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			devs = append(devs, math.Abs(v-median))
		}
	}
	if len(devs) == 0 {
		return math.NaN()
	}
	m, err := montana.Median(devs)
	if err != nil {
		return math.NaN()
	}
	return m
}
