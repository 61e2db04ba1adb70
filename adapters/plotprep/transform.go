// Package plotprep assembles ready-to-render plot data for the four chart
// types. Everything here is pure orchestration over the clean and agg
// engines: parameter resolution against stored project defaults, value-mode
// scaling, baseline-relative deltas with circular interpolation, and the
// per-dataset error collection that keeps one bad dataset from blanking a
// whole chart.
package plotprep

import (
	"fmt"
	"math"
	"sort"

	"crankview/adapters/clean"
	"crankview/domain/plot"
)

// ToPercentOfMean rescales values to percent of their own (NaN-ignoring)
// mean. A zero or non-finite mean is a caller-correctable condition and is
// reported as an error rather than propagating NaN into the chart.
func ToPercentOfMean(values []float64) ([]float64, error) {
	mu := nanMean(values)
	if math.IsNaN(mu) || math.IsInf(mu, 0) || math.Abs(mu) < 1e-12 {
		return nil, fmt.Errorf("mean is zero/invalid; cannot compute %% of mean")
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = 100.0 * v / mu
	}
	return out, nil
}

// applyValueMode dispatches on the value mode.
func applyValueMode(values []float64, mode plot.ValueMode) ([]float64, error) {
	switch mode {
	case plot.ValueAbsolute:
		out := make([]float64, len(values))
		copy(out, values)
		return out, nil
	case plot.ValuePercentMean:
		return ToPercentOfMean(values)
	}
	return nil, fmt.Errorf("unknown value mode: %s", mode)
}

// CircularInterpBaseline linearly interpolates the baseline series at each
// query angle with circular wraparound: the baseline is duplicated at -360°
// and +360° so interpolation stays continuous across the 0°/360° seam. A
// single-point baseline yields a constant.
func CircularInterpBaseline(bAngles, bValues, qAngles []float64) []float64 {
	out := make([]float64, len(qAngles))
	if len(bAngles) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	if len(bAngles) < 2 {
		for i := range out {
			out[i] = bValues[0]
		}
		return out
	}

	idx := make([]int, len(bAngles))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return bAngles[idx[a]] < bAngles[idx[b]] })

	n := len(bAngles)
	xs := make([]float64, 0, 3*n)
	ys := make([]float64, 0, 3*n)
	for _, shift := range []float64{-360.0, 0.0, 360.0} {
		for _, i := range idx {
			xs = append(xs, bAngles[i]+shift)
			ys = append(ys, bValues[i])
		}
	}

	for i, q := range qAngles {
		out[i] = interpLinear(clean.Mod360(q), xs, ys)
	}
	return out
}

// interpLinear evaluates piecewise-linear interpolation over ascending xs,
// clamping outside the covered range.
func interpLinear(x float64, xs, ys []float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	i := sort.SearchFloat64s(xs, x)
	if i < len(xs) && xs[i] == x {
		return ys[i]
	}
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

func nanMean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// nanMeanStack averages a list of series element-wise, ignoring non-finite
// entries and ragged tails. The result has the length of the longest series.
func nanMeanStack(series [][]float64) []float64 {
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
			if i >= len(s) {
				continue
			}
			v := s[i]
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				sum += v
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

// isFinite reports whether v is a usable number.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
