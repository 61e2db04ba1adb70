package engine

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"crankview/domain/stats"
)

// significanceAlpha is the two-sided verdict cutoff.
const significanceAlpha = 0.05

// rClipLimit keeps atanh finite when a correlation lands on exactly ±1.
const rClipLimit = 0.999999

// PairStat computes the correlation statistic for one pair of value series.
// Both series are truncated to their common length and restricted to indices
// where both sides are finite before anything else happens.
func (e *Engine) PairStat(ctx context.Context, labelA, labelB string, x, y []float64, method stats.PValueMethod) stats.PairwiseStat {
	ax, ay := alignFinite(x, y)
	st := stats.PairwiseStat{
		DatasetA: labelA,
		DatasetB: labelB,
		N:        len(ax),
		CorrR:    math.NaN(),
		PValue:   math.NaN(),
	}
	if st.N < 3 {
		st.Summary = stats.SummaryInsufficientData
		return st
	}
	if zeroSpread(ax) || zeroSpread(ay) {
		st.Summary = stats.SummaryZeroSpread
		return st
	}

	r := stat.Correlation(ax, ay, nil)
	st.CorrR = r
	switch method {
	case stats.MethodPermutation:
		st.PValue = e.permutationPValue(ctx, ax, ay, r)
	default:
		st.PValue = fisherPValue(r, st.N)
	}

	if !isFinite(st.PValue) {
		st.Summary = stats.SummaryInsufficientData
	} else if st.PValue < significanceAlpha {
		st.Summary = stats.SummarySignificant
	} else {
		st.Summary = stats.SummaryNotSignificant
	}
	return st
}

// fisherPValue is the two-sided normal approximation p-value from the Fisher
// z-transform, z = atanh(r)·sqrt(n−3). Needs at least 4 samples.
func fisherPValue(r float64, n int) float64 {
	if n < 4 || !isFinite(r) {
		return math.NaN()
	}
	if r > rClipLimit {
		r = rClipLimit
	}
	if r < -rClipLimit {
		r = -rClipLimit
	}
	z := math.Atanh(r) * math.Sqrt(float64(n-3))
	return 2 * distuv.UnitNormal.Survival(math.Abs(z))
}
