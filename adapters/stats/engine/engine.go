// Package engine computes the pairwise correlation statistics shown in the
// analysis report: global dataset-vs-dataset correlations, per-angle-bucket
// correlations for the binned chart modes, and baseline-delta trend tests for
// bar mode. Significance comes from either a Fisher z normal approximation or
// a seeded permutation test.
package engine

import (
	"math"

	"crankview/domain/core"
	"crankview/domain/plot"
	"crankview/domain/project"
	"crankview/domain/stats"
	"crankview/ports"
)

// DefaultShuffles is the permutation count used when none is configured.
const DefaultShuffles = 400

// DefaultSeed anchors permutation streams when none is configured.
const DefaultSeed = 42

// Engine runs the statistics computations. Deterministic: the same inputs,
// seed, and shuffle count always produce the same report.
type Engine struct {
	rng      ports.RNGPort
	shuffles int
	seed     int64
}

func New(rng ports.RNGPort, shuffles int, seed int64) *Engine {
	if shuffles <= 0 {
		shuffles = DefaultShuffles
	}
	return &Engine{rng: rng, shuffles: shuffles, seed: seed}
}

// Params is the fully-determined parameter set a statistics computation runs
// with, mirroring the resolution the plot preparers apply.
type Params struct {
	AngleColumn   string
	MetricColumn  string
	Sentinels     []float64
	AggMode       plot.AggMode
	ValueMode     plot.ValueMode
	Compare       bool
	BaselineIDs   []core.SourceID
	Threshold     *float64
	OutlierMethod plot.OutlierMethod
	Method        stats.PValueMethod
}

// ParamsFromState resolves the stored project settings into Params. The
// report always follows the current plot configuration.
func ParamsFromState(state *project.State) Params {
	p := Params{
		AngleColumn:   state.Plot.AngleColumn,
		MetricColumn:  state.Plot.MetricColumn,
		Sentinels:     append([]float64(nil), state.Cleaning.Sentinels...),
		AggMode:       state.Plot.AggMode,
		ValueMode:     state.Plot.ValueMode,
		Compare:       state.Plot.Compare,
		BaselineIDs:   state.EffectiveBaselineIDs(),
		OutlierMethod: state.Cleaning.OutlierMethod,
		Method:        state.Analysis.StatsMode,
	}
	if p.OutlierMethod == "" {
		p.OutlierMethod = plot.OutlierMAD
	}
	if state.Cleaning.RemoveOutliers && state.Cleaning.OutlierThreshold != nil {
		v := *state.Cleaning.OutlierThreshold
		p.Threshold = &v
	}
	if p.Method == "" {
		p.Method = stats.MethodFisher
	}
	return p
}

// alignFinite truncates both series to the common length and keeps only the
// indices where both sides are finite.
func alignFinite(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	outX := make([]float64, 0, n)
	outY := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if isFinite(x[i]) && isFinite(y[i]) {
			outX = append(outX, x[i])
			outY = append(outY, y[i])
		}
	}
	return outX, outY
}

// zeroSpread reports whether the series has no variation.
func zeroSpread(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
