package plotprep

import (
	"fmt"

	"crankview/adapters/agg"
	"crankview/domain/core"
	"crankview/domain/project"
)

// baselineGridPoints is the resolution of the reference grid multiple
// baseline curves are averaged on before comparison.
const baselineGridPoints = 361

// radarOffsetFactor scales the maximum absolute delta into the comparison
// ring radius so every delta trace stays on a non-negative polar axis.
const radarOffsetFactor = 1.10

// baselineGrid returns the 0..360 degree grid, one point per degree.
func baselineGrid() []float64 {
	grid := make([]float64, baselineGridPoints)
	for i := range grid {
		grid[i] = float64(i) * 360.0 / float64(baselineGridPoints-1)
	}
	return grid
}

// aggregateBaselineAngleValues aggregates each baseline dataset with the
// binned pipeline, interpolates every curve onto the degree grid, and
// averages them into the single reference curve deltas are taken against.
// In original-bins mode there is no interpolation: the first baseline's rows
// set the reference angles and every further baseline must match its row
// count so the stack averages positionally. Any baseline failure here is
// fatal for the whole comparison.
func aggregateBaselineAngleValues(
	state *project.State,
	baselineIDs []core.SourceID,
	r resolved,
) ([]float64, []float64, error) {
	if len(baselineIDs) == 0 {
		return nil, nil, fmt.Errorf("at least one baseline dataset is required for comparison")
	}

	if r.useBinned {
		refAng, refVal, err := angleValuesForPlot(state, baselineIDs[0], r, true)
		if err != nil {
			return nil, nil, fmt.Errorf("baseline %s: %w", state.DisplayName(baselineIDs[0]), err)
		}
		refVal2, err := applyValueMode(refVal, r.valueMode)
		if err != nil {
			return nil, nil, fmt.Errorf("baseline %s: %w", state.DisplayName(baselineIDs[0]), err)
		}
		stack := [][]float64{refVal2}
		for _, id := range baselineIDs[1:] {
			ang, val, err := angleValuesForPlot(state, id, r, true)
			if err != nil {
				return nil, nil, fmt.Errorf("baseline %s: %w", state.DisplayName(id), err)
			}
			if len(ang) != len(refAng) {
				return nil, nil, fmt.Errorf("original binned comparison requires matching row counts across baseline datasets")
			}
			val2, err := applyValueMode(val, r.valueMode)
			if err != nil {
				return nil, nil, fmt.Errorf("baseline %s: %w", state.DisplayName(id), err)
			}
			stack = append(stack, val2)
		}
		return refAng, nanMeanStack(stack), nil
	}

	grid := baselineGrid()
	curves := make([][]float64, 0, len(baselineIDs))
	for _, id := range baselineIDs {
		table := state.Loaded[id]
		bAng, bVal, err := agg.PrepareAngleValueAgg(table, r.angleCol, r.metricCol, r.sentinels, r.aggMode, r.threshold, r.method)
		if err != nil {
			return nil, nil, fmt.Errorf("baseline %s: %w", state.DisplayName(id), err)
		}
		bVal2, err := applyValueMode(bVal, r.valueMode)
		if err != nil {
			return nil, nil, fmt.Errorf("baseline %s: %w", state.DisplayName(id), err)
		}
		curves = append(curves, CircularInterpBaseline(bAng, bVal2, grid))
	}
	return grid, nanMeanStack(curves), nil
}

// aggregateTimeSeriesBaseline builds the reference sample-order series for
// time-series compare mode: each baseline dataset is reduced with the active
// aggregation (stroke, rolling window, or raw samples) and the resulting
// series are element-wise averaged.
func aggregateTimeSeriesBaseline(
	state *project.State,
	baselineIDs []core.SourceID,
	r resolved,
) ([]float64, error) {
	if len(baselineIDs) == 0 {
		return nil, fmt.Errorf("at least one baseline dataset is required for comparison")
	}
	series := make([][]float64, 0, len(baselineIDs))
	for _, id := range baselineIDs {
		vals, err := timeSeriesValues(state, id, r)
		if err != nil {
			return nil, fmt.Errorf("baseline %s: %w", state.DisplayName(id), err)
		}
		vals2, err := applyValueMode(vals, r.valueMode)
		if err != nil {
			return nil, fmt.Errorf("baseline %s: %w", state.DisplayName(id), err)
		}
		series = append(series, vals2)
	}
	return nanMeanStack(series), nil
}

// maxAbsFinite returns the largest finite |v|, or 0 when none exists.
func maxAbsFinite(values []float64) float64 {
	maxAbs := 0.0
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		a := v
		if a < 0 {
			a = -a
		}
		if a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

// radarOffset converts the maximum absolute delta into the ring radius,
// falling back to the degenerate-case radius when the maximum is unusable.
func radarOffset(maxAbs float64) float64 {
	if !(maxAbs > 0) || !isFinite(maxAbs) {
		maxAbs = 1.0
	}
	return radarOffsetFactor * maxAbs
}
